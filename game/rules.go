package game

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownMode is returned by ModeByName for an unregistered name.
var ErrUnknownMode = errors.New("unknown game mode")

// Rules is the game-mode record consumed by Initialize.
type Rules struct {
	Name          string
	GoalLines     int           // end the run when this many lines are cleared; 0 = none
	TimeLimit     time.Duration // end the run after this much play time; 0 = none
	AllowGameOver bool          // false: topping out clears rows instead of ending
	StartLevel    int
	FixedLevel    int // non-zero pins the level
}

// Marathon is the default endless-until-top-out mode.
func Marathon() Rules {
	return Rules{Name: "marathon", AllowGameOver: true, StartLevel: 1}
}

// Sprint ends the run after goal lines.
func Sprint(goal int) Rules {
	return Rules{Name: "sprint", GoalLines: goal, AllowGameOver: true, StartLevel: 1}
}

// Ultra ends the run after the time limit.
func Ultra(limit time.Duration) Rules {
	return Rules{Name: "ultra", TimeLimit: limit, AllowGameOver: true, StartLevel: 1}
}

// Endless never tops out.
func Endless() Rules {
	return Rules{Name: "endless", AllowGameOver: false, StartLevel: 1}
}

// Master runs at the fastest gravity from the first piece.
func Master() Rules {
	return Rules{Name: "master", AllowGameOver: true, FixedLevel: MaxLevel}
}

var modes = map[string]func() Rules{
	"marathon": Marathon,
	"sprint":   func() Rules { return Sprint(40) },
	"ultra":    func() Rules { return Ultra(120 * time.Second) },
	"endless":  Endless,
	"master":   Master,
}

// ModeByName returns a preset by name (case-insensitive).
func ModeByName(name string) (Rules, error) {
	ctor, ok := modes[strings.ToLower(name)]
	if !ok {
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return ctor(), nil
}

// ModeNames lists the registered presets, sorted.
func ModeNames() []string {
	names := make([]string, 0, len(modes))
	for name := range modes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
