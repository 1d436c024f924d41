package ai

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownDifficulty is returned by DifficultyByName for an unregistered name.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// Difficulty selects a skill tier.
type Difficulty int

const (
	Easy Difficulty = iota
	Normal
	Hard
	Expert
)

var difficultyNames = [...]string{"easy", "normal", "hard", "expert"}

func (d Difficulty) String() string {
	if d >= 0 && int(d) < len(difficultyNames) {
		return difficultyNames[d]
	}
	return fmt.Sprintf("Difficulty(%d)", int(d))
}

// DifficultyByName parses a tier name (case-insensitive).
func DifficultyByName(name string) (Difficulty, error) {
	for i, n := range difficultyNames {
		if strings.EqualFold(n, name) {
			return Difficulty(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDifficulty, name)
}

// Tier is the tuning a difficulty resolves to.
type Tier struct {
	Heuristic Heuristic
	Noise     float64       // amplitude of the random term added to each candidate
	ThinkTime time.Duration // minimum gap between emitted commands
	Lookahead bool          // blend in the best placement of the next piece
	Immediate bool          // emit the whole plan at once
}

// Tier returns the tuning for d. Unknown values fall back to Normal.
func (d Difficulty) Tier() Tier {
	switch d {
	case Easy:
		return Tier{Heuristic: Default{}, Noise: 3, ThinkTime: 600 * time.Millisecond}
	case Hard:
		return Tier{Heuristic: Survival{}, ThinkTime: 120 * time.Millisecond}
	case Expert:
		return Tier{Heuristic: TetrisWell{}, Lookahead: true, Immediate: true}
	default:
		return Tier{Heuristic: Combo{}, Noise: 0.5, ThinkTime: 300 * time.Millisecond}
	}
}
