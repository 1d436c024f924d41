// Package ai contains automated players: a generic placement search with
// per-difficulty heuristics and a planner that sets up and executes T-spins.
//
// Players are pure functions of a game.State snapshot plus their own small
// plan queues. They never touch the live engine; all simulation happens on
// board clones.
package ai

import (
	"errors"
	"fmt"
	"strings"

	"github.com/plus3/stacker/game"
)

// ErrUnknownPlayer is returned by NewPlayer for an unregistered kind.
var ErrUnknownPlayer = errors.New("unknown player kind")

// Player turns snapshots into primitive commands.
type Player interface {
	Decide(state *game.State) []game.Command
	Name() string
}

var (
	_ Player = (*Search)(nil)
	_ Player = (*TSpinPlanner)(nil)
)

// PlayerKinds lists the kinds accepted by NewPlayer.
var PlayerKinds = []string{"search", "tspin"}

// NewPlayer builds a player by kind name.
func NewPlayer(kind string, d Difficulty, opts ...Option) (Player, error) {
	switch strings.ToLower(kind) {
	case "", "search":
		return NewSearch(d, opts...), nil
	case "tspin":
		return NewTSpinPlanner(d, opts...), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownPlayer, kind)
}
