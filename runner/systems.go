package runner

import (
	"time"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
)

// TickSystem advances the engine clock by the frame's delta time. The
// engine flushes the frame's command buffer at the end of the tick.
type TickSystem struct{}

func (TickSystem) Execute(frame *Frame) {
	frame.Engine.Tick(frame.DeltaTime)
}

// PlayerSystem asks a player for commands and queues them for the frame.
// Register it before TickSystem.
type PlayerSystem struct {
	Player ai.Player

	Issued int64
}

func (s *PlayerSystem) Execute(frame *Frame) {
	cmds := s.Player.Decide(frame.Engine.State())
	if len(cmds) == 0 {
		return
	}
	frame.Commands.Push(cmds...)
	s.Issued += int64(len(cmds))
}

// EventCounter tallies engine events. Subscribe it with Engine.Subscribe
// or game.WithObserver.
type EventCounter struct {
	Kinds    map[game.EventKind]int
	Lines    int
	Tetrises int
	TSpins   int // line-clearing spins, as in Score.TSpins
	Wins     int
}

// NewEventCounter creates an empty counter.
func NewEventCounter() *EventCounter {
	return &EventCounter{Kinds: make(map[game.EventKind]int)}
}

func (c *EventCounter) OnEvent(ev game.Event) {
	c.Kinds[ev.Kind]++
	switch ev.Kind {
	case game.EventLinesCleared:
		c.Lines += ev.Lines
		if ev.Lines == 4 {
			c.Tetrises++
		}
	case game.EventTSpin:
		if ev.Lines > 0 {
			c.TSpins++
		}
	case game.EventGameOver:
		if ev.Won {
			c.Wins++
		}
	}
}

// Count returns how many events of kind were seen.
func (c *EventCounter) Count(kind game.EventKind) int {
	return c.Kinds[kind]
}

// GameResult is the final record of one finished game.
type GameResult struct {
	Score   game.Score
	Won     bool
	Pieces  int
	Elapsed time.Duration
}

// AutoRestart records finished games and restarts the engine until Max
// games have been played. Max <= 0 restarts forever.
type AutoRestart struct {
	Max     int
	Results []GameResult
}

// Done reports whether Max games have finished.
func (a *AutoRestart) Done() bool {
	return a.Max > 0 && len(a.Results) >= a.Max
}

func (a *AutoRestart) Execute(frame *Frame) {
	state := frame.Engine.State()
	if !state.GameOver || a.Done() {
		return
	}
	a.Results = append(a.Results, GameResult{
		Score:   state.Score,
		Won:     state.Won,
		Pieces:  state.PieceID,
		Elapsed: state.Elapsed,
	})
	if !a.Done() {
		frame.Engine.Restart()
	}
}
