package runner_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

// ExampleScheduler drives gravity with fixed frames. At level 1 the piece
// falls one row per second of game time.
func ExampleScheduler() {
	engine := game.NewEngine(game.WithGenerator(game.NewSequenceGenerator(game.O)))
	engine.Initialize(game.Marathon())

	scheduler := runner.NewScheduler(engine)
	scheduler.Register(runner.TickSystem{})

	for i := 0; i < 60; i++ {
		scheduler.Once(100 * time.Millisecond)
	}

	state := engine.State()
	fmt.Printf("Piece %v at row %d after %v\n", state.ActivePiece.Type, state.ActivePiece.Y, state.Elapsed)
	// Output:
	// Piece O at row 6 after 6s
}

// ExampleScheduler_Run runs an AI player in real time until the context
// expires.
func ExampleScheduler_Run() {
	engine := game.NewEngine(game.WithSeed(1))
	engine.Initialize(game.Marathon())

	scheduler := runner.NewScheduler(engine)
	scheduler.Register(&runner.PlayerSystem{Player: ai.NewSearch(ai.Hard)})
	scheduler.Register(runner.TickSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx, 16*time.Millisecond)

	fmt.Println("Scheduler stopped")
	// Output:
	// Scheduler stopped
}
