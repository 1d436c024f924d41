package game_test

import (
	"fmt"

	"github.com/plus3/stacker/game"
)

func ExampleEngine() {
	e := game.NewEngine(game.WithGenerator(game.NewSequenceGenerator(game.I, game.O)))
	e.Initialize(game.Marathon())

	for e.MovePiece(game.Left) {
	}
	e.HardDrop()

	s := e.State()
	fmt.Println(s.ActivePiece.Type, s.Score.Points)
	fmt.Println(s.Board.ColumnHeights())
	// Output:
	// O 38
	// [1 1 1 1 0 0 0 0 0 0]
}

func ExampleCalculateScore() {
	fmt.Println(game.CalculateScore(4, 1, 0, false, false))
	fmt.Println(game.CalculateScore(2, 1, 0, true, true))
	// Output:
	// 800
	// 1800
}
