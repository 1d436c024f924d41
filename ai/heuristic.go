package ai

import "github.com/plus3/stacker/game"

// Heuristic scores a board after a simulated placement. Higher is better.
type Heuristic interface {
	Name() string
	Score(f Features) float64
}

// Evaluate measures b and scores it with h.
func Evaluate(h Heuristic, b *game.Board, lines int) float64 {
	return h.Score(Extract(b, lines))
}

// Default is a balanced four-term evaluation.
type Default struct{}

func (Default) Name() string { return "default" }

func (Default) Score(f Features) float64 {
	return 0.76*float64(f.Lines) -
		0.51*float64(f.AggregateHeight) -
		0.36*float64(f.Holes) -
		0.18*float64(f.Bumpiness)
}

// Survival keeps the stack low and clean, paying heavily once the stack
// passes half the board.
type Survival struct{}

func (Survival) Name() string { return "survival" }

func (Survival) Score(f Features) float64 {
	s := 1.0*float64(f.Lines) -
		0.6*float64(f.AggregateHeight) -
		1.5*float64(f.Holes) -
		0.4*float64(f.CoveredDepth) -
		0.3*float64(f.Bumpiness) -
		0.15*float64(f.RowTransitions) -
		0.15*float64(f.ColTransitions)
	if over := f.MaxHeight - f.Height/2; over > 0 {
		s -= 0.8 * float64(over*over)
	}
	return s
}

// Combo rewards clearing on as many consecutive pieces as possible.
type Combo struct{}

func (Combo) Name() string { return "combo" }

func (Combo) Score(f Features) float64 {
	s := -0.45*float64(f.AggregateHeight) -
		0.9*float64(f.Holes) -
		0.2*float64(f.Bumpiness) -
		0.1*float64(f.WellDepth)
	if f.Lines > 0 {
		s += 3 + float64(f.Lines)
	}
	return s
}

// TetrisWell builds a clean stack beside an edge well and saves clears
// for four rows at once.
type TetrisWell struct{}

var tetrisLineWeights = [...]float64{0, -1.5, -0.5, 1, 12}

func (TetrisWell) Name() string { return "tetris-well" }

func (TetrisWell) Score(f Features) float64 {
	danger := f.MaxHeight > f.Height*3/5
	s := -0.45*float64(f.AggregateHeight) -
		2.0*float64(f.Holes) -
		0.5*float64(f.CoveredDepth) -
		0.25*float64(f.Bumpiness) -
		0.1*float64(f.RowTransitions)
	if danger {
		s += 2 * float64(f.Lines)
	} else {
		s += tetrisLineWeights[min(f.Lines, 4)]
	}
	if f.WellColumn == f.Width-1 || f.WellColumn == 0 {
		s += 0.6 * float64(min(f.DeepestWell, 4))
	}
	return s
}

// TSpinSetup is Default plus credit for T slots and rows waiting on a
// single cell.
type TSpinSetup struct{}

func (TSpinSetup) Name() string { return "tspin-setup" }

func (TSpinSetup) Score(f Features) float64 {
	return Default{}.Score(f) +
		1.2*float64(min(f.TSlots, 2)) +
		0.4*float64(min(f.AlmostFullRows, 4)) -
		0.8*float64(f.Holes)
}
