package game

import "fmt"

// Direction is a translation command.
type Direction int

const (
	Left Direction = iota
	Right
	Down
)

func (d Direction) delta() (int, int) {
	switch d {
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	case Down:
		return 0, 1
	}
	panic(fmt.Sprintf("unknown direction %d", d))
}

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Down:
		return "down"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// kickTable holds five (dx, dy) offsets per transition, y-down, keyed by
// [from][clockwise?0:1]. The first offset is the unkicked rotation.
type kickTable [4][2][5]Point

// Standard rotation-system wall kicks. The published tables use y-up; the
// values below are already flipped for a y-down board.
var jlstzKicks = kickTable{
	0: {
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // 0->R
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},    // 0->L
	},
	1: {
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}}, // R->2
		{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}}, // R->0
	},
	2: {
		{{0, 0}, {1, 0}, {1, -1}, {0, 2}, {1, 2}},    // 2->L
		{{0, 0}, {-1, 0}, {-1, -1}, {0, 2}, {-1, 2}}, // 2->R
	},
	3: {
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // L->0
		{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}, // L->2
	},
}

var iKicks = kickTable{
	0: {
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}}, // 0->R
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}}, // 0->L
	},
	1: {
		{{0, 0}, {-1, 0}, {2, 0}, {-1, -2}, {2, 1}}, // R->2
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}}, // R->0
	},
	2: {
		{{0, 0}, {2, 0}, {-1, 0}, {2, -1}, {-1, 2}}, // 2->L
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}}, // 2->R
	},
	3: {
		{{0, 0}, {1, 0}, {-2, 0}, {1, 2}, {-2, -1}}, // L->0
		{{0, 0}, {-2, 0}, {1, 0}, {-2, 1}, {1, -2}}, // L->2
	},
}

// KickOffsets returns the ordered offsets tried when rotating a piece of type
// t out of rotation state from. O pieces only try the unkicked rotation.
func KickOffsets(t PieceType, from int, clockwise bool) []Point {
	if from < 0 || from > 3 {
		panic(fmt.Sprintf("rotation state %d out of range", from))
	}
	dir := 0
	if !clockwise {
		dir = 1
	}
	switch t {
	case O:
		return []Point{{0, 0}}
	case I:
		return iKicks[from][dir][:]
	default:
		return jlstzKicks[from][dir][:]
	}
}

// Move translates the piece by one step in dir. On rejection the original
// piece is returned unchanged with ok == false.
func Move(p Piece, b *Board, dir Direction) (Piece, bool) {
	dx, dy := dir.delta()
	candidate := p.Translate(dx, dy)
	if !b.CanPlace(candidate) {
		return p, false
	}
	return candidate, true
}

// Rotate turns the piece a quarter, trying each wall-kick offset in order.
// A successful T rotation is tagged as a T-spin when at least three of the
// four corners around its center are blocked.
func Rotate(p Piece, b *Board, clockwise bool) (Piece, bool) {
	turned := p.rotateInPlace(clockwise)
	for _, off := range KickOffsets(p.Type, p.Rotation, clockwise) {
		candidate := turned
		candidate.X += off.X
		candidate.Y += off.Y
		if !b.CanPlace(candidate) {
			continue
		}
		assertOnBoard(candidate, b)
		if candidate.Type == T {
			candidate.IsTSpin = TSpinCorners(candidate, b) >= 3
		}
		return candidate, true
	}
	return p, false
}

// HardDrop moves the piece down until it is blocked and returns the landing
// piece with the number of rows travelled.
func HardDrop(p Piece, b *Board) (Piece, int) {
	distance := 0
	for {
		next, ok := Move(p, b, Down)
		if !ok {
			return p, distance
		}
		p = next
		distance++
	}
}

// Grounded reports whether the piece cannot fall any further.
func Grounded(p Piece, b *Board) bool {
	_, ok := Move(p, b, Down)
	return !ok
}

// TSpinCorners counts the blocked cells among the four diagonal corners of
// a T piece's 3x3 box. Out-of-bounds corners count as blocked.
func TSpinCorners(p Piece, b *Board) int {
	count := 0
	for _, c := range [4]Point{{0, 0}, {2, 0}, {0, 2}, {2, 2}} {
		if b.Occupied(p.X+c.X, p.Y+c.Y) {
			count++
		}
	}
	return count
}

func assertOnBoard(p Piece, b *Board) {
	for _, pt := range p.Cells() {
		if _, ok := b.Get(pt.X, pt.Y); !ok {
			panic(fmt.Sprintf("piece %v left the board after a kick", p))
		}
	}
}
