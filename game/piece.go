package game

import "fmt"

// PieceType identifies one of the seven tetrominoes.
type PieceType uint8

const (
	I PieceType = iota
	O
	T
	S
	Z
	J
	L
)

// PieceTypes lists every tetromino in bag order.
var PieceTypes = [...]PieceType{I, O, T, S, Z, J, L}

func (t PieceType) String() string {
	if int(t) < len(pieceNames) {
		return pieceNames[t]
	}
	return fmt.Sprintf("PieceType(%d)", uint8(t))
}

var pieceNames = [...]string{"I", "O", "T", "S", "Z", "J", "L"}

// Point is a board coordinate; y grows downwards.
type Point struct {
	X, Y int
}

// Shape is a square occupancy matrix of side Size (2, 3 or 4).
// It is a comparable value type.
type Shape struct {
	Size  int
	Cells [4][4]bool
}

func shapeOf(size int, rows ...string) Shape {
	s := Shape{Size: size}
	for y, row := range rows {
		for x, ch := range row {
			s.Cells[y][x] = ch == '#'
		}
	}
	return s
}

// spawnShapes are the spawn orientations of the standard rotation system.
var spawnShapes = [...]Shape{
	I: shapeOf(4, "....", "####", "....", "...."),
	O: shapeOf(2, "##", "##"),
	T: shapeOf(3, ".#.", "###", "..."),
	S: shapeOf(3, ".##", "##.", "..."),
	Z: shapeOf(3, "##.", ".##", "..."),
	J: shapeOf(3, "#..", "###", "..."),
	L: shapeOf(3, "..#", "###", "..."),
}

// SpawnShape returns the spawn orientation of t.
func SpawnShape(t PieceType) Shape { return spawnShapes[t] }

// Rotated returns the shape turned a quarter clockwise (or counter-clockwise).
func (s Shape) Rotated(clockwise bool) Shape {
	out := Shape{Size: s.Size}
	for i := 0; i < s.Size; i++ {
		for j := 0; j < s.Size; j++ {
			if clockwise {
				out.Cells[j][s.Size-1-i] = s.Cells[i][j]
			} else {
				out.Cells[s.Size-1-j][i] = s.Cells[i][j]
			}
		}
	}
	return out
}

// Piece is an immutable placement of a tetromino. Every move or rotation
// produces a new value.
type Piece struct {
	Type     PieceType
	Shape    Shape
	Rotation int // 0 = spawn, 1 = R, 2 = 180, 3 = L
	X, Y     int // top-left of the shape matrix
	IsTSpin  bool
}

// NewPiece places a fresh piece of type t at the spawn position of a board
// of the given width: column centered, row 0. The I piece's matrix starts one
// row higher so its bar lies on row 0.
func NewPiece(t PieceType, boardWidth int) Piece {
	shape := spawnShapes[t]
	p := Piece{
		Type:  t,
		Shape: shape,
		X:     (boardWidth - shape.Size) / 2,
		Y:     0,
	}
	if t == I {
		p.Y = -1
	}
	return p
}

// Cells enumerates the four occupied board coordinates.
func (p Piece) Cells() [4]Point {
	var pts [4]Point
	n := 0
	for y := 0; y < p.Shape.Size; y++ {
		for x := 0; x < p.Shape.Size; x++ {
			if p.Shape.Cells[y][x] {
				if n == len(pts) {
					panic(fmt.Sprintf("piece %v has more than four blocks", p.Type))
				}
				pts[n] = Point{X: p.X + x, Y: p.Y + y}
				n++
			}
		}
	}
	if n != len(pts) {
		panic(fmt.Sprintf("piece %v has %d blocks", p.Type, n))
	}
	return pts
}

// Translate returns the piece shifted by (dx, dy). A translated piece is no
// longer the product of a rotation, so the T-spin flag is cleared.
func (p Piece) Translate(dx, dy int) Piece {
	p.X += dx
	p.Y += dy
	if dx != 0 || dy != 0 {
		p.IsTSpin = false
	}
	return p
}

// rotateInPlace turns the shape without any kick.
func (p Piece) rotateInPlace(clockwise bool) Piece {
	p.Shape = p.Shape.Rotated(clockwise)
	if clockwise {
		p.Rotation = (p.Rotation + 1) % 4
	} else {
		p.Rotation = (p.Rotation + 3) % 4
	}
	p.IsTSpin = false
	return p
}

// Respawned returns a fresh spawn-state piece of the same type.
func (p Piece) Respawned(boardWidth int) Piece {
	return NewPiece(p.Type, boardWidth)
}

// Bottom returns the lowest occupied row.
func (p Piece) Bottom() int {
	bottom := p.Y
	for _, pt := range p.Cells() {
		bottom = max(bottom, pt.Y)
	}
	return bottom
}

func (p Piece) String() string {
	return fmt.Sprintf("%v@(%d,%d)r%d", p.Type, p.X, p.Y, p.Rotation)
}
