package game

import (
	"hash/fnv"
	"strings"
)

// Cell is a single board square. The zero value is empty; any other value is
// filled, and the value is a cosmetic tag (the locking piece's type + 1).
type Cell uint8

// Empty is the unfilled cell.
const Empty Cell = 0

// Filled reports whether the cell holds a locked block.
func (c Cell) Filled() bool { return c != Empty }

// FilledWith returns the tag a piece of type t leaves behind when it locks.
func FilledWith(t PieceType) Cell { return Cell(t) + 1 }

// Board is a fixed-size grid stored as a flat row-major buffer.
// Row 0 is the top of the playfield.
type Board struct {
	width  int
	height int
	cells  []Cell
}

// NewBoard creates an empty board. Dimensions never change afterwards.
func NewBoard(width, height int) *Board {
	if width <= 0 || height <= 0 {
		panic("board dimensions must be positive")
	}
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) index(x, y int) int { return y*b.width + x }

// Get returns the cell at (x, y). ok is false outside the board.
func (b *Board) Get(x, y int) (Cell, bool) {
	if !b.inBounds(x, y) {
		return Empty, false
	}
	return b.cells[b.index(x, y)], true
}

// Set writes a cell and reports whether (x, y) was on the board.
func (b *Board) Set(x, y int, c Cell) bool {
	if !b.inBounds(x, y) {
		return false
	}
	b.cells[b.index(x, y)] = c
	return true
}

// Occupied treats everything outside the board as solid.
func (b *Board) Occupied(x, y int) bool {
	if !b.inBounds(x, y) {
		return true
	}
	return b.cells[b.index(x, y)].Filled()
}

// CanPlace reports whether every block of the piece is on the board and over
// an empty cell.
func (b *Board) CanPlace(p Piece) bool {
	for _, pt := range p.Cells() {
		if b.Occupied(pt.X, pt.Y) {
			return false
		}
	}
	return true
}

// Place writes the piece's blocks into the grid. Blocks outside the board are
// dropped; callers only place pieces that passed CanPlace.
func (b *Board) Place(p Piece) {
	tag := FilledWith(p.Type)
	for _, pt := range p.Cells() {
		b.Set(pt.X, pt.Y, tag)
	}
}

func (b *Board) rowFull(y int) bool {
	row := b.cells[b.index(0, y) : b.index(0, y)+b.width]
	for _, c := range row {
		if !c.Filled() {
			return false
		}
	}
	return true
}

// FullRows lists the indices of complete rows, top to bottom.
func (b *Board) FullRows() []int {
	var rows []int
	for y := 0; y < b.height; y++ {
		if b.rowFull(y) {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearFullRows removes every complete row, shifts the remaining rows down
// and pads the top with empty rows. It returns the number of rows removed.
func (b *Board) ClearFullRows() int {
	next := make([]Cell, len(b.cells))
	dst := b.height - 1
	cleared := 0
	for y := b.height - 1; y >= 0; y-- {
		if b.rowFull(y) {
			cleared++
			continue
		}
		copy(next[b.index(0, dst):b.index(0, dst)+b.width], b.cells[b.index(0, y):b.index(0, y)+b.width])
		dst--
	}
	if cleared > 0 {
		b.cells = next
	}
	return cleared
}

// ClearTopRows empties the top n rows in place.
func (b *Board) ClearTopRows(n int) {
	n = min(n, b.height)
	for i := range b.cells[:n*b.width] {
		b.cells[i] = Empty
	}
}

// IsTopRowOccupied is the top-out predicate checked after each lock.
func (b *Board) IsTopRowOccupied() bool {
	for x := 0; x < b.width; x++ {
		if b.cells[x].Filled() {
			return true
		}
	}
	return false
}

// FilledCount returns the number of filled cells.
func (b *Board) FilledCount() int {
	count := 0
	for _, c := range b.cells {
		if c.Filled() {
			count++
		}
	}
	return count
}

// ColumnHeights returns, per column, the distance from the floor to the
// highest filled cell (0 for an empty column).
func (b *Board) ColumnHeights() []int {
	heights := make([]int, b.width)
	for x := 0; x < b.width; x++ {
		for y := 0; y < b.height; y++ {
			if b.cells[b.index(x, y)].Filled() {
				heights[x] = b.height - y
				break
			}
		}
	}
	return heights
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	cells := make([]Cell, len(b.cells))
	copy(cells, b.cells)
	return &Board{width: b.width, height: b.height, cells: cells}
}

// Hash fingerprints the filled/empty pattern; tags are ignored.
func (b *Board) Hash() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	bit := 0
	for _, c := range b.cells {
		if c.Filled() {
			buf[bit/8] |= 1 << (bit % 8)
		}
		bit++
		if bit == 64 {
			h.Write(buf[:])
			buf = [8]byte{}
			bit = 0
		}
	}
	if bit > 0 {
		h.Write(buf[:])
	}
	return h.Sum64()
}

func (b *Board) String() string {
	var sb strings.Builder
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.cells[b.index(x, y)].Filled() {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ParseBoard builds a board from rows of '#' (filled) and '.' (empty).
// All rows must have the same length.
func ParseBoard(rows ...string) *Board {
	if len(rows) == 0 {
		panic("ParseBoard: no rows")
	}
	b := NewBoard(len(rows[0]), len(rows))
	for y, row := range rows {
		if len(row) != b.width {
			panic("ParseBoard: ragged rows")
		}
		for x, ch := range row {
			if ch != '.' && ch != ' ' {
				b.Set(x, y, Cell(1))
			}
		}
	}
	return b
}
