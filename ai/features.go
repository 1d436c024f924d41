package ai

import "github.com/plus3/stacker/game"

// Features are the board measurements every heuristic is built from.
type Features struct {
	Width, Height   int
	Lines           int // rows cleared by the placement being scored
	AggregateHeight int
	MaxHeight       int
	Holes           int // empty cells with a filled cell somewhere above
	CoveredDepth    int // filled cells stacked above holes
	Bumpiness       int
	RowTransitions  int
	ColTransitions  int
	WellDepth       int // summed depth of one-wide wells
	DeepestWell     int
	WellColumn      int // column of the deepest well, -1 if none
	AlmostFullRows  int // rows missing exactly one cell, at WellColumn or a T slot
	TSlots          int // one-wide slots flanked by taller columns on both sides
}

// Extract measures b. lines is the number of rows the scored placement cleared.
func Extract(b *game.Board, lines int) Features {
	w, h := b.Width(), b.Height()
	f := Features{Width: w, Height: h, Lines: lines, WellColumn: -1}
	heights := b.ColumnHeights()
	slot := make([]bool, w)

	for x := 0; x < w; x++ {
		f.AggregateHeight += heights[x]
		f.MaxHeight = max(f.MaxHeight, heights[x])
		if x > 0 {
			f.Bumpiness += abs(heights[x] - heights[x-1])
		}

		covered := 0
		for y := h - heights[x]; y < h; y++ {
			if b.Occupied(x, y) {
				covered++
				continue
			}
			f.Holes++
			f.CoveredDepth += covered
		}

		left, right := h, h
		if x > 0 {
			left = heights[x-1]
		}
		if x < w-1 {
			right = heights[x+1]
		}
		if depth := min(left, right) - heights[x]; depth > 0 {
			f.WellDepth += depth
			if depth > f.DeepestWell {
				f.DeepestWell = depth
				f.WellColumn = x
			}
			if x > 0 && x < w-1 && depth >= 2 {
				f.TSlots++
				slot[x] = true
			}
		}
	}

	for y := 0; y < h; y++ {
		filled, gap := 0, -1
		prev := true // walls count as filled
		for x := 0; x < w; x++ {
			occ := b.Occupied(x, y)
			if occ {
				filled++
			} else {
				gap = x
			}
			if occ != prev {
				f.RowTransitions++
			}
			prev = occ
		}
		if !prev {
			f.RowTransitions++
		}
		if filled == w-1 && (gap == f.WellColumn || slot[gap]) {
			f.AlmostFullRows++
		}
	}

	for x := 0; x < w; x++ {
		prev := false // open sky above the stack
		for y := 0; y < h; y++ {
			occ := b.Occupied(x, y)
			if occ != prev {
				f.ColTransitions++
			}
			prev = occ
		}
		if !prev {
			f.ColTransitions++
		}
	}
	return f
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
