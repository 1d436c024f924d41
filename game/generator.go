package game

import "math/rand/v2"

// Generator supplies the sequence of upcoming piece types.
type Generator interface {
	Next() PieceType
}

// BagGenerator deals shuffled bags of all seven pieces.
type BagGenerator struct {
	rng *rand.Rand
	bag []PieceType
}

// NewBagGenerator creates a 7-bag generator drawing from rng.
func NewBagGenerator(rng *rand.Rand) *BagGenerator {
	return &BagGenerator{rng: rng}
}

func (g *BagGenerator) refill() {
	bag := PieceTypes
	g.rng.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	g.bag = bag[:]
}

// Next pops the next piece, refilling the bag when it runs dry.
func (g *BagGenerator) Next() PieceType {
	if len(g.bag) == 0 {
		g.refill()
	}
	t := g.bag[0]
	g.bag = g.bag[1:]
	return t
}

// SequenceGenerator repeats a fixed list of pieces.
type SequenceGenerator struct {
	types []PieceType
	pos   int
}

// NewSequenceGenerator cycles through types in order.
func NewSequenceGenerator(types ...PieceType) *SequenceGenerator {
	if len(types) == 0 {
		panic("sequence generator needs at least one piece")
	}
	return &SequenceGenerator{types: append([]PieceType(nil), types...)}
}

func (g *SequenceGenerator) Next() PieceType {
	t := g.types[g.pos]
	g.pos = (g.pos + 1) % len(g.types)
	return t
}
