package ai

import (
	"slices"

	"github.com/hashicorp/golang-lru/simplelru"
	"github.com/kamstrup/intmap"

	"github.com/plus3/stacker/game"
)

// DefaultCacheSize bounds the evaluation cache of a player.
const DefaultCacheSize = 4096

type evalKey struct {
	hash  uint64
	lines int
}

// evalCache memoizes heuristic scores by resulting board. The same stack
// recurs across decisions, lookahead and hold comparisons.
type evalCache struct {
	lru          *simplelru.LRU
	hits, misses int
}

func newEvalCache(size int) *evalCache {
	lru, err := simplelru.NewLRU(max(1, size), nil)
	if err != nil {
		panic(err)
	}
	return &evalCache{lru: lru}
}

// Lookup returns the cached score for (b, lines), computing it with h on a miss.
func (c *evalCache) Lookup(h Heuristic, b *game.Board, lines int) float64 {
	key := evalKey{hash: b.Hash(), lines: lines}
	if v, ok := c.lru.Get(key); ok {
		c.hits++
		return v.(float64)
	}
	c.misses++
	v := Evaluate(h, b, lines)
	c.lru.Add(key, v)
	return v
}

func (c *evalCache) Purge() {
	c.lru.Purge()
}

// placementSet dedupes landings that cover the same cells through different
// rotation or column paths.
type placementSet struct {
	seen  *intmap.Set[uint64]
	width int
}

func newPlacementSet(width int) *placementSet {
	return &placementSet{seen: intmap.NewSet[uint64](64), width: width}
}

// Visit records p and reports whether its cells were new.
func (s *placementSet) Visit(p game.Piece) bool {
	k := s.key(p)
	if s.seen.Has(k) {
		return false
	}
	s.seen.Add(k)
	return true
}

func (s *placementSet) Reset() {
	s.seen.Clear()
}

func (s *placementSet) key(p game.Piece) uint64 {
	cells := p.Cells()
	idx := make([]int, 0, len(cells))
	for _, pt := range cells {
		idx = append(idx, pt.Y*s.width+pt.X)
	}
	slices.Sort(idx)
	var k uint64
	for _, i := range idx {
		k = k<<16 | uint64(uint16(i))
	}
	return k
}
