package ai

import (
	"cmp"
	"math"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/plus3/stacker/game"
)

const (
	// HoldMargin is how much better the held option must score before the
	// search swaps pieces.
	HoldMargin = 1.5

	// holdCooldownPieces counts the spawn caused by the hold itself.
	holdCooldownPieces = 2

	lookaheadCandidates = 5
	lookaheadWeight     = 0.45

	toppedOutPenalty = 1000.0
	maxLeadingDrops  = 2
)

// rotationPaths are the in-place turns tried before walking sideways.
var rotationPaths = [][]game.Command{
	nil,
	{game.CmdRotate},
	{game.CmdRotate, game.CmdRotate},
	{game.CmdRotateCCW},
}

// Placement is one reachable landing of a piece.
type Placement struct {
	Landed game.Piece
	Path   []game.Command // ends with CmdHardDrop
	Lines  int
	Score  float64

	after *game.Board
}

// Stats counts what a Search has done.
type Stats struct {
	Decisions   int
	Replans     int
	Fallbacks   int
	Holds       int
	CacheHits   int
	CacheMisses int
}

type step struct {
	cmd  game.Command
	from game.Piece
}

// Option configures a Search.
type Option func(*Search)

// WithClock replaces time.Now for the thinking-time rate limit.
func WithClock(now func() time.Time) Option {
	return func(s *Search) { s.now = now }
}

// WithSeed makes the noise term reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Search) { s.rng = rand.New(rand.NewPCG(seed, seed^0x5851f42d4c957f2d)) }
}

// WithCacheSize bounds the evaluation cache.
func WithCacheSize(n int) Option {
	return func(s *Search) { s.cache = newEvalCache(n) }
}

// WithHeuristic overrides the tier's heuristic.
func WithHeuristic(h Heuristic) Option {
	return func(s *Search) { s.tier.Heuristic = h }
}

// WithoutHold stops the search from ever swapping pieces.
func WithoutHold() Option {
	return func(s *Search) { s.noHold = true }
}

// Search is the generic placement player: it enumerates every reachable
// landing of the active piece, scores the resulting boards and executes
// the best one as primitive commands.
type Search struct {
	difficulty Difficulty
	tier       Tier
	now        func() time.Time
	rng        *rand.Rand
	cache      *evalCache
	seen       *placementSet
	noHold     bool

	plan         []step
	pieceID      int
	spent        bool
	lastFrom     game.Piece
	lastEmit     time.Time
	holdCooldown int
	stats        Stats
}

// NewSearch creates a search player for d.
func NewSearch(d Difficulty, opts ...Option) *Search {
	s := &Search{
		difficulty: d,
		tier:       d.Tier(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if s.cache == nil {
		s.cache = newEvalCache(DefaultCacheSize)
	}
	return s
}

func (s *Search) Name() string { return s.difficulty.String() }

// Difficulty returns the tier this search was built for.
func (s *Search) Difficulty() Difficulty { return s.difficulty }

// Stats returns counters accumulated since construction.
func (s *Search) Stats() Stats {
	st := s.stats
	st.CacheHits = s.cache.hits
	st.CacheMisses = s.cache.misses
	return st
}

// Decide returns the next commands for the snapshot. Rate-limited tiers
// return at most one command and nothing while thinking; the top tier
// returns its whole plan at once.
func (s *Search) Decide(state *game.State) []game.Command {
	if state == nil || state.ActivePiece == nil || !state.IsPlaying || state.IsPaused || state.GameOver {
		s.plan = nil
		return nil
	}
	if state.PieceID != s.pieceID {
		s.pieceID = state.PieceID
		s.plan = nil
		s.spent = false
		if s.holdCooldown > 0 {
			s.holdCooldown--
		}
	}

	now := s.now()
	if !s.tier.Immediate && !s.lastEmit.IsZero() && now.Sub(s.lastEmit) < s.tier.ThinkTime {
		return nil
	}

	if s.tier.Immediate {
		if s.spent && s.lastFrom == *state.ActivePiece {
			return nil
		}
		s.plan = s.planFor(state)
		s.spent = true
		s.lastFrom = *state.ActivePiece
		s.lastEmit = now
		cmds := make([]game.Command, len(s.plan))
		for i, st := range s.plan {
			cmds[i] = st.cmd
		}
		s.plan = nil
		return cmds
	}

	if !s.validPlan(state) {
		if len(s.plan) > 0 {
			s.stats.Replans++
		}
		s.plan = s.planFor(state)
	}
	if len(s.plan) == 0 {
		return nil
	}
	cmd := s.plan[0].cmd
	s.plan = s.plan[1:]
	s.lastEmit = now
	return []game.Command{cmd}
}

// validPlan reports whether the head of the plan still applies to the
// snapshot's active piece.
func (s *Search) validPlan(state *game.State) bool {
	if len(s.plan) == 0 {
		return false
	}
	head := s.plan[0]
	if head.from != *state.ActivePiece {
		return false
	}
	if head.cmd == game.CmdHold {
		return state.CanHold
	}
	_, ok := simulate(head.from, state.Board, head.cmd)
	return ok
}

func (s *Search) planFor(state *game.State) (plan []step) {
	active := *state.ActivePiece
	defer func() {
		if r := recover(); r != nil {
			s.stats.Fallbacks++
			plan = []step{{cmd: game.CmdHardDrop, from: active}}
		}
	}()
	s.stats.Decisions++

	b := state.Board
	best, ok := s.Best(b, active, peek(state.NextPieces, 0))

	if s.canHold(state) {
		if alt, altNext, found := holdCandidate(state); found && alt.Type != active.Type {
			altBest, altOK := s.Best(b, alt, altNext)
			if altOK && (!ok || altBest.Score > best.Score+HoldMargin) {
				s.holdCooldown = holdCooldownPieces
				s.stats.Holds++
				return []step{{cmd: game.CmdHold, from: active}}
			}
		}
	}

	if !ok {
		s.stats.Fallbacks++
		return []step{{cmd: game.CmdHardDrop, from: active}}
	}
	return buildSteps(active, b, best.Path)
}

func (s *Search) canHold(state *game.State) bool {
	return !s.noHold && state.CanHold && s.holdCooldown == 0
}

// holdCandidate is the piece a hold would bring in, and the piece that
// would follow it.
func holdCandidate(state *game.State) (alt game.Piece, next *game.Piece, ok bool) {
	if state.HeldPiece != nil {
		return state.HeldPiece.Respawned(state.Board.Width()), peek(state.NextPieces, 0), true
	}
	if len(state.NextPieces) == 0 {
		return game.Piece{}, nil, false
	}
	return state.NextPieces[0], peek(state.NextPieces, 1), true
}

func peek(pieces []game.Piece, i int) *game.Piece {
	if i < len(pieces) {
		return &pieces[i]
	}
	return nil
}

// Best returns the highest scoring placement of p on b. next, if known,
// is used for lookahead on tiers that enable it.
func (s *Search) Best(b *game.Board, p game.Piece, next *game.Piece) (Placement, bool) {
	cands := s.Placements(b, p)
	if len(cands) == 0 {
		return Placement{}, false
	}
	if s.tier.Noise > 0 {
		for i := range cands {
			cands[i].Score += (s.rng.Float64()*2 - 1) * s.tier.Noise
		}
	}
	byScore := func(a, b Placement) int { return cmp.Compare(b.Score, a.Score) }
	slices.SortStableFunc(cands, byScore)

	if s.tier.Lookahead && next != nil {
		top := cands[:min(lookaheadCandidates, len(cands))]
		for i := range top {
			follow := -toppedOutPenalty
			if nb, ok := s.bestScore(top[i].after, *next); ok {
				follow = nb
			}
			top[i].Score = (1-lookaheadWeight)*top[i].Score + lookaheadWeight*follow
		}
		slices.SortStableFunc(top, byScore)
	}
	return cands[0], true
}

func (s *Search) bestScore(b *game.Board, p game.Piece) (float64, bool) {
	best, found := math.Inf(-1), false
	for _, c := range s.Placements(b, p) {
		if c.Score > best {
			best, found = c.Score, true
		}
	}
	return best, found
}

// Placements lists every distinct landing of p on b reachable by turning
// in place (after at most two soft drops), walking sideways and hard
// dropping. Each path is legal step by step under the engine's strategies.
func (s *Search) Placements(b *game.Board, p game.Piece) []Placement {
	if s.seen == nil || s.seen.width != b.Width() {
		s.seen = newPlacementSet(b.Width())
	} else {
		s.seen.Reset()
	}

	var out []Placement
	for _, turns := range rotationPaths {
		if p.Type == game.O && len(turns) > 0 {
			continue
		}
		q, path, ok := turnFrom(b, p, turns)
		if !ok {
			continue
		}
		out = s.visit(out, b, q, path)
		for _, dir := range []game.Command{game.CmdLeft, game.CmdRight} {
			r, walked := q, slices.Clone(path)
			for {
				var moved bool
				if r, moved = simulate(r, b, dir); !moved {
					break
				}
				walked = append(walked, dir)
				out = s.visit(out, b, r, walked)
			}
		}
	}
	return out
}

// turnFrom applies turns to p, soft dropping first if the turn cannot be
// made at the current row.
func turnFrom(b *game.Board, p game.Piece, turns []game.Command) (game.Piece, []game.Command, bool) {
	start := p
	var lead []game.Command
	for drops := 0; drops <= maxLeadingDrops; drops++ {
		q, ok := start, true
		for _, cmd := range turns {
			if q, ok = simulate(q, b, cmd); !ok {
				break
			}
		}
		if ok {
			path := append(slices.Clone(lead), turns...)
			return q, path, true
		}
		var dropped bool
		if start, dropped = simulate(start, b, game.CmdDown); !dropped {
			break
		}
		lead = append(lead, game.CmdDown)
	}
	return p, nil, false
}

func (s *Search) visit(out []Placement, b *game.Board, p game.Piece, path []game.Command) []Placement {
	landed, _ := game.HardDrop(p, b)
	if !s.seen.Visit(landed) {
		return out
	}
	after := b.Clone()
	after.Place(landed)
	lines := after.ClearFullRows()
	score := s.cache.Lookup(s.tier.Heuristic, after, lines)
	if after.IsTopRowOccupied() {
		score -= toppedOutPenalty
	}
	return append(out, Placement{
		Landed: landed,
		Path:   append(slices.Clone(path), game.CmdHardDrop),
		Lines:  lines,
		Score:  score,
		after:  after,
	})
}

// simulate applies one primitive command with the engine's strategies.
func simulate(p game.Piece, b *game.Board, cmd game.Command) (game.Piece, bool) {
	switch cmd {
	case game.CmdLeft:
		return game.Move(p, b, game.Left)
	case game.CmdRight:
		return game.Move(p, b, game.Right)
	case game.CmdDown:
		return game.Move(p, b, game.Down)
	case game.CmdRotate:
		return game.Rotate(p, b, true)
	case game.CmdRotateCCW:
		return game.Rotate(p, b, false)
	case game.CmdHardDrop:
		landed, _ := game.HardDrop(p, b)
		return landed, true
	}
	return p, false
}

func buildSteps(start game.Piece, b *game.Board, cmds []game.Command) []step {
	steps := make([]step, 0, len(cmds))
	p := start
	for _, cmd := range cmds {
		steps = append(steps, step{cmd: cmd, from: p})
		p, _ = simulate(p, b, cmd)
	}
	return steps
}
