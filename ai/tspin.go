package ai

import "github.com/plus3/stacker/game"

const (
	readyMaxHoles  = 2
	readyMaxHeight = 12
	maxSpinTurns   = 3
)

// spinLineWeights favor triples over doubles over singles over spins that
// clear nothing.
var spinLineWeights = [...]float64{2, 8, 20, 35}

// Phase is the planner's position in executing a T-spin. The concrete
// phases are Idle, Moving, Dropping, Rotating and Locking.
type Phase interface {
	phase()
}

// Idle waits for a T piece to plan for.
type Idle struct{}

// Moving turns the T into its setup orientation and walks it to TargetCol.
type Moving struct{ TargetCol int }

// Dropping soft-drops until StopRow or until the piece rests.
type Dropping struct{ StopRow int }

// Rotating has Remaining spin turns left.
type Rotating struct{ Remaining int }

// Locking hard-drops the spun piece.
type Locking struct{}

func (Idle) phase()     {}
func (Moving) phase()   {}
func (Dropping) phase() {}
func (Rotating) phase() {}
func (Locking) phase()  {}

// SpinPlan is a T-spin maneuver: turn to Orientation at the top, walk to
// StartCol, drop to StopRow, then turn Turns times to land Landed.
type SpinPlan struct {
	Orientation int
	StartCol    int
	StopRow     int
	Clockwise   bool
	Turns       int
	Landed      game.Piece
	Lines       int
	Score       float64
}

// Ready reports whether a stack is clean and low enough to build T-spins on.
func Ready(b *game.Board) bool {
	f := Extract(b, 0)
	return f.Holes <= readyMaxHoles && f.MaxHeight <= readyMaxHeight
}

// FindBestTSpinSetup searches every orientation, reachable column and
// stopping row near the landing row of t for a turn sequence that the
// rotation system accepts and that still counts as a T-spin after the
// final drop. Candidates are scored with h plus a bonus per line cleared.
func FindBestTSpinSetup(b *game.Board, t game.Piece, h Heuristic) (SpinPlan, bool) {
	if t.Type != game.T {
		return SpinPlan{}, false
	}
	seen := newPlacementSet(b.Width())
	var best SpinPlan
	found := false

	for _, turns := range rotationPaths {
		oriented, _, ok := turnFrom(b, t, turns)
		if !ok {
			continue
		}
		for _, q := range walkRow(b, oriented) {
			landing, _ := game.HardDrop(q, b)
			for stop := max(q.Y, landing.Y-2); stop <= landing.Y; stop++ {
				pre := q.Translate(0, stop-q.Y)
				for _, cw := range []bool{true, false} {
					r := pre
					for n := 1; n <= maxSpinTurns; n++ {
						var turned bool
						if r, turned = game.Rotate(r, b, cw); !turned {
							break
						}
						final, _ := game.HardDrop(r, b)
						if !final.IsTSpin || !seen.Visit(final) {
							continue
						}
						after := b.Clone()
						after.Place(final)
						lines := after.ClearFullRows()
						score := Evaluate(h, after, lines) + spinLineWeights[min(lines, 3)]
						if after.IsTopRowOccupied() {
							score -= toppedOutPenalty
						}
						if !found || score > best.Score {
							best = SpinPlan{
								Orientation: q.Rotation,
								StartCol:    q.X,
								StopRow:     stop,
								Clockwise:   cw,
								Turns:       n,
								Landed:      final,
								Lines:       lines,
								Score:       score,
							}
							found = true
						}
					}
				}
			}
		}
	}
	return best, found
}

// walkRow lists p and every position reachable by sideways steps.
func walkRow(b *game.Board, p game.Piece) []game.Piece {
	out := []game.Piece{p}
	for _, dir := range []game.Direction{game.Left, game.Right} {
		for q := p; ; {
			var ok bool
			if q, ok = game.Move(q, b, dir); !ok {
				break
			}
			out = append(out, q)
		}
	}
	return out
}

// PlannerStats counts what a TSpinPlanner has done.
type PlannerStats struct {
	Setups    int // plans started
	Spins     int // plans carried through to the hard drop
	Abandoned int
	Held      int // T pieces parked in hold, or recalled from it
}

// TSpinPlanner plays T pieces through explicit spin maneuvers over several
// decisions and hands every other piece to a Search scored with
// TSpinSetup, so the stack keeps its slots open.
type TSpinPlanner struct {
	fallback  *Search
	heuristic Heuristic

	phase   Phase
	plan    SpinPlan
	pieceID int
	gaveUp  bool
	stats   PlannerStats

	turning bool // a spin turn was emitted and not yet seen applied
	turnTo  int
}

// NewTSpinPlanner creates a planner whose fallback search uses d's timing.
func NewTSpinPlanner(d Difficulty, opts ...Option) *TSpinPlanner {
	opts = append([]Option{WithHeuristic(TSpinSetup{}), WithoutHold()}, opts...)
	return &TSpinPlanner{
		fallback:  NewSearch(d, opts...),
		heuristic: TSpinSetup{},
		phase:     Idle{},
	}
}

func (p *TSpinPlanner) Name() string { return "tspin-" + p.fallback.Name() }

// Phase returns the current execution phase.
func (p *TSpinPlanner) Phase() Phase { return p.phase }

// Plan returns the maneuver being executed, if any.
func (p *TSpinPlanner) Plan() (SpinPlan, bool) {
	_, idle := p.phase.(Idle)
	return p.plan, !idle
}

func (p *TSpinPlanner) Stats() PlannerStats { return p.stats }

// Fallback returns the search used for ordinary pieces.
func (p *TSpinPlanner) Fallback() *Search { return p.fallback }

// Decide returns at most one command while a maneuver is running.
func (p *TSpinPlanner) Decide(state *game.State) []game.Command {
	if state == nil || state.ActivePiece == nil || !state.IsPlaying || state.IsPaused || state.GameOver {
		p.phase = Idle{}
		p.turning = false
		return nil
	}
	if state.PieceID != p.pieceID {
		p.pieceID = state.PieceID
		p.phase = Idle{}
		p.gaveUp = false
		p.turning = false
	}

	active := *state.ActivePiece
	if active.Type != game.T {
		if state.CanHold && state.HeldPiece != nil && state.HeldPiece.Type == game.T && Ready(state.Board) {
			p.stats.Held++
			return []game.Command{game.CmdHold}
		}
		return p.fallback.Decide(state)
	}
	if p.gaveUp {
		return p.fallback.Decide(state)
	}

	if _, idle := p.phase.(Idle); idle {
		if !Ready(state.Board) {
			if state.CanHold && (state.HeldPiece == nil || state.HeldPiece.Type != game.T) {
				p.stats.Held++
				return []game.Command{game.CmdHold}
			}
			return p.fallback.Decide(state)
		}
		plan, ok := FindBestTSpinSetup(state.Board, active, p.heuristic)
		if !ok {
			p.gaveUp = true
			return p.fallback.Decide(state)
		}
		p.plan = plan
		p.phase = Moving{TargetCol: plan.StartCol}
		p.stats.Setups++
	}
	return p.advance(state)
}

func (p *TSpinPlanner) advance(state *game.State) []game.Command {
	active, b := *state.ActivePiece, state.Board
	for {
		switch ph := p.phase.(type) {
		case Moving:
			if active.Rotation != p.plan.Orientation {
				turn := game.CmdRotate
				if (p.plan.Orientation-active.Rotation+4)%4 == 3 {
					turn = game.CmdRotateCCW
				}
				if _, ok := simulate(active, b, turn); ok {
					return []game.Command{turn}
				}
				if _, ok := simulate(active, b, game.CmdDown); ok {
					return []game.Command{game.CmdDown}
				}
				return p.abandon(state)
			}
			if active.X != ph.TargetCol {
				move := game.CmdRight
				if active.X > ph.TargetCol {
					move = game.CmdLeft
				}
				if _, ok := simulate(active, b, move); !ok {
					return p.abandon(state)
				}
				return []game.Command{move}
			}
			p.phase = Dropping{StopRow: p.plan.StopRow}

		case Dropping:
			if active.Y < ph.StopRow {
				if _, ok := simulate(active, b, game.CmdDown); ok {
					return []game.Command{game.CmdDown}
				}
			}
			if !spinLands(b, active, p.plan, p.plan.Turns) {
				return p.abandon(state)
			}
			p.phase = Rotating{Remaining: p.plan.Turns}
			p.turning = false

		case Rotating:
			// A turn only counts once a snapshot shows it applied.
			if p.turning && active.Rotation == p.turnTo {
				p.turning = false
				ph.Remaining--
				p.phase = ph
			}
			if ph.Remaining == 0 {
				p.phase = Locking{}
				continue
			}
			turn := game.CmdRotateCCW
			if p.plan.Clockwise {
				turn = game.CmdRotate
			}
			turned, ok := simulate(active, b, turn)
			if !ok || !spinLands(b, active, p.plan, ph.Remaining) {
				return p.abandon(state)
			}
			p.turning, p.turnTo = true, turned.Rotation
			return []game.Command{turn}

		case Locking:
			if landed, _ := game.HardDrop(active, b); !sameSpot(landed, p.plan.Landed) {
				return p.abandon(state)
			}
			p.phase = Idle{}
			p.turning = false
			p.stats.Spins++
			return []game.Command{game.CmdHardDrop}

		default:
			return nil
		}
	}
}

// spinLands reports whether turns more planned turns from p still drop
// into the planned T-spin landing.
func spinLands(b *game.Board, p game.Piece, plan SpinPlan, turns int) bool {
	for i := 0; i < turns; i++ {
		var ok bool
		if p, ok = game.Rotate(p, b, plan.Clockwise); !ok {
			return false
		}
	}
	final, _ := game.HardDrop(p, b)
	return final.IsTSpin && sameSpot(final, plan.Landed)
}

func sameSpot(a, b game.Piece) bool {
	return a.Type == b.Type && a.X == b.X && a.Y == b.Y && a.Rotation == b.Rotation
}

func (p *TSpinPlanner) abandon(state *game.State) []game.Command {
	p.stats.Abandoned++
	p.phase = Idle{}
	p.turning = false
	p.gaveUp = true
	return p.fallback.Decide(state)
}
