package ai

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/stacker/game"
)

// tSlotBoard has a T-spin double slot at columns 3-5 of rows 18-19,
// covered by an overhang at (5,17).
func tSlotBoard() *game.Board {
	rows := make([]string, 0, 20)
	for y := 0; y < 17; y++ {
		rows = append(rows, "..........")
	}
	rows = append(rows,
		"..#..#####",
		"###...####",
		"####.#####",
	)
	return game.ParseBoard(rows...)
}

func TestFindBestTSpinSetupFindsDouble(t *testing.T) {
	b := tSlotBoard()
	plan, ok := FindBestTSpinSetup(b, game.NewPiece(game.T, 10), TSpinSetup{})
	require.True(t, ok)

	assert.Equal(t, 2, plan.Lines)
	assert.True(t, plan.Landed.IsTSpin)
	assert.Equal(t, 2, plan.Landed.Rotation)
	assert.Equal(t, game.Point{X: 3, Y: 17}, game.Point{X: plan.Landed.X, Y: plan.Landed.Y})
	assert.GreaterOrEqual(t, plan.Turns, 1)
	assert.LessOrEqual(t, plan.Turns, 3)
}

func TestFindBestTSpinSetupOnlyPlansT(t *testing.T) {
	_, ok := FindBestTSpinSetup(tSlotBoard(), game.NewPiece(game.O, 10), TSpinSetup{})
	assert.False(t, ok)
}

func TestReady(t *testing.T) {
	assert.True(t, Ready(game.NewBoard(10, 20)))
	assert.True(t, Ready(tSlotBoard()))

	holey := game.NewBoard(10, 20)
	for x := 0; x < 3; x++ {
		holey.Set(x, 18, game.Cell(1))
	}
	assert.False(t, Ready(holey))

	tall := game.NewBoard(10, 20)
	for y := 7; y < 20; y++ {
		tall.Set(0, y, game.Cell(1))
	}
	assert.False(t, Ready(tall))
}

func TestTSpinPlannerExecutesDouble(t *testing.T) {
	e := game.NewEngine(game.WithBoard(tSlotBoard()), game.WithGenerator(game.NewSequenceGenerator(game.T, game.O)))
	e.Initialize(game.Marathon())
	p := NewTSpinPlanner(Expert, WithSeed(1))

	var phases []Phase
	for i := 0; i < 60 && e.State().PieceID == 1; i++ {
		cmds := p.Decide(e.State())
		require.Len(t, cmds, 1)
		phases = append(phases, p.Phase())
		applyAll(t, e, cmds)
	}

	s := e.State()
	assert.Equal(t, 2, s.Score.Lines)
	assert.Equal(t, 1, s.Score.TSpins)
	assert.Equal(t, PlannerStats{Setups: 1, Spins: 1}, p.Stats())
	assert.Equal(t, Idle{}, p.Phase())

	seen := map[string]bool{}
	for _, ph := range phases {
		switch ph.(type) {
		case Moving:
			seen["moving"] = true
		case Dropping:
			seen["dropping"] = true
		case Rotating:
			seen["rotating"] = true
		case Idle:
			seen["idle"] = true
		}
	}
	assert.True(t, seen["rotating"])
	assert.True(t, seen["idle"])
}

func TestTSpinPlannerHoldsTOnMessyBoard(t *testing.T) {
	messy := game.NewBoard(10, 20)
	for x := 0; x < 9; x++ {
		messy.Set(x, 16, game.Cell(1))
	}
	e := game.NewEngine(game.WithBoard(messy), game.WithGenerator(game.NewSequenceGenerator(game.T, game.O)))
	e.Initialize(game.Marathon())
	p := NewTSpinPlanner(Hard, WithSeed(1))

	assert.Equal(t, []game.Command{game.CmdHold}, p.Decide(e.State()))
	assert.Equal(t, 1, p.Stats().Held)
	_, planning := p.Plan()
	assert.False(t, planning)
}

func TestTSpinPlannerDelegatesOtherPieces(t *testing.T) {
	e := game.NewEngine(game.WithGenerator(game.NewSequenceGenerator(game.O)))
	e.Initialize(game.Marathon())
	p := NewTSpinPlanner(Expert, WithSeed(1))

	cmds := p.Decide(e.State())
	require.NotEmpty(t, cmds)
	applyAll(t, e, cmds)
	assert.Equal(t, 2, e.State().PieceID)
	assert.Equal(t, 1, p.Fallback().Stats().Decisions)
	assert.Zero(t, p.Stats().Setups)
}

func TestTSpinPlannerWaitsForTurnToApply(t *testing.T) {
	e := game.NewEngine(game.WithBoard(tSlotBoard()), game.WithGenerator(game.NewSequenceGenerator(game.T, game.O)))
	e.Initialize(game.Marathon())
	p := NewTSpinPlanner(Expert, WithSeed(1))

	var cmds []game.Command
	for i := 0; i < 60; i++ {
		cmds = p.Decide(e.State())
		require.Len(t, cmds, 1)
		if _, ok := p.Phase().(Rotating); ok {
			break
		}
		applyAll(t, e, cmds)
	}
	rotating, ok := p.Phase().(Rotating)
	require.True(t, ok)
	before := e.State().ActivePiece.Rotation

	// The engine has not applied the turn, so it is issued again.
	assert.Equal(t, cmds, p.Decide(e.State()))
	assert.Equal(t, rotating, p.Phase())

	applyAll(t, e, cmds)
	require.NotEqual(t, before, e.State().ActivePiece.Rotation)
	next := p.Decide(e.State())
	require.Len(t, next, 1)
	if rotating.Remaining == 1 {
		assert.Equal(t, []game.Command{game.CmdHardDrop}, next)
		assert.Equal(t, Idle{}, p.Phase())
	} else {
		assert.Equal(t, Rotating{Remaining: rotating.Remaining - 1}, p.Phase())
	}
}

func TestTSpinPlannerAbandonsWhenTheLandingMoves(t *testing.T) {
	e := game.NewEngine(game.WithBoard(tSlotBoard()), game.WithGenerator(game.NewSequenceGenerator(game.T, game.O)))
	e.Initialize(game.Marathon())
	p := NewTSpinPlanner(Expert, WithSeed(1))

	for i := 0; i < 60; i++ {
		cmds := p.Decide(e.State())
		require.Len(t, cmds, 1)
		if _, ok := p.Phase().(Rotating); ok {
			break
		}
		applyAll(t, e, cmds)
	}
	_, ok := p.Phase().(Rotating)
	require.True(t, ok)

	// Without the overhang the landing has only two filled corners.
	state := e.State()
	state.Board.Set(5, 17, game.Empty)
	cmds := p.Decide(state)
	require.NotEmpty(t, cmds)
	assert.Equal(t, 1, p.Stats().Abandoned)
	assert.Zero(t, p.Stats().Spins)
	assert.Equal(t, Idle{}, p.Phase())
}

// playSpinGame drives p frame by frame: decide, apply, then tick. Every
// command must be accepted and every spin must land where its plan said.
func playSpinGame(t *testing.T, e *game.Engine, p *TSpinPlanner, pieces int) {
	t.Helper()
	var placed []game.Piece
	e.Subscribe(game.ObserverFunc(func(ev game.Event) {
		if ev.Kind == game.EventPiecePlaced {
			placed = append(placed, ev.Piece)
		}
	}))

	for frame := 0; frame < 40000 && e.State().PieceID < pieces; frame++ {
		state := e.State()
		if state.GameOver {
			break
		}
		plan, planning := p.Plan()
		spins := p.Stats().Spins
		applyAll(t, e, p.Decide(state))
		if p.Stats().Spins > spins {
			require.True(t, planning)
			require.NotEmpty(t, placed)
			got := placed[len(placed)-1]
			assert.True(t, got.IsTSpin, "piece %d", state.PieceID)
			assert.Equal(t, plan.Landed.Cells(), got.Cells(), "piece %d", state.PieceID)
		}
		e.Tick(16 * time.Millisecond)
	}
}

func TestTSpinPlannerLongGameIsSound(t *testing.T) {
	for _, seed := range []uint64{1, 7, 21} {
		t.Run(fmt.Sprintf("seed %d", seed), func(t *testing.T) {
			e := game.NewEngine(game.WithSeed(seed))
			e.Initialize(game.Marathon())
			p := NewTSpinPlanner(Expert, WithSeed(seed))

			playSpinGame(t, e, p, 120)

			stats := p.Stats()
			assert.GreaterOrEqual(t, e.State().PieceID, 30)
			assert.LessOrEqual(t, stats.Spins+stats.Abandoned, stats.Setups)
			assert.LessOrEqual(t, 2*stats.Abandoned, stats.Setups)
		})
	}
}

func TestTSpinPlannerOnSlotBoardScoresTheSpin(t *testing.T) {
	e := game.NewEngine(game.WithBoard(tSlotBoard()), game.WithGenerator(game.NewSequenceGenerator(game.T, game.O, game.I)))
	e.Initialize(game.Marathon())
	p := NewTSpinPlanner(Expert, WithSeed(1))

	playSpinGame(t, e, p, 2)

	assert.Equal(t, 1, p.Stats().Spins)
	assert.Zero(t, p.Stats().Abandoned)
	assert.GreaterOrEqual(t, e.State().Score.TSpins, 1)
}
