package main

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
)

func newTestModel(t *testing.T, opts ...Option) (Model, *game.Engine) {
	t.Helper()
	e := game.NewEngine(game.WithGenerator(game.NewSequenceGenerator(game.O, game.I)))
	return NewModel(e, game.Marathon(), 16*time.Millisecond, opts...), e
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model
}

func TestKeysAreAppliedOnTheNextTick(t *testing.T) {
	m, e := newTestModel(t)
	startX := e.State().ActivePiece.X

	m = step(t, m, key("h"))
	assert.Equal(t, startX, e.State().ActivePiece.X)
	assert.Equal(t, 1, e.Commands().Len())

	base := time.Unix(0, 0)
	m = step(t, m, tickMsg{at: base})
	assert.Equal(t, startX-1, e.State().ActivePiece.X)

	m = step(t, m, key(" "))
	step(t, m, tickMsg{at: base.Add(16 * time.Millisecond)})
	s := e.State()
	assert.Equal(t, 2, s.PieceID)
	assert.Equal(t, game.I, s.ActivePiece.Type)
}

func TestTickUsesElapsedTime(t *testing.T) {
	m, e := newTestModel(t)
	base := time.Unix(100, 0)
	m = step(t, m, tickMsg{at: base})
	step(t, m, tickMsg{at: base.Add(time.Second)})

	assert.Equal(t, time.Second+16*time.Millisecond, e.State().Elapsed)
	assert.Equal(t, 1, e.State().ActivePiece.Y)
}

func TestPauseAndRestart(t *testing.T) {
	m, e := newTestModel(t)
	m = step(t, m, key("p"))
	assert.True(t, e.State().IsPaused)
	assert.Contains(t, m.View(), "PAUSED")

	m = step(t, m, key("p"))
	assert.False(t, e.State().IsPaused)

	m = step(t, m, key(" "))
	m = step(t, m, tickMsg{at: time.Unix(0, 0)})
	require.Equal(t, 2, e.State().PieceID)
	step(t, m, key("r"))
	assert.Equal(t, 1, e.State().PieceID)
	assert.Zero(t, e.State().Score.Points)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestAIPlayerIgnoresKeys(t *testing.T) {
	m, e := newTestModel(t, WithPlayer(ai.NewSearch(ai.Expert, ai.WithSeed(1))))
	m = step(t, m, key("h"))
	assert.Zero(t, e.Commands().Len())

	step(t, m, tickMsg{at: time.Unix(0, 0)})
	assert.Equal(t, 2, e.State().PieceID)
	assert.Contains(t, m.View(), "AI expert")
}

func TestViewShowsScoreAndQueue(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "MARATHON")
	assert.Contains(t, view, "Score  0")
	assert.Contains(t, view, "Next")
	assert.Contains(t, view, "Hold")
}
