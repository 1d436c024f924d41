package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

func TestReportGenerate(t *testing.T) {
	events := runner.NewEventCounter()
	events.OnEvent(game.Event{Kind: game.EventPiecePlaced})
	events.OnEvent(game.Event{Kind: game.EventPiecePlaced})
	events.OnEvent(game.Event{Kind: game.EventGameOver, Won: true})

	report := &Report{
		Mode:   "sprint",
		Player: "expert",
		Games:  2,
		Frame:  16 * time.Millisecond,
		Results: []runner.GameResult{
			{Score: game.Score{Points: 1200, Lines: 40, Level: 5, TetrisCount: 3}, Won: true, Pieces: 101, Elapsed: 95 * time.Second},
			{Score: game.Score{Points: 300, Lines: 6, Level: 1}, Pieces: 30, Elapsed: 20 * time.Second},
		},
		Events: events,
		Search: &ai.Stats{Decisions: 131, CacheHits: 3, CacheMisses: 1},
		UpdateTime: Stats{
			Samples: []time.Duration{time.Millisecond, 3 * time.Millisecond},
		},
	}
	report.UpdateTime.Finalize()

	var out strings.Builder
	require.NoError(t, report.Generate(&out))
	text := out.String()

	assert.Contains(t, text, "- **Seed:** random")
	assert.Contains(t, text, "Game 1: won after 101 pieces, 1m35s play time: 1200 points, 40 lines")
	assert.Contains(t, text, "Game 2: topped out after 30 pieces")
	assert.Contains(t, text, "- **Points:** 1500")
	assert.Contains(t, text, "- **Lines:** 46")
	assert.Contains(t, text, "- **Pieces Placed:** 2")
	assert.Contains(t, text, "- **Wins:** 1")
	assert.Contains(t, text, "(75.0%)")
	assert.Contains(t, text, "- **Avg:** 2ms")
	assert.NotContains(t, text, "T-Spin Planner")
}

func TestStatsFinalizeEmpty(t *testing.T) {
	var s Stats
	s.Finalize()
	assert.Zero(t, s.Avg)
}
