package game

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		lines, level, combo int
		tSpin, b2b          bool
		want                int
	}{
		{0, 1, 0, false, false, 0},
		{1, 1, 0, false, false, 100},
		{2, 1, 0, false, false, 300},
		{3, 1, 0, false, false, 500},
		{4, 1, 0, false, false, 800},
		{1, 1, 0, true, false, 800},
		{2, 1, 0, true, false, 1200},
		{3, 1, 0, true, false, 1600},
		{4, 2, 0, false, true, 2400},
		{1, 3, 2, false, false, 400},
		{2, 1, 1, true, true, 1850},
	}

	for _, tt := range tests {
		name := fmt.Sprintf("lines=%d,level=%d,combo=%d,tspin=%v,b2b=%v", tt.lines, tt.level, tt.combo, tt.tSpin, tt.b2b)
		t.Run(name, func(t *testing.T) {
			got := CalculateScore(tt.lines, tt.level, tt.combo, tt.tSpin, tt.b2b)
			assert.Equal(t, tt.want, got)
			// Pure: a second call agrees.
			assert.Equal(t, got, CalculateScore(tt.lines, tt.level, tt.combo, tt.tSpin, tt.b2b))
		})
	}
}

func TestDropIntervalTable(t *testing.T) {
	assert.Equal(t, 1000*time.Millisecond, DropInterval(1))
	assert.Equal(t, 50*time.Millisecond, DropInterval(15))
	assert.Equal(t, DropInterval(1), DropInterval(0))
	assert.Equal(t, DropInterval(15), DropInterval(40))

	for level := 2; level <= MaxLevel; level++ {
		assert.Less(t, DropInterval(level), DropInterval(level-1))
	}
}

func TestLevelProgression(t *testing.T) {
	rules := Marathon()
	assert.Equal(t, 1, levelFor(0, rules))
	assert.Equal(t, 2, levelFor(10, rules))
	assert.Equal(t, 15, levelFor(500, rules))

	rules.StartLevel = 5
	assert.Equal(t, 6, levelFor(12, rules))

	assert.Equal(t, 15, levelFor(0, Master()))
}

func TestApplyLockTracksComboAndBackToBack(t *testing.T) {
	rules := Marathon()
	s := newScore(rules)

	res := s.applyLock(4, false, rules)
	assert.Equal(t, 850, res.awarded)
	assert.False(t, res.backToBack)
	assert.True(t, s.BackToBack)
	assert.Equal(t, 1, s.TetrisCount)

	res = s.applyLock(2, true, rules)
	assert.True(t, res.backToBack)
	assert.Equal(t, 1200*3/2+2*50, res.awarded)
	assert.True(t, s.BackToBack)
	assert.Equal(t, 1, s.TSpins)

	res = s.applyLock(1, false, rules)
	assert.True(t, res.backToBack)
	assert.False(t, s.BackToBack)
	assert.Equal(t, 3, s.Combo)

	s.applyLock(0, false, rules)
	assert.Zero(t, s.Combo)
	assert.Equal(t, 7, s.Lines)
}
