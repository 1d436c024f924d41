package game

import "time"

// MaxLevel is the highest level reachable by clearing lines.
const MaxLevel = 15

var (
	lineClearPoints = [...]int{0, 100, 300, 500, 800}
	tSpinPoints     = [...]int{0, 800, 1200, 1600, 2000}
)

// dropIntervals is indexed by level-1.
var dropIntervals = [MaxLevel]time.Duration{
	1000 * time.Millisecond,
	900 * time.Millisecond,
	800 * time.Millisecond,
	700 * time.Millisecond,
	600 * time.Millisecond,
	500 * time.Millisecond,
	400 * time.Millisecond,
	320 * time.Millisecond,
	250 * time.Millisecond,
	200 * time.Millisecond,
	160 * time.Millisecond,
	120 * time.Millisecond,
	90 * time.Millisecond,
	70 * time.Millisecond,
	50 * time.Millisecond,
}

// DropInterval returns the gravity cadence for a level, clamped to 1..MaxLevel.
func DropInterval(level int) time.Duration {
	level = max(1, min(MaxLevel, level))
	return dropIntervals[level-1]
}

// Score holds the running totals of a game.
type Score struct {
	Points      int
	Level       int
	Lines       int
	Combo       int
	TSpins      int
	BackToBack  bool
	TetrisCount int
}

func newScore(rules Rules) Score {
	s := Score{}
	s.Level = levelFor(0, rules)
	return s
}

func levelFor(lines int, rules Rules) int {
	if rules.FixedLevel > 0 {
		return min(MaxLevel, rules.FixedLevel)
	}
	start := max(1, rules.StartLevel)
	return min(MaxLevel, lines/10+start)
}

// CalculateScore is the points awarded for one lock. combo is the combo count
// after this clear has been counted; backToBack reports whether the previous
// clear was a Tetris or a T-spin.
func CalculateScore(lines, level, combo int, isTSpin, backToBack bool) int {
	if lines <= 0 {
		return 0
	}
	lines = min(lines, 4)
	base := float64(lineClearPoints[lines])
	if isTSpin {
		base = float64(tSpinPoints[lines])
	}
	if backToBack {
		base *= 1.5
	}
	return int(base)*level + combo*50
}

// qualifiesForBackToBack reports whether a clear arms the back-to-back bonus
// for the next clear.
func qualifiesForBackToBack(lines int, isTSpin bool) bool {
	return lines == 4 || (isTSpin && lines > 0)
}

// lockResult describes the scoring consequences of one lock.
type lockResult struct {
	lines      int
	tSpin      bool
	backToBack bool
	awarded    int
}

// applyLock updates the score for a lock that cleared lines rows.
func (s *Score) applyLock(lines int, isTSpin bool, rules Rules) lockResult {
	res := lockResult{lines: lines, tSpin: isTSpin}
	if lines == 0 {
		s.Combo = 0
		return res
	}
	s.Lines += lines
	s.Combo++
	res.backToBack = s.BackToBack
	res.awarded = CalculateScore(lines, s.Level, s.Combo, isTSpin, s.BackToBack)
	s.Points += res.awarded
	s.BackToBack = qualifiesForBackToBack(lines, isTSpin)
	if isTSpin {
		s.TSpins++
	}
	if lines == 4 {
		s.TetrisCount++
	}
	s.Level = levelFor(s.Lines, rules)
	return res
}
