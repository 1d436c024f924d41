package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

type Report struct {
	// Configuration
	Mode   string
	Player string
	Games  int
	Seed   uint64
	Frame  time.Duration

	// Results
	Frames         int64
	TotalTime      time.Duration
	Results        []runner.GameResult
	Events         *runner.EventCounter
	Scheduler      *runner.SchedulerStats
	Search         *ai.Stats
	Planner        *ai.PlannerStats
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Totals sums the finished games.
func (r *Report) Totals() game.Score {
	var total game.Score
	for _, res := range r.Results {
		total.Points += res.Score.Points
		total.Lines += res.Score.Lines
		total.TSpins += res.Score.TSpins
		total.TetrisCount += res.Score.TetrisCount
		total.Level = max(total.Level, res.Score.Level)
	}
	return total
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Stacker Simulation Report

## Configuration
- **Mode:** {{.Mode}}
- **Player:** {{.Player}}
- **Games Requested:** {{.Games}}
- **Seed:** {{if .Seed}}{{.Seed}}{{else}}random{{end}}
- **Simulated Frame:** {{.Frame}}

## Games
{{range $i, $g := .Results}}- Game {{inc $i}}: {{if $g.Won}}won{{else}}topped out{{end}} after {{$g.Pieces}} pieces, {{$g.Elapsed | round}} play time: {{$g.Score.Points}} points, {{$g.Score.Lines}} lines, level {{$g.Score.Level}}, {{$g.Score.TetrisCount}} tetrises, {{$g.Score.TSpins}} t-spins
{{else}}- No game finished.
{{end}}
{{with .Totals}}## Totals
- **Points:** {{.Points}}
- **Lines:** {{.Lines}}
- **Tetrises:** {{.TetrisCount}}
- **T-Spins:** {{.TSpins}}
- **Highest Level:** {{.Level}}
{{end}}
{{with .Events}}## Events
- **Pieces Placed:** {{count . "piece-placed"}}
- **Holds:** {{count . "piece-held"}}
- **Back-to-Back Clears:** {{count . "back-to-back"}}
- **Wins:** {{.Wins}}
{{end}}
{{with .Search}}## Search
- **Decisions:** {{.Decisions}}
- **Replans:** {{.Replans}}
- **Fallbacks:** {{.Fallbacks}}
- **Holds:** {{.Holds}}
- **Eval Cache:** {{.CacheHits}} hits / {{.CacheMisses}} misses ({{ratio .CacheHits .CacheMisses}})
{{end}}
{{with .Planner}}## T-Spin Planner
- **Setups:** {{.Setups}}
- **Spins:** {{.Spins}}
- **Abandoned:** {{.Abandoned}}
- **Held:** {{.Held}}
{{end}}
## Performance Results
- **Frames:** {{.Frames}}
- **Total Run Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{with .Scheduler}}- **Systems:**
{{range .Systems}}  - {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}, total {{.TotalDuration}}
{{end}}{{end}}
## Memory Usage (MB)
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} (start) -> {{mb .MemStatsEnd.HeapAlloc}} (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} (start) -> {{mb .MemStatsEnd.TotalAlloc}} (end)
- Num GC:         {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}
`

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"count": func(c *runner.EventCounter, kind string) int {
			n := 0
			for k, v := range c.Kinds {
				if k.String() == kind {
					n += v
				}
			}
			return n
		},
		"inc": func(i int) int {
			return i + 1
		},
		"round": func(d time.Duration) time.Duration {
			return d.Round(time.Millisecond)
		},
		"ratio": func(hits, misses int) string {
			if hits+misses == 0 {
				return "n/a"
			}
			return fmt.Sprintf("%.1f%%", 100*float64(hits)/float64(hits+misses))
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
