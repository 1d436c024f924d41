// Command stacker-sim plays headless AI games as fast as possible and prints
// a report of the results.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/config"
	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

// gameClock is the AI's view of time: it advances by the simulated frame
// interval rather than wall time, so rate-limited tiers play at their
// intended pace.
type gameClock struct {
	now time.Time
}

func (c *gameClock) Now() time.Time { return c.now }

func (c *gameClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func main() {
	cfgPath := flag.String("config", "", "Path to a JSON config file (default: search XDG config dirs).")
	duration := flag.Duration("duration", time.Minute, "Wall-clock limit for the whole run.")
	mode := flag.String("mode", "", "Game mode preset.")
	difficulty := flag.String("difficulty", "", "AI difficulty tier.")
	player := flag.String("player", "", "AI player kind.")
	games := flag.Int("games", 0, "Number of games to play.")
	seed := flag.Uint64("seed", 0, "Seed for pieces and AI noise (0: random).")
	frame := flag.Duration("frame", 0, "Simulated time per frame.")
	maxFrames := flag.Int64("max-frames", 5_000_000, "Stop after this many frames even if games are unfinished.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "difficulty":
			cfg.Difficulty = *difficulty
		case "player":
			cfg.Player = *player
		case "games":
			cfg.Games = *games
		case "seed":
			cfg.Seed = *seed
		case "frame":
			cfg.FrameMS = int(frame.Milliseconds())
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	if cfg.Games < 1 {
		cfg.Games = 1
	}

	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal(err)
	}

	clock := &gameClock{now: time.Unix(0, 0)}
	ply, err := cfg.NewPlayer(ai.WithClock(clock.Now))
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Simulating %d %s game(s) with player %s...\n", cfg.Games, rules.Name, ply.Name())

	events := runner.NewEventCounter()
	engine := game.NewEngine(append(cfg.EngineOptions(), game.WithObserver(events))...)
	engine.Initialize(rules)

	scheduler := runner.NewScheduler(engine)
	restart := &runner.AutoRestart{Max: cfg.Games}
	scheduler.Register(&runner.PlayerSystem{Player: ply})
	scheduler.Register(runner.TickSystem{})
	scheduler.Register(restart)

	report := &Report{
		Mode:           rules.Name,
		Player:         ply.Name(),
		Games:          cfg.Games,
		Seed:           cfg.Seed,
		Frame:          cfg.FrameInterval(),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	dt := cfg.FrameInterval()

Loop:
	for report.Frames < *maxFrames && !restart.Done() {
		select {
		case <-ctx.Done():
			log.Println("Wall-clock limit reached.")
			break Loop
		default:
			updateStart := time.Now()
			scheduler.Once(dt)
			clock.Advance(dt)
			report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
			report.Frames++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.Results = restart.Results
	report.Events = events
	report.Scheduler = scheduler.GetStats()
	if s, ok := ply.(*ai.Search); ok {
		stats := s.Stats()
		report.Search = &stats
	}
	if p, ok := ply.(*ai.TSpinPlanner); ok {
		stats := p.Stats()
		report.Planner = &stats
		fallback := p.Fallback().Stats()
		report.Search = &fallback
	}
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	fmt.Println("\n\n--- Simulation Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}
