// Command stacker-view opens a window to play, or watch an AI play.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/stacker/config"
	"github.com/plus3/stacker/game"
	"github.com/plus3/stacker/runner"
)

const (
	CellSize     = 28
	SidePanel    = 7 * CellSize
	ScreenMargin = CellSize
)

func main() {
	cfgPath := flag.String("config", "", "Path to a JSON config file (default: search XDG config dirs).")
	autoplay := flag.Bool("ai", false, "Let the configured AI player play.")
	mode := flag.String("mode", "", "Game mode preset.")
	difficulty := flag.String("difficulty", "", "AI difficulty tier.")
	player := flag.String("player", "", "AI player kind.")
	seed := flag.Uint64("seed", 0, "Seed for pieces and AI noise (0: random).")
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
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}
	rules, err := cfg.Rules()
	if err != nil {
		log.Fatal(err)
	}

	engine := game.NewEngine(cfg.EngineOptions()...)
	engine.Initialize(rules)

	scheduler := runner.NewScheduler(engine)
	g := &Game{
		Engine:    engine,
		Scheduler: scheduler,
		Width:     cfg.Width,
		Height:    cfg.Height,
	}

	if *autoplay {
		p, err := cfg.NewPlayer()
		if err != nil {
			log.Fatal(err)
		}
		g.Player = &runner.PlayerSystem{Player: p}
		scheduler.Register(g.Player)
		log.Printf("AI player %s is playing %s", p.Name(), rules.Name)
	} else {
		scheduler.Register(&InputSystem{})
	}
	scheduler.Register(runner.TickSystem{})

	w, h := g.Layout(0, 0)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Stacker")

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
