// Command stacker-tui plays in the terminal, by hand or with an AI player.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/plus3/stacker/config"
	"github.com/plus3/stacker/game"
)

func main() {
	cfgPath := flag.String("config", "", "Path to a JSON config file (default: search XDG config dirs).")
	autoplay := flag.Bool("ai", false, "Let the configured AI player play.")
	mode := flag.String("mode", "", "Game mode preset.")
	difficulty := flag.String("difficulty", "", "AI difficulty tier.")
	player := flag.String("player", "", "AI player kind.")
	seed := flag.Uint64("seed", 0, "Seed for pieces and AI noise (0: random).")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
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
		case "debug":
			cfg.Debug = *debug
		}
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	EnableDebugLogging(cfg.Debug)
	DebugLogf("stacker-tui start mode=%s ai=%v difficulty=%s", cfg.Mode, *autoplay, cfg.Difficulty)

	rules, _ := cfg.Rules()
	engine := game.NewEngine(cfg.EngineOptions()...)

	var opts []Option
	if *autoplay {
		p, err := cfg.NewPlayer()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts = append(opts, WithPlayer(p))
	}

	model := NewModel(engine, rules, cfg.FrameInterval(), opts...)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		DebugLogf("program error: %v", err)
		os.Exit(1)
	}
}
