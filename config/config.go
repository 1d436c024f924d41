// Package config loads the settings shared by the stacker commands.
//
// Values are layered: built-in defaults, then the JSON file found under the
// XDG config directories, then a .env file in the working directory, then
// STACKER_* environment variables. Command-line flags are applied last by
// each command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
)

var (
	cfgFile = "stacker/config.json"
	envFile = ".env"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type Config struct {
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Player     string `json:"player"`
	Seed       uint64 `json:"seed"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	QueueDepth int    `json:"queue_depth"`
	Games      int    `json:"games"`
	FrameMS    int    `json:"frame_ms"`
	Debug      bool   `json:"debug"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Mode:       "marathon",
		Difficulty: "normal",
		Player:     "search",
		Width:      game.DefaultWidth,
		Height:     game.DefaultHeight,
		QueueDepth: game.DefaultQueueDepth,
		Games:      1,
		FrameMS:    16,
	}
}

// Load builds a Config from defaults, the config file, .env and the
// environment. An empty path searches the XDG config directories; a missing
// file is not an error.
func Load(path string) (*Config, error) {
	config := Default()

	if path == "" {
		if found, err := xdg.SearchConfigFile(cfgFile); err == nil {
			path = found
		}
	}
	if path != "" {
		if err := readCfgFile(path, &config); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}
	if err := config.applyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v := getenv(key)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("%s: %q is not a number", key, v)}
		}
		*dst = n
		return nil
	}

	str("STACKER_MODE", &c.Mode)
	str("STACKER_DIFFICULTY", &c.Difficulty)
	str("STACKER_PLAYER", &c.Player)

	if v := getenv("STACKER_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("STACKER_SEED: %q is not a seed", v)}
		}
		c.Seed = seed
	}
	for key, dst := range map[string]*int{
		"STACKER_WIDTH":       &c.Width,
		"STACKER_HEIGHT":      &c.Height,
		"STACKER_QUEUE_DEPTH": &c.QueueDepth,
		"STACKER_GAMES":       &c.Games,
		"STACKER_FRAME_MS":    &c.FrameMS,
	} {
		if err := num(key, dst); err != nil {
			return err
		}
	}
	if v := getenv("STACKER_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return &InvalidConfig{fmt.Sprintf("STACKER_DEBUG: %q is not a boolean", v)}
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks that every named setting resolves.
func (c *Config) Validate() error {
	if _, err := c.Rules(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	if _, err := c.AIDifficulty(); err != nil {
		return &InvalidConfig{err.Error()}
	}
	known := false
	for _, kind := range ai.PlayerKinds {
		if strings.EqualFold(kind, c.Player) {
			known = true
		}
	}
	if !known {
		return &InvalidConfig{fmt.Sprintf("unknown player %q (want one of %s)", c.Player, strings.Join(ai.PlayerKinds, ", "))}
	}
	if c.Width < 4 || c.Height < 4 {
		return &InvalidConfig{fmt.Sprintf("board %dx%d is too small", c.Width, c.Height)}
	}
	if c.QueueDepth < 1 {
		return &InvalidConfig{"queue depth must be at least 1"}
	}
	if c.FrameMS < 1 {
		return &InvalidConfig{"frame interval must be at least 1ms"}
	}
	return nil
}

// Rules resolves the configured mode preset.
func (c *Config) Rules() (game.Rules, error) {
	return game.ModeByName(c.Mode)
}

// AIDifficulty resolves the configured difficulty tier.
func (c *Config) AIDifficulty() (ai.Difficulty, error) {
	return ai.DifficultyByName(c.Difficulty)
}

// FrameInterval is the host frame period.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameMS) * time.Millisecond
}

// EngineOptions returns the engine options for these settings. A zero seed
// leaves the engine to seed itself from the clock.
func (c *Config) EngineOptions() []game.Option {
	opts := []game.Option{
		game.WithBoardSize(c.Width, c.Height),
		game.WithQueueDepth(c.QueueDepth),
	}
	if c.Seed != 0 {
		opts = append(opts, game.WithSeed(c.Seed))
	}
	return opts
}

// NewPlayer builds the configured AI player.
func (c *Config) NewPlayer(opts ...ai.Option) (ai.Player, error) {
	d, err := c.AIDifficulty()
	if err != nil {
		return nil, err
	}
	if c.Seed != 0 {
		opts = append([]ai.Option{ai.WithSeed(c.Seed)}, opts...)
	}
	return ai.NewPlayer(c.Player, d, opts...)
}

// Save writes the config as JSON. An empty path writes to the XDG config
// home, creating directories as needed.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = xdg.ConfigFile(cfgFile)
		if err != nil {
			return err
		}
	}
	return saveCfgFile(path, c, 0664)
}

func saveCfgFile(filePath string, a any, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a any) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
