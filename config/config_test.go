package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/stacker/ai"
	"github.com/plus3/stacker/game"
)

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	rules, err := c.Rules()
	require.NoError(t, err)
	assert.Equal(t, "marathon", rules.Name)

	d, err := c.AIDifficulty()
	require.NoError(t, err)
	assert.Equal(t, ai.Normal, d)
	assert.Equal(t, "16ms", c.FrameInterval().String())
}

func TestLoadLayersFileDotenvAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"mode": "sprint", "difficulty": "hard", "games": 3}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("STACKER_PLAYER=tspin\nSTACKER_GAMES=7\n"), 0o644))
	t.Chdir(dir)
	// godotenv writes to the process environment; restore it afterwards.
	t.Setenv("STACKER_PLAYER", "")
	require.NoError(t, os.Unsetenv("STACKER_PLAYER"))
	t.Setenv("STACKER_SEED", "42")
	t.Setenv("STACKER_GAMES", "9")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sprint", c.Mode)
	assert.Equal(t, "hard", c.Difficulty)
	assert.Equal(t, "tspin", c.Player)
	assert.Equal(t, uint64(42), c.Seed)
	// Real environment wins over .env.
	assert.Equal(t, 9, c.Games)
	assert.Equal(t, game.DefaultWidth, c.Width)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), *c)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
	}{
		{name: "bad json", file: `{"mode": `},
		{name: "unknown mode", file: `{"mode": "zen"}`},
		{name: "unknown difficulty", env: map[string]string{"STACKER_DIFFICULTY": "godlike"}},
		{name: "unknown player", env: map[string]string{"STACKER_PLAYER": "oracle"}},
		{name: "bad number", env: map[string]string{"STACKER_FRAME_MS": "fast"}},
		{name: "bad seed", env: map[string]string{"STACKER_SEED": "-1"}},
		{name: "bad bool", env: map[string]string{"STACKER_DEBUG": "sometimes"}},
		{name: "tiny board", file: `{"width": 2}`},
		{name: "zero frame", file: `{"frame_ms": 0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			t.Chdir(dir)
			path := filepath.Join(dir, "config.json")
			if tt.file != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.file), 0o644))
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(path)
			var invalid *InvalidConfig
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())
	path := filepath.Join(t.TempDir(), "config.json")
	c := Default()
	c.Mode = "ultra"
	c.Seed = 7
	require.NoError(t, c.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, *loaded)
}

func TestConfigBuildsEngineAndPlayer(t *testing.T) {
	c := Default()
	c.Width, c.Height = 8, 16
	c.Seed = 3
	c.Player = "tspin"
	c.Difficulty = "expert"

	e := game.NewEngine(c.EngineOptions()...)
	rules, err := c.Rules()
	require.NoError(t, err)
	e.Initialize(rules)
	s := e.State()
	assert.Equal(t, 8, s.Width)
	assert.Equal(t, 16, s.Height)
	assert.Len(t, s.NextPieces, game.DefaultQueueDepth)

	p, err := c.NewPlayer()
	require.NoError(t, err)
	assert.Equal(t, "tspin-expert", p.Name())
}
