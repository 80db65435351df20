package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schacon/slidetty/internal/config"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SLIDETTY_CONFIG", "")
}

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "slides", cfg.Slides.Dir)
	assert.False(t, cfg.Slides.IncrementalLists)
	assert.Equal(t, 50*time.Millisecond, cfg.Transition.ExitDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Transition.SettleDelay)
	assert.Zero(t, cfg.Transition.LockTimeout)
	assert.Equal(t, "auto", cfg.Render.Style)
	assert.True(t, cfg.Render.Mouse)
	assert.Equal(t, "none", cfg.Log.Level)
}

func TestLoad_NilFlags(t *testing.T) {
	isolate(t)

	cfg, err := config.Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "slides", cfg.Slides.Dir)
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "slidetty.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
slides:
  dir: from-file
  incremental_lists: true
transition:
  exit_delay: 20ms
  settle_delay: 1s
render:
  style: dark
  word_wrap: 72
`), 0o644))
	t.Setenv("SLIDETTY_CONFIG", path)
	t.Setenv("SLIDETTY_TRANSITION_SETTLE_DELAY", "150ms")

	cfg, err := config.Load(newFlags(t, "--style", "light"))
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.Slides.Dir)
	assert.True(t, cfg.Slides.IncrementalLists)
	assert.Equal(t, 20*time.Millisecond, cfg.Transition.ExitDelay)
	assert.Equal(t, 150*time.Millisecond, cfg.Transition.SettleDelay, "env beats file")
	assert.Equal(t, "light", cfg.Render.Style, "flag beats file")
	assert.Equal(t, 72, cfg.Render.WordWrap)
}

func TestLoad_MissingExplicitConfig(t *testing.T) {
	isolate(t)
	t.Setenv("SLIDETTY_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := config.Load(nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := config.Config{
		Slides: config.SlidesConfig{Dir: "slides"},
		Log:    config.LogConfig{Level: "none"},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"bad level", func(c *config.Config) { c.Log.Level = "trace" }},
		{"level without file", func(c *config.Config) { c.Log.Level = "debug" }},
		{"negative delay", func(c *config.Config) { c.Transition.ExitDelay = -time.Millisecond }},
		{"lock timeout shorter than a transition", func(c *config.Config) {
			c.Transition = config.TransitionConfig{ExitDelay: 50 * time.Millisecond, SettleDelay: 300 * time.Millisecond, LockTimeout: 100 * time.Millisecond}
		}},
		{"negative wrap", func(c *config.Config) { c.Render.WordWrap = -1 }},
		{"empty dir", func(c *config.Config) { c.Slides.Dir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestValidate_LockTimeout(t *testing.T) {
	c := config.Config{
		Slides: config.SlidesConfig{Dir: "slides"},
		Transition: config.TransitionConfig{
			ExitDelay:   50 * time.Millisecond,
			SettleDelay: 300 * time.Millisecond,
		},
		Log: config.LogConfig{Level: "none"},
	}
	assert.NoError(t, c.Validate(), "0 disables the timeout")

	c.Transition.LockTimeout = 350 * time.Millisecond
	assert.NoError(t, c.Validate())

	c.Transition.LockTimeout = 349 * time.Millisecond
	assert.Error(t, c.Validate())
}
