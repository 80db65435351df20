package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Slides     SlidesConfig
	Transition TransitionConfig
	Render     RenderConfig
	Log        LogConfig
}

// SlidesConfig says where the deck lives and how steps are found.
type SlidesConfig struct {
	Dir              string
	Title            string
	IncrementalLists bool `mapstructure:"incremental_lists"`
}

// TransitionConfig holds the slide transition timings.
type TransitionConfig struct {
	ExitDelay   time.Duration `mapstructure:"exit_delay"`
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	LockTimeout time.Duration `mapstructure:"lock_timeout"`
}

// RenderConfig holds presentation settings.
type RenderConfig struct {
	Style    string
	WordWrap int `mapstructure:"word_wrap"`
	Mouse    bool
}

// LogConfig holds file logger settings. The terminal belongs to the
// presenter, so logs only ever go to a file.
type LogConfig struct {
	File  string
	Level string
}

// flagKeys maps command line flags to configuration keys.
var flagKeys = map[string]string{
	"dir":          "slides.dir",
	"title":        "slides.title",
	"incremental":  "slides.incremental_lists",
	"exit-delay":   "transition.exit_delay",
	"settle-delay": "transition.settle_delay",
	"lock-timeout": "transition.lock_timeout",
	"style":        "render.style",
	"wrap":         "render.word_wrap",
	"mouse":        "render.mouse",
	"log-file":     "log.file",
	"log-level":    "log.level",
}

// Load reads configuration from defaults, an optional config file, env and
// the flags that were set. Env var overrides use prefix SLIDETTY_.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("slides.dir", "slides")
	v.SetDefault("slides.title", "")
	v.SetDefault("slides.incremental_lists", false)
	v.SetDefault("transition.exit_delay", 50*time.Millisecond)
	v.SetDefault("transition.settle_delay", 300*time.Millisecond)
	v.SetDefault("transition.lock_timeout", time.Duration(0))
	v.SetDefault("render.style", "auto")
	v.SetDefault("render.word_wrap", 0)
	v.SetDefault("render.mouse", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "none")

	v.SetConfigType("yaml")

	cfgPath := os.Getenv("SLIDETTY_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "slidetty"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SLIDETTY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the presenter cannot honor.
func (c Config) Validate() error {
	switch c.Log.Level {
	case "none", "debug", "normal":
	default:
		return fmt.Errorf("log.level must be none, debug or normal, got %q", c.Log.Level)
	}
	if c.Log.Level != "none" && c.Log.File == "" {
		return errors.New("log.file is required when log.level is not none")
	}
	if c.Transition.ExitDelay < 0 || c.Transition.SettleDelay < 0 || c.Transition.LockTimeout < 0 {
		return errors.New("transition delays must not be negative")
	}
	if t := c.Transition; t.LockTimeout > 0 && t.LockTimeout < t.ExitDelay+t.SettleDelay {
		return fmt.Errorf("transition.lock_timeout (%s) must be 0 or at least exit_delay + settle_delay (%s)",
			t.LockTimeout, t.ExitDelay+t.SettleDelay)
	}
	if c.Render.WordWrap < 0 {
		return fmt.Errorf("render.word_wrap must not be negative, got %d", c.Render.WordWrap)
	}
	if c.Slides.Dir == "" {
		return errors.New("slides.dir must not be empty")
	}
	return nil
}
