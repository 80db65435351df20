package config

import (
	"time"

	"github.com/spf13/pflag"
)

// RegisterFlags adds the flags understood by Load to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("dir", "d", "slides", "Directory containing the slide files")
	fs.String("title", "", "Deck title (overrides _title.md)")
	fs.Bool("incremental", false, "Reveal top-level list items one step at a time on every slide")
	fs.Duration("exit-delay", 50*time.Millisecond, "Delay before the next slide is shown")
	fs.Duration("settle-delay", 300*time.Millisecond, "Time navigation stays locked after a slide change")
	fs.Duration("lock-timeout", 0, "Release a stuck transition lock after this long; 0 disables, otherwise at least exit-delay + settle-delay")
	fs.String("style", "auto", "Glamour style: auto, dark, light, notty, dracula, pink, ascii")
	fs.Int("wrap", 0, "Word wrap width (0 follows the terminal width)")
	fs.Bool("mouse", true, "Advance on mouse clicks")
	fs.String("log-file", "", "Write logs to this file")
	fs.String("log-level", "none", "Log level: none, debug, normal")
}
