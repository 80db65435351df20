package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/schacon/slidetty/internal/config"
)

// New returns the program logger. The terminal is owned by the presenter, so
// the only destination is the configured file; level "none" yields a no-op
// logger. The returned function flushes and closes the file.
func New(conf config.LogConfig) (*zap.Logger, func(), error) {
	var level zapcore.Level
	switch conf.Level {
	case "debug":
		level = zap.DebugLevel
	case "normal":
		level = zap.InfoLevel
	default:
		return zap.NewNop(), func() {}, nil
	}

	f, err := os.OpenFile(conf.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to access log destination (%s): %w", conf.File, err)
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(f), zap.NewAtomicLevelAt(level))
	logger := zap.New(core).Named("slidetty")

	return logger, func() {
		_ = logger.Sync()
		_ = f.Close()
	}, nil
}
