package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/schacon/slidetty/internal/config"
	"github.com/schacon/slidetty/internal/logging"
)

func TestNew_None(t *testing.T) {
	logger, done, err := logging.New(config.LogConfig{Level: "none"})
	require.NoError(t, err)
	defer done()
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slidetty.log")

	logger, done, err := logging.New(config.LogConfig{Level: "normal", File: path})
	require.NoError(t, err)
	logger.Debug("hidden")
	logger.Info("deck loaded")
	done()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "deck loaded")
	assert.Contains(t, string(data), "slidetty")
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_BadDestination(t *testing.T) {
	_, _, err := logging.New(config.LogConfig{Level: "debug", File: filepath.Join(t.TempDir(), "missing", "x.log")})
	assert.Error(t, err)
}
