package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schacon/slidetty/internal/config"
)

func TestLoadDeck_EmptyDirFailsBeforePresenting(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{Slides: config.SlidesConfig{Dir: dir}}

	_, err := loadDeck(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no slides in "+dir)
}
