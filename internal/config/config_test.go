package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2000, cfg.DurationMS)
	assert.Equal(t, 30, cfg.FPS)
	assert.Equal(t, "linear", cfg.Easing)
	assert.Equal(t, 2.0, cfg.StrokeWidth)
	assert.Equal(t, "auto", cfg.ColorMode)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("SVGTRACE_FPS", "12")
	t.Setenv("SVGTRACE_STROKE_WIDTH", "0.5")
	t.Setenv("SVGTRACE_EASING", "ease-in-out")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.FPS)
	assert.Equal(t, 0.5, cfg.StrokeWidth)
	assert.Equal(t, "ease-in-out", cfg.Easing)

	t.Setenv("SVGTRACE_WIDTH", "wide")
	_, err = Load()
	assert.Error(t, err)
}
