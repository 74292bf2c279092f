package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultValid verifies the built-in configuration passes validation
func TestDefaultValid(t *testing.T) {
	require.NoError(t, Default().Validate())
	assert.Equal(t, time.Second/30, Default().FrameInterval())
}

// TestLoadOverlaysDefaults verifies file fields override and absent fields keep defaults
func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starfolio.toml")
	doc := `
fps = 60
seed = 7
interstitial_duration = "1.5s"
color_mode = "256"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.FPS)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 1500*time.Millisecond, cfg.InterstitialDuration.D())
	assert.Equal(t, "256", cfg.ColorMode)
	assert.Equal(t, Default().ScrollRows, cfg.ScrollRows)
}

// TestLoadEmptyPath verifies no path means defaults
func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

// TestParseRejects verifies malformed or out-of-range documents fail
func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": `bogus = 1`,
		"bad duration":  `hint_urgent_delay = "soon"`,
		"fps range":     `fps = 0`,
		"color mode":    `color_mode = "sepia"`,
		"time scale":    `time_scale = -1.0`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, Parse([]byte(doc), Default()))
		})
	}
}

// TestMarshalRoundTrip verifies durations encode as readable strings
func TestMarshalRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "2.4s")

	cfg := Default()
	require.NoError(t, Parse(data, cfg))
	assert.Equal(t, Default(), cfg)
}
