// Package config holds the runtime settings read from a TOML file, with
// defaults for every field.
package config

import (
	"bytes"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/lixenwraith/starfolio/parameter"
)

// Duration is a time.Duration written as a Go duration string ("2.4s")
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrapf(err, "duration %q", text)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// D returns the standard library value
func (d Duration) D() time.Duration {
	return time.Duration(d)
}

// Config is the full runtime configuration
type Config struct {
	FPS int `toml:"fps"`

	// Scroll mapping: ScrollRows per wheel notch over a DocumentRows-tall document
	ScrollRows   int     `toml:"scroll_rows"`
	DocumentRows int     `toml:"document_rows"`
	ScrollEase   float64 `toml:"scroll_ease"`

	// AutoplaySpeed is timeline seconds per wall second; TimeScale stretches every segment
	AutoplaySpeed float64 `toml:"autoplay_speed"`
	TimeScale     float64 `toml:"time_scale"`

	TypewriterInterval   Duration `toml:"typewriter_interval"`
	HintUrgentDelay      Duration `toml:"hint_urgent_delay"`
	InterstitialDuration Duration `toml:"interstitial_duration"`

	DragSensitivity float64 `toml:"drag_sensitivity"`

	// Seed zero draws fresh cosmetic randomness every build
	Seed        int64 `toml:"seed"`
	TextureSize int   `toml:"texture_size"`

	RosterPath  string `toml:"roster"`
	PortraitDir string `toml:"portraits"`

	Audio  bool    `toml:"audio"`
	Volume float64 `toml:"volume"`

	// ColorMode is "auto", "256" or "truecolor"
	ColorMode string `toml:"color_mode"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		FPS:                  parameter.FPS,
		ScrollRows:           parameter.ScrollRows,
		DocumentRows:         parameter.DocumentRows,
		ScrollEase:           parameter.ScrollEase,
		AutoplaySpeed:        parameter.AutoplaySpeed,
		TimeScale:            1,
		TypewriterInterval:   Duration(parameter.TypewriterInterval),
		HintUrgentDelay:      Duration(parameter.HintUrgentDelay),
		InterstitialDuration: Duration(parameter.InterstitialDuration),
		DragSensitivity:      parameter.DragSensitivity,
		TextureSize:          parameter.TextureSize,
		Audio:                true,
		Volume:               parameter.ClickVolume,
		ColorMode:            "auto",
	}
}

// Load reads path over the defaults; fields absent from the file keep their default
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes data into cfg and validates the result
func Parse(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return errors.Wrap(err, "decode")
	}
	return cfg.Validate()
}

// Validate rejects values the loop cannot run with
func (c *Config) Validate() error {
	switch {
	case c.FPS < 1 || c.FPS > 240:
		return errors.Errorf("fps %d out of range 1..240", c.FPS)
	case c.ScrollRows < 1:
		return errors.Errorf("scroll_rows must be positive, got %d", c.ScrollRows)
	case c.DocumentRows < c.ScrollRows:
		return errors.Errorf("document_rows %d shorter than one notch", c.DocumentRows)
	case c.ScrollEase <= 0:
		return errors.New("scroll_ease must be positive")
	case c.AutoplaySpeed <= 0:
		return errors.New("autoplay_speed must be positive")
	case c.TimeScale <= 0:
		return errors.New("time_scale must be positive")
	case c.TypewriterInterval <= 0:
		return errors.New("typewriter_interval must be positive")
	case c.InterstitialDuration < 0 || c.HintUrgentDelay < 0:
		return errors.New("durations must not be negative")
	case c.Volume < 0:
		return errors.New("volume must not be negative")
	}
	switch c.ColorMode {
	case "auto", "256", "truecolor":
	default:
		return errors.Errorf("color_mode %q: want auto, 256 or truecolor", c.ColorMode)
	}
	return nil
}

// FrameInterval is the wall time between frames
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.FPS)
}

// Marshal encodes the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
