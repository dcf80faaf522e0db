package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds the defaults of the command line flags.
type Config struct {
	DurationMS  int     `envconfig:"DURATION_MS" default:"2000"`
	DelayMS     int     `envconfig:"DELAY_MS" default:"0"`
	FPS         int     `envconfig:"FPS" default:"30"`
	Easing      string  `envconfig:"EASING" default:"linear"`
	Direction   string  `envconfig:"DIRECTION" default:"forward"`
	StrokeWidth float64 `envconfig:"STROKE_WIDTH" default:"2"`
	Color       string  `envconfig:"COLOR" default:"#000000"`
	Width       int     `envconfig:"WIDTH" default:"400"`
	Height      int     `envconfig:"HEIGHT" default:"400"`
	ColorMode   string  `envconfig:"COLOR_MODE" default:"auto"`
	Addr        string  `envconfig:"ADDR" default:"localhost:8080"`
}

// Prefix of the environment variables, as in SVGTRACE_FPS.
const Prefix = "SVGTRACE"

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
