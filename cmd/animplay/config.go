package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// config is read from the environment.
type config struct {
	Script   string `env:"ANIMPLAY_SCRIPT,required"`
	TPS      int    `env:"ANIMPLAY_TPS" envDefault:"60"`
	Frames   int    `env:"ANIMPLAY_FRAMES" envDefault:"0"`
	Watch    bool   `env:"ANIMPLAY_WATCH" envDefault:"false"`
	LogLevel string `env:"ANIMPLAY_LOG_LEVEL" envDefault:"info"`
}

func loadConfig() (config, error) {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TPS <= 0 {
		return config{}, fmt.Errorf("parse env: ANIMPLAY_TPS must be positive, got %d", cfg.TPS)
	}
	return cfg, nil
}
