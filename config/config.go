// Package config loads server configuration from environment variables with
// command-line flag overrides.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Address      string `env:"RUN_ADDRESS"   envDefault:":8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"pawn.db"`
	LogLvl       string `env:"LOG_LVL"       envDefault:"info"`
}

// New reads the environment, registers flag overrides and parses them.
func New() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	flag.StringVar(&cfg.Address, "a", cfg.Address, "address and port to run server")
	flag.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path (use :memory: for in-memory)")
	flag.StringVar(&cfg.LogLvl, "l", cfg.LogLvl, "log level")
	flag.Parse()

	return cfg, nil
}
