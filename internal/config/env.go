package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Environment holds the process-level overrides read from the environment.
type Environment struct {
	// ConfigPath replaces the default config file location.
	ConfigPath string `env:"PELUSA_CONFIG"`
	// DataDir replaces the default data directory.
	DataDir string `env:"PELUSA_DATA_DIR"`
	// SessionID pins the terminal session.
	SessionID string `env:"PELUSA_SESSION_ID"`
}

// ParseEnv reads Environment from the process environment.
func ParseEnv() (Environment, error) {
	return parseEnv(env.Options{})
}

// ParseEnvFrom reads Environment from vars instead of the process
// environment.
func ParseEnvFrom(vars map[string]string) (Environment, error) {
	return parseEnv(env.Options{Environment: vars})
}

func parseEnv(opts env.Options) (Environment, error) {
	var e Environment
	if err := env.ParseWithOptions(&e, opts); err != nil {
		return Environment{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
