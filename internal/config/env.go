package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

// Env holds the settings read from the process environment.
type Env struct {
	LogLevel   string `env:"LOG_LEVEL" envDefault:"DEBUG"`
	ConfigPath string `env:"JOBLOG_CONFIG"`
	StatusURL  string `env:"JOBLOG_STATUS_URL"`
}

// InfoOnly reports whether LOG_LEVEL selects info-level filtering.
// Any value other than INFO means debug.
func (e Env) InfoOnly() bool {
	return e.LogLevel == "INFO"
}

// LoadEnv parses the joblog environment variables.
func LoadEnv() (*Env, error) {
	envVars, err := env.ParseAs[Env]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}
	envVars.LogLevel = strings.TrimSpace(envVars.LogLevel)
	return &envVars, nil
}

// Load resolves the effective configuration: the file named by JOBLOG_CONFIG
// (or path, when non-empty) over the defaults, then the environment overrides.
func Load(path string) (*Config, *Env, error) {
	envVars, err := LoadEnv()
	if err != nil {
		return nil, nil, err
	}

	if path == "" {
		path = envVars.ConfigPath
	}

	cfg := Default()
	if path != "" {
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, nil, err
		}
	}

	if envVars.StatusURL != "" {
		cfg.StatusAPI.BaseURL = envVars.StatusURL
		if err := ValidateConfig(cfg); err != nil {
			return nil, nil, fmt.Errorf("%w: JOBLOG_STATUS_URL: %s", ErrEnvVariablesNotValid, err.Error())
		}
	}

	return cfg, envVars, nil
}
