package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"kisanmitra/internal/types"
)

// Load resolves configuration from the environment, with an optional dotenv
// file layered underneath for local development. Validation failures are
// fatal: a misconfigured dispatcher must not start.
//
// Resolution order: OS environment (highest) -> dotenv file.
func Load(dotenvPath string) (*Config, error) {
	if dotenvPath != "" {
		// godotenv.Load never overrides variables already present in the
		// environment, which preserves the priority order above.
		if err := godotenv.Load(dotenvPath); err != nil {
			return nil, types.NewAppError(types.ErrCodeConfigInvalid,
				fmt.Sprintf("loading dotenv file %s", dotenvPath), err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, types.NewAppError(types.ErrCodeConfigInvalid, "processing environment", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-tag validation over the full configuration tree.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		return types.NewAppError(types.ErrCodeConfigInvalid, "configuration failed validation", err)
	}
	return nil
}
