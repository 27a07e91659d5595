// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrEnvVariablesNotValid = errors.New("environment variables not valid")

type config struct {
	Host     string `env:"REDIS_HOST" envDefault:"redis"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"1"`
	Enabled  bool   `env:"CACHE_ENABLED" envDefault:"false"`
	// TTL is the entry lifetime in seconds. Zero keeps entries until they
	// are invalidated by a write.
	TTL int `env:"CACHE_TTL" envDefault:"0"`
}

func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if envVars.Port < 1 || envVars.Port > 65535 {
		return nil, fmt.Errorf("%w: REDIS_PORT must be a valid port number", ErrEnvVariablesNotValid)
	}
	if envVars.DB < 0 {
		return nil, fmt.Errorf("%w: REDIS_DB must not be negative", ErrEnvVariablesNotValid)
	}
	if envVars.TTL < 0 {
		return nil, fmt.Errorf("%w: CACHE_TTL must not be negative", ErrEnvVariablesNotValid)
	}
	return &envVars, nil
}
