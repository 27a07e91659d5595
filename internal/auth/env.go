// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrEnvVariablesNotValid = errors.New("environment variables not valid")

type config struct {
	Disabled bool   `env:"AUTH_DISABLED" envDefault:"false"`
	JWKSURL  string `env:"AUTH_JWKS_URL"`
	Issuer   string `env:"AUTH_ISSUER"`
	Audience string `env:"AUTH_AUDIENCE"`
}

func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if !envVars.Disabled && envVars.JWKSURL == "" {
		return nil, fmt.Errorf("%w: AUTH_JWKS_URL is required unless AUTH_DISABLED is set", ErrEnvVariablesNotValid)
	}
	return &envVars, nil
}
