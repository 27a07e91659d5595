// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")

	errMissingClientSecret = errors.New("EMBEDDING_CLIENT_ID is set but EMBEDDING_CLIENT_SECRET is missing")
	errMissingClientID     = errors.New("EMBEDDING_CLIENT_SECRET is set but EMBEDDING_CLIENT_ID is missing")
	errMissingTokenURL     = errors.New("EMBEDDING_TOKEN_URL is required when client credentials are set")
)

type config struct {
	URL          string `env:"EMBEDDING_URL"`
	TokenURL     string `env:"EMBEDDING_TOKEN_URL"`
	ClientID     string `env:"EMBEDDING_CLIENT_ID"`
	ClientSecret string `env:"EMBEDDING_CLIENT_SECRET"`
	Dims         int    `env:"ES_DIM" envDefault:"384"`
}

// loadConfigFromEnv reads the embedding provider configuration. A nil config
// without error means no provider is configured.
func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if envVars.URL == "" {
		return nil, nil
	}
	if _, err := url.ParseRequestURI(envVars.URL); err != nil {
		return nil, fmt.Errorf("invalid EMBEDDING_URL: %w", err)
	}

	if envVars.ClientID != "" && envVars.ClientSecret == "" {
		return nil, errMissingClientSecret
	}
	if envVars.ClientSecret != "" && envVars.ClientID == "" {
		return nil, errMissingClientID
	}
	if envVars.ClientID != "" {
		if envVars.TokenURL == "" {
			return nil, errMissingTokenURL
		}
		if _, err := url.ParseRequestURI(envVars.TokenURL); err != nil {
			return nil, fmt.Errorf("invalid EMBEDDING_TOKEN_URL: %w", err)
		}
	}

	if envVars.Dims <= 0 {
		return nil, fmt.Errorf("%w: ES_DIM must be a positive number", ErrEnvVariablesNotValid)
	}
	return &envVars, nil
}
