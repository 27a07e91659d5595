// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package elastic

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v11"
)

var ErrEnvVariablesNotValid = errors.New("environment variables not valid")

type config struct {
	Addresses []string `env:"ELASTICSEARCH_URL" envSeparator:"," envDefault:"http://elasticsearch:9200"`
	Username  string   `env:"ELASTICSEARCH_USERNAME"`
	Password  string   `env:"ELASTICSEARCH_PASSWORD"`
	Dims      int      `env:"ES_DIM" envDefault:"384"`
}

func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if len(envVars.Addresses) == 0 {
		return nil, fmt.Errorf("%w: ELASTICSEARCH_URL is required", ErrEnvVariablesNotValid)
	}
	for _, address := range envVars.Addresses {
		if _, err := url.ParseRequestURI(address); err != nil {
			return nil, fmt.Errorf("%w: invalid ELASTICSEARCH_URL %q", ErrEnvVariablesNotValid, address)
		}
	}
	if envVars.Username == "" && envVars.Password != "" {
		return nil, fmt.Errorf("%w: ELASTICSEARCH_PASSWORD is set but ELASTICSEARCH_USERNAME is missing", ErrEnvVariablesNotValid)
	}
	if envVars.Dims <= 0 {
		return nil, fmt.Errorf("%w: ES_DIM must be a positive number", ErrEnvVariablesNotValid)
	}
	return &envVars, nil
}
