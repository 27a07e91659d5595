// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var ErrEnvVariablesNotValid = errors.New("environment variables not valid")

type config struct {
	URI      string `env:"NEO4J_URI" envDefault:"bolt://neo4j:7687"`
	Username string `env:"NEO4J_USERNAME" envDefault:"neo4j"`
	Password string `env:"NEO4J_PASSWORD"`
	Database string `env:"NEO4J_DATABASE"`
}

// loadConfigFromEnv reads the lineage graph configuration. A nil config
// without error means NEO4J_URI was emptied and lineage is disabled.
func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if envVars.URI == "" {
		return nil, nil
	}
	if envVars.Username == "" && envVars.Password != "" {
		return nil, fmt.Errorf("%w: NEO4J_PASSWORD is set but NEO4J_USERNAME is missing", ErrEnvVariablesNotValid)
	}
	return &envVars, nil
}
