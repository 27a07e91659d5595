// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")

	errMissingSecretKey = errors.New("MINIO_ROOT is set but MINIO_ROOT_PASSWORD is missing")
	errMissingAccessKey = errors.New("MINIO_ROOT_PASSWORD is set but MINIO_ROOT is missing")
)

type config struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"http://minio:9000"`
	AccessKey string `env:"MINIO_ROOT"`
	SecretKey string `env:"MINIO_ROOT_PASSWORD"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"wisefood-artifacts"`
	Region    string `env:"MINIO_REGION"`
}

// loadConfigFromEnv reads the object store configuration. A nil config
// without error means no credentials are set and uploads are disabled.
func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if envVars.AccessKey == "" && envVars.SecretKey == "" {
		return nil, nil
	}
	if envVars.SecretKey == "" {
		return nil, errMissingSecretKey
	}
	if envVars.AccessKey == "" {
		return nil, errMissingAccessKey
	}
	if envVars.Endpoint == "" {
		return nil, fmt.Errorf("%w: MINIO_ENDPOINT is required", ErrEnvVariablesNotValid)
	}
	if envVars.Bucket == "" {
		return nil, fmt.Errorf("%w: MINIO_BUCKET is required", ErrEnvVariablesNotValid)
	}
	return &envVars, nil
}
