// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

type config struct {
	HTTPHost              string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	HTTPPort              int    `env:"HTTP_PORT" envDefault:"8080"`
	DisableStartupMessage bool   `env:"DISABLE_STARTUP_MESSAGE" envDefault:"true"`
	// BodyLimit leaves room for the largest accepted artifact upload plus
	// the multipart framing around it.
	BodyLimit int `env:"BODY_LIMIT" envDefault:"1074790400"`
	// ContextPath prefixes every API route when the service runs behind a
	// path preserving proxy.
	ContextPath string `env:"CONTEXT_PATH" envDefault:""`
	// ExternalDomain is the address clients use to reach the service, used
	// to build the absolute links embedded in responses.
	ExternalDomain string `env:"APP_EXT_DOMAIN" envDefault:"http://localhost:8080"`
}

func loadConfigFromEnv() (*config, error) {
	var envVars config
	if err := env.Parse(&envVars); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	if err := validateEnvironmentVariables(&envVars); err != nil {
		return nil, err
	}

	envVars.ExternalDomain = strings.TrimSuffix(envVars.ExternalDomain, "/")
	return &envVars, nil
}

func validateEnvironmentVariables(envVars *config) error {
	envError := make([]string, 0)

	if envVars.HTTPPort < 1 || envVars.HTTPPort > 65535 {
		envError = append(envError, "HTTP_PORT is out of valid range (1-65535)")
	}
	if envVars.BodyLimit < 1 {
		envError = append(envError, "BODY_LIMIT must be positive")
	}
	if envVars.ContextPath != "" {
		if !strings.HasPrefix(envVars.ContextPath, "/") || strings.HasSuffix(envVars.ContextPath, "/") {
			envError = append(envError, `CONTEXT_PATH must start with "/" and carry no trailing slash`)
		}
	}
	if external, err := url.Parse(envVars.ExternalDomain); err != nil || external.Host == "" ||
		(external.Scheme != "http" && external.Scheme != "https") {
		envError = append(envError, "APP_EXT_DOMAIN is not a valid http(s) URL")
	}

	if len(envError) > 0 {
		return fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, strings.Join(envError, ", "))
	}
	return nil
}
