// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wisefood/data-catalog/internal/info"
	"github.com/wisefood/data-catalog/internal/logger"
)

const (
	serviceName = "data-catalog"
	loggerName  = "data-catalog:server"
)

var (
	ErrServerListen   = errors.New("server listen error")
	ErrServerShutdown = errors.New("server shutdown error")
)

// Probe reports whether a backend the service depends on is reachable.
type Probe func(ctx context.Context) error

// Options customizes the application beyond its environment configuration.
type Options struct {
	// ErrorHandler renders errors returned by route handlers. Fiber falls
	// back to its default handler when nil.
	ErrorHandler fiber.ErrorHandler

	// ReadinessProbes run on every /-/ready request, keyed by backend name.
	// Any failing probe reports the service as not ready.
	ReadinessProbes map[string]Probe
}

// Server wraps the fiber application together with its listen configuration.
type Server struct {
	config

	app *fiber.App
}

// NewFromEnv builds the application from the HTTP_* environment variables,
// with the request logger middleware and the status routes installed. Routes
// under /-/ are excluded from request logging.
func NewFromEnv(ctx context.Context, options Options) (*Server, error) {
	cfg, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		AppName:               info.AppName,
		DisableStartupMessage: cfg.DisableStartupMessage,
		BodyLimit:             cfg.BodyLimit,
		Immutable:             true, // ensure that accessing request body returns a copy that is valid after the request lifecycle (accessing body and headers in goroutines in the request handlers)
		ErrorHandler:          options.ErrorHandler,
	})
	log := logger.FromContext(ctx)
	app.Use(logger.RequestMiddlewareLogger(ctx, log, []string{"/-/"}))

	statusRoutes(app, serviceName, info.Version, options.ReadinessProbes)

	return &Server{
		app:    app,
		config: *cfg,
	}, nil
}

// App exposes the fiber application for route registration.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Start() error {
	if err := s.app.Listen(fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)); err != nil {
		return fmt.Errorf("%w: %w", ErrServerListen, err)
	}
	return nil
}

func (s *Server) Stop() error {
	if err := s.app.Shutdown(); err != nil {
		return fmt.Errorf("%w: %w", ErrServerShutdown, err)
	}
	return nil
}

func (s *Server) StartAsync(ctx context.Context) {
	log := logger.FromContext(ctx).WithName(loggerName)
	go func() {
		if err := s.Start(); err != nil {
			log.Error(err.Error())
		}
	}()
}
