// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os/signal"
	"sync"
	"syscall"

	"github.com/wisefood/data-catalog/internal/api"
	"github.com/wisefood/data-catalog/internal/auth"
	"github.com/wisefood/data-catalog/internal/logger"
	"github.com/wisefood/data-catalog/internal/server"
)

// serveOptions holds the options set for the current serve invocation.
type serveOptions struct {
	bootstrap bool

	lock sync.Mutex
}

// execute connects the backends, mounts the API and runs the server until
// the context is canceled or a termination signal arrives.
func (o *serveOptions) execute(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	log := logger.FromContext(ctx)

	authenticator, err := auth.NewAuthenticatorFromEnv()
	if err != nil {
		return err
	}

	backends, err := connectBackends()
	if err != nil {
		return err
	}
	defer backends.close(ctx)

	if o.bootstrap {
		if err := provision(ctx, backends); err != nil {
			return err
		}
	}

	srv, err := server.NewFromEnv(ctx, server.Options{
		ErrorHandler:    api.ErrorHandler(),
		ReadinessProbes: backends.probes(),
	})
	if err != nil {
		return err
	}

	service, err := backends.service(srv.ExternalDomain, srv.ContextPath)
	if err != nil {
		return err
	}

	if err := api.Register(srv.App(), api.Config{
		Service:      service,
		Authenticate: authenticator.Middleware(),
		ContextPath:  srv.ContextPath,
	}); err != nil {
		return err
	}

	srv.StartAsync(ctx)
	log.Info("data catalog started", "host", srv.HTTPHost, "port", srv.HTTPPort)

	<-ctx.Done()
	log.Info("shutdown signal received, stopping server")
	return srv.Stop()
}
