// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/wisefood/data-catalog/internal/backend/cache"
	"github.com/wisefood/data-catalog/internal/backend/elastic"
	"github.com/wisefood/data-catalog/internal/backend/graph"
	"github.com/wisefood/data-catalog/internal/backend/objectstore"
	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/embedding"
	"github.com/wisefood/data-catalog/internal/logger"
	"github.com/wisefood/data-catalog/internal/server"
)

// backends bundles the storage layers a command connects to. The optional
// ones stay nil when their environment variables are unset.
type backends struct {
	store    *elastic.Store
	cache    catalog.Cache
	objects  *objectstore.Store
	graph    *graph.Graph
	embedder *embedding.HTTPProvider
}

// connectBackends builds every backend client from the environment. The
// clients dial lazily, so an unreachable backend surfaces on first use or
// through the readiness probes, not here.
func connectBackends() (*backends, error) {
	store, err := elastic.NewStoreFromEnv()
	if err != nil {
		return nil, err
	}

	cacheBackend, err := cache.NewFromEnv()
	if err != nil {
		return nil, err
	}

	objects, err := objectstore.NewStoreFromEnv()
	if err != nil {
		return nil, err
	}

	lineage, err := graph.NewGraphFromEnv()
	if err != nil {
		return nil, err
	}

	embedder, err := embedding.NewProviderFromEnv()
	if err != nil {
		return nil, err
	}

	return &backends{
		store:    store,
		cache:    cacheBackend,
		objects:  objects,
		graph:    lineage,
		embedder: embedder,
	}, nil
}

// service assembles the catalog service on top of the connected backends.
// The optional backends are concrete nil pointers here and must only reach
// the interface fields of the configuration when they exist.
func (b *backends) service(externalURL, contextPath string) (*catalog.Service, error) {
	config := catalog.Config{
		Store:       b.store,
		Cache:       b.cache,
		ExternalURL: externalURL,
		ContextPath: contextPath,
	}
	if b.objects != nil {
		config.Objects = b.objects
	}
	if b.graph != nil {
		config.Graph = b.graph
	}
	if b.embedder != nil {
		config.Embedder = b.embedder
	}

	return catalog.NewService(config)
}

// probes lists the readiness probes of the connected backends, keyed by the
// name they report under.
func (b *backends) probes() map[string]server.Probe {
	probes := map[string]server.Probe{
		"elasticsearch": b.store.Ping,
	}
	if redisCache, ok := b.cache.(*cache.Redis); ok {
		probes["redis"] = redisCache.Ping
	}
	if b.objects != nil {
		probes["minio"] = b.objects.Ping
	}
	if b.graph != nil {
		probes["neo4j"] = b.graph.Verify
	}

	return probes
}

// close releases the long lived connections held by the backends.
func (b *backends) close(ctx context.Context) {
	log := logger.FromContext(ctx)
	if b.graph != nil {
		if err := b.graph.Close(ctx); err != nil {
			log.Error("closing lineage graph driver", "error", err.Error())
		}
	}
	if closer, ok := b.cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error("closing cache client", "error", err.Error())
		}
	}
}

// provision creates the missing indices, graph constraints and buckets. It
// is idempotent, existing resources are left untouched.
func provision(ctx context.Context, b *backends) error {
	if err := b.store.EnsureIndices(ctx); err != nil {
		return err
	}
	if b.graph != nil {
		if err := b.graph.Bootstrap(ctx); err != nil {
			return err
		}
	}
	if b.objects != nil {
		if err := b.objects.EnsureBucket(ctx); err != nil {
			return err
		}
	}

	return nil
}

// handleError prints err on the command error stream and returns it, so the
// process exits non zero while cobra stays silent.
func handleError(cmd *cobra.Command, err error) error {
	cmd.PrintErrln(err)
	return err
}
