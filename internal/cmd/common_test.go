// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefood/data-catalog/internal/backend/cache"
	"github.com/wisefood/data-catalog/internal/backend/elastic"
	"github.com/wisefood/data-catalog/internal/catalog"
)

func TestConnectBackends(t *testing.T) {
	t.Run("optional backends stay disabled", func(t *testing.T) {
		setBootstrapEnv(t, "http://127.0.0.1:9200")

		backends, err := connectBackends()
		require.NoError(t, err)
		require.NotNil(t, backends.store)
		assert.IsType(t, cache.Noop{}, backends.cache)
		assert.Nil(t, backends.objects)
		assert.Nil(t, backends.graph)
		assert.Nil(t, backends.embedder)

		probes := backends.probes()
		require.Len(t, probes, 1)
		assert.Contains(t, probes, "elasticsearch")
	})

	t.Run("a full environment enables every backend", func(t *testing.T) {
		t.Setenv("ELASTICSEARCH_URL", "http://127.0.0.1:9200")
		t.Setenv("CACHE_ENABLED", "true")
		t.Setenv("REDIS_HOST", "127.0.0.1")
		t.Setenv("MINIO_ENDPOINT", "http://127.0.0.1:9000")
		t.Setenv("MINIO_ROOT", "minio")
		t.Setenv("MINIO_ROOT_PASSWORD", "secret")
		t.Setenv("NEO4J_URI", "bolt://127.0.0.1:7687")
		t.Setenv("NEO4J_PASSWORD", "secret")
		t.Setenv("EMBEDDING_URL", "http://127.0.0.1:9100/embed")

		backends, err := connectBackends()
		require.NoError(t, err)
		defer backends.close(t.Context())

		assert.NotNil(t, backends.objects)
		assert.NotNil(t, backends.graph)
		assert.NotNil(t, backends.embedder)

		probes := backends.probes()
		require.Len(t, probes, 4)
		for _, name := range []string{"elasticsearch", "redis", "minio", "neo4j"} {
			assert.Contains(t, probes, name)
		}
	})

	t.Run("surfaces invalid backend configuration", func(t *testing.T) {
		t.Setenv("ELASTICSEARCH_URL", "not a url")

		backends, err := connectBackends()
		require.ErrorIs(t, err, elastic.ErrEnvVariablesNotValid)
		assert.Nil(t, backends)
	})
}

func TestBackendsService(t *testing.T) {
	// The disabled backends are concrete nil pointers. The service has to
	// read them as absent, not as non nil interfaces wrapping nothing.
	setBootstrapEnv(t, "http://127.0.0.1:9200")

	backends, err := connectBackends()
	require.NoError(t, err)

	service, err := backends.service("http://localhost:8080", "")
	require.NoError(t, err)

	err = service.AddRelation(t.Context(), "urn:guide:a", "urn:recipe:b", "DERIVED_FROM")
	require.ErrorIs(t, err, catalog.ErrNotAllowed)
	assert.ErrorContains(t, err, "the lineage graph is not configured")
}

func TestHandleError(t *testing.T) {
	t.Parallel()

	errBuffer := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetErr(errBuffer)

	err := handleError(cmd, assert.AnError)
	assert.Equal(t, assert.AnError, err)
	assert.Equal(t, assert.AnError.Error()+"\n", errBuffer.String())
}
