// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wisefood/data-catalog/internal/catalog"
)

// newClusterStub stands in for an empty Elasticsearch cluster and records
// the indices created against it. The product header is mandatory, without
// it the client rejects every response.
func newClusterStub(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()

	var mu sync.Mutex
	var created []string

	stub := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			mu.Lock()
			created = append(created, strings.TrimPrefix(r.URL.Path, "/"))
			mu.Unlock()
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"acknowledged": true}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	t.Cleanup(stub.Close)

	return stub, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), created...)
	}
}

// setBootstrapEnv points the commands at the given cluster with every
// optional backend disabled.
func setBootstrapEnv(t *testing.T, clusterURL string) {
	t.Helper()

	t.Setenv("ELASTICSEARCH_URL", clusterURL)
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("NEO4J_URI", "")
	t.Setenv("MINIO_ROOT", "")
	t.Setenv("MINIO_ROOT_PASSWORD", "")
	t.Setenv("EMBEDDING_URL", "")
}

func TestBootstrapExecute(t *testing.T) {
	t.Run("creates every missing index", func(t *testing.T) {
		cluster, created := newClusterStub(t)
		setBootstrapEnv(t, cluster.URL)

		opts := &bootstrapOptions{}
		require.NoError(t, opts.execute(t.Context()))
		assert.Equal(t, []string{
			"articles", "artifacts", "guides",
			"organizations", "persons", "policies", "recipes",
		}, created())
	})

	t.Run("unreachable clusters abort the run", func(t *testing.T) {
		cluster := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		cluster.Close()
		setBootstrapEnv(t, cluster.URL)

		err := (&bootstrapOptions{}).execute(t.Context())
		assert.ErrorIs(t, err, catalog.ErrBadGateway)
	})

	t.Run("returns immediately when a run is already in flight", func(t *testing.T) {
		opts := &bootstrapOptions{}
		opts.lock.Lock()
		defer opts.lock.Unlock()

		assert.NoError(t, opts.execute(t.Context()))
	})
}

func TestBootstrapCmd(t *testing.T) {
	t.Run("rejects positional arguments", func(t *testing.T) {
		cmd := BootstrapCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		cmd.SetArgs([]string{"extra"})

		err := cmd.ExecuteContext(t.Context())
		assert.EqualError(t, err, `unknown command "extra" for "bootstrap"`)
	})

	t.Run("prints failures on the error stream", func(t *testing.T) {
		cluster := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		cluster.Close()
		setBootstrapEnv(t, cluster.URL)

		errBuffer := new(bytes.Buffer)
		cmd := BootstrapCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(errBuffer)
		cmd.SetArgs([]string{})

		err := cmd.ExecuteContext(t.Context())
		require.ErrorIs(t, err, catalog.ErrBadGateway)
		assert.Contains(t, errBuffer.String(), "upstream backend unavailable")
	})
}
