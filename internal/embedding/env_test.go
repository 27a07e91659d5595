// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv(t *testing.T) {
	t.Run("no provider configured when EMBEDDING_URL is missing", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "")
		config, err := loadConfigFromEnv()
		require.NoError(t, err)
		require.Nil(t, config)
	})

	t.Run("fails when EMBEDDING_URL is invalid URL", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "://invalid-url")
		config, err := loadConfigFromEnv()
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "invalid EMBEDDING_URL")
	})

	t.Run("fails when EMBEDDING_CLIENT_ID is present but EMBEDDING_CLIENT_SECRET is missing", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "https://embeddings.wisefood.gr/embed")
		t.Setenv("EMBEDDING_CLIENT_ID", "client-id")
		t.Setenv("EMBEDDING_CLIENT_SECRET", "")
		config, err := loadConfigFromEnv()
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), errMissingClientSecret.Error())
	})

	t.Run("fails when EMBEDDING_CLIENT_SECRET is present but EMBEDDING_CLIENT_ID is missing", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "https://embeddings.wisefood.gr/embed")
		t.Setenv("EMBEDDING_CLIENT_ID", "")
		t.Setenv("EMBEDDING_CLIENT_SECRET", "client-secret")
		config, err := loadConfigFromEnv()
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), errMissingClientID.Error())
	})

	t.Run("fails when credentials are set without EMBEDDING_TOKEN_URL", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "https://embeddings.wisefood.gr/embed")
		t.Setenv("EMBEDDING_CLIENT_ID", "client-id")
		t.Setenv("EMBEDDING_CLIENT_SECRET", "client-secret")
		t.Setenv("EMBEDDING_TOKEN_URL", "")
		config, err := loadConfigFromEnv()
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), errMissingTokenURL.Error())
	})

	t.Run("fails when ES_DIM is not positive", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "https://embeddings.wisefood.gr/embed")
		t.Setenv("ES_DIM", "0")
		config, err := loadConfigFromEnv()
		require.Error(t, err)
		require.Nil(t, config)
		require.ErrorIs(t, err, ErrEnvVariablesNotValid)
	})

	t.Run("succeeds with minimal valid config", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "https://embeddings.wisefood.gr/embed")
		config, err := loadConfigFromEnv()
		require.NoError(t, err)
		require.NotNil(t, config)
		require.Equal(t, "https://embeddings.wisefood.gr/embed", config.URL)
		require.Equal(t, 384, config.Dims)
	})

	t.Run("succeeds with full valid config", func(t *testing.T) {
		t.Setenv("EMBEDDING_URL", "https://embeddings.wisefood.gr/embed")
		t.Setenv("EMBEDDING_TOKEN_URL", "https://auth.wisefood.gr/oauth/token")
		t.Setenv("EMBEDDING_CLIENT_ID", "client-id")
		t.Setenv("EMBEDDING_CLIENT_SECRET", "client-secret")
		t.Setenv("ES_DIM", "768")
		config, err := loadConfigFromEnv()
		require.NoError(t, err)
		require.NotNil(t, config)
		require.Equal(t, "client-id", config.ClientID)
		require.Equal(t, "client-secret", config.ClientSecret)
		require.Equal(t, "https://auth.wisefood.gr/oauth/token", config.TokenURL)
		require.Equal(t, 768, config.Dims)
	})
}
