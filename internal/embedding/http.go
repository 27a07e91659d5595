// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/wisefood/data-catalog/internal/info"
)

var _ Provider = &HTTPProvider{}

// HTTPProvider calls an external embedding service over HTTP.
type HTTPProvider struct {
	config

	client atomic.Pointer[http.Client]
}

// NewProviderFromEnv builds the provider from the EMBEDDING_* environment
// variables. It returns nil without error when EMBEDDING_URL is unset.
func NewProviderFromEnv() (*HTTPProvider, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}
	return &HTTPProvider{
		config: *config,
	}, nil
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// Embed implements Provider.
func (p *HTTPProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	request.Header.Set("User-Agent", userAgentString())
	request.Header.Set("Accept", "application/json")
	request.Header.Set("Content-Type", "application/json")

	//nolint:contextcheck // need a new context because it will be used in token requests
	resp, err := p.getClient(context.Background()).Do(request)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, errors.New("invalid token or insufficient permissions")
	default:
		decoder := json.NewDecoder(resp.Body)
		var respBody map[string]any
		if err := decoder.Decode(&respBody); err == nil {
			if message, ok := respBody["message"].(string); ok {
				return nil, errors.New(message)
			}
		}
		return nil, fmt.Errorf("embedding service responded with status %d", resp.StatusCode)
	}

	var embedded embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedded); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(embedded.Embedding) != p.Dims {
		return nil, fmt.Errorf("embedding has %d dimensions, expected %d", len(embedded.Embedding), p.Dims)
	}
	return normalize(embedded.Embedding), nil
}

// Dimensions implements Provider.
func (p *HTTPProvider) Dimensions() int {
	return p.Dims
}

// userAgentString builds the User-Agent header sent to the embedding service.
func userAgentString() string {
	return info.AppName + "/" + info.Version
}

func (p *HTTPProvider) getClient(ctx context.Context) *http.Client {
	client := p.client.Load()
	if client != nil {
		return client
	}

	client = &http.Client{}
	client.Transport = newTransport(ctx, p.TokenURL, p.ClientID, p.ClientSecret)
	p.client.Store(client)
	return client
}
