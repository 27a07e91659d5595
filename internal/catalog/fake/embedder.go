// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"context"
	"testing"

	"github.com/wisefood/data-catalog/internal/embedding"
)

var _ embedding.Provider = &Embedder{}

// Embedder returns a fixed vector for every text and records its inputs.
type Embedder struct {
	tb testing.TB

	vector []float32

	EmbeddedTexts []string

	// Err fails every call when set.
	Err error
}

func NewEmbedder(tb testing.TB, vector []float32) *Embedder {
	tb.Helper()
	return &Embedder{tb: tb, vector: vector}
}

func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.tb.Helper()
	if e.Err != nil {
		return nil, e.Err
	}

	e.EmbeddedTexts = append(e.EmbeddedTexts, text)
	return e.vector, nil
}

func (e *Embedder) Dimensions() int {
	e.tb.Helper()
	return len(e.vector)
}
