// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package embedding

import (
	"context"
	"math"
)

// Provider computes dense vector representations of text.
type Provider interface {
	// Embed returns the L2 normalized vector of the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimensions is the size of the vectors this provider produces.
	Dimensions() int
}

// normalize scales a vector to unit length. Zero vectors pass unchanged.
func normalize(vector []float32) []float32 {
	var squares float64
	for _, value := range vector {
		squares += float64(value) * float64(value)
	}
	if squares == 0 {
		return vector
	}

	norm := math.Sqrt(squares)
	normalized := make([]float32, len(vector))
	for i, value := range vector {
		normalized[i] = float32(float64(value) / norm)
	}
	return normalized
}
