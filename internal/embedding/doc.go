// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package embedding computes dense vector representations of catalog text
// through an external embedding service. The provider is optional: without
// EMBEDDING_URL the catalog runs with semantic search disabled.
package embedding
