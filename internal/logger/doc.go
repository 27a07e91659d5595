// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package logger exposes the structured logger used across the catalog
// together with helpers to carry it through a context.Context and a fiber
// middleware that logs every request with a per-request identifier.
package logger
