// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package auth validates JWT bearer tokens against a JWKS endpoint and
// carries the authenticated user through the request context.
package auth
