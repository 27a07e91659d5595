// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package server contains the HTTP server of the data catalog.
// It sets up the Fiber application, configures middleware for logging,
// and defines routes for health checks and service status.
package server
