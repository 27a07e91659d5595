// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package api mounts the catalog routes and renders the response envelope
// shared by the WiseFood APIs.
package api
