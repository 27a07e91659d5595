// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package cache implements the catalog entity cache on Redis.
package cache
