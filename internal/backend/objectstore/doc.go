// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package objectstore holds uploaded artifact files in a MinIO bucket.
package objectstore
