// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package graph mirrors catalog entities and their relations in Neo4j.
package graph
