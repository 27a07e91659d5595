// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package catalog implements the domain operations of the WiseFood data
// catalog. Every resource type is described by an Entity descriptor and
// served by a single Service working against the document store, cache,
// object store and lineage graph contracts declared here.
package catalog
