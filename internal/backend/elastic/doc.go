// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

// Package elastic implements the catalog document store on Elasticsearch.
package elastic
