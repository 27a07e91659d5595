// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"context"
	"fmt"
	"testing"

	"github.com/wisefood/data-catalog/internal/catalog"
)

var _ catalog.Cache = &Cache{}

// Cache is an in memory catalog.Cache that records its calls.
type Cache struct {
	tb testing.TB

	values map[string][]byte

	SetKeys     []string
	DeletedKeys []string

	// Err fails every call when set.
	Err error
}

func NewCache(tb testing.TB) *Cache {
	tb.Helper()
	return &Cache{
		tb:     tb,
		values: map[string][]byte{},
	}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.tb.Helper()
	if c.Err != nil {
		return nil, c.Err
	}

	value, found := c.values[key]
	if !found {
		return nil, fmt.Errorf("%w: %q", catalog.ErrCacheMiss, key)
	}
	return value, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	c.tb.Helper()
	if c.Err != nil {
		return c.Err
	}

	c.values[key] = value
	c.SetKeys = append(c.SetKeys, key)
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.tb.Helper()
	if c.Err != nil {
		return c.Err
	}

	delete(c.values, key)
	c.DeletedKeys = append(c.DeletedKeys, key)
	return nil
}

// Cached returns the raw cached value and whether it exists.
func (c *Cache) Cached(key string) ([]byte, bool) {
	c.tb.Helper()
	value, found := c.values[key]
	return value, found
}
