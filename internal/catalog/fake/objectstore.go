// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package fake

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/wisefood/data-catalog/internal/catalog"
)

var _ catalog.ObjectStore = &ObjectStore{}

type storedObject struct {
	data []byte
	info catalog.ObjectInfo
}

// ObjectStore keeps objects in memory and records removals.
type ObjectStore struct {
	tb testing.TB

	objects map[string]storedObject

	RemovedKeys []string

	// PutErr fails Put when set. Err fails every call.
	Err    error
	PutErr error
}

func NewObjectStore(tb testing.TB) *ObjectStore {
	tb.Helper()
	return &ObjectStore{
		tb:      tb,
		objects: map[string]storedObject{},
	}
}

func (s *ObjectStore) Put(_ context.Context, key string, reader io.Reader, size int64, contentType string) error {
	s.tb.Helper()
	if s.Err != nil {
		return s.Err
	}
	if s.PutErr != nil {
		return s.PutErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.objects[key] = storedObject{
		data: data,
		info: catalog.ObjectInfo{ContentType: contentType, Size: size},
	}
	return nil
}

func (s *ObjectStore) Get(_ context.Context, key string) (io.ReadCloser, *catalog.ObjectInfo, error) {
	s.tb.Helper()
	if s.Err != nil {
		return nil, nil, s.Err
	}

	object, found := s.objects[key]
	if !found {
		return nil, nil, fmt.Errorf("%w: object %q", catalog.ErrNotFound, key)
	}
	info := object.info
	return io.NopCloser(bytes.NewReader(object.data)), &info, nil
}

func (s *ObjectStore) Remove(_ context.Context, key string) error {
	s.tb.Helper()
	if s.Err != nil {
		return s.Err
	}

	delete(s.objects, key)
	s.RemovedKeys = append(s.RemovedKeys, key)
	return nil
}

func (s *ObjectStore) Bucket() string {
	s.tb.Helper()
	return "test-bucket"
}

// Object returns the stored bytes for a key and whether it exists.
func (s *ObjectStore) Object(key string) ([]byte, bool) {
	s.tb.Helper()
	object, found := s.objects[key]
	return object.data, found
}
