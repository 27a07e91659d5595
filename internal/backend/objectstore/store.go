// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/logger"
)

var _ catalog.ObjectStore = &Store{}

// Store implements catalog.ObjectStore on a single MinIO bucket.
type Store struct {
	client *minio.Client
	bucket string
	region string
}

// NewStoreFromEnv connects to the object store configured by the MINIO_*
// environment variables. It returns nil without error when no credentials
// are configured, the catalog then runs without file uploads.
func NewStoreFromEnv() (*Store, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, nil
	}

	endpoint, secure, err := splitEndpoint(config.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: secure,
		Region: config.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("building minio client: %w", err)
	}
	return &Store{client: client, bucket: config.Bucket, region: config.Region}, nil
}

// splitEndpoint extracts the host from the endpoint URL. The scheme decides
// whether the connection uses TLS.
func splitEndpoint(endpoint string) (string, bool, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("%w: invalid MINIO_ENDPOINT %q", ErrEnvVariablesNotValid, endpoint)
	}
	host := parsed.Host
	if host == "" {
		host = endpoint
	}
	return host, parsed.Scheme == "https", nil
}

// Ping checks that the object store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucket); err != nil {
		return storeError("", err)
	}
	return nil
}

// EnsureBucket creates the configured bucket when it does not exist yet.
func (s *Store) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", s.bucket, storeError("", err))
	}
	if exists {
		logger.FromContext(ctx).Debug("bucket already exists", "bucket", s.bucket)
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("creating bucket %q: %w", s.bucket, storeError("", err))
	}
	logger.FromContext(ctx).Info("created bucket", "bucket", s.bucket)
	return nil
}

// Put implements catalog.ObjectStore.
func (s *Store) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return storeError(key, err)
	}
	return nil
}

// Get implements catalog.ObjectStore. The returned reader streams straight
// from the bucket and must be closed by the caller.
func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, *catalog.ObjectInfo, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, storeError(key, err)
	}

	info, err := object.Stat()
	if err != nil {
		_ = object.Close()
		return nil, nil, storeError(key, err)
	}
	return object, &catalog.ObjectInfo{ContentType: info.ContentType, Size: info.Size}, nil
}

// Stat returns the metadata of an object without opening it.
func (s *Store) Stat(ctx context.Context, key string) (*catalog.ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, storeError(key, err)
	}
	return &catalog.ObjectInfo{ContentType: info.ContentType, Size: info.Size}, nil
}

// Remove implements catalog.ObjectStore.
func (s *Store) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return storeError(key, err)
	}
	return nil
}

// Bucket implements catalog.ObjectStore.
func (s *Store) Bucket() string {
	return s.bucket
}

// storeError normalizes minio errors into the catalog error taxonomy.
func storeError(key string, err error) error {
	response := minio.ToErrorResponse(err)
	switch response.Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: object %q", catalog.ErrNotFound, key)
	}
	return fmt.Errorf("%w: object store: %s", catalog.ErrBadGateway, err)
}
