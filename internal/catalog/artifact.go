// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/wisefood/data-catalog/internal/logger"
	"github.com/wisefood/data-catalog/internal/schema"
)

const (
	// MaxUploadSize caps artifact uploads at 1 GiB.
	MaxUploadSize = 1_073_741_824

	// artifactFetchLimit bounds the artifacts attached to a single parent.
	artifactFetchLimit = 1000

	defaultContentType = "application/octet-stream"

	// Artifact documents discriminate between files registered by URL and
	// files uploaded into the object store.
	artifactTypeRemote = "artifact"
	artifactTypeFile   = "file"
)

// UploadSpec carries one file upload and its metadata.
type UploadSpec struct {
	ParentURN   string
	Filename    string
	ContentType string
	Title       string
	Description string
	Language    string
	Content     io.Reader
	Size        int64
}

// Download is an artifact payload stream with its stored metadata.
type Download struct {
	Reader      io.ReadCloser
	ContentType string
	Size        int64
	Filename    string
}

// FetchArtifacts lists the artifacts attached to a parent resource.
func (s *Service) FetchArtifacts(ctx context.Context, parentURN string) ([]map[string]any, error) {
	if err := s.requireParent(ctx, parentURN); err != nil {
		return nil, err
	}
	return s.artifactsByParent(ctx, parentURN)
}

// CreateArtifact registers the metadata of a file that already lives at a
// reachable URL.
func (s *Service) CreateArtifact(ctx context.Context, payload []byte, creator string) (map[string]any, error) {
	entity := s.entities[EntityArtifact]
	document, err := entity.DecodeCreate(payload)
	if err != nil {
		return nil, err
	}

	parentURN, _ := document["parent_urn"].(string)
	if err := s.requireParent(ctx, parentURN); err != nil {
		return nil, err
	}
	s.invalidate(ctx, parentURN)

	document["type"] = artifactTypeRemote
	s.upsertSystemFields(entity, document, creator, false)
	id, _ := document["id"].(string)
	if err := s.store.Index(ctx, entity.Collection, id, document); err != nil {
		return nil, fmt.Errorf("creating artifact: %w", err)
	}
	return s.Get(ctx, entity, id)
}

// UploadArtifact stores the uploaded file in the object store and registers
// its metadata. A failed registration removes the stored object again.
func (s *Service) UploadArtifact(ctx context.Context, upload UploadSpec, creator string) (map[string]any, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", ErrNotAllowed)
	}
	if upload.Size == 0 {
		return nil, fmt.Errorf("%w: cannot upload an empty file", ErrInvalidData)
	}
	if upload.Size > MaxUploadSize {
		return nil, fmt.Errorf("%w: file size %d exceeds the %d bytes limit", ErrInvalidData, upload.Size, MaxUploadSize)
	}
	if err := s.requireParent(ctx, upload.ParentURN); err != nil {
		return nil, err
	}
	s.invalidate(ctx, upload.ParentURN)

	id := uuid.NewString()
	key := artifactObjectKey(upload.ParentURN, id, upload.Filename)
	contentType := upload.ContentType
	if contentType == "" {
		contentType = defaultContentType
	}

	if err := s.objects.Put(ctx, key, upload.Content, upload.Size, contentType); err != nil {
		return nil, fmt.Errorf("uploading file to object storage: %w", err)
	}

	title := upload.Title
	if title == "" {
		title = upload.Filename
	}
	document, err := toDocument(&schema.Artifact{
		ID:          id,
		ParentURN:   upload.ParentURN,
		Type:        artifactTypeFile,
		Title:       title,
		Description: upload.Description,
		FileURL:     s.downloadURL(id),
		FileS3URL:   "s3://" + s.objects.Bucket() + "/" + key,
		FileType:    contentType,
		FileSize:    upload.Size,
		Language:    upload.Language,
	})
	if err != nil {
		return nil, err
	}

	entity := s.entities[EntityArtifact]
	s.upsertSystemFields(entity, document, creator, false)
	if err := s.store.Index(ctx, entity.Collection, id, document); err != nil {
		if removeErr := s.objects.Remove(ctx, key); removeErr != nil {
			logger.FromContext(ctx).Error("failed to remove orphaned object after indexing error",
				"key", key, "error", removeErr.Error())
		} else {
			logger.FromContext(ctx).Warn("removed orphaned object after indexing error", "key", key)
		}
		return nil, fmt.Errorf("creating artifact metadata: %w", err)
	}
	return s.Get(ctx, entity, id)
}

// DownloadArtifact opens the stored file of an artifact.
func (s *Service) DownloadArtifact(ctx context.Context, identifier string) (*Download, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("%w: object storage is not configured", ErrNotAllowed)
	}

	document, err := s.Get(ctx, s.entities[EntityArtifact], identifier)
	if err != nil {
		return nil, err
	}

	s3URL, _ := document["file_s3_url"].(string)
	if s3URL == "" {
		return nil, fmt.Errorf("%w: artifact %q carries no stored file, fetch its file_url directly", ErrNotFound, identifier)
	}
	key, err := objectKeyFromS3URL(s3URL, s.objects.Bucket())
	if err != nil {
		return nil, err
	}

	reader, info, err := s.objects.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("fetching artifact file %q: %w", key, err)
	}

	contentType := info.ContentType
	if contentType == "" {
		contentType, _ = document["file_type"].(string)
	}
	return &Download{
		Reader:      reader,
		ContentType: contentType,
		Size:        info.Size,
		Filename:    path.Base(key),
	}, nil
}

// requireParent checks that the resource an artifact is attached to exists.
func (s *Service) requireParent(ctx context.Context, parentURN string) error {
	parentType, err := TypeOf(parentURN)
	if err != nil {
		return err
	}
	parent, ok := s.entities[parentType]
	if !ok {
		return fmt.Errorf("%w: unknown parent entity type %q", ErrInvalidData, parentType)
	}

	if _, err := s.store.Get(ctx, parent.Collection, parentURN); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("%w: parent entity %q", ErrNotFound, parentURN)
		}
		return fmt.Errorf("checking parent entity %q: %w", parentURN, err)
	}
	return nil
}

func (s *Service) artifactsByParent(ctx context.Context, parentURN string) ([]map[string]any, error) {
	spec := schema.SearchSpec{
		Limit: artifactFetchLimit,
		FQ:    []string{`parent_urn:"` + parentURN + `"`},
	}
	result, err := s.store.Search(ctx, s.entities[EntityArtifact].Collection, spec, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching artifacts of %q: %w", parentURN, err)
	}
	return result.Results, nil
}

func (s *Service) downloadURL(id string) string {
	return s.externalURL + s.contextPath + "/api/v1/artifacts/" + id + "/download"
}

// artifactObjectKey organizes stored files by parent, e.g.
// "guide/nutrition-basics-gr/<uuid>.pdf".
func artifactObjectKey(parentURN, id, filename string) string {
	name := id + strings.ToLower(path.Ext(filename))
	parts := strings.Split(parentURN, ":")
	if len(parts) >= 3 {
		return parts[1] + "/" + parts[2] + "/" + name
	}
	return "artifacts/" + name
}

func objectKeyFromS3URL(raw, bucket string) (string, error) {
	prefix := "s3://" + bucket + "/"
	if !strings.HasPrefix(raw, prefix) {
		return "", fmt.Errorf("%w: unexpected artifact object url %q", ErrInternal, raw)
	}
	return strings.TrimPrefix(raw, prefix), nil
}
