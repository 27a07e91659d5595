// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wisefood/data-catalog/internal/auth"
	"github.com/wisefood/data-catalog/internal/catalog"
)

// artifactRoutes are hand laid out: artifacts are fetched by parent, created
// from metadata or a multipart upload, and their files stream back out.
func artifactRoutes(router fiber.Router, service *catalog.Service, entity *catalog.Entity) {
	group := router.Group("/artifacts")

	group.Post("/upload", uploadArtifactHandler(service))
	group.Get("/", fetchArtifactsHandler(service))
	group.Post("/", createHandler(service, entity))
	group.Get("/:identifier/download", downloadArtifactHandler(service))
	group.Get("/:identifier", getHandler(service, entity))
}

func fetchArtifactsHandler(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		parentURN := c.Query("parent_urn")
		if parentURN == "" {
			return fmt.Errorf("%w: the parent_urn query parameter is required", catalog.ErrInvalidData)
		}

		artifacts, err := service.FetchArtifacts(c.UserContext(), parentURN)
		if err != nil {
			return err
		}
		if artifacts == nil {
			artifacts = []map[string]any{}
		}
		return respond(c, artifacts)
	}
}

func uploadArtifactHandler(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := c.FormFile("file")
		if err != nil {
			return fmt.Errorf("%w: a file form field is required: %s", catalog.ErrInvalidData, err)
		}

		content, err := file.Open()
		if err != nil {
			return fmt.Errorf("%w: opening uploaded file: %s", catalog.ErrInvalidData, err)
		}
		defer content.Close()

		user := auth.FromContext(c.UserContext())
		document, err := service.UploadArtifact(c.UserContext(), catalog.UploadSpec{
			ParentURN:   c.FormValue("parent_urn"),
			Filename:    file.Filename,
			ContentType: file.Header.Get(fiber.HeaderContentType),
			Title:       c.FormValue("title"),
			Description: c.FormValue("description"),
			Language:    c.FormValue("language"),
			Content:     content,
			Size:        file.Size,
		}, user.Username)
		if err != nil {
			return err
		}
		return respond(c, document)
	}
}

func downloadArtifactHandler(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		download, err := service.DownloadArtifact(c.UserContext(), pathIdentifier(c))
		if err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, download.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+download.Filename+`"`)
		return c.SendStream(download.Reader, int(download.Size))
	}
}
