// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wisefood/data-catalog/internal/catalog"
)

// Config wires the routes to the catalog service.
type Config struct {
	// Service executes the catalog operations.
	Service *catalog.Service

	// Authenticate guards every route except the ping when set.
	Authenticate fiber.Handler

	// ContextPath prefixes the mount point when the service runs behind a
	// path preserving proxy.
	ContextPath string
}

// Register mounts the catalog API under <context path>/api/v1.
func Register(app *fiber.App, config Config) error {
	if config.Service == nil {
		return errors.New("api: a catalog service is required")
	}

	root := app.Group(config.ContextPath + "/api/v1")
	root.Get("/system/ping", ping)

	// Everything registered from here on requires authentication.
	if config.Authenticate != nil {
		root.Use(config.Authenticate)
	}

	for _, entity := range config.Service.Entities() {
		if entity.Name == catalog.EntityArtifact {
			artifactRoutes(root, config.Service, entity)
			continue
		}
		entityRoutes(root, config.Service, entity)
	}
	lineageRoutes(root, config.Service)
	return nil
}

func ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"pong": true})
}

// entityRoutes registers the handlers for the operations an entity exposes.
// Static segments go first so they are never captured as identifiers.
func entityRoutes(router fiber.Router, service *catalog.Service, entity *catalog.Entity) {
	group := router.Group("/" + entity.Collection)

	if entity.Supports(catalog.OpFetch) {
		group.Get("/fetch", fetchHandler(service, entity))
	}
	if entity.Supports(catalog.OpSearch) {
		group.Post("/search", searchHandler(service, entity))
	}
	if entity.Supports(catalog.OpSemanticSearch) {
		group.Post("/semantic-search", semanticSearchHandler(service, entity))
	}
	if entity.Supports(catalog.OpList) {
		group.Get("/", listHandler(service, entity))
	}
	if entity.Supports(catalog.OpCreate) {
		group.Post("/", createHandler(service, entity))
	}
	if entity.Supports(catalog.OpGet) {
		group.Get("/:identifier", getHandler(service, entity))
	}
	if entity.Supports(catalog.OpPatch) {
		group.Patch("/:identifier", patchHandler(service, entity))
	}
	if entity.Supports(catalog.OpDelete) {
		group.Delete("/:identifier", deleteHandler(service, entity))
	}
}
