// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/wisefood/data-catalog/internal/auth"
	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/schema"
)

func listHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ids, err := service.List(c.UserContext(), entity, c.QueryInt("limit"), c.QueryInt("offset"))
		if err != nil {
			return err
		}
		return respond(c, ids)
	}
}

func fetchHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		documents, err := service.Fetch(c.UserContext(), entity, c.QueryInt("limit"), c.QueryInt("offset"))
		if err != nil {
			return err
		}
		return respond(c, documents)
	}
}

func getHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		document, err := service.Get(c.UserContext(), entity, pathIdentifier(c))
		if err != nil {
			return err
		}
		return respond(c, document)
	}
}

func createHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := auth.FromContext(c.UserContext())
		document, err := service.Create(c.UserContext(), entity, c.Body(), user.Username)
		if err != nil {
			return err
		}
		return respond(c, document)
	}
}

func patchHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		document, err := service.Patch(c.UserContext(), entity, pathIdentifier(c), c.Body())
		if err != nil {
			return err
		}
		return respond(c, document)
	}
}

func deleteHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result, err := service.Delete(c.UserContext(), entity, pathIdentifier(c))
		if err != nil {
			return err
		}
		return respond(c, result)
	}
}

func searchHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var spec schema.SearchSpec
		if body := c.Body(); len(body) > 0 {
			if err := schema.DecodeStrict(body, &spec); err != nil {
				return fmt.Errorf("%w: %s", catalog.ErrInvalidData, err)
			}
		}

		result, err := service.Search(c.UserContext(), entity, spec)
		if err != nil {
			return err
		}
		return respond(c, result)
	}
}

// semanticQuery is the body of a semantic search request. k bounds the
// number of neighbours and falls back to the service default.
type semanticQuery struct {
	Q string `json:"q"`
	K int    `json:"k,omitempty" validate:"min=0"`
}

func semanticSearchHandler(service *catalog.Service, entity *catalog.Entity) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var query semanticQuery
		if err := schema.DecodeStrict(c.Body(), &query); err != nil {
			return fmt.Errorf("%w: %s", catalog.ErrInvalidData, err)
		}

		result, err := service.SemanticSearch(c.UserContext(), entity, query.Q, query.K)
		if err != nil {
			return err
		}
		return respond(c, result)
	}
}

// pathIdentifier returns the :identifier parameter. URNs travel as a single
// path segment, but clients may still escape their colons.
func pathIdentifier(c *fiber.Ctx) string {
	raw := c.Params("identifier")
	if identifier, err := url.PathUnescape(raw); err == nil {
		return identifier
	}
	return raw
}
