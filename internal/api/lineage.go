// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/schema"
)

// lineageEdge is the body of an edge registration.
type lineageEdge struct {
	FromURN  string `json:"from_urn" validate:"required"`
	ToURN    string `json:"to_urn" validate:"required"`
	Relation string `json:"relation" validate:"required"`
}

func lineageRoutes(router fiber.Router, service *catalog.Service) {
	group := router.Group("/lineage")

	group.Post("/", addRelationHandler(service))
	group.Get("/:identifier", relationsHandler(service))
}

func addRelationHandler(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var edge lineageEdge
		if err := schema.DecodeStrict(c.Body(), &edge); err != nil {
			return fmt.Errorf("%w: %s", catalog.ErrInvalidData, err)
		}

		if err := service.AddRelation(c.UserContext(), edge.FromURN, edge.ToURN, edge.Relation); err != nil {
			return err
		}
		return respond(c, fiber.Map{"ok": true})
	}
}

func relationsHandler(service *catalog.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		relations, err := service.Relations(c.UserContext(), pathIdentifier(c))
		if err != nil {
			return err
		}
		if relations == nil {
			relations = []catalog.Relation{}
		}
		return respond(c, relations)
	}
}
