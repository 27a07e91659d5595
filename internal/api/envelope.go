// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/logger"
)

// envelope is the response wrapper of the catalog API: help echoes the
// absolute request URL, successful responses carry a result and failed ones
// an error.
type envelope struct {
	Help    string    `json:"help"`
	Success bool      `json:"success"`
	Result  any       `json:"result,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
}

func respond(c *fiber.Ctx, result any) error {
	return c.JSON(envelope{
		Help:    requestURL(c),
		Success: true,
		Result:  result,
	})
}

// requestURL rebuilds the absolute URL of the current request.
func requestURL(c *fiber.Ctx) string {
	return c.BaseURL() + c.OriginalURL()
}

// ErrorHandler renders handler errors as the error envelope, mapping the
// catalog error taxonomy to HTTP statuses. Errors outside the taxonomy are
// logged and answered with a generic message so internals never reach
// clients.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := catalog.StatusOf(err)
		message := err.Error()

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			status = fiberErr.Code
			message = fiberErr.Message
		} else if status == http.StatusInternalServerError {
			logger.FromContext(c.UserContext()).Error("request failed", "error", err.Error())
			message = "internal server error"
		}

		return c.Status(status).JSON(envelope{
			Help:    requestURL(c),
			Success: false,
			Error:   &apiError{Message: message},
		})
	}
}
