// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"errors"
	"net/http"
)

// Sentinel errors of the catalog error taxonomy. Operations wrap these with
// fmt.Errorf("%w: ...") so callers can branch with errors.Is while the
// renderer maps them to HTTP statuses.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrInvalidData  = errors.New("invalid data")
	ErrNotAllowed   = errors.New("operation not allowed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrBadGateway   = errors.New("upstream backend unavailable")

	// ErrCacheMiss is returned by Cache.Get when the key is absent. It never
	// leaves the service layer.
	ErrCacheMiss = errors.New("cache miss")
)

// StatusOf maps a catalog error to its HTTP status code. Errors outside the
// taxonomy map to 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrInvalidData):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotAllowed):
		return http.StatusMethodNotAllowed
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrBadGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
