// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// urnScheme prefixes every catalog identifier, e.g. "urn:guide:mediterranean-diet".
const urnScheme = "urn"

// BuildURN assembles the stable identifier of an entity from its type name
// and slug.
func BuildURN(entityName, slug string) string {
	return urnScheme + ":" + entityName + ":" + slug
}

// TypeOf extracts the entity type segment of a URN.
func TypeOf(urn string) (string, error) {
	parts := strings.Split(urn, ":")
	if len(parts) < 3 || parts[0] != urnScheme || parts[1] == "" {
		return "", fmt.Errorf("%w: malformed urn %q", ErrInvalidData, urn)
	}
	return parts[1], nil
}

// SlugOf returns the last segment of a URN, which is the slug the entity was
// registered under.
func SlugOf(urn string) string {
	parts := strings.Split(urn, ":")
	return parts[len(parts)-1]
}

// IsUUID reports whether the identifier parses as a UUID, in which case it
// addresses an entity by its internal id instead of its URN.
func IsUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}
