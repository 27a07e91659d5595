// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
)

// User is the identity extracted from a validated token. Catalog writes use
// Username as the creator of new documents.
type User struct {
	Username string
	Email    string
	Roles    []string
}

// Anonymous is the user attached to requests when authentication is disabled.
var Anonymous = User{Username: "anonymous"}

// WithUser returns a new context carrying the user.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, contextKey, user)
}

// FromContext retrieves the user from the context. If no user is found, the
// anonymous user is returned.
func FromContext(ctx context.Context) User {
	if ctx != nil {
		if user, ok := ctx.Value(contextKey).(User); ok {
			return user
		}
	}

	return Anonymous
}

// Unexported new type so that our context key never collides with another.
type contextKeyType struct{}

// contextKey is the key used for the context to store the user.
var contextKey = contextKeyType{}
