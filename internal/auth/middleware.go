// Copyright WiseFood
// SPDX-License-Identifier: Apache-2.0

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/wisefood/data-catalog/internal/catalog"
	"github.com/wisefood/data-catalog/internal/logger"
)

// Authenticator validates bearer tokens on incoming requests.
type Authenticator struct {
	config

	keys *jwksCache
}

// NewAuthenticatorFromEnv builds the authenticator from the AUTH_*
// environment variables. Unless authentication is explicitly disabled a JWKS
// URL must be configured.
func NewAuthenticatorFromEnv() (*Authenticator, error) {
	config, err := loadConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return &Authenticator{
		config: *config,
		keys:   newJWKSCache(config.JWKSURL),
	}, nil
}

// Middleware returns a handler that authenticates the request and stores the
// user in the request context. With authentication disabled every request
// proceeds as the anonymous user.
func (a *Authenticator) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if a.Disabled {
			c.SetUserContext(WithUser(c.UserContext(), Anonymous))
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			return fmt.Errorf("%w: missing bearer token", catalog.ErrUnauthorized)
		}

		user, err := a.validate(c.UserContext(), token)
		if err != nil {
			// The rejection reason is for the operator, the client only
			// learns that the token did not pass.
			logger.FromContext(c.UserContext()).Debug("bearer token rejected", "error", err.Error())
			return fmt.Errorf("%w: invalid bearer token", catalog.ErrUnauthorized)
		}

		c.SetUserContext(WithUser(c.UserContext(), user))
		return c.Next()
	}
}

func (a *Authenticator) validate(ctx context.Context, tokenString string) (User, error) {
	// The first parse is only to read the kid header, nothing from it is
	// trusted before the signature check below.
	unverified, _, err := new(jwt.Parser).ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return User{}, fmt.Errorf("parsing token: %w", err)
	}

	kid, ok := unverified.Header["kid"].(string)
	if !ok {
		return User{}, errors.New("token has no kid header")
	}

	key, err := a.keys.GetKey(ctx, kid)
	if err != nil {
		return User{}, err
	}

	options := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if a.Issuer != "" {
		options = append(options, jwt.WithIssuer(a.Issuer))
	}
	if a.Audience != "" {
		options = append(options, jwt.WithAudience(a.Audience))
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return key, nil
	}, options...)
	if err != nil {
		return User{}, fmt.Errorf("validating token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return User{}, errors.New("unexpected claims type")
	}
	return userFromClaims(claims), nil
}

// userFromClaims maps Keycloak shaped claims to a User. The username falls
// back to the token subject when preferred_username is absent.
func userFromClaims(claims jwt.MapClaims) User {
	user := User{
		Username: stringClaim(claims, "preferred_username"),
		Email:    stringClaim(claims, "email"),
	}
	if user.Username == "" {
		user.Username = stringClaim(claims, "sub")
	}

	if realmAccess, ok := claims["realm_access"].(map[string]any); ok {
		if roles, ok := realmAccess["roles"].([]any); ok {
			for _, role := range roles {
				if name, ok := role.(string); ok {
					user.Roles = append(user.Roles, name)
				}
			}
		}
	}
	return user
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
