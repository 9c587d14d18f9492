package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	fiberlogger "github.com/NiceSpeak/nicespeak-admin/internal/logger/adapter/fiber"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

const (
	// LocalUserID holds the authenticated user id.
	LocalUserID = fiberlogger.LocalUserID
	// LocalClaims holds the *Claims of the presented token.
	LocalClaims = "claims"

	bearerPrefix = "bearer "
)

// RequireAuth creates Fiber middleware that accepts only requests carrying a valid, unrevoked bearer token.
func RequireAuth(tokens *TokenIssuer, revoked *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := BearerToken(c)
		if raw == "" {
			return apperr.New(apperr.KindUnauthorized, "missing bearer token")
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			log.Debug().Err(err).Msg("rejected token")
			return apperr.New(apperr.KindUnauthorized, "invalid token")
		}

		isRevoked, err := revoked.IsRevoked(claims.ID)
		if err != nil {
			log.Error().Err(err).Str("jti", claims.ID).Msg("failed to read token store")
			return apperr.Storage(err)
		}

		if isRevoked {
			return apperr.New(apperr.KindUnauthorized, ErrTokenRevoked.Error())
		}

		c.Locals(LocalUserID, claims.Subject)
		c.Locals(LocalClaims, claims)

		return c.Next()
	}
}

// RequirePermission creates Fiber middleware that requires a specific permission.
// It must run after RequireAuth.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := UserID(c)
		if userID == "" {
			return apperr.New(apperr.KindUnauthorized, "not authenticated")
		}

		hasPermission, err := authService.HasPermission(userID, permission)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Str("permission", permission).
				Msg("Failed to check permission")

			return err
		}

		if !hasPermission {
			log.Warn().Str("user_id", userID).Str("permission", permission).
				Msg("User lacks required permission")

			return apperr.New(apperr.KindForbidden, "missing permission").With("permission", permission)
		}

		return c.Next()
	}
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}

	return strings.TrimSpace(header[len(bearerPrefix):])
}

// UserID returns the authenticated user id or an empty string.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)

	return id
}

// CurrentClaims returns the claims of the authenticated request.
func CurrentClaims(c *fiber.Ctx) (*Claims, error) {
	claims, ok := c.Locals(LocalClaims).(*Claims)
	if !ok || claims == nil {
		return nil, errors.New("no claims in request context")
	}

	return claims, nil
}
