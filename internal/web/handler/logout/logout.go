// Package logout revokes bearer tokens.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

// Path is the path of the logout endpoint.
const Path = "/auth/logout"

// Service is the logout handler service.
type Service struct {
	cfg     *config.Config
	revoked *session.Store
}

// Handler is the logout handler.
var Handler = Service{}

// Init registers the logout route on the authenticated router.
func (s *Service) Init(router fiber.Router, cfg *config.Config, revoked *session.Store) error {
	if router == nil || cfg == nil || revoked == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.revoked = revoked

	router.Post(Path, s.Logout)

	return nil
}

// Logout revokes the presented token until it expires.
func (s *Service) Logout(c *fiber.Ctx) error {
	claims, err := auth.CurrentClaims(c)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "not authenticated")
	}

	if err = s.revoked.Revoke(claims.ID, claims.ExpiresAt.Time); err != nil {
		log.Error().Err(err).Str("jti", claims.ID).Msg("failed to revoke token")
		return apperr.Storage(err)
	}

	log.Info().Str("user_id", claims.Subject).Msg("logged out")

	return response.Success(c, fiber.StatusOK, "logged out", nil)
}
