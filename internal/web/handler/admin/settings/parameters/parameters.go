// Package parameters provides the system parameters endpoints.
package parameters

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	controller "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/parameters"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the path to the system parameters.
	Path = "/settings/parameters"
)

// Service is the system parameters handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the system parameters handler.
var Handler = Service{}

// Init initializes the system parameters handler.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg

	// register routes with permission checks
	router.Get(Path,
		auth.RequirePermission(authService, auth.PermSettingsRead),
		s.Get,
	)
	router.Put(Path,
		auth.RequirePermission(authService, auth.PermSettingsWrite),
		s.Put,
	)

	return nil
}

// Get returns the current parameters, the defaults when none were saved.
func (s *Service) Get(c *fiber.Ctx) error {
	params := &controller.Parameters{}
	if err := params.Load(s.db); err != nil {
		log.Error().Err(err).Msg("failed to load system parameters")

		return err
	}

	return c.JSON(fiber.Map{"parameters": params})
}

// Put merges the body over the current parameters and stores the result.
// Fields missing from the body keep their current value.
func (s *Service) Put(c *fiber.Ctx) error {
	params := &controller.Parameters{}
	if err := params.Load(s.db); err != nil {
		return err
	}

	if err := response.Bind(c, params); err != nil {
		return err
	}

	if err := params.Save(s.db); err != nil {
		return err
	}

	log.Info().Str("user_id", auth.UserID(c)).Interface("parameters", params).Msg("system parameters updated")

	return response.Success(c, fiber.StatusOK, "parameters updated", fiber.Map{"parameters": params})
}
