package handler

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
)

// Service is the interface for an admin API handler service.
// Init registers the routes of the service on the authenticated router.
type Service interface {
	Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error
}
