package audit

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	auditctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/audit"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const maxPath = 255

// New creates the operation log middleware.
func New(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !isMutation(c.Method()) {
			return c.Next()
		}

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = response.StatusOf(err)
		}

		path := c.Path()
		if len(path) > maxPath {
			path = path[:maxPath]
		}

		entry := &models.AuditLog{
			UserID: auth.UserID(c),
			Method: c.Method(),
			Path:   path,
			Status: status,
			IP:     c.IP(),
		}

		if recErr := auditctrl.Record(db, entry); recErr != nil {
			log.Warn().Err(recErr).Str("method", entry.Method).Str("path", entry.Path).Msg("failed to record audit log")
		}

		return err
	}
}

func isMutation(method string) bool {
	switch method {
	case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		return true
	default:
		return false
	}
}
