// Package audit provides the operation log and login log endpoints.
package audit

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	auditctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/audit"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the base path for the audit logs.
	Path = "/audit"

	dateLayout = "2006-01-02"
)

// Service lists the audit logs.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	read := auth.RequirePermission(authService, auth.PermAuditRead)

	router.Route(Path, func(r fiber.Router) {
		r.Get("/logs", read, s.Logs)
		r.Get("/login-logs", read, s.LoginLogs)
	})

	return nil
}

// Logs lists mutating requests, newest first.
func (s *Service) Logs(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	page, err := auditctrl.List(s.db, response.PageQuery(c), filter)
	if err != nil {
		return err
	}

	return response.Page(c, "logs", page)
}

// LoginLogs lists login attempts, newest first.
func (s *Service) LoginLogs(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return err
	}

	page, err := auditctrl.ListLogins(s.db, response.PageQuery(c), filter)
	if err != nil {
		return err
	}

	return response.Page(c, "logs", page)
}

// parseFilter reads user_id, from and to. A bare date in to covers the whole day.
func parseFilter(c *fiber.Ctx) (auditctrl.Filter, error) {
	filter := auditctrl.Filter{UserID: c.Query("user_id")}

	from, err := parseTime(c.Query("from"), false)
	if err != nil {
		return filter, apperr.Validation("invalid from").With("field", "from")
	}

	to, err := parseTime(c.Query("to"), true)
	if err != nil {
		return filter, apperr.Validation("invalid to").With("field", "to")
	}

	filter.From = from
	filter.To = to

	return filter, nil
}

func parseTime(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil //nolint:nilnil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}

	if endOfDay {
		t = t.AddDate(0, 0, 1)
	}

	return &t, nil
}
