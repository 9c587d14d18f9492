// Package profile describes the authenticated account to the admin panel.
package profile

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	menuctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/menu"
	rolectrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/role"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
)

// Path is the path of the current account.
const Path = "/auth/me"

// Service serves the current account.
type Service struct {
	handler.Service
	cfg         *config.Config
	db          *gorm.DB
	authService *auth.Service
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. The route needs authentication only.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil || authService == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db
	s.authService = authService

	router.Get(Path, s.Me)

	return nil
}

// Me returns the account, its role, its permission codes and the menu tree the role may see.
// Inactive menus and menus below an ungranted parent are left out of the tree.
func (s *Service) Me(c *fiber.Ctx) error {
	user, err := s.authService.GetUser(auth.UserID(c))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return apperr.New(apperr.KindUnauthorized, "account no longer exists")
		}

		return err
	}

	if !user.Active {
		return apperr.New(apperr.KindUnauthorized, "account is disabled")
	}

	permissions, err := s.authService.GetUserPermissions(user.ID)
	if err != nil {
		return err
	}

	menuIDs, err := rolectrl.MenuIDs(s.db, user.RoleID)
	if err != nil {
		return err
	}

	menus, err := menuctrl.ListByIDs(s.db, menuIDs)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"user":        user,
		"role":        user.Role,
		"permissions": permissions,
		"menus":       menuctrl.BuildTree(menus, true),
	})
}
