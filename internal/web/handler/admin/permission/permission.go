// Package permission provides the permission catalogue endpoints.
package permission

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	permctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/permission"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the base path for permission management.
	Path = "/permissions"
)

// Service provides CRUD operations for permissions.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type createBody struct {
	Code        string `json:"code"        validate:"required,max=100"`
	Name        string `json:"name"        validate:"required,max=100"`
	Module      string `json:"module"      validate:"required,max=50"`
	Type        string `json:"type"        validate:"required,oneof=read write delete action"`
	Description string `json:"description" validate:"max=500"`
	Status      *bool  `json:"status"`
}

type updateBody struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Module      string `json:"module"      validate:"required,max=50"`
	Type        string `json:"type"        validate:"required,oneof=read write delete action"`
	Description string `json:"description" validate:"max=500"`
	Status      *bool  `json:"status"`
}

// item is a permission with the display names of its module and type.
type item struct {
	models.Permission
	ModuleName string `json:"module_name"`
	TypeName   string `json:"type_name"`
}

func newItem(p models.Permission) item {
	return item{Permission: p, ModuleName: permctrl.ModuleName(p.Module), TypeName: permctrl.TypeName(p.Type)}
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	read := auth.RequirePermission(authService, auth.PermPermissionsRead)
	write := auth.RequirePermission(authService, auth.PermPermissionsWrite)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, read, s.List)
		r.Get("/grouped", read, s.Grouped)
		r.Post(handler.RouterRootPath, write, s.Create)
		r.Get(handler.PathID, read, s.Get)
		r.Put(handler.PathID, write, s.Update)
		r.Delete(handler.PathID, auth.RequirePermission(authService, auth.PermPermissionsDelete), s.Delete)
	})

	return nil
}

// List returns the permissions filtered by module, type and keyword.
func (s *Service) List(c *fiber.Ctx) error {
	perms, err := permctrl.List(s.db, permctrl.Filter{
		Module:  c.Query("module"),
		Type:    c.Query("type"),
		Keyword: c.Query("keyword"),
	})
	if err != nil {
		return err
	}

	items := make([]item, 0, len(perms))
	for _, p := range perms {
		items = append(items, newItem(p))
	}

	return c.JSON(fiber.Map{"permissions": items, "total": len(items)})
}

// Grouped returns the permissions grouped by module.
func (s *Service) Grouped(c *fiber.Ctx) error {
	groups, total, err := permctrl.Grouped(s.db)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"groups": groups, "total": total})
}

// Get returns one permission.
func (s *Service) Get(c *fiber.Ctx) error {
	p, err := permctrl.Get(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(newItem(*p))
}

// Create adds a permission.
func (s *Service) Create(c *fiber.Ctx) error {
	var body createBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	p, err := permctrl.Create(s.db, permctrl.Input{
		Code:        body.Code,
		Name:        body.Name,
		Module:      body.Module,
		Type:        models.PermissionType(body.Type),
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"permission": newItem(*p)})
}

// Update overwrites a permission. The code is immutable.
func (s *Service) Update(c *fiber.Ctx) error {
	var body updateBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	p, err := permctrl.Update(s.db, c.Params(handler.ParamID), permctrl.Input{
		Name:        body.Name,
		Module:      body.Module,
		Type:        models.PermissionType(body.Type),
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "permission updated", fiber.Map{"permission": newItem(*p)})
}

// Delete removes a permission and its role grants.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := permctrl.Delete(s.db, c.Params(handler.ParamID)); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "permission deleted", nil)
}
