// Package role provides the role management endpoints.
package role

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	menuctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/menu"
	rolectrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/role"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the base path for role management.
	Path = "/roles"
)

// Service provides CRUD operations for roles and their grants.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type createBody struct {
	Code        string   `json:"code"        validate:"required,max=50"`
	Name        string   `json:"name"        validate:"required,max=100"`
	Description string   `json:"description" validate:"max=500"`
	Level       int      `json:"level"       validate:"gte=0"`
	Status      *bool    `json:"status"`
	Permissions []string `json:"permissions" validate:"omitempty,dive,required"`
}

type updateBody struct {
	Code        string `json:"code"        validate:"omitempty,max=50"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Level       int    `json:"level"       validate:"gte=0"`
	Status      *bool  `json:"status"`
	// Permissions is left unchanged when absent or null.
	Permissions *[]string `json:"permissions" validate:"omitempty,dive,required"`
}

type permissionsBody struct {
	Permissions []string `json:"permissions" validate:"dive,required"`
}

type menusBody struct {
	Menus []string `json:"menus" validate:"dive,required"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	read := auth.RequirePermission(authService, auth.PermRolesRead)
	write := auth.RequirePermission(authService, auth.PermRolesWrite)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, read, s.List)
		r.Post(handler.RouterRootPath, write, s.Create)
		r.Get(handler.PathID, read, s.Get)
		r.Put(handler.PathID, write, s.Update)
		r.Delete(handler.PathID, auth.RequirePermission(authService, auth.PermRolesDelete), s.Delete)
		r.Get(handler.PathID+"/permissions", read, s.GetPermissions)
		r.Put(handler.PathID+"/permissions", write, s.ReplacePermissions)
		r.Get(handler.PathID+"/menus", read, s.GetMenus)
		r.Put(handler.PathID+"/menus", write, s.ReplaceMenus)
	})

	return nil
}

// List shows roles with pagination and keyword search.
func (s *Service) List(c *fiber.Ctx) error {
	page, err := rolectrl.List(s.db, response.PageQuery(c), c.Query("keyword"))
	if err != nil {
		return err
	}

	return response.Page(c, "roles", page)
}

// Get returns a role with its permissions.
func (s *Service) Get(c *fiber.Ctx) error {
	detail, err := rolectrl.GetDetail(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(detail)
}

// Create adds a role with its initial permissions.
func (s *Service) Create(c *fiber.Ctx) error {
	var body createBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	detail, err := rolectrl.Create(s.db, rolectrl.Input{
		Code:        body.Code,
		Name:        body.Name,
		Description: body.Description,
		Level:       body.Level,
		Status:      body.Status,
	}, body.Permissions)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"role": detail})
}

// Update overwrites a role.
func (s *Service) Update(c *fiber.Ctx) error {
	var body updateBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	var permissionIDs []string
	if body.Permissions != nil {
		permissionIDs = make([]string, 0, len(*body.Permissions))
		permissionIDs = append(permissionIDs, *body.Permissions...)
	}

	detail, err := rolectrl.Update(s.db, c.Params(handler.ParamID), rolectrl.Input{
		Code:        body.Code,
		Name:        body.Name,
		Description: body.Description,
		Level:       body.Level,
		Status:      body.Status,
	}, permissionIDs)
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "role updated", fiber.Map{"role": detail})
}

// Delete removes a role.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := rolectrl.Delete(s.db, c.Params(handler.ParamID)); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "role deleted", nil)
}

// GetPermissions returns the permissions granted to a role.
func (s *Service) GetPermissions(c *fiber.Ctx) error {
	id := c.Params(handler.ParamID)

	if _, err := rolectrl.Get(s.db, id); err != nil {
		return err
	}

	perms, err := rolectrl.Permissions(s.db, id)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}

	return c.JSON(fiber.Map{"permissions": perms, "permission_ids": ids})
}

// ReplacePermissions makes the body the complete permission set of a role.
func (s *Service) ReplacePermissions(c *fiber.Ctx) error {
	var body permissionsBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	ids, err := rolectrl.ReplacePermissions(s.db, c.Params(handler.ParamID), nonNil(body.Permissions))
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "role permissions updated", fiber.Map{"permission_ids": ids})
}

// GetMenus returns the menus visible to a role as a tree and as ids.
func (s *Service) GetMenus(c *fiber.Ctx) error {
	ids, err := rolectrl.MenuIDs(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	menus, err := menuctrl.ListByIDs(s.db, ids)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"menus": menuctrl.BuildTree(menus, false), "menu_ids": ids})
}

// ReplaceMenus makes the body the complete set of menus visible to a role.
func (s *Service) ReplaceMenus(c *fiber.Ctx) error {
	var body menusBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	ids, err := rolectrl.ReplaceMenus(s.db, c.Params(handler.ParamID), nonNil(body.Menus))
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "role menus updated", fiber.Map{"menu_ids": ids})
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}

	return ids
}
