// Package menu provides the menu management endpoints.
package menu

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	menuctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/menu"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the base path for menu management.
	Path = "/menus"
)

// Service provides CRUD operations for menus.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type menuBody struct {
	Name     string  `json:"name"      validate:"required,max=100"`
	Icon     *string `json:"icon"      validate:"omitempty,max=255"`
	Path     *string `json:"path"      validate:"omitempty,max=255"`
	ParentID *string `json:"parent_id" validate:"omitempty,max=36"`
	Order    int     `json:"order"`
	Status   *bool   `json:"status"`
}

func (b *menuBody) input() menuctrl.Input {
	return menuctrl.Input{
		Name:     b.Name,
		Icon:     b.Icon,
		Path:     b.Path,
		ParentID: b.ParentID,
		Order:    b.Order,
		Status:   b.Status,
	}
}

type reorderBody struct {
	Orders []menuctrl.OrderItem `json:"orders" validate:"required,dive"`
}

// Init registers routes. Static segments are registered before the id routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	read := auth.RequirePermission(authService, auth.PermMenusRead)
	write := auth.RequirePermission(authService, auth.PermMenusWrite)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, read, s.List)
		r.Get("/tree", read, s.Tree)
		r.Put("/reorder", write, s.Reorder)
		r.Post(handler.RouterRootPath, write, s.Create)
		r.Get(handler.PathID, read, s.Get)
		r.Put(handler.PathID, write, s.Update)
		r.Delete(handler.PathID, auth.RequirePermission(authService, auth.PermMenusDelete), s.Delete)
	})

	return nil
}

// List returns every menu as a flat list.
func (s *Service) List(c *fiber.Ctx) error {
	menus, err := menuctrl.List(s.db)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"menus": menus, "total": len(menus)})
}

// Tree returns the forest of active menus.
func (s *Service) Tree(c *fiber.Ctx) error {
	tree, err := menuctrl.Tree(s.db)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"menus": tree})
}

// Get returns one menu.
func (s *Service) Get(c *fiber.Ctx) error {
	m, err := menuctrl.Get(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(m)
}

// Create adds a menu.
func (s *Service) Create(c *fiber.Ctx) error {
	var body menuBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	m, err := menuctrl.Create(s.db, body.input())
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"menu": m})
}

// Update overwrites a menu.
func (s *Service) Update(c *fiber.Ctx) error {
	var body menuBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	m, err := menuctrl.Update(s.db, c.Params(handler.ParamID), body.input())
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "menu updated", fiber.Map{"menu": m})
}

// Delete removes a menu without children.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := menuctrl.Delete(s.db, c.Params(handler.ParamID)); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "menu deleted", nil)
}

// Reorder applies a batch of sibling orders.
func (s *Service) Reorder(c *fiber.Ctx) error {
	var body reorderBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	if err := menuctrl.Reorder(s.db, body.Orders); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "menu order updated", nil)
}
