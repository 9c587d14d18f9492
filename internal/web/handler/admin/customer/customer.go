// Package customer provides the read-only customer endpoints.
package customer

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	customerctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/customer"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

// Path is the base path for customers.
const Path = "/customers"

// Service lists and shows customers.
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

	read := auth.RequirePermission(authService, auth.PermCustomersRead)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, read, s.List)
		r.Get(handler.PathID, read, s.Get)
		r.Get(handler.PathID+"/subscriptions", read, s.Subscriptions)
		r.Get(handler.PathID+"/devices", read, s.Devices)
		r.Get(handler.PathID+"/practices", read, s.Practices)
	})

	return nil
}

// List shows customers filtered by keyword, tier, status and ban flag.
func (s *Service) List(c *fiber.Ctx) error {
	page, err := customerctrl.List(s.db, response.PageQuery(c), customerctrl.Filter{
		Keyword: c.Query("keyword"),
		Tier:    c.Query("tier"),
		Status:  c.Query("status"),
		Banned:  response.QueryBool(c, "banned"),
	})
	if err != nil {
		return err
	}

	return response.Page(c, "customers", page)
}

// Get returns one customer.
func (s *Service) Get(c *fiber.Ctx) error {
	customer, err := customerctrl.Get(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(customer)
}

// Subscriptions returns the orders of one customer.
func (s *Service) Subscriptions(c *fiber.Ctx) error {
	orders, err := customerctrl.Subscriptions(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"subscriptions": orders, "total": len(orders)})
}

// Devices returns the devices of one customer.
func (s *Service) Devices(c *fiber.Ctx) error {
	devices, err := customerctrl.Devices(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"devices": devices, "total": len(devices)})
}

// Practices shows the practice history of one customer with pagination.
func (s *Service) Practices(c *fiber.Ctx) error {
	page, err := customerctrl.Practices(s.db, c.Params(handler.ParamID), response.PageQuery(c))
	if err != nil {
		return err
	}

	return response.Page(c, "practices", page)
}
