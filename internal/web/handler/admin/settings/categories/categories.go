// Package categories provides the scenario category endpoints.
package categories

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	controller "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/category"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

// Path is the path to the scenario categories.
const Path = "/settings/categories"

// Service lists and creates scenario categories.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type createBody struct {
	Code        string `json:"code"        validate:"required,max=50"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Order       int    `json:"order"       validate:"gte=0"`
	Status      *bool  `json:"status"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	router.Get(Path, auth.RequirePermission(authService, auth.PermSettingsRead), s.List)
	router.Post(Path, auth.RequirePermission(authService, auth.PermSettingsWrite), s.Create)

	return nil
}

// List returns the categories. active=true leaves out disabled ones.
func (s *Service) List(c *fiber.Ctx) error {
	active := response.QueryBool(c, "active")

	categories, err := controller.List(s.db, active != nil && *active)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"categories": categories, "total": len(categories)})
}

// Create adds a category.
func (s *Service) Create(c *fiber.Ctx) error {
	var body createBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	category, err := controller.Create(s.db, controller.Input{
		Code:        body.Code,
		Name:        body.Name,
		Description: body.Description,
		Order:       body.Order,
		Status:      body.Status,
	})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"category": category})
}
