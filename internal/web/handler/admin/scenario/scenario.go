// Package scenario provides the scenario management endpoints.
package scenario

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	scenarioctrl "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/scenario"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

// Path is the base path for scenarios.
const Path = "/scenarios"

// Service provides CRUD operations for scenarios.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the exported instance.
var Handler = Service{}

type body struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description"`
	Category    string `json:"category"    validate:"required,max=50"`
	Difficulty  int    `json:"difficulty"  validate:"gte=1,lte=5"`
}

func (b *body) input() scenarioctrl.Input {
	return scenarioctrl.Input{
		Title:       b.Title,
		Description: b.Description,
		Category:    b.Category,
		Difficulty:  b.Difficulty,
	}
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.cfg = cfg
	s.db = db

	read := auth.RequirePermission(authService, auth.PermScenariosRead)
	write := auth.RequirePermission(authService, auth.PermScenariosWrite)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, read, s.List)
		r.Post(handler.RouterRootPath, write, s.Create)
		r.Get(handler.PathID, read, s.Get)
		r.Put(handler.PathID, write, s.Update)
		r.Delete(handler.PathID, auth.RequirePermission(authService, auth.PermScenariosDelete), s.Delete)
		r.Post(handler.PathID+"/publish", write, s.publish(true))
		r.Post(handler.PathID+"/unpublish", write, s.publish(false))
	})

	return nil
}

// List shows scenarios filtered by keyword, category and publication.
func (s *Service) List(c *fiber.Ctx) error {
	page, err := scenarioctrl.List(s.db, response.PageQuery(c), scenarioctrl.Filter{
		Keyword:   c.Query("keyword"),
		Category:  c.Query("category"),
		Published: response.QueryBool(c, "published"),
	})
	if err != nil {
		return err
	}

	return response.Page(c, "scenarios", page)
}

// Get returns one scenario.
func (s *Service) Get(c *fiber.Ctx) error {
	sc, err := scenarioctrl.Get(s.db, c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(sc)
}

// Create adds an unpublished scenario.
func (s *Service) Create(c *fiber.Ctx) error {
	var b body
	if err := response.Bind(c, &b); err != nil {
		return err
	}

	sc, err := scenarioctrl.Create(s.db, b.input())
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"scenario": sc})
}

// Update overwrites a scenario.
func (s *Service) Update(c *fiber.Ctx) error {
	var b body
	if err := response.Bind(c, &b); err != nil {
		return err
	}

	sc, err := scenarioctrl.Update(s.db, c.Params(handler.ParamID), b.input())
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "scenario updated", fiber.Map{"scenario": sc})
}

// Delete removes a scenario.
func (s *Service) Delete(c *fiber.Ctx) error {
	if err := scenarioctrl.Delete(s.db, c.Params(handler.ParamID)); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "scenario deleted", nil)
}

func (s *Service) publish(published bool) fiber.Handler {
	message := "scenario unpublished"
	if published {
		message = "scenario published"
	}

	return func(c *fiber.Ctx) error {
		sc, err := scenarioctrl.SetPublished(s.db, c.Params(handler.ParamID), published)
		if err != nil {
			return err
		}

		return response.Success(c, fiber.StatusOK, message, fiber.Map{"scenario": sc})
	}
}
