// Package user provides handlers for managing admin accounts.
package user

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/apperr"
	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
)

const (
	// Path is the base path for user management.
	Path = "/users"
)

// Service provides CRUD operations for users.
type Service struct {
	handler.Service
	cfg      *config.Config
	db       *gorm.DB
	accounts *auth.LocalProvider
}

// Handler is the exported instance.
var Handler = Service{}

type createBody struct {
	Username    string `json:"username"     validate:"required,max=100"`
	Email       string `json:"email"        validate:"required,email,max=255"`
	Password    string `json:"password"     validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"max=100"`
	RoleID      string `json:"role_id"      validate:"required"`
	Active      *bool  `json:"active"`
}

type updateBody struct {
	Username    string `json:"username"     validate:"required,max=100"`
	Email       string `json:"email"        validate:"required,email,max=255"`
	Password    string `json:"password"     validate:"omitempty,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"max=100"`
	RoleID      string `json:"role_id"      validate:"required"`
	Active      *bool  `json:"active"`
}

type resetPasswordBody struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Init registers routes.
func (s *Service) Init(router fiber.Router, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if router == nil || cfg == nil || db == nil {
		return handler.ErrNilACD
	}

	s.db = db
	s.cfg = cfg
	s.accounts = auth.NewLocalProvider(db)

	write := auth.RequirePermission(authService, auth.PermUsersWrite)

	router.Route(Path, func(r fiber.Router) {
		r.Get(handler.RouterRootPath, auth.RequirePermission(authService, auth.PermUsersRead), s.List)
		r.Post(handler.RouterRootPath, write, s.Create)
		r.Get(handler.PathID, auth.RequirePermission(authService, auth.PermUsersRead), s.Get)
		r.Put(handler.PathID, write, s.Update)
		r.Post(handler.PathID+"/reset-password", write, s.ResetPassword)
		r.Delete(handler.PathID, auth.RequirePermission(authService, auth.PermUsersDelete), s.Delete)
	})

	return nil
}

// List shows users with pagination and search.
func (s *Service) List(c *fiber.Ctx) error {
	page, err := s.accounts.ListUsers(response.PageQuery(c), auth.UserFilter{
		Keyword: c.Query("keyword"),
		RoleID:  c.Query("role_id"),
		Active:  response.QueryBool(c, "active"),
	})
	if err != nil {
		return err
	}

	return response.Page(c, "users", page)
}

// Get returns one user.
func (s *Service) Get(c *fiber.Ctx) error {
	u, err := s.accounts.GetUserByID(c.Params(handler.ParamID))
	if err != nil {
		return err
	}

	return c.JSON(u)
}

// Create adds a user.
func (s *Service) Create(c *fiber.Ctx) error {
	var body createBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	u, err := s.accounts.CreateUser(auth.UserInput{
		Username:    body.Username,
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		RoleID:      body.RoleID,
		Active:      body.Active,
	})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusCreated, "", fiber.Map{"user": u})
}

// Update overwrites a user.
func (s *Service) Update(c *fiber.Ctx) error {
	var body updateBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	id := c.Params(handler.ParamID)

	// an account can not lock itself out
	if body.Active != nil && !*body.Active && id == auth.UserID(c) {
		return apperr.Validation("cannot deactivate your own account")
	}

	u, err := s.accounts.UpdateUser(id, auth.UserInput{
		Username:    body.Username,
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		RoleID:      body.RoleID,
		Active:      body.Active,
	})
	if err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "user updated", fiber.Map{"user": u})
}

// ResetPassword sets a new password for a user.
func (s *Service) ResetPassword(c *fiber.Ctx) error {
	var body resetPasswordBody
	if err := response.Bind(c, &body); err != nil {
		return err
	}

	if err := s.accounts.ResetPassword(c.Params(handler.ParamID), body.Password); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "password reset", nil)
}

// Delete deactivates a user.
func (s *Service) Delete(c *fiber.Ctx) error {
	id := c.Params(handler.ParamID)

	if id == auth.UserID(c) {
		return apperr.Validation("cannot delete your own account")
	}

	if err := s.accounts.DeactivateUser(id); err != nil {
		return err
	}

	return response.Success(c, fiber.StatusOK, "user deleted", nil)
}
