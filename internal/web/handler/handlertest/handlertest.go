// Package handlertest wires a fiber app, an in-memory database and bearer tokens for handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

// Env is a test application.
type Env struct {
	App     *fiber.App
	DB      *gorm.DB
	Cfg     *config.Config
	Tokens  *auth.TokenIssuer
	Revoked *session.Store
	Auth    *auth.Service
}

// New creates an app using the API error handler and a migrated in-memory database.
func New(t *testing.T) *Env {
	t.Helper()

	cfg := &config.Config{
		Title: "test",
		Auth: config.Auth{
			JWTSecret:   "0123456789abcdef0123456789abcdef",
			Issuer:      "nicespeak-admin",
			TokenExpiry: time.Hour,
		},
	}

	tokens, err := auth.NewTokenIssuer(cfg.Auth)
	require.NoError(t, err)

	db := dbtest.Open(t)

	return &Env{
		App:     fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler}),
		DB:      db,
		Cfg:     cfg,
		Tokens:  tokens,
		Revoked: session.New(nil),
		Auth:    auth.NewService(db),
	}
}

// Mount initialises svc on the authenticated API router.
func (e *Env) Mount(t *testing.T, svc handler.Service) {
	t.Helper()

	router := e.App.Group(handler.APIPrefix, auth.RequireAuth(e.Tokens, e.Revoked))
	require.NoError(t, svc.Init(router, e.Cfg, e.DB, e.Auth))
}

// Login creates an active user whose role holds the given permission codes and returns a bearer token.
func (e *Env) Login(t *testing.T, permissions ...string) string {
	t.Helper()

	role := models.Role{Code: "role-" + strings.Join(permissions, "-"), Name: "test", Status: true}
	require.NoError(t, e.DB.Create(&role).Error)

	for _, code := range permissions {
		var perm models.Permission

		err := e.DB.Where("code = ?", code).First(&perm).Error
		if err != nil {
			module, typ, _ := strings.Cut(code, ".")
			perm = models.Permission{Code: code, Name: code, Module: module, Type: models.PermissionType(typ), Status: true}
			require.NoError(t, e.DB.Create(&perm).Error)
		}

		require.NoError(t, e.DB.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)
	}

	user, err := auth.NewLocalProvider(e.DB).CreateUser(auth.UserInput{
		Username: role.Code,
		Email:    role.Code + "@example.com",
		Password: "secret-password",
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	token, _, err := e.Tokens.Issue(user.ID, role.Code)
	require.NoError(t, err)

	return token
}

// Do sends a JSON request and decodes the JSON response body, nil when the body is empty.
func (e *Env) Do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, handler.APIPrefix+path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := e.App.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	if len(raw) == 0 {
		return resp.StatusCode, nil
	}

	out := map[string]any{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))

	return resp.StatusCode, out
}
