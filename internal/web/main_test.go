package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/config"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/db/models"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

const (
	testEmail    = "root@example.com"
	testPassword = "correct-horse-battery"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := dbtest.Open(t)

	perm := models.Permission{Code: auth.PermMenusWrite, Name: "menus write", Module: "menus", Type: models.PermissionTypeWrite, Status: true}
	require.NoError(t, db.Create(&perm).Error)

	role := models.Role{Code: "super_admin", Name: "Super admin", Status: true, IsSystem: true}
	require.NoError(t, db.Create(&role).Error)
	require.NoError(t, db.Create(&models.RolePermission{RoleID: role.ID, PermissionID: perm.ID}).Error)

	_, err := auth.NewLocalProvider(db).CreateUser(auth.UserInput{
		Username: "root",
		Email:    testEmail,
		Password: testPassword,
		RoleID:   role.ID,
	})
	require.NoError(t, err)

	cfg := &config.Config{
		Title:     "test",
		Webserver: config.Webserver{Port: 8080, URL: "http://localhost", ShutDownTime: 1},
		Auth: config.Auth{
			JWTSecret:   "0123456789abcdef0123456789abcdef",
			Issuer:      "nicespeak-admin",
			TokenExpiry: time.Hour,
		},
	}

	svc, err := New(cfg, db, session.New(nil))
	require.NoError(t, err)

	return svc, db
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out))
	}

	return resp.StatusCode, out
}

func TestNew_NilDependencies(t *testing.T) {
	_, err := New(nil, nil, nil)
	require.ErrorIs(t, err, ErrNilDependency)
}

func TestHealth(t *testing.T) {
	svc, _ := newTestService(t)

	status, out := call(t, svc.App, fiber.MethodGet, HealthPath, "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", out["status"])

	svc.alive.Store(false)

	status, out = call(t, svc.App, fiber.MethodGet, HealthPath, "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "draining", out["status"])
}

func TestMetrics(t *testing.T) {
	svc, _ := newTestService(t)

	status, _ := call(t, svc.App, fiber.MethodGet, MetricsPath, "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestLoginFlow(t *testing.T) {
	svc, db := newTestService(t)

	status, out := call(t, svc.App, fiber.MethodGet, "/api/admin/menus", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", out["code"])

	status, out = call(t, svc.App, fiber.MethodPost, "/api/admin/auth/login", "",
		map[string]any{"email": testEmail, "password": testPassword})
	require.Equal(t, fiber.StatusOK, status, out)

	token, ok := out["access_token"].(string)
	require.True(t, ok)

	status, out = call(t, svc.App, fiber.MethodGet, "/api/admin/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, []any{auth.PermMenusWrite}, out["permissions"])

	// menus.read is not granted
	status, out = call(t, svc.App, fiber.MethodGet, "/api/admin/menus", token, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, auth.PermMenusRead, out["permission"])

	status, out = call(t, svc.App, fiber.MethodPost, "/api/admin/menus", token, map[string]any{"name": "Dashboard"})
	require.Equal(t, fiber.StatusCreated, status, out)

	status, _ = call(t, svc.App, fiber.MethodGet, "/api/admin/nothing-here", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = call(t, svc.App, fiber.MethodPost, "/api/admin/auth/logout", token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = call(t, svc.App, fiber.MethodGet, "/api/admin/auth/me", token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	var audits []models.AuditLog
	require.NoError(t, db.Find(&audits).Error)

	paths := make([]string, 0, len(audits))
	for _, a := range audits {
		paths = append(paths, a.Method+" "+a.Path)
	}

	assert.ElementsMatch(t, []string{"POST /api/admin/menus", "POST /api/admin/auth/logout"}, paths)

	var logins int64
	require.NoError(t, db.Model(&models.LoginLog{}).Where("success = ?", true).Count(&logins).Error)
	assert.Equal(t, int64(1), logins)
}
