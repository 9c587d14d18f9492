package auth

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiceSpeak/nicespeak-admin/internal/db/dbtest"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/response"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/session"
)

func TestRequireAuthAndPermission(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "editor", "menus.read")
	user := createUser(t, db, role.ID, "a@example.com")

	tokens := newIssuer(t)
	revoked := session.New(nil)
	authService := NewService(db)

	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Use(RequireAuth(tokens, revoked))
	app.Get("/menus", RequirePermission(authService, PermMenusRead), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})
	app.Delete("/menus", RequirePermission(authService, PermMenusDelete), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	valid, _, err := tokens.Issue(user.ID, role.Code)
	require.NoError(t, err)

	revokedToken, claims, err := tokens.Issue(user.ID, role.Code)
	require.NoError(t, err)
	require.NoError(t, revoked.Revoke(claims.ID, claims.ExpiresAt.Time))

	testCases := []struct {
		name   string
		method string
		header string
		status int
	}{
		{"no header", fiber.MethodGet, "", fiber.StatusUnauthorized},
		{"not bearer", fiber.MethodGet, "Basic abc", fiber.StatusUnauthorized},
		{"garbage token", fiber.MethodGet, "Bearer abc", fiber.StatusUnauthorized},
		{"revoked token", fiber.MethodGet, "Bearer " + revokedToken, fiber.StatusUnauthorized},
		{"granted", fiber.MethodGet, "Bearer " + valid, fiber.StatusOK},
		{"lower case scheme", fiber.MethodGet, "bearer " + valid, fiber.StatusOK},
		{"missing permission", fiber.MethodDelete, "Bearer " + valid, fiber.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/menus", nil)
			if tc.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tc.header)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestRequireAuth_DeactivatedUserLosesPermissions(t *testing.T) {
	db := dbtest.Open(t)
	role := createRole(t, db, "editor", "menus.read")
	user := createUser(t, db, role.ID, "a@example.com")

	tokens := newIssuer(t)
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Get("/menus", RequireAuth(tokens, session.New(nil)), RequirePermission(NewService(db), PermMenusRead),
		func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	token, _, err := tokens.Issue(user.ID, role.Code)
	require.NoError(t, err)
	require.NoError(t, NewLocalProvider(db).DeactivateUser(user.ID))

	req := httptest.NewRequest(fiber.MethodGet, "/menus", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
