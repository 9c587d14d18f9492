package logout

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/handlertest"
)

func TestLogout(t *testing.T) {
	env := handlertest.New(t)

	router := env.App.Group(handler.APIPrefix, auth.RequireAuth(env.Tokens, env.Revoked))
	require.NoError(t, (&Service{}).Init(router, env.Cfg, env.Revoked))

	token := env.Login(t, auth.PermMenusRead)

	claims, err := env.Tokens.Parse(token)
	require.NoError(t, err)

	status, out := env.Do(t, fiber.MethodPost, Path, token, nil)
	require.Equal(t, fiber.StatusOK, status, out)
	assert.Equal(t, true, out["success"])

	revoked, err := env.Revoked.IsRevoked(claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	// the revoked token no longer passes authentication
	status, out = env.Do(t, fiber.MethodPost, Path, token, nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", out["code"])
}

func TestLogout_NoToken(t *testing.T) {
	env := handlertest.New(t)

	router := env.App.Group(handler.APIPrefix, auth.RequireAuth(env.Tokens, env.Revoked))
	require.NoError(t, (&Service{}).Init(router, env.Cfg, env.Revoked))

	status, _ := env.Do(t, fiber.MethodPost, Path, "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}
