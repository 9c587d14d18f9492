package scenario

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/handlertest"
)

func TestScenarios(t *testing.T) {
	env := handlertest.New(t)
	env.Mount(t, &Service{})
	token := env.Login(t, auth.PermScenariosRead, auth.PermScenariosWrite, auth.PermScenariosDelete)

	status, out := env.Do(t, fiber.MethodPost, "/scenarios", token, map[string]any{
		"title": "Hotel check-in", "category": "travel", "difficulty": 2,
	})
	require.Equal(t, fiber.StatusCreated, status, out)

	id := out["scenario"].(map[string]any)["id"].(string)

	status, out = env.Do(t, fiber.MethodPost, "/scenarios", token, map[string]any{"title": "x", "category": "y", "difficulty": 9})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"difficulty": "lte"}, out["fields"])

	status, out = env.Do(t, fiber.MethodPost, "/scenarios/"+id+"/publish", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, out["scenario"].(map[string]any)["published"])

	status, out = env.Do(t, fiber.MethodGet, "/scenarios?published=true", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, out["scenarios"], 1)

	status, out = env.Do(t, fiber.MethodPost, "/scenarios/"+id+"/unpublish", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, out["scenario"].(map[string]any)["published"])

	status, out = env.Do(t, fiber.MethodPut, "/scenarios/"+id, token, map[string]any{
		"title": "Hotel check-out", "category": "travel", "difficulty": 3,
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Hotel check-out", out["scenario"].(map[string]any)["title"])

	status, _ = env.Do(t, fiber.MethodDelete, "/scenarios/"+id, token, nil)
	require.Equal(t, fiber.StatusOK, status)

	status, _ = env.Do(t, fiber.MethodGet, "/scenarios/"+id, token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = env.Do(t, fiber.MethodPost, "/scenarios/ghost/publish", token, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}
