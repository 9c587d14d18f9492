package parameters

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NiceSpeak/nicespeak-admin/internal/auth"
	controller "github.com/NiceSpeak/nicespeak-admin/internal/db/controller/parameters"
	"github.com/NiceSpeak/nicespeak-admin/internal/web/handler/handlertest"
)

func TestParameters(t *testing.T) {
	env := handlertest.New(t)
	env.Mount(t, &Service{})
	token := env.Login(t, auth.PermSettingsRead, auth.PermSettingsWrite)

	status, out := env.Do(t, fiber.MethodGet, "/settings/parameters", token, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{
		"free_trial_days":       float64(controller.DefaultFreeTrialDays),
		"evaluation_trial_days": float64(controller.DefaultEvaluationTrialDays),
		"max_practices_per_day": float64(controller.DefaultMaxPracticesPerDay),
	}, out["parameters"])

	status, out = env.Do(t, fiber.MethodPut, "/settings/parameters", token, map[string]any{"free_trial_days": 14})
	require.Equal(t, fiber.StatusOK, status, out)

	stored := &controller.Parameters{}
	require.NoError(t, stored.Load(env.DB))
	assert.Equal(t, 14, stored.FreeTrialDays)
	assert.Equal(t, controller.DefaultMaxPracticesPerDay, stored.MaxPracticesPerDay)

	status, out = env.Do(t, fiber.MethodPut, "/settings/parameters", token, map[string]any{"max_practices_per_day": 0})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, map[string]any{"max_practices_per_day": "gte"}, out["fields"])

	require.NoError(t, stored.Load(env.DB))
	assert.Equal(t, controller.DefaultMaxPracticesPerDay, stored.MaxPracticesPerDay)
}

func TestParameters_ReadOnly(t *testing.T) {
	env := handlertest.New(t)
	env.Mount(t, &Service{})
	token := env.Login(t, auth.PermSettingsRead)

	status, _ := env.Do(t, fiber.MethodPut, "/settings/parameters", token, map[string]any{"free_trial_days": 1})
	assert.Equal(t, fiber.StatusForbidden, status)
}
