package serverutils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelopeFrom(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return resp.StatusCode, envelope
}

func TestResponseEnvelope_StatusIsBoolean(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return Success(c, fiber.StatusOK, fiber.Map{"value": 1})
	})
	app.Get("/ok-msg", func(c *fiber.Ctx) error {
		return SuccessMsg(c, fiber.StatusOK, "done", nil)
	})
	app.Get("/bad", func(c *fiber.Ctx) error {
		return Fail(c, fiber.StatusBadRequest, "boom")
	})

	code, envelope := envelopeFrom(t, app, "/ok")
	assert.Equal(t, fiber.StatusOK, code)
	status, ok := envelope["status"].(bool)
	require.True(t, ok, "status must be a JSON boolean")
	assert.True(t, status)

	_, envelope = envelopeFrom(t, app, "/ok-msg")
	assert.Equal(t, true, envelope["status"])
	assert.Equal(t, "done", envelope["msg"])

	code, envelope = envelopeFrom(t, app, "/bad")
	assert.Equal(t, fiber.StatusBadRequest, code)
	status, ok = envelope["status"].(bool)
	require.True(t, ok, "status must be a JSON boolean")
	assert.False(t, status)
	assert.Equal(t, "boom", envelope["msg"])
}

func TestResponseEnvelope_OmitsEmptyFields(t *testing.T) {
	app := fiber.New()
	app.Get("/bad", func(c *fiber.Ctx) error {
		return Fail(c, fiber.StatusNotFound, "missing")
	})

	_, envelope := envelopeFrom(t, app, "/bad")
	_, hasData := envelope["data"]
	assert.False(t, hasData)
}
