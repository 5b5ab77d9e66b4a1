package utils_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/accuro-ph/accuro-api/internal/utils"
	"github.com/accuro-ph/accuro-api/internal/validation"
)

func TestSendSuccessWithStatus(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "Contact saved successfully", map[string]string{"_id": "abc"})
	})

	resp := performRequest(t, app, http.MethodPost, "/")
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var payload map[string]interface{}
	decode(t, resp, &payload)

	require.Equal(t, true, payload["success"])
	require.Equal(t, "Contact saved successfully", payload["message"])
	require.Equal(t, "abc", payload["data"].(map[string]interface{})["_id"])
	require.NotContains(t, payload, "errors")
	require.NotContains(t, payload, "count")
}

func TestSendSuccessOmitsEmptyMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendSuccess(c, "", map[string]string{"hello": "world"})
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload map[string]interface{}
	decode(t, resp, &payload)
	require.NotContains(t, payload, "message")
}

func TestSendListIncludesCount(t *testing.T) {
	app := fiber.New()
	app.Get("/empty", func(c *fiber.Ctx) error {
		return utils.SendList[string](c, nil)
	})
	app.Get("/two", func(c *fiber.Ctx) error {
		return utils.SendList(c, []string{"a", "b"})
	})

	resp := performRequest(t, app, http.MethodGet, "/empty")
	body := readBody(t, resp)
	require.JSONEq(t, `{"success":true,"data":[],"count":0}`, body)

	resp = performRequest(t, app, http.MethodGet, "/two")
	body = readBody(t, resp)
	require.JSONEq(t, `{"success":true,"data":["a","b"],"count":2}`, body)
}

func TestSendValidationError(t *testing.T) {
	app := fiber.New()
	app.Post("/", func(c *fiber.Ctx) error {
		return utils.SendValidationError(c, []validation.FieldError{{Field: "email", Message: "Invalid email format"}})
	})

	resp := performRequest(t, app, http.MethodPost, "/")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"success":false,"message":"Validation failed","errors":[{"field":"email","message":"Invalid email format"}]}`, readBody(t, resp))
}

func TestSendErrorDefaultsMessage(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return utils.SendError(c, fiber.StatusNotFound, "")
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"success":false,"message":"error"}`, readBody(t, resp))
}

func performRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}
