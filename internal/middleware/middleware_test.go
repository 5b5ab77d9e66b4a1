package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCorrelatedApp() *fiber.App {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(CorrelationIDFromContext(c.UserContext()))
	})
	return app
}

func TestCorrelationIDGeneratesIdentifier(t *testing.T) {
	resp, err := newCorrelatedApp().Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)

	header := resp.Header.Get(CorrelationHeader)
	_, parseErr := uuid.Parse(header)
	require.NoError(t, parseErr)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, header, string(body))
}

func TestCorrelationIDPropagatesIncoming(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, "req-123")

	resp, err := newCorrelatedApp().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, "req-123", resp.Header.Get(CorrelationHeader))
}

func TestCorrelationIDReplacesUnacceptableValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(CorrelationHeader, strings.Repeat("a", maxCorrelationLength+1))

	resp, err := newCorrelatedApp().Test(req, -1)
	require.NoError(t, err)

	_, parseErr := uuid.Parse(resp.Header.Get(CorrelationHeader))
	require.NoError(t, parseErr)
}

func TestRateLimitRejectsWithJSON(t *testing.T) {
	app := fiber.New()
	app.Post("/", RateLimit("contact_submit", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"success":false,"message":"Too many requests, please try again later"}`, string(body))
}

func TestLatencyBucket(t *testing.T) {
	require.Equal(t, "<=25ms", latencyBucket(10*time.Millisecond))
	require.Equal(t, "<=250ms", latencyBucket(200*time.Millisecond))
	require.Equal(t, ">500ms", latencyBucket(time.Second))
}
