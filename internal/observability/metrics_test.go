package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/accuro-ph/accuro-api/internal/observability"
)

func TestMetricsHandlerExposesContactCollectors(t *testing.T) {
	observability.ContactSubmissions().WithLabelValues("accepted").Inc()
	observability.ContactNotifications().WithLabelValues("sent").Inc()

	app := fiber.New()
	app.Get("/metrics", observability.MetricsHandler())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `contact_submissions_total{outcome="accepted"}`)
	require.Contains(t, string(body), `contact_notifications_total{status="sent"}`)
}
