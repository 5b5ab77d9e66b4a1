package performance_test

import (
	"context"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/accuro-ph/accuro-api/internal/handler"
	"github.com/accuro-ph/accuro-api/internal/models"
	"github.com/accuro-ph/accuro-api/internal/repository"
	"github.com/accuro-ph/accuro-api/internal/service"
	"github.com/accuro-ph/accuro-api/internal/validation"
)

type discardNotifier struct{}

func (discardNotifier) Enqueue(models.ContactSubmission) bool { return true }

func setupContactPerformanceApp(t *testing.T, records int) *fiber.App {
	t.Helper()

	repo, err := repository.NewFileContactRepository(filepath.Join(t.TempDir(), "contacts.json"))
	require.NoError(t, err)

	// Seed dataset
	for i := 0; i < records; i++ {
		_, err := repo.Append(context.Background(), models.ContactSubmission{
			FirstName: "Jane",
			LastName:  "Doe",
			Email:     "jane@example.com",
			Phone:     "09171234567",
			Subject:   "Calibrator pricing",
			Message:   "Please send pricing for the MC6 multifunction calibrator.",
		})
		require.NoError(t, err)
	}

	svc := service.NewContactService(repo, validation.New(true), nil, nil, discardNotifier{}, false, zerolog.Nop())

	app := fiber.New()
	handler.NewContactHandler(svc, nil, zerolog.Nop()).Register(app.Group("/api/contacts"))
	return app
}

func TestContactListP95LatencyBelow250ms(t *testing.T) {
	app := setupContactPerformanceApp(t, 200)

	runs := 40
	durations := make([]time.Duration, 0, runs)

	for i := 0; i < runs; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/contacts", nil)
		start := time.Now()
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })
	index := int(math.Ceil(0.95*float64(len(durations)))) - 1
	if index < 0 {
		index = 0
	}
	p95 := durations[index]

	require.LessOrEqual(t, p95, 250*time.Millisecond)
}
