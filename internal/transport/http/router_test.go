package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	apierrors "salescli/internal/errors"
	"salescli/internal/services"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	paths := config.PathsFor(t.TempDir())
	require.NoError(t, paths.EnsureDirectories())

	cfg := config.Default()
	reports := NewReportHandler(
		services.NewReportService(logger, paths, cfg.Pipeline),
		logger,
		apierrors.NewErrorHandler(logger),
	)
	health := NewHealthHandler(services.NewHealthService("test", paths), logger)

	return NewRouter(cfg, logger, reports, health)
}

func TestRouter_Liveness(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestRouter_HealthDegradedWithoutInput(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	// No input CSV was written, so the service reports degraded
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestRouter_StripsTrailingSlash(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_UnknownRouteReturnsProblem(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
}

func TestRouter_ReportWithoutInputReturnsProblem(t *testing.T) {
	router := testRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/daily", nil))

	// Storage errors surface as 500-series problems
	assert.GreaterOrEqual(t, rec.Code, http.StatusInternalServerError)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/problem+json")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
