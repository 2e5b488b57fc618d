package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Rodrymza/app-novedades/internal/config"
)

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := NewLogger(config.LoggerConfig{Level: "debug", File: path, MaxSizeMB: 1})
	require.NoError(t, err)
	logger.Info("hello")
	_ = logger.Sync()
	assert.FileExists(t, path)
}

func TestNewLoggerInvalidLevelFallsBack(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, time.Millisecond)
	m.RecordError("/x", "GET", "NOT_FOUND")
	m.RecordTransition("user", "delete", "ok")
	m.RecordLogin("ok")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLoggerRecordsRoute(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := NewMetrics("test")

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), metrics))
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, int64(http.StatusNoContent), logs.All()[0].ContextMap()["status"])
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.True(t, strings.Contains(string(body), `test_http_requests_total{method="GET",route="/items/:id",status="204"} 1`))
}
