package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := InitLogger(LoggerConfig{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("Progress loaded")
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Progress loaded", entry["msg"])
	assert.Equal(t, "roadmap", entry["logger"])
	assert.NotEmpty(t, entry["session"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestInitLoggerRejectsBadLevel(t *testing.T) {
	_, err := InitLogger(LoggerConfig{Level: "loud"})
	assert.Error(t, err)
}

func TestResponses(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/ok", func(c *fiber.Ctx) error { return OK(c, fiber.Map{"a": 1}) })
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound(c, "Phase not found") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return fmt.Errorf("toggle: %w", fiber.NewError(fiber.StatusConflict, "busy"))
	})

	cases := []struct {
		path    string
		status  int
		success bool
		message string
	}{
		{"/ok", fiber.StatusOK, true, ""},
		{"/missing", fiber.StatusNotFound, false, "Phase not found"},
		{"/boom", fiber.StatusInternalServerError, false, "boom"},
		{"/wrapped", fiber.StatusConflict, false, "toggle: busy"},
	}
	for _, tc := range cases {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.status, resp.StatusCode, tc.path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, tc.success, body["success"], tc.path)
		if tc.message != "" {
			assert.Equal(t, tc.message, body["message"], tc.path)
		}
	}
}

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Toggles.Inc()
	m.OverallProgress.Set(40)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Toggles))
	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// unregistered metrics still work
	assert.NotPanics(t, func() { NewMetrics(nil).SaveFailures.Inc() })
}
