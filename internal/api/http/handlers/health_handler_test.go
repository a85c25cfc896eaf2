package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/observability"
)

func pingOK(context.Context) error   { return nil }
func pingDown(context.Context) error { return errors.New("connection refused") }

func TestReady(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		checks []DependencyCheck
		status int
		state  string
	}{
		{"no dependencies", nil, fiber.StatusOK, "ready"},
		{"all healthy", []DependencyCheck{{Name: "postgres", Ping: pingOK}, {Name: "redis", Ping: pingOK, Optional: true}}, fiber.StatusOK, "ready"},
		{"cache down", []DependencyCheck{{Name: "postgres", Ping: pingOK}, {Name: "redis", Ping: pingDown, Optional: true}}, fiber.StatusOK, "degraded"},
		{"database down", []DependencyCheck{{Name: "postgres", Ping: pingDown}, {Name: "redis", Ping: pingOK, Optional: true}}, fiber.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			app := fiber.New()
			app.Get("/health/ready", NewHealthHandler("support-desk", "test", observability.NewMetrics(), tt.checks...).Ready)

			resp, err := app.Test(httptest.NewRequest("GET", "/health/ready", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tt.state != "" {
				assert.Equal(t, tt.state, body["status"])
			} else {
				assert.Equal(t, "DEPENDENCY_UNAVAILABLE", body["error"].(map[string]any)["code"])
			}
		})
	}
}
