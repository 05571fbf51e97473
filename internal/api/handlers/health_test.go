package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealth(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		ping   pingFunc
		status string
	}{
		{"connected", func(context.Context) error { return nil }, "connected"},
		{"store down", func(context.Context) error { return errors.New("connection refused") }, "error: connection refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.ping)
			h.now = func() time.Time { return now }

			rec := serve(t, h.Health, http.MethodGet, "/v1/health", "")

			require.Equal(t, http.StatusOK, rec.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "active", resp.Status)
			assert.Equal(t, tt.status, resp.DBStatus)
			assert.True(t, now.Equal(resp.Timestamp))
		})
	}
}

func TestHealth_ProbeHasDeadline(t *testing.T) {
	h := NewHealthHandler(pingFunc(func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}))

	rec := serve(t, h.Health, http.MethodGet, "/v1/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRoot(t *testing.T) {
	h := NewHealthHandler(pingFunc(func(context.Context) error { return nil }))

	rec := serve(t, h.Root, http.MethodGet, "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
}
