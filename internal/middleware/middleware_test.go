package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newApp(log *zap.Logger) *fiber.App {
	app := fiber.New()
	app.Use(RequestID())
	app.Use(RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c))
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "boom")
	})
	return app
}

func TestRequestIDGeneratesUUID(t *testing.T) {
	app := newApp(zap.NewNop())

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)

	id := resp.Header.Get(RequestIDHeader)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestIDKeepsCallerUUID(t *testing.T) {
	app := newApp(zap.NewNop())
	want := uuid.NewString()

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, want)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, want, resp.Header.Get(RequestIDHeader))
}

func TestRequestIDReplacesGarbage(t *testing.T) {
	app := newApp(zap.NewNop())

	req := httptest.NewRequest("GET", "/ok", nil)
	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestRequestLoggerLevelsByStatus(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	app := newApp(zap.New(core))

	tests := []struct {
		path   string
		status int
		level  zapcore.Level
	}{
		{"/ok", fiber.StatusOK, zapcore.InfoLevel},
		{"/missing", fiber.StatusNotFound, zapcore.WarnLevel},
		{"/boom", fiber.StatusInternalServerError, zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			entries := logs.TakeAll()
			require.Len(t, entries, 1)
			entry := entries[0]
			assert.Equal(t, tt.level, entry.Level)
			fields := entry.ContextMap()
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, tt.path, fields["path"])
			assert.Equal(t, resp.Header.Get(RequestIDHeader), fields["request_id"])
		})
	}
}
