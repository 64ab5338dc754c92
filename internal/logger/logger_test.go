package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInit(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	t.Run("Production", func(t *testing.T) {
		Init("production")
		assert.NotNil(t, log)
	})

	t.Run("Development", func(t *testing.T) {
		Init("development")
		assert.NotNil(t, log)
	})
}

func TestL(t *testing.T) {
	originalLog := log
	defer func() { log = originalLog }()

	// Force nil to test lazy initialization
	log = nil
	os.Setenv("APP_ENV", "test")

	l := L()
	assert.NotNil(t, l)
	assert.NotNil(t, log)
}

func TestContextFunctions(t *testing.T) {
	ctx := context.Background()
	reqID := "test-request-id-123"

	t.Run("WithRequestID", func(t *testing.T) {
		newCtx := WithRequestID(ctx, reqID)
		assert.NotEqual(t, ctx, newCtx)
		assert.Equal(t, reqID, newCtx.Value(requestIDKey))
	})

	t.Run("RequestIDFrom", func(t *testing.T) {
		newCtx := WithRequestID(ctx, reqID)
		assert.Equal(t, reqID, RequestIDFrom(newCtx))
		assert.Equal(t, "", RequestIDFrom(ctx))
	})

	t.Run("FromCtx", func(t *testing.T) {
		newCtx := WithRequestID(ctx, reqID)
		assert.NotNil(t, FromCtx(newCtx))
		assert.NotNil(t, FromCtx(ctx))
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	t.Run("Generates request id when absent", func(t *testing.T) {
		var seen string
		handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	})

	t.Run("Preserves provided request id", func(t *testing.T) {
		var seen string
		handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = RequestIDFrom(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
	})
}
