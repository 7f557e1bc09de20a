package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booka-backend/internal/infrastructure/database"
)

type fakeDB struct{ err error }

func (f fakeDB) Ping(context.Context) error { return f.err }
func (f fakeDB) Stats() (*database.PoolStats, error) {
	return &database.PoolStats{TotalConns: 2, MaxConns: 25}, nil
}

type fakeCache struct{ err error }

func (f fakeCache) Get(context.Context, string, interface{}) (bool, error) {
	return false, nil
}
func (f fakeCache) Set(context.Context, string, interface{}, time.Duration) error {
	return nil
}
func (f fakeCache) Ping(context.Context) error { return f.err }

func health(t *testing.T, h gin.HandlerFunc) (int, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHealthCheck(t *testing.T) {
	code, body := health(t, healthCheckHandler(fakeDB{}, fakeCache{}, "1.0.0"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])

	code, body = health(t, healthCheckHandler(fakeDB{}, fakeCache{err: errors.New("down")}, "1.0.0"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body["status"])

	code, body = health(t, healthCheckHandler(fakeDB{}, nil, "1.0.0"))
	assert.Equal(t, http.StatusOK, code)
	services := body["services"].(map[string]any)
	assert.Equal(t, "disabled", services["cache"].(map[string]any)["status"])

	code, body = health(t, healthCheckHandler(fakeDB{err: errors.New("refused")}, nil, "1.0.0"))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body["status"])
}
