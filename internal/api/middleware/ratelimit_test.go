package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SaniatAzam/invoice-generator/internal/api/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Invoice not found!"})
	})
	return r
}

func doGet(r http.Handler, path, remoteAddr string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterMiddleware_Limit(t *testing.T) {
	rl := middleware.NewRateLimiterMiddleware(1, 2)
	defer rl.Stop()
	router := setupTestEngine(rl.Limit())

	assert.Equal(t, http.StatusOK, doGet(router, "/test", "1.2.3.4:12345").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "/test", "1.2.3.4:12345").Code)

	w := doGet(router, "/test", "1.2.3.4:12345")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"message":"Too many requests"}`, w.Body.String())
}

func TestRateLimiterMiddleware_PerClient(t *testing.T) {
	rl := middleware.NewRateLimiterMiddleware(1, 1)
	defer rl.Stop()
	router := setupTestEngine(rl.Limit())

	assert.Equal(t, http.StatusOK, doGet(router, "/test", "1.2.3.4:1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(router, "/test", "1.2.3.4:2").Code)
	// A different client has its own bucket.
	assert.Equal(t, http.StatusOK, doGet(router, "/test", "5.6.7.8:1").Code)
}

func TestRateLimiterMiddleware_StopTwice(t *testing.T) {
	rl := middleware.NewRateLimiterMiddleware(1, 1)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}

func TestRequestID(t *testing.T) {
	router := setupTestEngine(middleware.RequestID())

	w := doGet(router, "/test", "1.2.3.4:1")
	assert.Len(t, w.Header().Get(middleware.HeaderRequestID), 36)

	w = httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(middleware.HeaderRequestID, "abc-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(middleware.HeaderRequestID))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	router := setupTestEngine(middleware.RequestID(), middleware.RequestLogger(logger))

	req, _ := http.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(middleware.HeaderRequestID, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "warn", line["level"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "/fail", line["path"])
	assert.Equal(t, float64(http.StatusNotFound), line["status"])
}

func TestCORSMiddleware(t *testing.T) {
	router := setupTestEngine(middleware.CORSMiddleware([]string{"http://localhost:5173"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/test", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://evil.example")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSMiddleware_AllOrigins(t *testing.T) {
	router := setupTestEngine(middleware.CORSMiddleware([]string{"*"}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
