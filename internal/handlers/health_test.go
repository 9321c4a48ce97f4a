package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	_ "slidecast-backend/docs"
	"slidecast-backend/internal/handlers"
)

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", handlers.HealthHandler)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestPing(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/ping", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pong", w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w := s.do(req)

	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
}

func TestSwaggerDocServed(t *testing.T) {
	s := newTestServer(t)

	w := s.get("/swagger/doc.json", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/session/{sessionId}/slides/pdf")
	assert.Contains(t, w.Body.String(), "Slidecast Backend API")
}
