package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"slidecast-backend/internal/config"
	"slidecast-backend/internal/handlers"
	"slidecast-backend/internal/security"
	"slidecast-backend/internal/services"
	"slidecast-backend/internal/testutil"
)

const testSecret = "test-secret-key-for-jwt-signing-must-be-long-enough"

type testServer struct {
	router   *gin.Engine
	tokens   *security.TokenIssuer
	users    *testutil.MemoryUsers
	sessions *testutil.MemorySessions
	store    *testutil.MemoryStore
	raster   *testutil.FakeRasterizer
}

type serverOption func(*serverConfig)

type serverConfig struct {
	endMode  string
	maxBytes int64
}

func withEndMode(mode string) serverOption {
	return func(c *serverConfig) { c.endMode = mode }
}

func withMaxBytes(n int64) serverOption {
	return func(c *serverConfig) { c.maxBytes = n }
}

func newTestServer(t *testing.T, opts ...serverOption) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := serverConfig{endMode: config.SessionEndAdvisory}
	for _, o := range opts {
		o(&cfg)
	}

	s := &testServer{
		tokens:   security.NewTokenIssuer(testSecret, "slidecast", time.Hour),
		users:    &testutil.MemoryUsers{},
		sessions: testutil.NewMemorySessions(),
		store:    testutil.NewMemoryStore(),
		raster:   &testutil.FakeRasterizer{Pages: testutil.PagesOf(3)},
	}

	logger := zerolog.Nop()
	s.router = handlers.NewRouter(handlers.RouterDeps{
		Accounts:       services.NewAccountService(s.users, security.NewHasher(bcrypt.MinCost, 2), s.tokens),
		Sessions:       services.NewSessionService(s.sessions, nil, cfg.endMode, logger),
		Deck:           services.NewDeckService(s.raster, s.store, nil, services.DeckOptions{ScratchDir: t.TempDir()}, logger),
		Tokens:         s.tokens,
		MaxUploadBytes: cfg.maxBytes,
		Logger:         logger,
	})
	return s
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(t *testing.T, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

func (s *testServer) get(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.do(req)
}

// login registers a fresh user and returns a valid token for it.
func (s *testServer) login(t *testing.T) string {
	t.Helper()
	w := s.postJSON(t, "/signup", map[string]string{
		"username": "presenter",
		"email":    "presenter@example.com",
		"password": "slides123",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.postJSON(t, "/signin", map[string]string{
		"email":    "presenter@example.com",
		"password": "slides123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
