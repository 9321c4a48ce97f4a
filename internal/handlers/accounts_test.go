package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slidecast-backend/internal/models"
)

func signupBody(username, email, password string) map[string]string {
	return map[string]string{"username": username, "email": email, "password": password}
}

func TestSignup_Created(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/signup", signupBody("alice_1", "alice@example.com", "password1"), "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[models.SignupResponse](t, w)
	assert.Equal(t, "User successfully registered", resp.Message)
	assert.Equal(t, "alice_1", resp.Username)
	assert.NotEmpty(t, resp.UserID)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestSignup_PasswordAtByteLimit(t *testing.T) {
	s := newTestServer(t)
	password := strings.Repeat("a", 71) + "1"

	w := s.postJSON(t, "/signup", signupBody("alice", "alice@example.com", password), "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.postJSON(t, "/signin", map[string]string{"email": "alice@example.com", "password": password}, "")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestSignup_Duplicate(t *testing.T) {
	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "same email", body: signupBody("bob", "alice@example.com", "password1")},
		{name: "same username", body: signupBody("alice", "other@example.com", "password1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			require.Equal(t, http.StatusCreated, s.postJSON(t, "/signup", signupBody("alice", "alice@example.com", "password1"), "").Code)

			w := s.postJSON(t, "/signup", tt.body, "")

			assert.Equal(t, http.StatusConflict, w.Code)
			assert.JSONEq(t, `{"message":"Email or username already exists"}`, w.Body.String())
			assert.Equal(t, 1, s.users.Creates())
		})
	}
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		body  map[string]string
		field string
	}{
		{name: "bad email", body: signupBody("alice", "not-an-email", "password1"), field: "email"},
		{name: "short username", body: signupBody("al", "alice@example.com", "password1"), field: "username"},
		{name: "username symbols", body: signupBody("al ice!", "alice@example.com", "password1"), field: "username"},
		{name: "short password", body: signupBody("alice", "alice@example.com", "pw1"), field: "password"},
		{name: "password without digit", body: signupBody("alice", "alice@example.com", "passwordonly"), field: "password"},
		{name: "password without letter", body: signupBody("alice", "alice@example.com", "1234567890"), field: "password"},
		{name: "long password", body: signupBody("alice", "alice@example.com", strings.Repeat("a1", 65)), field: "password"},
		{name: "password over 72 bytes", body: signupBody("alice", "alice@example.com", strings.Repeat("a", 72)+"1"), field: "password"},
		{name: "multibyte password over 72 bytes", body: signupBody("alice", "alice@example.com", strings.Repeat("é", 36)+"1"), field: "password"},
		{name: "missing username", body: map[string]string{"email": "alice@example.com", "password": "password1"}, field: "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.postJSON(t, "/signup", tt.body, "")

			require.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode[models.ValidationErrorResponse](t, w)
			assert.Equal(t, "Validation errors", resp.Message)
			require.NotEmpty(t, resp.Errors)
			assert.Equal(t, tt.field, resp.Errors[0].Field)
			assert.Zero(t, s.users.Creates())
		})
	}
}

func TestSignup_MalformedJSON(t *testing.T) {
	s := newTestServer(t)

	w := s.postJSON(t, "/signup", "not an object", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Validation errors")
}

func TestSignin(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, s.postJSON(t, "/signup", signupBody("alice", "alice@example.com", "password1"), "").Code)

	t.Run("success", func(t *testing.T) {
		w := s.postJSON(t, "/signin", map[string]string{"email": "alice@example.com", "password": "password1"}, "")

		require.Equal(t, http.StatusOK, w.Code)
		resp := decode[models.SigninResponse](t, w)
		assert.NotEmpty(t, resp.Token)

		userID, err := s.tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, userID)
	})

	t.Run("unknown email", func(t *testing.T) {
		w := s.postJSON(t, "/signin", map[string]string{"email": "nobody@example.com", "password": "password1"}, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, `{"msg":"user not found"}`, w.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		w := s.postJSON(t, "/signin", map[string]string{"email": "alice@example.com", "password": "password2"}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"msg":"incorrect password"}`, w.Body.String())
	})

	t.Run("missing password", func(t *testing.T) {
		w := s.postJSON(t, "/signin", map[string]string{"email": "alice@example.com"}, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Validation errors")
	})
}
