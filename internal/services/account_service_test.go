package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"slidecast-backend/internal/models"
	"slidecast-backend/internal/security"
	"slidecast-backend/internal/services"
	"slidecast-backend/internal/testutil"
)

const secret = "test-secret-key-for-jwt-signing-must-be-long-enough"

func newAccounts() (*services.AccountService, *testutil.MemoryUsers, *security.TokenIssuer) {
	users := &testutil.MemoryUsers{}
	tokens := security.NewTokenIssuer(secret, "slidecast", time.Hour)
	return services.NewAccountService(users, security.NewHasher(bcrypt.MinCost, 2), tokens), users, tokens
}

func signupRequest(username, email string) models.SignupRequest {
	return models.SignupRequest{Username: username, Email: email, Password: "password1"}
}

func TestSignup_StoresHashNotPlaintext(t *testing.T) {
	accounts, users, _ := newAccounts()

	user, err := accounts.Signup(context.Background(), signupRequest("alice", "alice@example.com"))
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.Users()[0].PasswordHash), []byte("password1")))
}

func TestSignup_DuplicateEmailOrUsername(t *testing.T) {
	accounts, users, _ := newAccounts()
	ctx := context.Background()

	_, err := accounts.Signup(ctx, signupRequest("alice", "alice@example.com"))
	require.NoError(t, err)

	_, err = accounts.Signup(ctx, signupRequest("alice2", "alice@example.com"))
	assert.ErrorIs(t, err, models.ErrConflict)

	_, err = accounts.Signup(ctx, signupRequest("alice", "other@example.com"))
	assert.ErrorIs(t, err, models.ErrConflict)

	assert.Equal(t, 1, users.Creates())
}

func TestSignin(t *testing.T) {
	accounts, _, tokens := newAccounts()
	ctx := context.Background()

	user, err := accounts.Signup(ctx, signupRequest("bob", "bob@example.com"))
	require.NoError(t, err)

	token, signedIn, err := accounts.Signin(ctx, "bob@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, signedIn.ID)

	subject, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), subject)
}

func TestSignin_WrongPassword(t *testing.T) {
	accounts, _, _ := newAccounts()
	ctx := context.Background()
	_, err := accounts.Signup(ctx, signupRequest("carol", "carol@example.com"))
	require.NoError(t, err)

	_, _, err = accounts.Signin(ctx, "carol@example.com", "password2")
	assert.ErrorIs(t, err, services.ErrIncorrectPassword)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestSignin_UnknownEmail(t *testing.T) {
	accounts, _, _ := newAccounts()

	_, _, err := accounts.Signin(context.Background(), "nobody@example.com", "password1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
