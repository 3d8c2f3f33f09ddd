package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/forgo/packlist/internal/model"
	"github.com/forgo/packlist/internal/testing/memstore"
	"github.com/forgo/packlist/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*AuthService, *memstore.Store, *jwt.Service) {
	t.Helper()

	jwtService, err := jwt.NewService(jwt.Config{Secret: "auth-test-secret", Issuer: "packlist-test"})
	require.NoError(t, err)

	store := memstore.New()
	svc := NewAuthService(AuthServiceConfig{
		UserRepo:   store.Users(),
		JWTService: jwtService,
		BcryptCost: bcrypt.MinCost,
	})
	return svc, store, jwtService
}

func register(t *testing.T, svc *AuthService, username string) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Password: "correct-horse",
		Email:    username + "@example.com",
	})
	require.NoError(t, err)
	return u
}

// ============================================================================
// Register Tests
// ============================================================================

func TestAuthService_Register_HashesPassword(t *testing.T) {
	t.Parallel()
	svc, store, _ := newAuthFixture(t)

	u := register(t, svc, "alice")

	assert.NotEmpty(t, u.ID)
	assert.Empty(t, u.AuthorOf)
	stored := store.User("alice")
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.Hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Hash), []byte("correct-horse")))
}

func TestAuthService_Register_EmailOptional(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)

	u, err := svc.Register(context.Background(), RegisterRequest{Username: "bob", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Empty(t, u.Email)
}

func TestAuthService_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		req   RegisterRequest
		field string
		want  error
	}{
		{"missing username", RegisterRequest{Password: "correct-horse"}, "username", ErrUsernameRequired},
		{"blank username", RegisterRequest{Username: "   ", Password: "correct-horse"}, "username", ErrUsernameRequired},
		{"padded username", RegisterRequest{Username: " bob", Password: "correct-horse"}, "username", ErrSurroundingSpaces},
		{"long username", RegisterRequest{Username: strings.Repeat("a", 65), Password: "correct-horse"}, "username", ErrUsernameTooLong},
		{"missing password", RegisterRequest{Username: "bob"}, "password", ErrPasswordRequired},
		{"short password", RegisterRequest{Username: "bob", Password: "short"}, "password", ErrPasswordTooShort},
		{"long password", RegisterRequest{Username: "bob", Password: strings.Repeat("p", 73)}, "password", ErrPasswordTooLong},
		{"padded password", RegisterRequest{Username: "bob", Password: " correct-horse"}, "password", ErrSurroundingSpaces},
		{"bad email", RegisterRequest{Username: "bob", Password: "correct-horse", Email: "not-an-email"}, "email", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, _, _ := newAuthFixture(t)

			_, err := svc.Register(context.Background(), tt.req)

			require.ErrorIs(t, err, tt.want)
			var fe *FieldError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)
	register(t, svc, "alice")

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "another-pass"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	t.Parallel()
	svc, store, _ := newAuthFixture(t)
	store.Fail(memstore.OpCreateUser, errStore)

	_, err := svc.Register(context.Background(), RegisterRequest{Username: "alice", Password: "correct-horse"})
	assert.ErrorIs(t, err, errStore)
}

// ============================================================================
// Login Tests
// ============================================================================

func TestAuthService_Login_IssuesToken(t *testing.T) {
	t.Parallel()
	svc, _, jwtService := newAuthFixture(t)
	u := register(t, svc, "alice")

	token, err := svc.Login(context.Background(), LoginRequest{Username: "alice", Password: "correct-horse"})
	require.NoError(t, err)

	claims, err := jwtService.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)
	register(t, svc, "alice")

	for _, req := range []LoginRequest{
		{Username: "alice", Password: "wrong-password"},
		{Username: "nobody", Password: "correct-horse"},
		{Username: "alice"},
		{},
	} {
		_, err := svc.Login(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "login %+v", req)
	}
}

// ============================================================================
// Refresh / Validate Tests
// ============================================================================

func TestAuthService_Refresh_IssuesValidToken(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)
	u := register(t, svc, "alice")

	token, err := svc.Refresh(context.Background(), Principal{UserID: u.ID, Username: u.Username})
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthService_Refresh_DeletedUser(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), Principal{UserID: "user:gone", Username: "gone"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ValidateAccessToken_Garbage(t *testing.T) {
	t.Parallel()
	svc, _, _ := newAuthFixture(t)

	_, err := svc.ValidateAccessToken("garbage")
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}
