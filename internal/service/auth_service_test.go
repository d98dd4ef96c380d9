package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

func newTestAuthService(t *testing.T, users *fakeUserRepo) *AuthService {
	t.Helper()
	return NewAuthService(config.AuthConfig{BcryptCost: bcrypt.MinCost}, AuthDependencies{
		UserRepo: users,
		Tokens:   newTestTokens(t),
	})
}

func TestRegisterIssuesVerifiableToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	user, token, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	claims, err := svc.tokens.Verify(token)
	require.NoError(t, err)
	sub, ok := claims.SubjectID()
	require.True(t, ok)
	assert.Equal(t, user.ID, sub)

	role, ok := claims.Role()
	require.True(t, ok)
	assert.Equal(t, "customer", role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	_, _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	_, _, _, err = svc.Register(context.Background(), "alice2", "alice@example.com", "other")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, http.StatusConflict, domainErr.HTTPStatus)
}

func TestLogin(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	registered, _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	user, token, _, err := svc.Login(context.Background(), "alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, token)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(t, users)

	_, _, _, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "alice@example.com", "nope"},
		{"unknown account", "bob@example.com", "s3cret"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Login(context.Background(), tc.email, tc.password)
			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, http.StatusUnauthorized, domainErr.HTTPStatus)
			assert.Equal(t, "invalid credentials", domainErr.Message)
		})
	}
}
