package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/config"
	"github.com/veltra-services/fieldservice-api/internal/domain"
)

func newTokenManager(t *testing.T, secret string) *auth.TokenManager {
	m, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: secret,
		TokenTTL:  60,
		Issuer:    "fieldservice-test",
	})
	require.NoError(t, err)
	return m
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	m := newTokenManager(t, "test-secret")

	user := &domain.User{
		BaseModel:   domain.BaseModel{ID: uuid.New()},
		Role:        domain.RoleAdmin,
		CompanyCode: "AB12CD34",
	}

	token, expiresAt, err := m.IssueToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, expiresAt.IsZero())

	userCtx, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, domain.RoleAdmin, userCtx.Role)
	assert.Equal(t, "AB12CD34", userCtx.CompanyCode)
	assert.True(t, userCtx.IsAdmin())
	assert.False(t, userCtx.IsTechnician())
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	issuer := newTokenManager(t, "secret-a")
	validator := newTokenManager(t, "secret-b")

	user := &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Role:      domain.RoleTechnician,
	}
	token, _, err := issuer.IssueToken(user)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := newTokenManager(t, "test-secret")

	_, err := m.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenManager_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokenManager(&config.AuthConfig{})
	assert.Error(t, err)
}

func TestPassword_HashAndVerify(t *testing.T) {
	hash, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, auth.VerifyPassword(hash, "correct horse"))
	assert.Error(t, auth.VerifyPassword(hash, "wrong password"))
}

func TestPassword_HashesAreSalted(t *testing.T) {
	first, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	second, err := auth.HashPassword("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}
