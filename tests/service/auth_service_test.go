package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/config"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB) *service.AuthService {
	tokens, err := auth.NewTokenManager(&config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  60,
		Issuer:    "fieldservice-test",
	})
	require.NoError(t, err)
	return service.NewAuthService(repository.NewUserRepository(db), tokens, testutil.Logger())
}

func TestAuthService_RegisterAdminGetsCompanyCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	resp, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:       "admin@example.com",
		Password:    "correct horse",
		DisplayName: "Admin",
		Role:        "admin",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, domain.RoleAdmin, resp.User.Role)
	assert.Len(t, resp.User.CompanyCode, 8)
}

func TestAuthService_RegisterTechnicianHasNoCompanyCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)

	resp, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Email:       "tech@example.com",
		Password:    "correct horse",
		DisplayName: "Tech",
		Role:        "technician",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.User.CompanyCode)
}

func TestAuthService_RegisterRejectsTakenEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	req := &domain.RegisterRequest{
		Email:       "admin@example.com",
		Password:    "correct horse",
		DisplayName: "Admin",
		Role:        "admin",
	}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, req)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:       "admin@example.com",
		Password:    "correct horse",
		DisplayName: "Admin",
		Role:        "admin",
	})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	_, err = svc.Login(ctx, &domain.LoginRequest{
		Email:    "admin@example.com",
		Password: "wrong password",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	assert.ErrorIs(t, err, service.ErrInvalidCredentials, "unknown email must look like a bad password")
}

func TestAuthService_LinkCompany(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	admin, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:       "admin@example.com",
		Password:    "correct horse",
		DisplayName: "Admin",
		Role:        "admin",
	})
	require.NoError(t, err)

	tech, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:       "tech@example.com",
		Password:    "correct horse",
		DisplayName: "Tech",
		Role:        "technician",
	})
	require.NoError(t, err)

	linked, err := svc.LinkCompany(ctx, tech.User.ID, &domain.LinkCompanyRequest{
		CompanyCode: admin.User.CompanyCode,
	})
	require.NoError(t, err)
	assert.Equal(t, admin.User.CompanyCode, linked.CompanyCode)
	require.NotNil(t, linked.AdminID)
	assert.Equal(t, admin.User.ID, *linked.AdminID)

	_, err = svc.LinkCompany(ctx, tech.User.ID, &domain.LinkCompanyRequest{CompanyCode: "NOPE1234"})
	assert.ErrorIs(t, err, service.ErrCompanyCodeNotFound)

	_, err = svc.LinkCompany(ctx, admin.User.ID, &domain.LinkCompanyRequest{CompanyCode: admin.User.CompanyCode})
	assert.ErrorIs(t, err, service.ErrPermissionDenied, "admins do not link to a company")
}

func TestAuthService_ListTechnicians(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	admin, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:       "admin@example.com",
		Password:    "correct horse",
		DisplayName: "Admin",
		Role:        "admin",
	})
	require.NoError(t, err)

	tech, err := svc.Register(ctx, &domain.RegisterRequest{
		Email:       "tech@example.com",
		Password:    "correct horse",
		DisplayName: "Tech",
		Role:        "technician",
	})
	require.NoError(t, err)

	_, err = svc.LinkCompany(ctx, tech.User.ID, &domain.LinkCompanyRequest{
		CompanyCode: admin.User.CompanyCode,
	})
	require.NoError(t, err)

	technicians, err := svc.ListTechnicians(ctx, admin.User.ID)
	require.NoError(t, err)
	require.Len(t, technicians, 1)
	assert.Equal(t, "tech@example.com", technicians[0].Email)
}
