package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/mapper"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const companyCodeLength = 8

type AuthService struct {
	userRepo *repository.UserRepository
	tokens   *auth.TokenManager
	logger   *zap.Logger
}

func NewAuthService(
	userRepo *repository.UserRepository,
	tokens *auth.TokenManager,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new account. Admins receive a generated company code
// which technicians later submit to link themselves to the admin.
func (s *AuthService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.LoginResponse, error) {
	taken, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := domain.UserRoleType(req.Role)
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	user := &domain.User{
		Email:            req.Email,
		PasswordHash:     hash,
		DisplayName:      req.DisplayName,
		Role:             role,
		SubscriptionPlan: domain.PlanFree,
		NotifyOnLowStock: true,
		NotifyOnMessages: true,
		NotifyOnSchedule: true,
		IsActive:         true,
	}

	if role == domain.RoleAdmin {
		code, err := generateCompanyCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate company code: %w", err)
		}
		user.CompanyCode = code
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return s.issueLogin(ctx, user)
}

// Login verifies credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("failed to record last login", zap.Error(err))
	}

	return s.issueLogin(ctx, user)
}

func (s *AuthService) issueLogin(_ context.Context, user *domain.User) (*domain.LoginResponse, error) {
	token, expiresAt, err := s.tokens.IssueToken(user)
	if err != nil {
		return nil, err
	}

	dto := mapper.ToUserDTO(user)
	return &domain.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      &dto,
	}, nil
}

// GetProfile returns the account for the given user id
func (s *AuthService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// LinkCompany associates a technician with the admin owning the company code
func (s *AuthService) LinkCompany(ctx context.Context, userID uuid.UUID, req *domain.LinkCompanyRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Role != domain.RoleTechnician {
		return nil, fmt.Errorf("%w: only technicians link to a company", ErrPermissionDenied)
	}

	admin, err := s.userRepo.FindAdminByCompanyCode(ctx, req.CompanyCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCompanyCodeNotFound
		}
		return nil, fmt.Errorf("failed to look up company code: %w", err)
	}

	user.CompanyCode = admin.CompanyCode
	user.AdminID = &admin.ID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to link company: %w", err)
	}

	s.logger.Info("technician linked to company",
		zap.String("user_id", user.ID.String()),
		zap.String("admin_id", admin.ID.String()),
	)

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdateNotificationPrefs updates only the preferences present in the request
func (s *AuthService) UpdateNotificationPrefs(ctx context.Context, userID uuid.UUID, req *domain.UpdateNotificationPrefsRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if req.NotifyOnLowStock != nil {
		user.NotifyOnLowStock = *req.NotifyOnLowStock
	}
	if req.NotifyOnMessages != nil {
		user.NotifyOnMessages = *req.NotifyOnMessages
	}
	if req.NotifyOnSchedule != nil {
		user.NotifyOnSchedule = *req.NotifyOnSchedule
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdateSubscription switches the account's plan
func (s *AuthService) UpdateSubscription(ctx context.Context, userID uuid.UUID, req *domain.UpdateSubscriptionRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.SubscriptionPlan = domain.SubscriptionPlan(req.Plan)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// UpdatePaymentLink stores the admin's customer-facing payment link
func (s *AuthService) UpdatePaymentLink(ctx context.Context, userID uuid.UUID, req *domain.UpdatePaymentLinkRequest) (*domain.UserDTO, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.PaymentLink = req.PaymentLink
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update payment link: %w", err)
	}

	dto := mapper.ToUserDTO(user)
	return &dto, nil
}

// ListTechnicians returns the technicians linked to an admin account
func (s *AuthService) ListTechnicians(ctx context.Context, adminID uuid.UUID) ([]domain.UserDTO, error) {
	users, err := s.userRepo.ListTechnicians(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list technicians: %w", err)
	}

	dtos := make([]domain.UserDTO, len(users))
	for i := range users {
		dtos[i] = mapper.ToUserDTO(&users[i])
	}
	return dtos, nil
}

// generateCompanyCode builds a short random code from an unambiguous alphabet
func generateCompanyCode() (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	code := make([]byte, companyCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}
	return string(code), nil
}
