package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/mapper"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TradesmanService struct {
	tradesmanRepo *repository.TradesmanRepository
	creditRepo    *repository.CreditEventRepository
	logger        *zap.Logger
}

func NewTradesmanService(
	tradesmanRepo *repository.TradesmanRepository,
	creditRepo *repository.CreditEventRepository,
	logger *zap.Logger,
) *TradesmanService {
	return &TradesmanService{
		tradesmanRepo: tradesmanRepo,
		creditRepo:    creditRepo,
		logger:        logger,
	}
}

func (s *TradesmanService) Create(ctx context.Context, req *domain.CreateTradesmanRequest) (*domain.Tradesman, error) {
	tradesman := &domain.Tradesman{
		Name:     req.Name,
		JobTitle: req.JobTitle,
		Phone:    req.Phone,
		Address:  req.Address,
		Email:    req.Email,
		Badges:   []string{},
	}

	if err := s.tradesmanRepo.Create(ctx, tradesman); err != nil {
		return nil, fmt.Errorf("failed to create tradesman: %w", err)
	}
	return tradesman, nil
}

func (s *TradesmanService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tradesman, error) {
	tradesman, err := s.tradesmanRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get tradesman: %w", err)
	}
	return tradesman, nil
}

func (s *TradesmanService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateTradesmanRequest) (*domain.Tradesman, error) {
	tradesman, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tradesman.Name = req.Name
	tradesman.JobTitle = req.JobTitle
	tradesman.Phone = req.Phone
	tradesman.Address = req.Address
	tradesman.Email = req.Email

	if err := s.tradesmanRepo.Update(ctx, tradesman); err != nil {
		return nil, fmt.Errorf("failed to update tradesman: %w", err)
	}
	return tradesman, nil
}

func (s *TradesmanService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.tradesmanRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tradesman: %w", err)
	}

	s.logger.Info("tradesman deleted", zap.String("tradesman_id", id.String()))
	return nil
}

func (s *TradesmanService) List(ctx context.Context, page, pageSize int, search string) (*domain.PaginatedResponse, error) {
	tradesmen, total, err := s.tradesmanRepo.List(ctx, page, pageSize, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list tradesmen: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       tradesmen,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Leaderboard returns the top tradesmen by points
func (s *TradesmanService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	tradesmen, err := s.tradesmanRepo.Leaderboard(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, len(tradesmen))
	for i := range tradesmen {
		entries[i] = mapper.ToLeaderboardEntry(&tradesmen[i])
	}
	return entries, nil
}

// AwardBadge manually grants a badge. Duplicate awards are no-ops.
func (s *TradesmanService) AwardBadge(ctx context.Context, id uuid.UUID, req *domain.AwardBadgeRequest) (*domain.Tradesman, error) {
	tradesman, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tradesman.AddBadge(req.Badge) {
		if err := s.tradesmanRepo.Update(ctx, tradesman); err != nil {
			return nil, fmt.Errorf("failed to award badge: %w", err)
		}
	}
	return tradesman, nil
}

// CreditHistory lists a tradesman's completion credits, newest first
func (s *TradesmanService) CreditHistory(ctx context.Context, id uuid.UUID) ([]domain.CreditEvent, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.creditRepo.ListByTradesman(ctx, id)
}
