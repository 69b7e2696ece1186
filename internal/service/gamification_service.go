package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	completionPoints = 50
	streakBadgeAt    = 10
	streakBadgeName  = "10 Jobs Streak"
	firstJobBadge    = "First Job"
)

// GamificationService accrues points, badges and streaks when work orders
// complete. The CreditEvent ledger makes accrual idempotent per work order
// and tradesman: toggling a status back and forth never double-credits.
type GamificationService struct {
	tradesmanRepo *repository.TradesmanRepository
	creditRepo    *repository.CreditEventRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewGamificationService(
	tradesmanRepo *repository.TradesmanRepository,
	creditRepo *repository.CreditEventRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *GamificationService {
	return &GamificationService{
		tradesmanRepo: tradesmanRepo,
		creditRepo:    creditRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
	}
}

// HandleCompletion credits every tradesman assigned to the work order.
// Already-credited pairs are skipped via the ledger.
func (s *GamificationService) HandleCompletion(ctx context.Context, workOrder *domain.WorkOrder) error {
	for i := range workOrder.Tradesmen {
		if err := s.creditTradesman(ctx, workOrder, &workOrder.Tradesmen[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *GamificationService) creditTradesman(ctx context.Context, workOrder *domain.WorkOrder, assigned *domain.Tradesman) error {
	event := &domain.CreditEvent{
		WorkOrderID: workOrder.ID,
		TradesmanID: assigned.ID,
		Points:      completionPoints,
	}

	credited, err := s.creditRepo.TryCredit(ctx, event)
	if err != nil {
		return fmt.Errorf("failed to record credit: %w", err)
	}
	if !credited {
		s.logger.Debug("completion already credited",
			zap.String("work_order_id", workOrder.ID.String()),
			zap.String("tradesman_id", assigned.ID.String()),
		)
		return nil
	}

	// Reload: the association copy on the work order may be stale
	tradesman, err := s.tradesmanRepo.GetByID(ctx, assigned.ID)
	if err != nil {
		return fmt.Errorf("failed to get tradesman: %w", err)
	}

	tradesman.Points += completionPoints
	tradesman.JobsCompleted++
	tradesman.JobCompletionStreak++

	var earned []string
	if badge := milestoneBadge(tradesman.JobsCompleted); badge != "" {
		if tradesman.AddBadge(badge) {
			earned = append(earned, badge)
		}
	}
	if tradesman.JobCompletionStreak == streakBadgeAt {
		if tradesman.AddBadge(streakBadgeName) {
			earned = append(earned, streakBadgeName)
		}
	}

	if err := s.tradesmanRepo.Update(ctx, tradesman); err != nil {
		return fmt.Errorf("failed to update tradesman: %w", err)
	}

	s.logger.Info("completion credited",
		zap.String("work_order_id", workOrder.ID.String()),
		zap.String("tradesman_id", tradesman.ID.String()),
		zap.Int32("points", tradesman.Points),
		zap.Strings("badges_earned", earned),
	)

	for _, badge := range earned {
		s.notifyBadge(ctx, tradesman, badge)
	}

	return nil
}

// HandleIncomplete resets completion streaks for the assigned tradesmen.
// Points and badges already earned stay.
func (s *GamificationService) HandleIncomplete(ctx context.Context, workOrder *domain.WorkOrder) error {
	for i := range workOrder.Tradesmen {
		tradesman, err := s.tradesmanRepo.GetByID(ctx, workOrder.Tradesmen[i].ID)
		if err != nil {
			return fmt.Errorf("failed to get tradesman: %w", err)
		}
		if tradesman.JobCompletionStreak == 0 {
			continue
		}
		tradesman.JobCompletionStreak = 0
		if err := s.tradesmanRepo.Update(ctx, tradesman); err != nil {
			return fmt.Errorf("failed to reset streak: %w", err)
		}
	}
	return nil
}

// notifyBadge notifies the tradesman's user account, when one exists with a
// matching email.
func (s *GamificationService) notifyBadge(ctx context.Context, tradesman *domain.Tradesman, badge string) {
	if tradesman.Email == "" {
		return
	}
	user, err := s.userRepo.GetByEmail(ctx, tradesman.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("failed to look up user for badge notification", zap.Error(err))
		}
		return
	}
	s.notifications.Notify(ctx, user.ID, domain.NotificationTypeBadgeEarned,
		"Badge earned",
		fmt.Sprintf("You earned the %q badge", badge),
		&tradesman.ID, "tradesman")
}

// milestoneBadge returns the badge earned at a completion count, or ""
func milestoneBadge(jobsCompleted int32) string {
	if jobsCompleted == 1 {
		return firstJobBadge
	}
	if jobsCompleted > 0 && jobsCompleted%10 == 0 {
		return fmt.Sprintf("%d Jobs Completed", jobsCompleted)
	}
	return ""
}
