package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	logger           *zap.Logger
}

func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// Notify writes a notification row for the user. Failures are logged, not
// propagated: a missed notification never fails the triggering operation.
func (s *NotificationService) Notify(ctx context.Context, userID uuid.UUID, notifType domain.NotificationType, title, message string, entityID *uuid.UUID, entityType string) {
	notification := &domain.Notification{
		UserID:     userID,
		Type:       string(notifType),
		Title:      title,
		Message:    message,
		EntityID:   entityID,
		EntityType: entityType,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		s.logger.Error("failed to create notification",
			zap.String("user_id", userID.String()),
			zap.String("type", string(notifType)),
			zap.Error(err),
		)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, page, pageSize int, unreadOnly bool, notifType string) (*domain.PaginatedResponse, error) {
	notifications, total, err := s.notificationRepo.ListByUser(ctx, userID, page, pageSize, unreadOnly, notifType)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       notifications,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// MarkRead marks one notification read, verifying ownership
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get notification: %w", err)
	}

	if notification.UserID != userID {
		return ErrPermissionDenied
	}

	return s.notificationRepo.MarkAsRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.notificationRepo.MarkAllAsRead(ctx, userID)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}
