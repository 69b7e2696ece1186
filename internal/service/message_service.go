package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MessageService struct {
	conversationRepo *repository.ConversationRepository
	userRepo         *repository.UserRepository
	notifications    *NotificationService
	logger           *zap.Logger
}

func NewMessageService(
	conversationRepo *repository.ConversationRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		notifications:    notifications,
		logger:           logger,
	}
}

// CreateConversation opens a thread, or returns the existing one when the
// participants key already exists.
func (s *MessageService) CreateConversation(ctx context.Context, req *domain.CreateConversationRequest) (*domain.Conversation, error) {
	existing, err := s.conversationRepo.FindByParticipants(ctx, req.Participants)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up conversation: %w", err)
	}

	conversation := &domain.Conversation{
		Participants: req.Participants,
	}
	if err := s.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

func (s *MessageService) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	conversation, err := s.conversationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get conversation: %w", err)
	}
	return conversation, nil
}

func (s *MessageService) ListConversations(ctx context.Context, page, pageSize int) (*domain.PaginatedResponse, error) {
	conversations, total, err := s.conversationRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       conversations,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *MessageService) DeleteConversation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetConversation(ctx, id); err != nil {
		return err
	}
	return s.conversationRepo.Delete(ctx, id)
}

// ListMessages returns the thread's messages in timestamp order
func (s *MessageService) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	if _, err := s.GetConversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.conversationRepo.ListMessages(ctx, conversationID)
}

// PostMessage appends a message to the thread and notifies the other
// participants that have accounts and want message notifications.
func (s *MessageService) PostMessage(ctx context.Context, conversationID uuid.UUID, req *domain.PostMessageRequest) (*domain.Message, error) {
	conversation, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUnauthorized
	}

	sender, err := s.userRepo.GetByID(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get sender: %w", err)
	}

	message := &domain.Message{
		ConversationID: conversationID,
		SenderID:       sender.ID,
		SenderName:     sender.DisplayName,
		Body:           req.Body,
	}
	if err := s.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	if err := s.conversationRepo.Touch(ctx, conversationID); err != nil {
		s.logger.Warn("failed to touch conversation", zap.Error(err))
	}

	s.notifyParticipants(ctx, conversation, sender, message)
	return message, nil
}

// notifyParticipants resolves the participants key (comma-separated display
// names) to user accounts and notifies everyone but the sender.
func (s *MessageService) notifyParticipants(ctx context.Context, conversation *domain.Conversation, sender *domain.User, message *domain.Message) {
	for _, name := range strings.Split(conversation.Participants, ",") {
		name = strings.TrimSpace(name)
		if name == "" || name == sender.DisplayName {
			continue
		}
		user, err := s.userRepo.GetByDisplayName(ctx, name)
		if err != nil {
			continue
		}
		if !user.NotifyOnMessages {
			continue
		}
		s.notifications.Notify(ctx, user.ID, domain.NotificationTypeNewMessage,
			"New message",
			fmt.Sprintf("%s: %s", sender.DisplayName, truncate(message.Body, 120)),
			&conversation.ID, "conversation")
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
