package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
	"gorm.io/gorm"
)

func newMessageService(db *gorm.DB) *service.MessageService {
	return service.NewMessageService(
		repository.NewConversationRepository(db),
		repository.NewUserRepository(db),
		service.NewNotificationService(repository.NewNotificationRepository(db), testutil.Logger()),
		testutil.Logger(),
	)
}

func createTestUser(t *testing.T, db *gorm.DB, displayName, email string) *domain.User {
	user := &domain.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  displayName,
		Role:         domain.RoleTechnician,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func asUser(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID: user.ID,
		Role:   user.Role,
	})
}

func TestMessageService_CreateConversationDedupes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMessageService(db)
	ctx := context.Background()

	first, err := svc.CreateConversation(ctx, &domain.CreateConversationRequest{
		Participants: "Ola Hansen, Kari Nordmann",
	})
	require.NoError(t, err)

	second, err := svc.CreateConversation(ctx, &domain.CreateConversationRequest{
		Participants: "Ola Hansen, Kari Nordmann",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same participants key returns the existing thread")

	other, err := svc.CreateConversation(ctx, &domain.CreateConversationRequest{
		Participants: "Ola Hansen, Per Olsen",
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestMessageService_PostMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMessageService(db)

	sender := createTestUser(t, db, "Ola Hansen", "ola@example.com")
	recipient := createTestUser(t, db, "Kari Nordmann", "kari@example.com")
	ctx := asUser(sender)

	conversation, err := svc.CreateConversation(ctx, &domain.CreateConversationRequest{
		Participants: "Ola Hansen, Kari Nordmann",
	})
	require.NoError(t, err)

	message, err := svc.PostMessage(ctx, conversation.ID, &domain.PostMessageRequest{
		Body: "On my way",
	})
	require.NoError(t, err)
	assert.Equal(t, sender.ID, message.SenderID)
	assert.Equal(t, "Ola Hansen", message.SenderName)

	messages, err := svc.ListMessages(ctx, conversation.ID)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "On my way", messages[0].Body)

	// The other participant is notified, the sender is not
	var notifications []domain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, recipient.ID, notifications[0].UserID)
	assert.Equal(t, string(domain.NotificationTypeNewMessage), notifications[0].Type)
}

func TestMessageService_PostMessageRequiresAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMessageService(db)
	ctx := context.Background()

	conversation, err := svc.CreateConversation(ctx, &domain.CreateConversationRequest{
		Participants: "Ola Hansen",
	})
	require.NoError(t, err)

	_, err = svc.PostMessage(ctx, conversation.ID, &domain.PostMessageRequest{Body: "hi"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestMessageService_DeleteConversationRemovesMessages(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMessageService(db)

	sender := createTestUser(t, db, "Ola Hansen", "ola@example.com")
	ctx := asUser(sender)

	conversation, err := svc.CreateConversation(ctx, &domain.CreateConversationRequest{
		Participants: "Ola Hansen",
	})
	require.NoError(t, err)
	_, err = svc.PostMessage(ctx, conversation.ID, &domain.PostMessageRequest{Body: "note to self"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(ctx, conversation.ID))

	_, err = svc.GetConversation(ctx, conversation.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	var count int64
	require.NoError(t, db.Model(&domain.Message{}).Where("conversation_id = ?", conversation.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMessageService_UnknownConversation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMessageService(db)

	_, err := svc.GetConversation(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
