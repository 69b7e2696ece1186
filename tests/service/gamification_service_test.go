package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
	"gorm.io/gorm"
)

func newGamificationService(db *gorm.DB) *service.GamificationService {
	return service.NewGamificationService(
		repository.NewTradesmanRepository(db),
		repository.NewCreditEventRepository(db),
		repository.NewUserRepository(db),
		service.NewNotificationService(repository.NewNotificationRepository(db), testutil.Logger()),
		testutil.Logger(),
	)
}

func completedOrder(tradesmen ...domain.Tradesman) *domain.WorkOrder {
	return &domain.WorkOrder{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Status:    domain.WorkOrderStatusCompleted,
		Tradesmen: tradesmen,
	}
}

func TestGamification_CompletionCreditsPointsAndFirstJobBadge(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGamificationService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")

	require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))

	updated, err := repository.NewTradesmanRepository(db).GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(50), updated.Points)
	assert.Equal(t, int32(1), updated.JobsCompleted)
	assert.Equal(t, int32(1), updated.JobCompletionStreak)
	assert.True(t, updated.HasBadge("First Job"))
}

func TestGamification_StatusToggleNeverDoubleCredits(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGamificationService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	order := completedOrder(*tradesman)

	// Same work order completed three times: only the first pass credits
	for i := 0; i < 3; i++ {
		require.NoError(t, svc.HandleCompletion(ctx, order))
	}

	updated, err := repository.NewTradesmanRepository(db).GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(50), updated.Points)
	assert.Equal(t, int32(1), updated.JobsCompleted)
}

func TestGamification_DistinctOrdersKeepCrediting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGamificationService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")

	require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))
	require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))

	updated, err := repository.NewTradesmanRepository(db).GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(100), updated.Points)
	assert.Equal(t, int32(2), updated.JobsCompleted)
}

func TestGamification_StreakBadgeAtTen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGamificationService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")

	for i := 0; i < 10; i++ {
		require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))
	}

	repo := repository.NewTradesmanRepository(db)
	updated, err := repo.GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(10), updated.JobCompletionStreak)
	assert.True(t, updated.HasBadge("10 Jobs Streak"))
	assert.True(t, updated.HasBadge("10 Jobs Completed"))

	// The streak badge is awarded once, a second run to ten does not duplicate
	require.NoError(t, svc.HandleIncomplete(ctx, completedOrder(*tradesman)))
	for i := 0; i < 10; i++ {
		require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))
	}

	updated, err = repo.GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	count := 0
	for _, b := range updated.Badges {
		if b == "10 Jobs Streak" {
			count++
		}
	}
	assert.Equal(t, 1, count)
	assert.True(t, updated.HasBadge("20 Jobs Completed"))
}

func TestGamification_IncompleteResetsStreakOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGamificationService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))
	}
	require.NoError(t, svc.HandleIncomplete(ctx, completedOrder(*tradesman)))

	updated, err := repository.NewTradesmanRepository(db).GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(0), updated.JobCompletionStreak)
	assert.Equal(t, int32(150), updated.Points, "points stay on streak reset")
	assert.Equal(t, int32(3), updated.JobsCompleted)
	assert.True(t, updated.HasBadge("First Job"), "badges stay on streak reset")
}

func TestGamification_BadgeNotifiesMatchingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGamificationService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	user := &domain.User{
		Email:        tradesman.Email,
		PasswordHash: "x",
		DisplayName:  "Ola Hansen",
		Role:         domain.RoleTechnician,
	}
	require.NoError(t, db.Create(user).Error)

	require.NoError(t, svc.HandleCompletion(ctx, completedOrder(*tradesman)))

	var notifications []domain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, user.ID, notifications[0].UserID)
	assert.Equal(t, string(domain.NotificationTypeBadgeEarned), notifications[0].Type)
}
