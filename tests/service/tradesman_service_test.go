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

func newTradesmanService(db *gorm.DB) *service.TradesmanService {
	return service.NewTradesmanService(
		repository.NewTradesmanRepository(db),
		repository.NewCreditEventRepository(db),
		testutil.Logger(),
	)
}

func TestTradesmanService_CreateAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTradesmanService(db)
	ctx := context.Background()

	tradesman, err := svc.Create(ctx, &domain.CreateTradesmanRequest{
		Name:     "Ola Hansen",
		JobTitle: "Electrician",
		Email:    "ola@example.com",
	})
	require.NoError(t, err)
	assert.NotNil(t, tradesman.Badges)
	assert.Equal(t, int32(0), tradesman.Points)

	updated, err := svc.Update(ctx, tradesman.ID, &domain.UpdateTradesmanRequest{
		Name:     "Ola Hansen",
		JobTitle: "Master Electrician",
		Email:    "ola@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Master Electrician", updated.JobTitle)
}

func TestTradesmanService_AwardBadgeIgnoresDuplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTradesmanService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Kari Nordmann")

	awarded, err := svc.AwardBadge(ctx, tradesman.ID, &domain.AwardBadgeRequest{Badge: "Customer Favorite"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Customer Favorite"}, awarded.Badges)

	again, err := svc.AwardBadge(ctx, tradesman.ID, &domain.AwardBadgeRequest{Badge: "Customer Favorite"})
	require.NoError(t, err)
	assert.Len(t, again.Badges, 1)

	_, err = svc.AwardBadge(ctx, uuid.New(), &domain.AwardBadgeRequest{Badge: "Ghost"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTradesmanService_LeaderboardOrdersByPoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTradesmanService(db)
	ctx := context.Background()

	low := testutil.CreateTestTradesman(t, db, "Low Scorer")
	high := testutil.CreateTestTradesman(t, db, "High Scorer")
	mid := testutil.CreateTestTradesman(t, db, "Mid Scorer")
	require.NoError(t, db.Model(low).Update("points", 50).Error)
	require.NoError(t, db.Model(high).Update("points", 300).Error)
	require.NoError(t, db.Model(mid).Update("points", 150).Error)

	entries, err := svc.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "High Scorer", entries[0].Name)
	assert.Equal(t, int32(300), entries[0].Points)
	assert.Equal(t, "Mid Scorer", entries[1].Name)
}

func TestTradesmanService_CreditHistory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTradesmanService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Per Olsen")
	customer := testutil.CreateTestCustomer(t, db, "Anne Berg")
	first := testutil.CreateTestWorkOrder(t, db, customer.ID, 1)
	second := testutil.CreateTestWorkOrder(t, db, customer.ID, 2)

	creditRepo := repository.NewCreditEventRepository(db)
	for _, order := range []*domain.WorkOrder{first, second} {
		credited, err := creditRepo.TryCredit(ctx, &domain.CreditEvent{
			WorkOrderID: order.ID,
			TradesmanID: tradesman.ID,
			Points:      50,
		})
		require.NoError(t, err)
		require.True(t, credited)
	}

	events, err := svc.CreditHistory(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = svc.CreditHistory(ctx, uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestTradesmanService_ListSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newTradesmanService(db)
	ctx := context.Background()

	testutil.CreateTestTradesman(t, db, "Ola Hansen")
	testutil.CreateTestTradesman(t, db, "Kari Nordmann")

	page, err := svc.List(ctx, 1, 20, "hansen")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}
