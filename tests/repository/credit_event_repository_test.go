package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
)

func TestCreditEvent_TryCreditIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCreditEventRepository(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	workOrderID := uuid.New()

	credited, err := repo.TryCredit(ctx, &domain.CreditEvent{
		WorkOrderID: workOrderID,
		TradesmanID: tradesman.ID,
		Points:      50,
	})
	require.NoError(t, err)
	assert.True(t, credited)

	// Same pair again: the unique index swallows the insert
	credited, err = repo.TryCredit(ctx, &domain.CreditEvent{
		WorkOrderID: workOrderID,
		TradesmanID: tradesman.ID,
		Points:      50,
	})
	require.NoError(t, err)
	assert.False(t, credited)

	exists, err := repo.Exists(ctx, workOrderID, tradesman.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreditEvent_DifferentPairsBothCredit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewCreditEventRepository(db)
	ctx := context.Background()

	first := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	second := testutil.CreateTestTradesman(t, db, "Kari Nordmann")
	workOrderID := uuid.New()

	for _, tradesmanID := range []uuid.UUID{first.ID, second.ID} {
		credited, err := repo.TryCredit(ctx, &domain.CreditEvent{
			WorkOrderID: workOrderID,
			TradesmanID: tradesmanID,
			Points:      50,
		})
		require.NoError(t, err)
		assert.True(t, credited)
	}

	events, err := repo.ListByTradesman(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, int32(50), events[0].Points)
	assert.Equal(t, workOrderID, events[0].WorkOrderID)
}
