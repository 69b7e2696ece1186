package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
)

func TestWorkOrderRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	other := testutil.CreateTestCustomer(t, db, "Ola Hansen")

	open := testutil.CreateTestWorkOrder(t, db, customer.ID, 1)
	completed := &domain.WorkOrder{
		WorkOrderNumber: 2,
		Category:        "Electrical",
		Description:     "Replace fuse box",
		Status:          domain.WorkOrderStatusCompleted,
		IsCallback:      true,
		Materials:       []domain.Material{},
		CustomerID:      other.ID,
	}
	require.NoError(t, db.Create(completed).Error)

	t.Run("status filter", func(t *testing.T) {
		status := domain.WorkOrderStatusOpen
		orders, total, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, open.ID, orders[0].ID)
	})

	t.Run("customer filter", func(t *testing.T) {
		orders, total, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{CustomerID: &other.ID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, orders, 1)
		assert.Equal(t, completed.ID, orders[0].ID)
	})

	t.Run("callback filter", func(t *testing.T) {
		_, total, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{CallbackOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("work order number filter", func(t *testing.T) {
		number := 2
		orders, _, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{WorkOrderNumber: &number})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, completed.ID, orders[0].ID)
	})

	t.Run("search matches category case-insensitively", func(t *testing.T) {
		orders, _, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{Search: "electr"})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, completed.ID, orders[0].ID)
	})

	t.Run("descending number order", func(t *testing.T) {
		orders, total, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, orders, 2)
		assert.Equal(t, 2, orders[0].WorkOrderNumber)
		assert.Equal(t, 1, orders[1].WorkOrderNumber)
	})
}

func TestWorkOrderRepository_ScheduledWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")

	monday := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	for i, at := range []time.Time{monday, friday} {
		scheduled := at
		order := &domain.WorkOrder{
			WorkOrderNumber: i + 1,
			Category:        "Plumbing",
			Status:          domain.WorkOrderStatusOpen,
			ScheduledAt:     &scheduled,
			Materials:       []domain.Material{},
			CustomerID:      customer.ID,
		}
		require.NoError(t, db.Create(order).Error)
	}

	from := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	orders, total, err := repo.List(ctx, 1, 20, repository.WorkOrderFilter{
		ScheduledFrom: &from,
		ScheduledTo:   &to,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, orders, 1)
	assert.Equal(t, 2, orders[0].WorkOrderNumber)
}

func TestWorkOrderRepository_Tasks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewWorkOrderRepository(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, 1)

	task := &domain.Task{
		Name:        "Shut off water",
		WorkOrderID: order.ID,
	}
	require.NoError(t, repo.CreateTask(ctx, task))

	loaded, err := repo.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsComplete)

	loaded.IsComplete = true
	require.NoError(t, repo.UpdateTask(ctx, loaded))

	withTasks, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, withTasks.Tasks, 1)
	assert.True(t, withTasks.Tasks[0].IsComplete)

	require.NoError(t, repo.DeleteTask(ctx, task.ID))
	_, err = repo.GetTaskByID(ctx, task.ID)
	assert.Error(t, err)
}
