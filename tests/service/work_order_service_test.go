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

func newWorkOrderService(db *gorm.DB) *service.WorkOrderService {
	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), testutil.Logger())
	gamification := service.NewGamificationService(
		repository.NewTradesmanRepository(db),
		repository.NewCreditEventRepository(db),
		repository.NewUserRepository(db),
		notifications,
		testutil.Logger(),
	)
	return service.NewWorkOrderService(
		repository.NewWorkOrderRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewTradesmanRepository(db),
		repository.NewInvoiceRepository(db),
		repository.NewNumberSequenceRepository(db),
		repository.NewDeletedItemRepository(db),
		repository.NewUserRepository(db),
		gamification,
		notifications,
		testutil.Logger(),
	)
}

func TestWorkOrderService_CreateAssignsSequentialNumbers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")

	first, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Category:   "Plumbing",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, first.WorkOrderNumber)
	assert.Equal(t, domain.WorkOrderStatusOpen, first.Status)

	second, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Category:   "Electrical",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, second.WorkOrderNumber)
}

func TestWorkOrderService_CreateRejectsUnknownCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)

	_, err := svc.Create(context.Background(), &domain.CreateWorkOrderRequest{
		Category:   "Plumbing",
		CustomerID: uuid.New(),
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWorkOrderService_CreateRejectsUnknownTradesman(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")

	_, err := svc.Create(context.Background(), &domain.CreateWorkOrderRequest{
		Category:     "Plumbing",
		CustomerID:   customer.ID,
		TradesmanIDs: []uuid.UUID{uuid.New()},
	})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestWorkOrderService_CompletionCreditsAssignedTradesmen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")

	order, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Category:     "Plumbing",
		CustomerID:   customer.ID,
		TradesmanIDs: []uuid.UUID{tradesman.ID},
	})
	require.NoError(t, err)

	// Toggle completed -> incomplete -> completed: one credit
	for _, status := range []string{"completed", "incomplete", "completed"} {
		_, err = svc.ChangeStatus(ctx, order.ID, &domain.ChangeWorkOrderStatusRequest{Status: status})
		require.NoError(t, err)
	}

	updated, err := repository.NewTradesmanRepository(db).GetByID(ctx, tradesman.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(50), updated.Points)
	assert.Equal(t, int32(1), updated.JobsCompleted)
	assert.Equal(t, int32(0), updated.JobCompletionStreak, "the incomplete toggle reset the streak")
}

func TestWorkOrderService_ChangeStatusRejectsUnknownValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{Category: "Plumbing", CustomerID: customer.ID})
	require.NoError(t, err)

	_, err = svc.ChangeStatus(ctx, order.ID, &domain.ChangeWorkOrderStatusRequest{Status: "cancelled"})
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestWorkOrderService_PutMaterialsClampsAndRecomputesInvoice(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{Category: "Plumbing", CustomerID: customer.ID})
	require.NoError(t, err)

	invoiceSvc := newInvoiceService(db)
	invoice, err := invoiceSvc.Create(ctx, &domain.CreateInvoiceRequest{
		WorkOrderID: order.ID,
		Services: []domain.ServiceItemInput{
			{Name: "Labor", UnitPrice: 100, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, invoice.TotalAmount, 0.001)

	updated, err := svc.PutMaterials(ctx, order.ID, &domain.PutMaterialsRequest{
		Materials: []domain.MaterialInput{
			{Name: "Pipe", Price: -3, Quantity: 0},
			{Name: "Sealant", Price: 19.99, Quantity: 2},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Materials, 2)
	assert.Equal(t, 0.01, updated.Materials[0].Price, "price clamps up")
	assert.Equal(t, 1, updated.Materials[0].Quantity, "quantity clamps up")

	refreshed, err := invoiceSvc.GetByID(ctx, invoice.ID)
	require.NoError(t, err)
	// 100 labor + 0.01 + 39.98 materials
	assert.InDelta(t, 139.99, refreshed.TotalAmount, 0.001)
}

func TestWorkOrderService_DeleteSnapshotsForRestore(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")

	order, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{
		Category:     "Plumbing",
		Description:  "Fix the kitchen sink",
		CustomerID:   customer.ID,
		TradesmanIDs: []uuid.UUID{tradesman.ID},
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, order.ID))
	_, err = svc.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	// End to end: the snapshot restores through the recycle bin
	binSvc := newRecycleBinService(db)
	items, _, err := repository.NewDeletedItemRepository(db).List(ctx, 1, 20, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)

	restored, err := binSvc.Restore(ctx, items[0].ID)
	require.NoError(t, err)

	restoredOrder := restored.(*domain.WorkOrder)
	assert.Equal(t, "Fix the kitchen sink", restoredOrder.Description)
	assert.Equal(t, 2, restoredOrder.WorkOrderNumber, "restore issues the next number")
	require.Len(t, restoredOrder.Tradesmen, 1)
	assert.Equal(t, tradesman.ID, restoredOrder.Tradesmen[0].ID)
	require.NotNil(t, restoredOrder.Customer)
	assert.Equal(t, customer.ID, restoredOrder.Customer.ID)
}

func TestWorkOrderService_AddTaskAndComplete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWorkOrderService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order, err := svc.Create(ctx, &domain.CreateWorkOrderRequest{Category: "Plumbing", CustomerID: customer.ID})
	require.NoError(t, err)

	task, err := svc.AddTask(ctx, order.ID, &domain.CreateTaskRequest{Name: "Shut off water"})
	require.NoError(t, err)
	assert.False(t, task.IsComplete)

	done, err := svc.SetTaskComplete(ctx, task.ID, true)
	require.NoError(t, err)
	assert.True(t, done.IsComplete)

	reopened, err := svc.SetTaskComplete(ctx, task.ID, false)
	require.NoError(t, err)
	assert.False(t, reopened.IsComplete)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	_, err = svc.UpdateTask(ctx, task.ID, &domain.CreateTaskRequest{Name: "x"})
	assert.ErrorIs(t, err, service.ErrNotFound)
}
