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

func newInvoiceService(db *gorm.DB) *service.InvoiceService {
	return service.NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewWorkOrderRepository(db),
		repository.NewNumberSequenceRepository(db),
		repository.NewDeletedItemRepository(db),
		testutil.Logger(),
	)
}

func TestInvoiceService_CreateComputesTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := &domain.WorkOrder{
		WorkOrderNumber: 1,
		Category:        "Plumbing",
		Status:          domain.WorkOrderStatusOpen,
		Materials: []domain.Material{
			{Name: "Pipe", Price: 10, Quantity: 2},
		},
		CustomerID: customer.ID,
	}
	require.NoError(t, db.Create(order).Error)

	dto, err := svc.Create(ctx, &domain.CreateInvoiceRequest{
		WorkOrderID:   order.ID,
		TaxPercentage: 4,
		Services: []domain.ServiceItemInput{
			{Name: "Labor", UnitPrice: 10, Quantity: 2},
		},
	})
	require.NoError(t, err)

	// (20 services + 20 materials) * 1.04
	assert.InDelta(t, 41.60, dto.ComputedTotal, 0.001)
	assert.InDelta(t, 41.60, dto.TotalAmount, 0.001)
	assert.Equal(t, 1, dto.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusUnpaid, dto.Status)
}

func TestInvoiceService_OneInvoicePerWorkOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, 1)

	_, err := svc.Create(ctx, &domain.CreateInvoiceRequest{WorkOrderID: order.ID})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &domain.CreateInvoiceRequest{WorkOrderID: order.ID})
	assert.ErrorIs(t, err, service.ErrInvoiceExists)
}

func TestInvoiceService_CreateUnknownWorkOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInvoiceService(db)

	_, err := svc.Create(context.Background(), &domain.CreateInvoiceRequest{WorkOrderID: uuid.New()})
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestInvoiceService_UpdateServicesRecomputesTotal(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, 1)

	created, err := svc.Create(ctx, &domain.CreateInvoiceRequest{
		WorkOrderID: order.ID,
		Services: []domain.ServiceItemInput{
			{Name: "Labor", UnitPrice: 100, Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 100.0, created.TotalAmount, 0.001)

	updated, err := svc.UpdateServices(ctx, created.ID, &domain.UpdateInvoiceServicesRequest{
		Services: []domain.ServiceItemInput{
			{Name: "Labor", UnitPrice: 100, Quantity: 3},
		},
	})
	require.NoError(t, err)
	assert.InDelta(t, 300.0, updated.TotalAmount, 0.001)
	assert.InDelta(t, 300.0, updated.ComputedTotal, 0.001)
}

func TestInvoiceService_SetStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, 1)

	created, err := svc.Create(ctx, &domain.CreateInvoiceRequest{WorkOrderID: order.ID})
	require.NoError(t, err)

	paid, err := svc.SetStatus(ctx, created.ID, &domain.SetInvoiceStatusRequest{
		Status:        "paid",
		PaymentMethod: "vipps",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, paid.Status)
	assert.Equal(t, "vipps", paid.PaymentMethod)

	_, err = svc.SetStatus(ctx, created.ID, &domain.SetInvoiceStatusRequest{Status: "overdue"})
	assert.ErrorIs(t, err, service.ErrInvalidStatus)
}

func TestInvoiceService_DeleteWritesRecycleBin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInvoiceService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := testutil.CreateTestWorkOrder(t, db, customer.ID, 7)

	created, err := svc.Create(ctx, &domain.CreateInvoiceRequest{WorkOrderID: order.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	deletedRepo := repository.NewDeletedItemRepository(db)
	items, total, err := deletedRepo.List(ctx, 1, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, domain.DeletedEntityInvoice, items[0].EntityType)
	assert.Equal(t, created.InvoiceNumber, items[0].DisplayNumber)
}
