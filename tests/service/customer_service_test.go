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

func newCustomerService(db *gorm.DB) *service.CustomerService {
	return service.NewCustomerService(
		repository.NewCustomerRepository(db),
		repository.NewDeletedItemRepository(db),
		testutil.Logger(),
	)
}

func TestCustomerService_CreateDerivesLastName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCustomerService(db)

	dto, err := svc.Create(context.Background(), &domain.CreateCustomerRequest{
		Name:  "Kari Marie Nordmann",
		Email: "kari@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Marie Nordmann", dto.LastName)
}

func TestCustomerService_GetUnknown(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCustomerService(db)

	_, err := svc.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestCustomerService_ListSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCustomerService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Kari Nordmann", City: "Bergen"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Ola Hansen", City: "Oslo"})
	require.NoError(t, err)

	page, err := svc.List(ctx, 1, 20, "nordmann")
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	all, err := svc.List(ctx, 1, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestCustomerService_DeleteCascadesWorkOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newCustomerService(db)
	ctx := context.Background()

	dto, err := svc.Create(ctx, &domain.CreateCustomerRequest{Name: "Kari Nordmann"})
	require.NoError(t, err)
	order := testutil.CreateTestWorkOrder(t, db, dto.ID, 1)

	require.NoError(t, svc.Delete(ctx, dto.ID))

	_, err = svc.GetByID(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	workOrderRepo := repository.NewWorkOrderRepository(db)
	_, err = workOrderRepo.GetByID(ctx, order.ID)
	assert.Error(t, err, "work orders go down with their customer")

	// Snapshot lands in the recycle bin
	items, _, err := repository.NewDeletedItemRepository(db).List(ctx, 1, 20, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.DeletedEntityCustomer, items[0].EntityType)
	assert.Equal(t, "Kari Nordmann", items[0].Label)
}
