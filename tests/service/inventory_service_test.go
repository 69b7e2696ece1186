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

func newInventoryService(db *gorm.DB) *service.InventoryService {
	return service.NewInventoryService(
		repository.NewInventoryRepository(db),
		repository.NewTradesmanRepository(db),
		repository.NewUserRepository(db),
		service.NewNotificationService(repository.NewNotificationRepository(db), testutil.Logger()),
		testutil.Logger(),
	)
}

func TestInventoryService_Assign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInventoryService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	item, err := svc.Create(ctx, &domain.CreateInventoryItemRequest{
		Name:     "Copper pipe",
		Price:    25,
		Quantity: 10,
		Category: "Plumbing",
	})
	require.NoError(t, err)

	assigned, err := svc.Assign(ctx, item.ID, &domain.AssignInventoryRequest{
		TradesmanID: tradesman.ID,
		Quantity:    5,
	})
	require.NoError(t, err)

	// A new independent row is created for the tradesman
	assert.NotEqual(t, item.ID, assigned.ID)
	assert.Equal(t, int16(5), assigned.Quantity)
	require.NotNil(t, assigned.TradesmanID)
	assert.Equal(t, tradesman.ID, *assigned.TradesmanID)
	assert.Equal(t, "Copper pipe", assigned.Name)

	source, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int16(5), source.Quantity)
	assert.Nil(t, source.TradesmanID)
}

func TestInventoryService_AssignRejectsOverdraw(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInventoryService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	item, err := svc.Create(ctx, &domain.CreateInventoryItemRequest{
		Name:     "Copper pipe",
		Quantity: 10,
	})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, item.ID, &domain.AssignInventoryRequest{
		TradesmanID: tradesman.ID,
		Quantity:    11,
	})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)

	// Source untouched on rejection
	source, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, int16(10), source.Quantity)
}

func TestInventoryService_AssignRejectsBadInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInventoryService(db)
	ctx := context.Background()

	item, err := svc.Create(ctx, &domain.CreateInventoryItemRequest{Name: "Copper pipe", Quantity: 10})
	require.NoError(t, err)

	_, err = svc.Assign(ctx, item.ID, &domain.AssignInventoryRequest{TradesmanID: uuid.New(), Quantity: -1})
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	_, err = svc.Assign(ctx, item.ID, &domain.AssignInventoryRequest{TradesmanID: uuid.New(), Quantity: 2})
	assert.ErrorIs(t, err, service.ErrNotFound, "unknown tradesman")
}

func TestInventoryService_RecordUsage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInventoryService(db)
	ctx := context.Background()

	item, err := svc.Create(ctx, &domain.CreateInventoryItemRequest{Name: "Sealant", Quantity: 8})
	require.NoError(t, err)

	updated, err := svc.RecordUsage(ctx, item.ID, &domain.RecordUsageRequest{QuantityUsed: 3})
	require.NoError(t, err)
	assert.Equal(t, int16(5), updated.Quantity)

	usages, err := repository.NewInventoryRepository(db).ListUsage(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, usages, 1)
	assert.Equal(t, int16(3), usages[0].QuantityUsed)

	// Usage never drives the quantity below zero
	_, err = svc.RecordUsage(ctx, item.ID, &domain.RecordUsageRequest{QuantityUsed: 6})
	assert.ErrorIs(t, err, service.ErrInsufficientStock)
}

func TestInventoryService_LowStock(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInventoryService(db)
	ctx := context.Background()

	_, err := svc.Create(ctx, &domain.CreateInventoryItemRequest{Name: "Sealant", Quantity: 2, LowThreshold: 5})
	require.NoError(t, err)
	_, err = svc.Create(ctx, &domain.CreateInventoryItemRequest{Name: "Copper pipe", Quantity: 50, LowThreshold: 5})
	require.NoError(t, err)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Sealant", low[0].Name)
}

func TestInventoryService_LowStockNotifiesOptedInAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newInventoryService(db)
	ctx := context.Background()

	optedIn := &domain.User{
		Email:            "admin@example.com",
		PasswordHash:     "x",
		DisplayName:      "Admin",
		Role:             domain.RoleAdmin,
		NotifyOnLowStock: true,
	}
	require.NoError(t, db.Create(optedIn).Error)
	optedOut := &domain.User{
		Email:        "quiet@example.com",
		PasswordHash: "x",
		DisplayName:  "Quiet admin",
		Role:         domain.RoleAdmin,
	}
	require.NoError(t, db.Create(optedOut).Error)
	// Zero-valued bools fall back to the column default on insert, so opt
	// out with an explicit update.
	require.NoError(t, db.Model(optedOut).Update("notify_on_low_stock", false).Error)

	item, err := svc.Create(ctx, &domain.CreateInventoryItemRequest{Name: "Sealant", Quantity: 8, LowThreshold: 5})
	require.NoError(t, err)

	_, err = svc.RecordUsage(ctx, item.ID, &domain.RecordUsageRequest{QuantityUsed: 4})
	require.NoError(t, err)

	var notifications []domain.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, optedIn.ID, notifications[0].UserID)
	assert.Equal(t, string(domain.NotificationTypeLowStock), notifications[0].Type)
}
