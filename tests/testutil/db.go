package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/database"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var dbCounter int64

// SetupTestDB opens an isolated in-memory SQLite database with the full
// schema migrated. Each call gets its own database so tests never share
// state.
func SetupTestDB(t *testing.T) *gorm.DB {
	name := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))

	db, err := gorm.Open(sqlite.Open(name), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Shared-cache in-memory databases disappear when the last connection
	// closes, so keep exactly one open.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// Logger returns a no-op logger for wiring services under test
func Logger() *zap.Logger {
	return zap.NewNop()
}

// CreateTestCustomer creates a customer and returns it
func CreateTestCustomer(t *testing.T, db *gorm.DB, name string) *domain.Customer {
	customer := &domain.Customer{
		Name:  name,
		Email: "customer@example.com",
		Phone: "12345678",
		City:  "Oslo",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestTradesman creates a tradesman and returns it
func CreateTestTradesman(t *testing.T, db *gorm.DB, name string) *domain.Tradesman {
	tradesman := &domain.Tradesman{
		Name:     name,
		JobTitle: "Plumber",
		Email:    fmt.Sprintf("%d@example.com", atomic.AddInt64(&dbCounter, 1)),
		Badges:   []string{},
	}
	require.NoError(t, db.Create(tradesman).Error)
	return tradesman
}

// CreateTestWorkOrder creates a work order for the customer and returns it
func CreateTestWorkOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, number int) *domain.WorkOrder {
	workOrder := &domain.WorkOrder{
		WorkOrderNumber: number,
		Category:        "Plumbing",
		Description:     "Fix the kitchen sink",
		Status:          domain.WorkOrderStatusOpen,
		Materials:       []domain.Material{},
		CustomerID:      customerID,
	}
	require.NoError(t, db.Create(workOrder).Error)
	return workOrder
}
