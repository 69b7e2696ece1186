package service_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/tests/testutil"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func newExportService(db *gorm.DB) *service.ExportService {
	return service.NewExportService(
		repository.NewInventoryRepository(db),
		repository.NewInvoiceRepository(db),
		testutil.Logger(),
	)
}

func TestExportService_InventoryCSV(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newExportService(db)
	ctx := context.Background()

	tradesman := testutil.CreateTestTradesman(t, db, "Ola Hansen")
	require.NoError(t, db.Create(&domain.InventoryItem{
		Name:     "Sealant",
		Price:    12.5,
		Quantity: 8,
	}).Error)
	require.NoError(t, db.Create(&domain.InventoryItem{
		Name:        "Copper pipe",
		Price:       25,
		Quantity:    3,
		TradesmanID: &tradesman.ID,
	}).Error)

	out, err := svc.InventoryCSV(ctx)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,price,quantity,assignedTo", lines[0])
	assert.Contains(t, lines, "Sealant,12.50,8,")
	assert.Contains(t, lines, "Copper pipe,25.00,3,Ola Hansen")
}

func TestExportService_InventoryCSVDoesNotQuoteCommas(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newExportService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.InventoryItem{
		Name:     "Widget, Large",
		Price:    5,
		Quantity: 1,
	}).Error)

	out, err := svc.InventoryCSV(ctx)
	require.NoError(t, err)

	// Legacy format: the name's comma leaks into the row unescaped
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Widget, Large,5.00,1,", lines[1])
	assert.Len(t, strings.Split(lines[1], ","), 5)
}

func TestExportService_InventoryXLSX(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newExportService(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.InventoryItem{
		Name:     "Widget, Large",
		Price:    5,
		Quantity: 2,
		Category: "Fittings",
	}).Error)

	out, err := svc.InventoryXLSX(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	name, err := f.GetCellValue("Inventory", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Widget, Large", name, "spreadsheet export keeps the comma intact")

	header, err := f.GetCellValue("Inventory", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", header)
}

func TestExportService_InvoicesXLSX(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newExportService(db)
	ctx := context.Background()

	customer := testutil.CreateTestCustomer(t, db, "Kari Nordmann")
	order := &domain.WorkOrder{
		WorkOrderNumber: 4,
		Category:        "Plumbing",
		Status:          domain.WorkOrderStatusCompleted,
		Materials:       []domain.Material{{Name: "Pipe", Price: 20, Quantity: 1}},
		CustomerID:      customer.ID,
	}
	require.NoError(t, db.Create(order).Error)
	require.NoError(t, db.Create(&domain.Invoice{
		InvoiceNumber: 9,
		Services:      []domain.ServiceItem{{Name: "Labor", UnitPrice: 100, Quantity: 1}},
		TaxPercentage: 25,
		Status:        domain.InvoiceStatusUnpaid,
		WorkOrderID:   order.ID,
	}).Error)

	out, err := svc.InvoicesXLSX(ctx)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()

	number, err := f.GetCellValue("Invoices", "A2")
	require.NoError(t, err)
	assert.Equal(t, "9", number)

	total, err := f.GetCellValue("Invoices", "F2")
	require.NoError(t, err)
	assert.Equal(t, "150", total, "computed total includes materials and tax")
}
