package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ExportService struct {
	inventoryRepo *repository.InventoryRepository
	invoiceRepo   *repository.InvoiceRepository
	logger        *zap.Logger
}

func NewExportService(
	inventoryRepo *repository.InventoryRepository,
	invoiceRepo *repository.InvoiceRepository,
	logger *zap.Logger,
) *ExportService {
	return &ExportService{
		inventoryRepo: inventoryRepo,
		invoiceRepo:   invoiceRepo,
		logger:        logger,
	}
}

// InventoryCSV renders the legacy inventory export: header
// name,price,quantity,assignedTo, rows comma-joined with no quoting or
// escaping. Item names containing commas therefore produce rows with extra
// columns. Downstream consumers depend on this exact byte format, so it is
// kept as is; use InventoryXLSX for a well-formed export.
func (s *ExportService) InventoryCSV(ctx context.Context) ([]byte, error) {
	items, err := s.inventoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	var b strings.Builder
	b.WriteString("name,price,quantity,assignedTo\n")
	for i := range items {
		assignedTo := ""
		if items[i].Tradesman != nil {
			assignedTo = items[i].Tradesman.Name
		}
		fmt.Fprintf(&b, "%s,%.2f,%d,%s\n", items[i].Name, items[i].Price, items[i].Quantity, assignedTo)
	}
	return []byte(b.String()), nil
}

// InventoryXLSX renders a proper spreadsheet export of the inventory
func (s *ExportService) InventoryXLSX(ctx context.Context) ([]byte, error) {
	items, err := s.inventoryRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Inventory"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
	})

	headers := []string{"Name", "Price", "Quantity", "Category", "Assigned To", "Low Threshold", "High Threshold"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range items {
		item := &items[rowIdx]
		assignedTo := ""
		if item.Tradesman != nil {
			assignedTo = item.Tradesman.Name
		}
		values := []interface{}{
			item.Name,
			item.Price,
			item.Quantity,
			item.Category,
			assignedTo,
			item.LowThreshold,
			item.HighThreshold,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	s.logger.Info("inventory exported", zap.Int("items", len(items)), zap.String("format", "xlsx"))
	return buf.Bytes(), nil
}

// InvoicesXLSX renders a spreadsheet of all invoices with computed totals
func (s *ExportService) InvoicesXLSX(ctx context.Context) ([]byte, error) {
	invoices, err := s.invoiceRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoices: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Invoices"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#4472C4"},
			Pattern: 1,
		},
	})

	headers := []string{"Invoice #", "Issue Date", "Customer", "Work Order #", "Tax %", "Total", "Status"}
	for colIdx, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(colIdx+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range invoices {
		invoice := &invoices[rowIdx]
		customerName := ""
		workOrderNumber := 0
		materialsTotal := 0.0
		if invoice.WorkOrder != nil {
			workOrderNumber = invoice.WorkOrder.WorkOrderNumber
			materialsTotal = invoice.WorkOrder.MaterialsTotal()
			if invoice.WorkOrder.Customer != nil {
				customerName = invoice.WorkOrder.Customer.Name
			}
		}
		values := []interface{}{
			invoice.InvoiceNumber,
			invoice.IssueDate.Format("2006-01-02"),
			customerName,
			workOrderNumber,
			invoice.TaxPercentage,
			invoice.ComputedTotal(materialsTotal),
			string(invoice.Status),
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
