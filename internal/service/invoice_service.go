package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/mapper"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InvoiceService struct {
	invoiceRepo   *repository.InvoiceRepository
	workOrderRepo *repository.WorkOrderRepository
	sequenceRepo  *repository.NumberSequenceRepository
	deletedRepo   *repository.DeletedItemRepository
	logger        *zap.Logger
}

func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	workOrderRepo *repository.WorkOrderRepository,
	sequenceRepo *repository.NumberSequenceRepository,
	deletedRepo *repository.DeletedItemRepository,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		workOrderRepo: workOrderRepo,
		sequenceRepo:  sequenceRepo,
		deletedRepo:   deletedRepo,
		logger:        logger,
	}
}

// Create issues an invoice for a work order. A work order can carry at most
// one invoice; the total cache is computed at creation time.
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	workOrder, err := s.workOrderRepo.GetByID(ctx, req.WorkOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: work order", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}

	if _, err := s.invoiceRepo.GetByWorkOrderID(ctx, req.WorkOrderID); err == nil {
		return nil, ErrInvoiceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing invoice: %w", err)
	}

	number, err := s.sequenceRepo.NextNumber(ctx, domain.SequenceScopeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice number: %w", err)
	}

	services := make([]domain.ServiceItem, len(req.Services))
	for i, input := range req.Services {
		services[i] = domain.ServiceItem{
			Description: input.Description,
			Name:        input.Name,
			UnitPrice:   input.UnitPrice,
			Quantity:    input.Quantity,
		}
	}

	invoice := &domain.Invoice{
		InvoiceNumber: number,
		IssueDate:     time.Now(),
		DueDate:       req.DueDate,
		Services:      services,
		TaxPercentage: req.TaxPercentage,
		Status:        domain.InvoiceStatusUnpaid,
		PaymentMethod: req.PaymentMethod,
		WorkOrderID:   req.WorkOrderID,
	}
	invoice.TotalAmount = invoice.ComputedTotal(workOrder.MaterialsTotal())

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.Int("invoice_number", invoice.InvoiceNumber),
		zap.String("work_order_id", req.WorkOrderID.String()),
	)

	dto := mapper.ToInvoiceDTO(invoice, workOrder.MaterialsTotal())
	return &dto, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	materialsTotal := 0.0
	if invoice.WorkOrder != nil {
		materialsTotal = invoice.WorkOrder.MaterialsTotal()
	}

	dto := mapper.ToInvoiceDTO(invoice, materialsTotal)
	return &dto, nil
}

func (s *InvoiceService) List(ctx context.Context, page, pageSize int, status *domain.InvoiceStatus) (*domain.PaginatedResponse, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, page, pageSize, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		materialsTotal := 0.0
		if invoices[i].WorkOrder != nil {
			materialsTotal = invoices[i].WorkOrder.MaterialsTotal()
		}
		dtos[i] = mapper.ToInvoiceDTO(&invoices[i], materialsTotal)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       dtos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// UpdateServices replaces the invoice's service lines and rewrites the cached
// total from the new lines and current materials.
func (s *InvoiceService) UpdateServices(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceServicesRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	services := make([]domain.ServiceItem, len(req.Services))
	for i, input := range req.Services {
		services[i] = domain.ServiceItem{
			Description: input.Description,
			Name:        input.Name,
			UnitPrice:   input.UnitPrice,
			Quantity:    input.Quantity,
		}
	}
	invoice.Services = services

	materialsTotal := 0.0
	if invoice.WorkOrder != nil {
		materialsTotal = invoice.WorkOrder.MaterialsTotal()
	}
	invoice.TotalAmount = invoice.ComputedTotal(materialsTotal)

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	dto := mapper.ToInvoiceDTO(invoice, materialsTotal)
	return &dto, nil
}

// SetStatus marks the invoice paid or unpaid
func (s *InvoiceService) SetStatus(ctx context.Context, id uuid.UUID, req *domain.SetInvoiceStatusRequest) (*domain.InvoiceDTO, error) {
	status := domain.InvoiceStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	invoice.Status = status
	if req.PaymentMethod != "" {
		invoice.PaymentMethod = req.PaymentMethod
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	materialsTotal := 0.0
	if invoice.WorkOrder != nil {
		materialsTotal = invoice.WorkOrder.MaterialsTotal()
	}
	dto := mapper.ToInvoiceDTO(invoice, materialsTotal)
	return &dto, nil
}

// Delete snapshots the invoice into the recycle bin, then removes it
func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get invoice: %w", err)
	}

	snapshot := domain.InvoiceSnapshot{
		InvoiceNumber: invoice.InvoiceNumber,
		IssueDate:     invoice.IssueDate,
		DueDate:       invoice.DueDate,
		Services:      invoice.Services,
		TaxPercentage: invoice.TaxPercentage,
		Status:        invoice.Status,
		PaymentMethod: invoice.PaymentMethod,
	}
	if invoice.WorkOrder != nil {
		snapshot.WorkOrderNumber = invoice.WorkOrder.WorkOrderNumber
	}
	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	deleted := &domain.DeletedItem{
		EntityType:    domain.DeletedEntityInvoice,
		DisplayNumber: invoice.InvoiceNumber,
		Label:         fmt.Sprintf("Invoice #%d", invoice.InvoiceNumber),
		Snapshot:      datatypes.JSON(encoded),
	}
	if err := s.deletedRepo.Create(ctx, deleted); err != nil {
		return fmt.Errorf("failed to write recycle bin record: %w", err)
	}

	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	s.logger.Info("invoice deleted", zap.String("invoice_id", id.String()))
	return nil
}
