package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecycleBinService lists, restores and purges deletion snapshots. Restoring
// never resurrects the original row: it fabricates a new entity with a new
// UUID and a freshly issued display number, re-linking customers and
// tradesmen by name match. The name match is a heuristic: renamed or deleted
// counterparts silently fall off the restored entity.
type RecycleBinService struct {
	deletedRepo   *repository.DeletedItemRepository
	workOrderRepo *repository.WorkOrderRepository
	customerRepo  *repository.CustomerRepository
	tradesmanRepo *repository.TradesmanRepository
	invoiceRepo   *repository.InvoiceRepository
	sequenceRepo  *repository.NumberSequenceRepository
	logger        *zap.Logger
}

func NewRecycleBinService(
	deletedRepo *repository.DeletedItemRepository,
	workOrderRepo *repository.WorkOrderRepository,
	customerRepo *repository.CustomerRepository,
	tradesmanRepo *repository.TradesmanRepository,
	invoiceRepo *repository.InvoiceRepository,
	sequenceRepo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *RecycleBinService {
	return &RecycleBinService{
		deletedRepo:   deletedRepo,
		workOrderRepo: workOrderRepo,
		customerRepo:  customerRepo,
		tradesmanRepo: tradesmanRepo,
		invoiceRepo:   invoiceRepo,
		sequenceRepo:  sequenceRepo,
		logger:        logger,
	}
}

func (s *RecycleBinService) List(ctx context.Context, page, pageSize int, entityType *domain.DeletedEntityType) (*domain.PaginatedResponse, error) {
	items, total, err := s.deletedRepo.List(ctx, page, pageSize, entityType)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted items: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Purge permanently discards a snapshot
func (s *RecycleBinService) Purge(ctx context.Context, id uuid.UUID) error {
	if _, err := s.deletedRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get deleted item: %w", err)
	}
	return s.deletedRepo.Delete(ctx, id)
}

// Restore rebuilds the entity from its snapshot and consumes the record
func (s *RecycleBinService) Restore(ctx context.Context, id uuid.UUID) (interface{}, error) {
	item, err := s.deletedRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get deleted item: %w", err)
	}

	var restored interface{}
	switch item.EntityType {
	case domain.DeletedEntityWorkOrder:
		restored, err = s.restoreWorkOrder(ctx, item)
	case domain.DeletedEntityCustomer:
		restored, err = s.restoreCustomer(ctx, item)
	case domain.DeletedEntityInvoice:
		restored, err = s.restoreInvoice(ctx, item)
	default:
		return nil, fmt.Errorf("%w: unknown entity type %q", ErrSnapshotCorrupt, item.EntityType)
	}
	if err != nil {
		return nil, err
	}

	if err := s.deletedRepo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to consume recycle bin record: %w", err)
	}

	s.logger.Info("item restored",
		zap.String("deleted_item_id", id.String()),
		zap.String("entity_type", string(item.EntityType)),
	)
	return restored, nil
}

func (s *RecycleBinService) restoreWorkOrder(ctx context.Context, item *domain.DeletedItem) (*domain.WorkOrder, error) {
	var snapshot domain.WorkOrderSnapshot
	if err := json.Unmarshal(item.Snapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	customer, err := s.customerRepo.FindByName(ctx, snapshot.CustomerName)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// No matching customer anymore: recreate a bare one so the restore
		// still lands somewhere visible.
		customer = &domain.Customer{Name: snapshot.CustomerName}
		if err := s.customerRepo.Create(ctx, customer); err != nil {
			return nil, fmt.Errorf("failed to recreate customer: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}

	number, err := s.sequenceRepo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to get work order number: %w", err)
	}

	workOrder := &domain.WorkOrder{
		WorkOrderNumber: number,
		Category:        snapshot.Category,
		Description:     snapshot.Description,
		Status:          snapshot.Status,
		ScheduledAt:     snapshot.ScheduledAt,
		Notes:           snapshot.Notes,
		IsCallback:      snapshot.IsCallback,
		Materials:       snapshot.Materials,
		CustomerID:      customer.ID,
	}
	if workOrder.Materials == nil {
		workOrder.Materials = []domain.Material{}
	}

	// Name-match relink: tradesmen that no longer exist are dropped
	for _, name := range snapshot.TradesmenNames {
		tradesman, err := s.tradesmanRepo.FindByName(ctx, name)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("tradesman not relinked on restore",
				zap.String("tradesman_name", name),
			)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to find tradesman: %w", err)
		}
		workOrder.Tradesmen = append(workOrder.Tradesmen, *tradesman)
	}

	if err := s.workOrderRepo.Create(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to restore work order: %w", err)
	}
	return s.workOrderRepo.GetByID(ctx, workOrder.ID)
}

func (s *RecycleBinService) restoreCustomer(ctx context.Context, item *domain.DeletedItem) (*domain.Customer, error) {
	var snapshot domain.CustomerSnapshot
	if err := json.Unmarshal(item.Snapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	customer := &domain.Customer{
		Name:       snapshot.Name,
		Email:      snapshot.Email,
		Phone:      snapshot.Phone,
		Address:    snapshot.Address,
		City:       snapshot.City,
		PostalCode: snapshot.PostalCode,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to restore customer: %w", err)
	}
	return customer, nil
}

// restoreInvoice relinks by work order number. The work order must still
// exist and be uninvoiced; a fresh invoice number is issued either way.
func (s *RecycleBinService) restoreInvoice(ctx context.Context, item *domain.DeletedItem) (*domain.Invoice, error) {
	var snapshot domain.InvoiceSnapshot
	if err := json.Unmarshal(item.Snapshot, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	workOrders, _, err := s.workOrderRepo.List(ctx, 1, 1, repository.WorkOrderFilter{
		WorkOrderNumber: &snapshot.WorkOrderNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find work order: %w", err)
	}
	if len(workOrders) == 0 {
		return nil, fmt.Errorf("%w: work order #%d no longer exists", ErrConflict, snapshot.WorkOrderNumber)
	}
	workOrder := &workOrders[0]

	if _, err := s.invoiceRepo.GetByWorkOrderID(ctx, workOrder.ID); err == nil {
		return nil, ErrInvoiceExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing invoice: %w", err)
	}

	number, err := s.sequenceRepo.NextNumber(ctx, domain.SequenceScopeInvoice)
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice number: %w", err)
	}

	invoice := &domain.Invoice{
		InvoiceNumber: number,
		IssueDate:     snapshot.IssueDate,
		DueDate:       snapshot.DueDate,
		Services:      snapshot.Services,
		TaxPercentage: snapshot.TaxPercentage,
		Status:        snapshot.Status,
		PaymentMethod: snapshot.PaymentMethod,
		WorkOrderID:   workOrder.ID,
	}
	if invoice.Services == nil {
		invoice.Services = []domain.ServiceItem{}
	}
	invoice.TotalAmount = invoice.ComputedTotal(workOrder.MaterialsTotal())

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to restore invoice: %w", err)
	}
	return invoice, nil
}
