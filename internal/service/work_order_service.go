package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/auth"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkOrderService struct {
	workOrderRepo *repository.WorkOrderRepository
	customerRepo  *repository.CustomerRepository
	tradesmanRepo *repository.TradesmanRepository
	invoiceRepo   *repository.InvoiceRepository
	sequenceRepo  *repository.NumberSequenceRepository
	deletedRepo   *repository.DeletedItemRepository
	userRepo      *repository.UserRepository
	gamification  *GamificationService
	notifications *NotificationService
	logger        *zap.Logger
}

func NewWorkOrderService(
	workOrderRepo *repository.WorkOrderRepository,
	customerRepo *repository.CustomerRepository,
	tradesmanRepo *repository.TradesmanRepository,
	invoiceRepo *repository.InvoiceRepository,
	sequenceRepo *repository.NumberSequenceRepository,
	deletedRepo *repository.DeletedItemRepository,
	userRepo *repository.UserRepository,
	gamification *GamificationService,
	notifications *NotificationService,
	logger *zap.Logger,
) *WorkOrderService {
	return &WorkOrderService{
		workOrderRepo: workOrderRepo,
		customerRepo:  customerRepo,
		tradesmanRepo: tradesmanRepo,
		invoiceRepo:   invoiceRepo,
		sequenceRepo:  sequenceRepo,
		deletedRepo:   deletedRepo,
		userRepo:      userRepo,
		gamification:  gamification,
		notifications: notifications,
		logger:        logger,
	}
}

// Create assigns the next sequential work order number and persists the order
func (s *WorkOrderService) Create(ctx context.Context, req *domain.CreateWorkOrderRequest) (*domain.WorkOrder, error) {
	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: customer", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	number, err := s.sequenceRepo.NextNumber(ctx, domain.SequenceScopeWorkOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to get work order number: %w", err)
	}

	workOrder := &domain.WorkOrder{
		WorkOrderNumber: number,
		Category:        req.Category,
		Description:     req.Description,
		Status:          domain.WorkOrderStatusOpen,
		ScheduledAt:     req.ScheduledAt,
		Notes:           req.Notes,
		IsCallback:      req.IsCallback,
		Materials:       []domain.Material{},
		CustomerID:      req.CustomerID,
	}

	if len(req.TradesmanIDs) > 0 {
		tradesmen, err := s.tradesmanRepo.GetByIDs(ctx, req.TradesmanIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to get tradesmen: %w", err)
		}
		if len(tradesmen) != len(req.TradesmanIDs) {
			return nil, fmt.Errorf("%w: tradesman", ErrNotFound)
		}
		workOrder.Tradesmen = tradesmen
	}

	if err := s.workOrderRepo.Create(ctx, workOrder); err != nil {
		return nil, fmt.Errorf("failed to create work order: %w", err)
	}

	s.logger.Info("work order created",
		zap.String("work_order_id", workOrder.ID.String()),
		zap.Int("work_order_number", workOrder.WorkOrderNumber),
	)

	if workOrder.ScheduledAt != nil {
		s.notifySchedule(ctx, workOrder)
	}

	return s.workOrderRepo.GetByID(ctx, workOrder.ID)
}

func (s *WorkOrderService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	workOrder, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get work order: %w", err)
	}
	return workOrder, nil
}

func (s *WorkOrderService) List(ctx context.Context, page, pageSize int, filter repository.WorkOrderFilter) (*domain.PaginatedResponse, error) {
	workOrders, total, err := s.workOrderRepo.List(ctx, page, pageSize, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedResponse{
		Data:       workOrders,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// Update rewrites the editable fields. Status, materials and assignments have
// their own operations.
func (s *WorkOrderService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWorkOrderRequest) (*domain.WorkOrder, error) {
	workOrder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	rescheduled := !equalTimePtr(workOrder.ScheduledAt, req.ScheduledAt)

	if err := s.workOrderRepo.UpdateColumns(ctx, id, map[string]interface{}{
		"category":     req.Category,
		"description":  req.Description,
		"scheduled_at": req.ScheduledAt,
		"notes":        req.Notes,
		"is_callback":  req.IsCallback,
	}); err != nil {
		return nil, fmt.Errorf("failed to update work order: %w", err)
	}

	workOrder, err = s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload work order: %w", err)
	}

	if rescheduled && workOrder.ScheduledAt != nil {
		s.notifySchedule(ctx, workOrder)
	}

	return workOrder, nil
}

// ChangeStatus transitions the work order. Completion triggers gamification
// accrual; incompletion resets streaks. Re-entering a status is a no-op for
// accrual thanks to the credit ledger.
func (s *WorkOrderService) ChangeStatus(ctx context.Context, id uuid.UUID, req *domain.ChangeWorkOrderStatusRequest) (*domain.WorkOrder, error) {
	status := domain.WorkOrderStatus(req.Status)
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	workOrder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.workOrderRepo.UpdateColumns(ctx, id, map[string]interface{}{
		"status": status,
	}); err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}
	workOrder.Status = status

	switch status {
	case domain.WorkOrderStatusCompleted:
		if err := s.gamification.HandleCompletion(ctx, workOrder); err != nil {
			return nil, err
		}
	case domain.WorkOrderStatusIncomplete:
		if err := s.gamification.HandleIncomplete(ctx, workOrder); err != nil {
			return nil, err
		}
	}

	s.logger.Info("work order status changed",
		zap.String("work_order_id", id.String()),
		zap.String("status", string(status)),
	)

	return s.workOrderRepo.GetByID(ctx, id)
}

// PutMaterials replaces the materials blob wholesale, clamping each entry.
// The invoice total cache is recomputed when an invoice exists.
func (s *WorkOrderService) PutMaterials(ctx context.Context, id uuid.UUID, req *domain.PutMaterialsRequest) (*domain.WorkOrder, error) {
	workOrder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	materials := make([]domain.Material, len(req.Materials))
	for i, input := range req.Materials {
		materials[i] = domain.NewMaterial(input.Name, input.Price, input.Quantity)
	}

	if err := s.workOrderRepo.UpdateColumns(ctx, id, map[string]interface{}{
		"materials": materials,
	}); err != nil {
		return nil, fmt.Errorf("failed to update materials: %w", err)
	}
	workOrder.Materials = materials

	if err := s.recomputeInvoiceTotal(ctx, workOrder); err != nil {
		return nil, err
	}

	return s.workOrderRepo.GetByID(ctx, id)
}

// recomputeInvoiceTotal rewrites the invoice's cached total from the current
// materials. No-op when the work order has no invoice yet.
func (s *WorkOrderService) recomputeInvoiceTotal(ctx context.Context, workOrder *domain.WorkOrder) error {
	invoice, err := s.invoiceRepo.GetByWorkOrderID(ctx, workOrder.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get invoice: %w", err)
	}

	invoice.TotalAmount = invoice.ComputedTotal(workOrder.MaterialsTotal())
	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return fmt.Errorf("failed to recompute invoice total: %w", err)
	}
	return nil
}

// AssignTradesmen replaces the assigned tradesmen set
func (s *WorkOrderService) AssignTradesmen(ctx context.Context, id uuid.UUID, req *domain.AssignTradesmenRequest) (*domain.WorkOrder, error) {
	workOrder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tradesmen, err := s.tradesmanRepo.GetByIDs(ctx, req.TradesmanIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get tradesmen: %w", err)
	}
	if len(tradesmen) != len(req.TradesmanIDs) {
		return nil, fmt.Errorf("%w: tradesman", ErrNotFound)
	}

	if err := s.workOrderRepo.ReplaceTradesmen(ctx, workOrder, tradesmen); err != nil {
		return nil, fmt.Errorf("failed to assign tradesmen: %w", err)
	}

	workOrder, err = s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload work order: %w", err)
	}

	if workOrder.ScheduledAt != nil {
		s.notifySchedule(ctx, workOrder)
	}

	return workOrder, nil
}

// AddPhoto appends a stored photo path to the work order's photo list
func (s *WorkOrderService) AddPhoto(ctx context.Context, id uuid.UUID, path string) (*domain.WorkOrder, error) {
	workOrder, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var photos []string
	if len(workOrder.Photos) > 0 {
		if err := json.Unmarshal(workOrder.Photos, &photos); err != nil {
			return nil, fmt.Errorf("failed to decode photos: %w", err)
		}
	}
	photos = append(photos, path)

	encoded, err := json.Marshal(photos)
	if err != nil {
		return nil, fmt.Errorf("failed to encode photos: %w", err)
	}

	if err := s.workOrderRepo.UpdateColumns(ctx, id, map[string]interface{}{
		"photos": datatypes.JSON(encoded),
	}); err != nil {
		return nil, fmt.Errorf("failed to update photos: %w", err)
	}

	return s.workOrderRepo.GetByID(ctx, id)
}

// Delete snapshots the work order into the recycle bin, then removes it
func (s *WorkOrderService) Delete(ctx context.Context, id uuid.UUID) error {
	workOrder, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	snapshot := domain.WorkOrderSnapshot{
		WorkOrderNumber: workOrder.WorkOrderNumber,
		Category:        workOrder.Category,
		Description:     workOrder.Description,
		Status:          workOrder.Status,
		ScheduledAt:     workOrder.ScheduledAt,
		Notes:           workOrder.Notes,
		IsCallback:      workOrder.IsCallback,
		Materials:       workOrder.Materials,
	}
	if workOrder.Customer != nil {
		snapshot.CustomerName = workOrder.Customer.Name
	}
	for _, t := range workOrder.Tradesmen {
		snapshot.TradesmenNames = append(snapshot.TradesmenNames, t.Name)
	}

	encoded, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	deletedBy := ""
	if userCtx, ok := auth.FromContext(ctx); ok {
		deletedBy = userCtx.UserID.String()
	}

	deleted := &domain.DeletedItem{
		EntityType:    domain.DeletedEntityWorkOrder,
		DisplayNumber: workOrder.WorkOrderNumber,
		Label:         workOrder.Category,
		Snapshot:      datatypes.JSON(encoded),
		DeletedBy:     deletedBy,
	}
	if err := s.deletedRepo.Create(ctx, deleted); err != nil {
		return fmt.Errorf("failed to write recycle bin record: %w", err)
	}

	if err := s.workOrderRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}

	s.logger.Info("work order deleted",
		zap.String("work_order_id", id.String()),
		zap.Int("work_order_number", workOrder.WorkOrderNumber),
	)
	return nil
}

// --- Tasks ---

func (s *WorkOrderService) AddTask(ctx context.Context, workOrderID uuid.UUID, req *domain.CreateTaskRequest) (*domain.Task, error) {
	if _, err := s.GetByID(ctx, workOrderID); err != nil {
		return nil, err
	}

	task := &domain.Task{
		Name:        req.Name,
		Description: req.Description,
		WorkOrderID: workOrderID,
	}
	if err := s.workOrderRepo.CreateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (s *WorkOrderService) UpdateTask(ctx context.Context, taskID uuid.UUID, req *domain.CreateTaskRequest) (*domain.Task, error) {
	task, err := s.workOrderRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	task.Name = req.Name
	task.Description = req.Description
	if err := s.workOrderRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// SetTaskComplete flips a task's completion flag
func (s *WorkOrderService) SetTaskComplete(ctx context.Context, taskID uuid.UUID, complete bool) (*domain.Task, error) {
	task, err := s.workOrderRepo.GetTaskByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	task.IsComplete = complete
	if err := s.workOrderRepo.UpdateTask(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

func (s *WorkOrderService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if _, err := s.workOrderRepo.GetTaskByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to get task: %w", err)
	}
	return s.workOrderRepo.DeleteTask(ctx, taskID)
}

// notifySchedule notifies assigned tradesmen with linked user accounts that
// want schedule notifications.
func (s *WorkOrderService) notifySchedule(ctx context.Context, workOrder *domain.WorkOrder) {
	for _, tradesman := range workOrder.Tradesmen {
		if tradesman.Email == "" {
			continue
		}
		user, err := s.userRepo.GetByEmail(ctx, tradesman.Email)
		if err != nil {
			continue
		}
		if !user.NotifyOnSchedule {
			continue
		}
		s.notifications.Notify(ctx, user.ID, domain.NotificationTypeJobScheduled,
			"Job scheduled",
			fmt.Sprintf("Work order #%d (%s) is scheduled for %s",
				workOrder.WorkOrderNumber, workOrder.Category,
				workOrder.ScheduledAt.Format("2006-01-02 15:04")),
			&workOrder.ID, "work_order")
	}
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
