package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"gorm.io/gorm"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

// WorkOrderFilter narrows List results
type WorkOrderFilter struct {
	Status          *domain.WorkOrderStatus
	CustomerID      *uuid.UUID
	TradesmanID     *uuid.UUID
	WorkOrderNumber *int
	CallbackOnly    bool
	ScheduledFrom   *time.Time
	ScheduledTo     *time.Time
	Search          string
}

func (r *WorkOrderRepository) Create(ctx context.Context, workOrder *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Create(workOrder).Error
}

func (r *WorkOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.WorkOrder, error) {
	var workOrder domain.WorkOrder
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Tradesmen").
		Preload("Tasks").
		Preload("Invoice").
		Where("id = ?", id).
		First(&workOrder).Error
	if err != nil {
		return nil, err
	}
	return &workOrder, nil
}

func (r *WorkOrderRepository) Update(ctx context.Context, workOrder *domain.WorkOrder) error {
	return r.db.WithContext(ctx).Save(workOrder).Error
}

// UpdateColumns writes only the given columns, leaving associations alone
func (r *WorkOrderRepository) UpdateColumns(ctx context.Context, id uuid.UUID, values map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&domain.WorkOrder{}).Where("id = ?", id).Updates(values).Error
}

func (r *WorkOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Select("Tasks", "Invoice").Delete(&domain.WorkOrder{BaseModel: domain.BaseModel{ID: id}}).Error
}

func (r *WorkOrderRepository) List(ctx context.Context, page, pageSize int, filter WorkOrderFilter) ([]domain.WorkOrder, int64, error) {
	var workOrders []domain.WorkOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.WorkOrder{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.TradesmanID != nil {
		query = query.Joins("JOIN work_order_tradesmen wot ON wot.work_order_id = work_orders.id").
			Where("wot.tradesman_id = ?", *filter.TradesmanID)
	}
	if filter.WorkOrderNumber != nil {
		query = query.Where("work_order_number = ?", *filter.WorkOrderNumber)
	}
	if filter.CallbackOnly {
		query = query.Where("is_callback = ?", true)
	}
	if filter.ScheduledFrom != nil {
		query = query.Where("scheduled_at >= ?", *filter.ScheduledFrom)
	}
	if filter.ScheduledTo != nil {
		query = query.Where("scheduled_at < ?", *filter.ScheduledTo)
	}
	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(category) LIKE ? OR LOWER(description) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Customer").
		Preload("Tradesmen").
		Offset(offset).Limit(pageSize).
		Order("work_order_number DESC").
		Find(&workOrders).Error

	return workOrders, total, err
}

// ReplaceTradesmen swaps the assigned tradesmen set for a work order
func (r *WorkOrderRepository) ReplaceTradesmen(ctx context.Context, workOrder *domain.WorkOrder, tradesmen []domain.Tradesman) error {
	return r.db.WithContext(ctx).Model(workOrder).Association("Tradesmen").Replace(tradesmen)
}

func (r *WorkOrderRepository) CreateTask(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *WorkOrderRepository) GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	var task domain.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *WorkOrderRepository) UpdateTask(ctx context.Context, task *domain.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

func (r *WorkOrderRepository) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Task{}, "id = ?", id).Error
}

func (r *WorkOrderRepository) CountByStatus(ctx context.Context, status domain.WorkOrderStatus) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.WorkOrder{}).Where("status = ?", status).Count(&count).Error
	return int(count), err
}
