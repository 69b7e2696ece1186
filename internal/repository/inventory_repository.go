package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"gorm.io/gorm"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// InventoryFilter narrows List results
type InventoryFilter struct {
	Search        string
	Category      string
	TradesmanID   *uuid.UUID
	WarehouseOnly bool
	LowStockOnly  bool
}

func (r *InventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Tradesman").
		Preload("UsageHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("used_at DESC")
		}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *InventoryRepository) Update(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.InventoryItem{}, "id = ?", id).Error
}

func (r *InventoryRepository) List(ctx context.Context, page, pageSize int, filter InventoryFilter) ([]domain.InventoryItem, int64, error) {
	var items []domain.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.InventoryItem{})

	if filter.Search != "" {
		searchPattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchPattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.TradesmanID != nil {
		query = query.Where("tradesman_id = ?", *filter.TradesmanID)
	}
	if filter.WarehouseOnly {
		query = query.Where("tradesman_id IS NULL")
	}
	if filter.LowStockOnly {
		query = query.Where("low_threshold > 0 AND quantity <= low_threshold")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.
		Preload("Tradesman").
		Offset(offset).Limit(pageSize).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}

// ListAll returns every item with its assignment, used by exports
func (r *InventoryRepository) ListAll(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).
		Preload("Tradesman").
		Order("name ASC").
		Find(&items).Error
	return items, err
}

func (r *InventoryRepository) CreateUsage(ctx context.Context, usage *domain.InventoryUsage) error {
	return r.db.WithContext(ctx).Create(usage).Error
}

func (r *InventoryRepository) ListUsage(ctx context.Context, itemID uuid.UUID) ([]domain.InventoryUsage, error) {
	var usages []domain.InventoryUsage
	err := r.db.WithContext(ctx).
		Where("inventory_item_id = ?", itemID).
		Order("used_at DESC").
		Find(&usages).Error
	return usages, err
}

// Assign decrements the source row and creates the assigned row in one
// transaction so a failure cannot lose or duplicate stock.
func (r *InventoryRepository) Assign(ctx context.Context, source *domain.InventoryItem, assigned *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.InventoryItem{}).
			Where("id = ?", source.ID).
			Update("quantity", source.Quantity).Error; err != nil {
			return err
		}
		return tx.Create(assigned).Error
	})
}
