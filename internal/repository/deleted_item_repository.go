package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"gorm.io/gorm"
)

type DeletedItemRepository struct {
	db *gorm.DB
}

func NewDeletedItemRepository(db *gorm.DB) *DeletedItemRepository {
	return &DeletedItemRepository{db: db}
}

func (r *DeletedItemRepository) Create(ctx context.Context, item *domain.DeletedItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *DeletedItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeletedItem, error) {
	var item domain.DeletedItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the record permanently (purge, or consumed by a restore)
func (r *DeletedItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.DeletedItem{}, "id = ?", id).Error
}

func (r *DeletedItemRepository) List(ctx context.Context, page, pageSize int, entityType *domain.DeletedEntityType) ([]domain.DeletedItem, int64, error) {
	var items []domain.DeletedItem
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.DeletedItem{})

	if entityType != nil {
		query = query.Where("entity_type = ?", *entityType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&items).Error

	return items, total, err
}
