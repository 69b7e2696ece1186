package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreditEventRepository records gamification credits. The unique index on
// (work_order_id, tradesman_id) is the idempotency guard: a pair can only
// ever be credited once.
type CreditEventRepository struct {
	db *gorm.DB
}

func NewCreditEventRepository(db *gorm.DB) *CreditEventRepository {
	return &CreditEventRepository{db: db}
}

// TryCredit inserts a credit event if none exists for the pair.
// Returns true when the credit was recorded, false when it already existed.
func (r *CreditEventRepository) TryCredit(ctx context.Context, event *domain.CreditEvent) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "work_order_id"}, {Name: "tradesman_id"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the pair has already been credited
func (r *CreditEventRepository) Exists(ctx context.Context, workOrderID, tradesmanID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.CreditEvent{}).
		Where("work_order_id = ? AND tradesman_id = ?", workOrderID, tradesmanID).
		Count(&count).Error
	return count > 0, err
}

func (r *CreditEventRepository) ListByTradesman(ctx context.Context, tradesmanID uuid.UUID) ([]domain.CreditEvent, error) {
	var events []domain.CreditEvent
	err := r.db.WithContext(ctx).
		Where("tradesman_id = ?", tradesmanID).
		Order("credited_at DESC").
		Find(&events).Error
	return events, err
}
