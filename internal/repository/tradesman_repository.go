package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"gorm.io/gorm"
)

type TradesmanRepository struct {
	db *gorm.DB
}

func NewTradesmanRepository(db *gorm.DB) *TradesmanRepository {
	return &TradesmanRepository{db: db}
}

func (r *TradesmanRepository) Create(ctx context.Context, tradesman *domain.Tradesman) error {
	return r.db.WithContext(ctx).Create(tradesman).Error
}

func (r *TradesmanRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tradesman, error) {
	var tradesman domain.Tradesman
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tradesman).Error
	if err != nil {
		return nil, err
	}
	return &tradesman, nil
}

func (r *TradesmanRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Tradesman, error) {
	var tradesmen []domain.Tradesman
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tradesmen).Error
	return tradesmen, err
}

func (r *TradesmanRepository) GetByEmail(ctx context.Context, email string) (*domain.Tradesman, error) {
	var tradesman domain.Tradesman
	err := r.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&tradesman).Error
	if err != nil {
		return nil, err
	}
	return &tradesman, nil
}

// FindByName returns the first tradesman with an exact name match.
// Used when restoring deleted work orders to re-link by name.
func (r *TradesmanRepository) FindByName(ctx context.Context, name string) (*domain.Tradesman, error) {
	var tradesman domain.Tradesman
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at ASC").First(&tradesman).Error
	if err != nil {
		return nil, err
	}
	return &tradesman, nil
}

func (r *TradesmanRepository) Update(ctx context.Context, tradesman *domain.Tradesman) error {
	return r.db.WithContext(ctx).Save(tradesman).Error
}

func (r *TradesmanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Tradesman{}, "id = ?", id).Error
}

func (r *TradesmanRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Tradesman, int64, error) {
	var tradesmen []domain.Tradesman
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Tradesman{})

	if search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(job_title) LIKE ?", searchPattern, searchPattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("name ASC").Find(&tradesmen).Error

	return tradesmen, total, err
}

// Leaderboard returns tradesmen ordered by points, highest first
func (r *TradesmanRepository) Leaderboard(ctx context.Context, limit int) ([]domain.Tradesman, error) {
	var tradesmen []domain.Tradesman
	err := r.db.WithContext(ctx).
		Order("points DESC, jobs_completed DESC, name ASC").
		Limit(limit).
		Find(&tradesmen).Error
	return tradesmen, err
}
