package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/veltra-services/fieldservice-api/internal/directory"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RosterSource supplies technician roster rows, normally the HR directory
type RosterSource interface {
	ActiveTechnicians(ctx context.Context) ([]directory.TechnicianRecord, error)
}

// RosterSyncService pulls the technician roster from the HR directory into
// the tradesman table. Sync is one-way and additive: rows are deduplicated
// per run with an existence check by email, and nothing is ever deleted
// locally when someone leaves the directory.
type RosterSyncService struct {
	source        RosterSource
	tradesmanRepo *repository.TradesmanRepository
	logger        *zap.Logger
}

func NewRosterSyncService(
	source RosterSource,
	tradesmanRepo *repository.TradesmanRepository,
	logger *zap.Logger,
) *RosterSyncService {
	return &RosterSyncService{
		source:        source,
		tradesmanRepo: tradesmanRepo,
		logger:        logger,
	}
}

// Sync runs one roster pass. Rows without an email are skipped: without it
// there is no dedupe key. Row-level failures are counted, not fatal.
func (s *RosterSyncService) Sync(ctx context.Context) (*domain.RosterSyncResult, error) {
	if s.source == nil {
		return nil, fmt.Errorf("roster source not configured")
	}

	records, err := s.source.ActiveTechnicians(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roster: %w", err)
	}

	result := &domain.RosterSyncResult{Seen: len(records)}

	for _, rec := range records {
		if rec.Email == "" {
			result.Skipped++
			continue
		}

		_, err := s.tradesmanRepo.GetByEmail(ctx, rec.Email)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("roster existence check failed",
				zap.String("email", rec.Email),
				zap.Error(err),
			)
			result.Failed++
			continue
		}

		tradesman := &domain.Tradesman{
			Name:     rec.FullName,
			JobTitle: rec.JobTitle,
			Phone:    rec.Phone,
			Email:    rec.Email,
			Badges:   []string{},
		}
		if err := s.tradesmanRepo.Create(ctx, tradesman); err != nil {
			s.logger.Error("failed to create tradesman from roster",
				zap.String("email", rec.Email),
				zap.Error(err),
			)
			result.Failed++
			continue
		}
		result.Created++
	}

	s.logger.Info("roster sync completed",
		zap.Int("seen", result.Seen),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}
