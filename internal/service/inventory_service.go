package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	tradesmanRepo *repository.TradesmanRepository
	userRepo      *repository.UserRepository
	notifications *NotificationService
	logger        *zap.Logger
}

func NewInventoryService(
	inventoryRepo *repository.InventoryRepository,
	tradesmanRepo *repository.TradesmanRepository,
	userRepo *repository.UserRepository,
	notifications *NotificationService,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		tradesmanRepo: tradesmanRepo,
		userRepo:      userRepo,
		notifications: notifications,
		logger:        logger,
	}
}

func (s *InventoryService) Create(ctx context.Context, req *domain.CreateInventoryItemRequest) (*domain.InventoryItem, error) {
	item := &domain.InventoryItem{
		Name:          req.Name,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Category:      req.Category,
		LowThreshold:  req.LowThreshold,
		HighThreshold: req.HighThreshold,
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInventoryItemRequest) (*domain.InventoryItem, error) {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item.Name = req.Name
	item.Price = req.Price
	item.Quantity = req.Quantity
	item.Category = req.Category
	item.LowThreshold = req.LowThreshold
	item.HighThreshold = req.HighThreshold

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}

	s.checkLowStock(ctx, item)
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.inventoryRepo.Delete(ctx, id)
}

func (s *InventoryService) List(ctx context.Context, page, pageSize int, filter repository.InventoryFilter) (*domain.PaginatedResponse, error) {
	items, total, err := s.inventoryRepo.List(ctx, page, pageSize, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
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

// Assign moves q units from a warehouse item to a tradesman. The source must
// hold at least q units and q must be positive; the assignment creates an
// independent item row owned by the tradesman, it does not link back to the
// source.
func (s *InventoryService) Assign(ctx context.Context, itemID uuid.UUID, req *domain.AssignInventoryRequest) (*domain.InventoryItem, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
	}

	source, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if source.Quantity < req.Quantity {
		return nil, fmt.Errorf("%w: %d requested, %d available", ErrInsufficientStock, req.Quantity, source.Quantity)
	}

	tradesman, err := s.tradesmanRepo.GetByID(ctx, req.TradesmanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tradesman", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tradesman: %w", err)
	}

	source.Quantity -= req.Quantity
	assigned := &domain.InventoryItem{
		Name:          source.Name,
		Price:         source.Price,
		Quantity:      req.Quantity,
		Category:      source.Category,
		TradesmanID:   &tradesman.ID,
		LowThreshold:  source.LowThreshold,
		HighThreshold: source.HighThreshold,
	}

	if err := s.inventoryRepo.Assign(ctx, source, assigned); err != nil {
		return nil, fmt.Errorf("failed to assign inventory: %w", err)
	}

	s.logger.Info("inventory assigned",
		zap.String("item_id", source.ID.String()),
		zap.String("tradesman_id", tradesman.ID.String()),
		zap.Int16("quantity", req.Quantity),
	)

	s.checkLowStock(ctx, source)
	return assigned, nil
}

// RecordUsage appends a usage record and decrements the quantity.
// Usage never drives the quantity below zero.
func (s *InventoryService) RecordUsage(ctx context.Context, itemID uuid.UUID, req *domain.RecordUsageRequest) (*domain.InventoryItem, error) {
	item, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if req.QuantityUsed > item.Quantity {
		return nil, fmt.Errorf("%w: %d used, %d on hand", ErrInsufficientStock, req.QuantityUsed, item.Quantity)
	}

	usage := &domain.InventoryUsage{
		InventoryItemID: item.ID,
		QuantityUsed:    req.QuantityUsed,
	}
	if err := s.inventoryRepo.CreateUsage(ctx, usage); err != nil {
		return nil, fmt.Errorf("failed to record usage: %w", err)
	}

	item.Quantity -= req.QuantityUsed
	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update quantity: %w", err)
	}

	s.checkLowStock(ctx, item)
	return s.GetByID(ctx, itemID)
}

// LowStock returns all items at or below their low threshold
func (s *InventoryService) LowStock(ctx context.Context) ([]domain.InventoryItem, error) {
	items, _, err := s.inventoryRepo.List(ctx, 1, 1000, repository.InventoryFilter{LowStockOnly: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock: %w", err)
	}
	return items, nil
}

// checkLowStock notifies opted-in admins when an item crosses its threshold
func (s *InventoryService) checkLowStock(ctx context.Context, item *domain.InventoryItem) {
	if !item.IsLowStock() {
		return
	}

	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		s.logger.Warn("failed to list admins for low-stock notification", zap.Error(err))
		return
	}

	for _, admin := range admins {
		if !admin.NotifyOnLowStock {
			continue
		}
		s.notifications.Notify(ctx, admin.ID, domain.NotificationTypeLowStock,
			"Low stock",
			fmt.Sprintf("%s is down to %d units", item.Name, item.Quantity),
			&item.ID, "inventory_item")
	}
}
