package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// List godoc
// @Summary List inventory items
// @Tags Inventory
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name"
// @Param category query string false "Filter by category"
// @Param tradesmanId query string false "Filter by assigned tradesman" format(uuid)
// @Param warehouseOnly query bool false "Only unassigned warehouse stock"
// @Param lowStockOnly query bool false "Only items at or below their low threshold"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InventoryItem}
// @Security BearerAuth
// @Router /inventory [get]
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filter := repository.InventoryFilter{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
	}

	if tid := r.URL.Query().Get("tradesmanId"); tid != "" {
		id, err := uuid.Parse(tid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid tradesmanId: must be a valid UUID")
			return
		}
		filter.TradesmanID = &id
	}
	if wo := r.URL.Query().Get("warehouseOnly"); wo != "" {
		filter.WarehouseOnly, _ = strconv.ParseBool(wo)
	}
	if ls := r.URL.Query().Get("lowStockOnly"); ls != "" {
		filter.LowStockOnly, _ = strconv.ParseBool(ls)
	}

	result, err := h.inventoryService.List(r.Context(), page, pageSize, filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list inventory")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get inventory item by ID
// @Tags Inventory
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Success 200 {object} domain.InventoryItem
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [get]
func (h *InventoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	item, err := h.inventoryService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get inventory item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body domain.CreateInventoryItemRequest true "Item data"
// @Success 201 {object} domain.InventoryItem
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /inventory [post]
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.inventoryService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create inventory item")
		return
	}

	w.Header().Set("Location", "/api/v1/inventory/"+item.ID.String())
	respondJSON(w, http.StatusCreated, item)
}

// Update godoc
// @Summary Update inventory item
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param request body domain.UpdateInventoryItemRequest true "Item data"
// @Success 200 {object} domain.InventoryItem
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [put]
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req domain.UpdateInventoryItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.inventoryService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update inventory item")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete inventory item
// @Tags Inventory
// @Param id path string true "Item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /inventory/{id} [delete]
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := h.inventoryService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete inventory item")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Assign godoc
// @Summary Assign stock to a tradesman
// @Description Move a quantity from warehouse stock to a new tradesman-owned row. Fails if the source has less than the requested quantity.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Source item ID" format(uuid)
// @Param request body domain.AssignInventoryRequest true "Assignment"
// @Success 200 {object} domain.InventoryItem
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /inventory/{id}/assign [post]
func (h *InventoryHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req domain.AssignInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.inventoryService.Assign(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to assign inventory")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// RecordUsage godoc
// @Summary Record material usage
// @Description Record a quantity used on a job, decrementing the on-hand count
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Item ID" format(uuid)
// @Param request body domain.RecordUsageRequest true "Usage"
// @Success 200 {object} domain.InventoryItem
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Insufficient stock"
// @Security BearerAuth
// @Router /inventory/{id}/usage [post]
func (h *InventoryHandler) RecordUsage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	var req domain.RecordUsageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.inventoryService.RecordUsage(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to record usage")
		return
	}

	respondJSON(w, http.StatusOK, item)
}

// LowStock godoc
// @Summary List low stock items
// @Tags Inventory
// @Produce json
// @Success 200 {array} domain.InventoryItem
// @Security BearerAuth
// @Router /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.LowStock(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list low stock items")
		return
	}

	respondJSON(w, http.StatusOK, items)
}
