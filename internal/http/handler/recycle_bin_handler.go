package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"go.uber.org/zap"
)

type RecycleBinHandler struct {
	recycleBinService *service.RecycleBinService
	logger            *zap.Logger
}

func NewRecycleBinHandler(recycleBinService *service.RecycleBinService, logger *zap.Logger) *RecycleBinHandler {
	return &RecycleBinHandler{
		recycleBinService: recycleBinService,
		logger:            logger,
	}
}

// List godoc
// @Summary List recycle bin contents
// @Tags RecycleBin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param entityType query string false "Filter by entity type" Enums(work_order, invoice, customer)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.DeletedItem}
// @Security BearerAuth
// @Router /recycle-bin [get]
func (h *RecycleBinHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	var entityType *domain.DeletedEntityType
	if et := r.URL.Query().Get("entityType"); et != "" {
		t := domain.DeletedEntityType(et)
		entityType = &t
	}

	result, err := h.recycleBinService.List(r.Context(), page, pageSize, entityType)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list recycle bin")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Restore godoc
// @Summary Restore a deleted item
// @Description Recreate the entity from its snapshot with a fresh ID and sequence number. Relinking to customer and tradesmen is name-based and best effort.
// @Tags RecycleBin
// @Produce json
// @Param id path string true "Deleted item ID" format(uuid)
// @Success 200 {object} interface{}
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Restore target conflicts with live data"
// @Failure 422 {object} domain.ErrorResponse "Snapshot cannot be decoded"
// @Security BearerAuth
// @Router /recycle-bin/{id}/restore [post]
func (h *RecycleBinHandler) Restore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	restored, err := h.recycleBinService.Restore(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to restore item")
		return
	}

	respondJSON(w, http.StatusOK, restored)
}

// Purge godoc
// @Summary Permanently delete a recycle bin item
// @Tags RecycleBin
// @Param id path string true "Deleted item ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /recycle-bin/{id} [delete]
func (h *RecycleBinHandler) Purge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID format")
		return
	}

	if err := h.recycleBinService.Purge(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to purge item")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
