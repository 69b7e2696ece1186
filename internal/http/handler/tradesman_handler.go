package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"go.uber.org/zap"
)

type TradesmanHandler struct {
	tradesmanService *service.TradesmanService
	logger           *zap.Logger
}

func NewTradesmanHandler(tradesmanService *service.TradesmanService, logger *zap.Logger) *TradesmanHandler {
	return &TradesmanHandler{
		tradesmanService: tradesmanService,
		logger:           logger,
	}
}

// List godoc
// @Summary List tradesmen
// @Tags Tradesmen
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by name or email"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.Tradesman}
// @Security BearerAuth
// @Router /tradesmen [get]
func (h *TradesmanHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	result, err := h.tradesmanService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list tradesmen")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Leaderboard godoc
// @Summary Get the points leaderboard
// @Description Tradesmen ranked by points, then jobs completed, then name
// @Tags Tradesmen
// @Produce json
// @Param limit query int false "Max entries" default(10)
// @Success 200 {array} domain.LeaderboardEntry
// @Security BearerAuth
// @Router /tradesmen/leaderboard [get]
func (h *TradesmanHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 10
	}

	entries, err := h.tradesmanService.Leaderboard(r.Context(), limit)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load leaderboard")
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// GetByID godoc
// @Summary Get tradesman by ID
// @Tags Tradesmen
// @Produce json
// @Param id path string true "Tradesman ID" format(uuid)
// @Success 200 {object} domain.Tradesman
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tradesmen/{id} [get]
func (h *TradesmanHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tradesman ID format")
		return
	}

	tradesman, err := h.tradesmanService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get tradesman")
		return
	}

	respondJSON(w, http.StatusOK, tradesman)
}

// Create godoc
// @Summary Create tradesman
// @Tags Tradesmen
// @Accept json
// @Produce json
// @Param request body domain.CreateTradesmanRequest true "Tradesman data"
// @Success 201 {object} domain.Tradesman
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tradesmen [post]
func (h *TradesmanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTradesmanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tradesman, err := h.tradesmanService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create tradesman")
		return
	}

	w.Header().Set("Location", "/api/v1/tradesmen/"+tradesman.ID.String())
	respondJSON(w, http.StatusCreated, tradesman)
}

// Update godoc
// @Summary Update tradesman
// @Tags Tradesmen
// @Accept json
// @Produce json
// @Param id path string true "Tradesman ID" format(uuid)
// @Param request body domain.UpdateTradesmanRequest true "Tradesman data"
// @Success 200 {object} domain.Tradesman
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tradesmen/{id} [put]
func (h *TradesmanHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tradesman ID format")
		return
	}

	var req domain.UpdateTradesmanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tradesman, err := h.tradesmanService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update tradesman")
		return
	}

	respondJSON(w, http.StatusOK, tradesman)
}

// Delete godoc
// @Summary Delete tradesman
// @Tags Tradesmen
// @Param id path string true "Tradesman ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tradesmen/{id} [delete]
func (h *TradesmanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tradesman ID format")
		return
	}

	if err := h.tradesmanService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete tradesman")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// AwardBadge godoc
// @Summary Award a badge
// @Description Add a badge to the tradesman's badge set. Awarding the same badge twice is a no-op.
// @Tags Tradesmen
// @Accept json
// @Produce json
// @Param id path string true "Tradesman ID" format(uuid)
// @Param request body domain.AwardBadgeRequest true "Badge"
// @Success 200 {object} domain.Tradesman
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tradesmen/{id}/badges [post]
func (h *TradesmanHandler) AwardBadge(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tradesman ID format")
		return
	}

	var req domain.AwardBadgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	tradesman, err := h.tradesmanService.AwardBadge(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to award badge")
		return
	}

	respondJSON(w, http.StatusOK, tradesman)
}

// CreditHistory godoc
// @Summary Get completion credit history
// @Description List the completion credit events recorded for the tradesman
// @Tags Tradesmen
// @Produce json
// @Param id path string true "Tradesman ID" format(uuid)
// @Success 200 {array} domain.CreditEvent
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /tradesmen/{id}/credits [get]
func (h *TradesmanHandler) CreditHistory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid tradesman ID format")
		return
	}

	events, err := h.tradesmanService.CreditHistory(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to load credit history")
		return
	}

	respondJSON(w, http.StatusOK, events)
}
