package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"github.com/veltra-services/fieldservice-api/internal/storage"
	"go.uber.org/zap"
)

type WorkOrderHandler struct {
	workOrderService *service.WorkOrderService
	storage          storage.Storage
	maxUploadMB      int64
	logger           *zap.Logger
}

func NewWorkOrderHandler(workOrderService *service.WorkOrderService, store storage.Storage, maxUploadMB int64, logger *zap.Logger) *WorkOrderHandler {
	return &WorkOrderHandler{
		workOrderService: workOrderService,
		storage:          store,
		maxUploadMB:      maxUploadMB,
		logger:           logger,
	}
}

// List godoc
// @Summary List work orders
// @Tags WorkOrders
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param status query string false "Filter by status" Enums(open, completed, incomplete)
// @Param customerId query string false "Filter by customer" format(uuid)
// @Param tradesmanId query string false "Filter by assigned tradesman" format(uuid)
// @Param callbackOnly query bool false "Only callback jobs"
// @Param scheduledFrom query string false "Scheduled on or after (RFC3339)"
// @Param scheduledTo query string false "Scheduled before (RFC3339)"
// @Param search query string false "Search category, description or notes"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.WorkOrder}
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders [get]
func (h *WorkOrderHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	filter := repository.WorkOrderFilter{
		Search: r.URL.Query().Get("search"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.WorkOrderStatus(status)
		filter.Status = &s
	}
	if cid := r.URL.Query().Get("customerId"); cid != "" {
		id, err := uuid.Parse(cid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid customerId: must be a valid UUID")
			return
		}
		filter.CustomerID = &id
	}
	if tid := r.URL.Query().Get("tradesmanId"); tid != "" {
		id, err := uuid.Parse(tid)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid tradesmanId: must be a valid UUID")
			return
		}
		filter.TradesmanID = &id
	}
	if cb := r.URL.Query().Get("callbackOnly"); cb != "" {
		filter.CallbackOnly, _ = strconv.ParseBool(cb)
	}
	if from := r.URL.Query().Get("scheduledFrom"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid scheduledFrom: must be RFC3339")
			return
		}
		filter.ScheduledFrom = &t
	}
	if to := r.URL.Query().Get("scheduledTo"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid scheduledTo: must be RFC3339")
			return
		}
		filter.ScheduledTo = &t
	}

	result, err := h.workOrderService.List(r.Context(), page, pageSize, filter)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list work orders")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get work order by ID
// @Description Get a work order with customer, tradesmen, tasks and invoice preloaded
// @Tags WorkOrders
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Success 200 {object} domain.WorkOrder
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id} [get]
func (h *WorkOrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	workOrder, err := h.workOrderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get work order")
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// Create godoc
// @Summary Create work order
// @Description Create a work order with the next sequential number and optional tradesman assignment
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param request body domain.CreateWorkOrderRequest true "Work order data"
// @Success 201 {object} domain.WorkOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Unknown customer or tradesman"
// @Security BearerAuth
// @Router /workorders [post]
func (h *WorkOrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	workOrder, err := h.workOrderService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create work order")
		return
	}

	w.Header().Set("Location", "/api/v1/workorders/"+workOrder.ID.String())
	respondJSON(w, http.StatusCreated, workOrder)
}

// Update godoc
// @Summary Update work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.UpdateWorkOrderRequest true "Work order data"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id} [put]
func (h *WorkOrderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var req domain.UpdateWorkOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	workOrder, err := h.workOrderService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update work order")
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// ChangeStatus godoc
// @Summary Change work order status
// @Description Set status to open, completed or incomplete. Completion credits assigned tradesmen once per work order.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.ChangeWorkOrderStatusRequest true "New status"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id}/status [put]
func (h *WorkOrderHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var req domain.ChangeWorkOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	workOrder, err := h.workOrderService.ChangeStatus(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to change work order status")
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// PutMaterials godoc
// @Summary Replace work order materials
// @Description Replace the material list. Negative prices and quantities are clamped to zero. Recomputes the invoice total if an invoice exists.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.PutMaterialsRequest true "Materials"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id}/materials [put]
func (h *WorkOrderHandler) PutMaterials(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var req domain.PutMaterialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	workOrder, err := h.workOrderService.PutMaterials(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update materials")
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// AssignTradesmen godoc
// @Summary Assign tradesmen
// @Description Replace the set of tradesmen assigned to the work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.AssignTradesmenRequest true "Tradesman IDs"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id}/tradesmen [put]
func (h *WorkOrderHandler) AssignTradesmen(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var req domain.AssignTradesmenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	workOrder, err := h.workOrderService.AssignTradesmen(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to assign tradesmen")
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// UploadPhoto godoc
// @Summary Upload work order photo
// @Tags WorkOrders
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param file formData file true "Photo to upload"
// @Success 200 {object} domain.WorkOrder
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 413 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id}/photos [post]
func (h *WorkOrderHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(h.maxUploadMB * 1024 * 1024); err != nil {
		respondWithError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("File too large: maximum size is %dMB", h.maxUploadMB))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid file upload: file field is required")
		return
	}
	defer file.Close()

	storagePath, size, err := h.storage.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.logger.Error("failed to store photo", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to store photo")
		return
	}

	h.logger.Info("photo stored",
		zap.String("work_order_id", id.String()),
		zap.String("storage_path", storagePath),
		zap.Int64("size", size))

	workOrder, err := h.workOrderService.AddPhoto(r.Context(), id, storagePath)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to attach photo")
		return
	}

	respondJSON(w, http.StatusOK, workOrder)
}

// DownloadPhoto godoc
// @Summary Download work order photo
// @Tags WorkOrders
// @Produce application/octet-stream
// @Param id path string true "Work order ID" format(uuid)
// @Param path query string true "Photo storage path"
// @Success 200
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id}/photos/download [get]
func (h *WorkOrderHandler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	storagePath := r.URL.Query().Get("path")
	if storagePath == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'path' is required")
		return
	}

	// The path must belong to this work order, not just exist in storage.
	workOrder, err := h.workOrderService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get work order")
		return
	}
	if !workOrder.HasPhoto(storagePath) {
		respondWithError(w, http.StatusNotFound, "Photo not found on this work order")
		return
	}

	reader, err := h.storage.Download(r.Context(), storagePath)
	if err != nil {
		h.logger.Error("failed to download photo", zap.Error(err), zap.String("path", storagePath))
		respondWithError(w, http.StatusNotFound, "Photo not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = io.Copy(w, reader)
}

// Delete godoc
// @Summary Delete work order
// @Description Move the work order and its tasks and invoice reference to the recycle bin
// @Tags WorkOrders
// @Param id path string true "Work order ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id} [delete]
func (h *WorkOrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	if err := h.workOrderService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete work order")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// AddTask godoc
// @Summary Add task to work order
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param id path string true "Work order ID" format(uuid)
// @Param request body domain.CreateTaskRequest true "Task data"
// @Success 201 {object} domain.Task
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/{id}/tasks [post]
func (h *WorkOrderHandler) AddTask(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid work order ID format")
		return
	}

	var req domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.workOrderService.AddTask(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to add task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// UpdateTask godoc
// @Summary Update task
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Param taskId path string true "Task ID" format(uuid)
// @Param request body domain.CreateTaskRequest true "Task data"
// @Success 200 {object} domain.Task
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/tasks/{taskId} [put]
func (h *WorkOrderHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	var req domain.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	task, err := h.workOrderService.UpdateTask(r.Context(), taskID, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// SetTaskComplete godoc
// @Summary Mark task complete or incomplete
// @Tags WorkOrders
// @Produce json
// @Param taskId path string true "Task ID" format(uuid)
// @Param complete query bool false "Completion state" default(true)
// @Success 200 {object} domain.Task
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/tasks/{taskId}/complete [put]
func (h *WorkOrderHandler) SetTaskComplete(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	complete := true
	if c := r.URL.Query().Get("complete"); c != "" {
		complete, _ = strconv.ParseBool(c)
	}

	task, err := h.workOrderService.SetTaskComplete(r.Context(), taskID, complete)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask godoc
// @Summary Delete task
// @Tags WorkOrders
// @Param taskId path string true "Task ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /workorders/tasks/{taskId} [delete]
func (h *WorkOrderHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID format")
		return
	}

	if err := h.workOrderService.DeleteTask(r.Context(), taskID); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete task")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
