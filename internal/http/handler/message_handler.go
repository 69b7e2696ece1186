package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/service"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService *service.MessageService
	logger         *zap.Logger
}

func NewMessageHandler(messageService *service.MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// ListConversations godoc
// @Summary List conversations
// @Description Conversations ordered by most recent activity
// @Tags Messages
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.Conversation}
// @Security BearerAuth
// @Router /conversations [get]
func (h *MessageHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)

	result, err := h.messageService.ListConversations(r.Context(), page, pageSize)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list conversations")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// CreateConversation godoc
// @Summary Create conversation
// @Description Create a conversation for a set of participants. If one already exists for the same participants it is returned instead.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body domain.CreateConversationRequest true "Participants (comma separated display names)"
// @Success 201 {object} domain.Conversation
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /conversations [post]
func (h *MessageHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	conversation, err := h.messageService.CreateConversation(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to create conversation")
		return
	}

	respondJSON(w, http.StatusCreated, conversation)
}

// GetConversation godoc
// @Summary Get conversation by ID
// @Description Get a conversation with its messages in chronological order
// @Tags Messages
// @Produce json
// @Param id path string true "Conversation ID" format(uuid)
// @Success 200 {object} domain.Conversation
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id} [get]
func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	conversation, err := h.messageService.GetConversation(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to get conversation")
		return
	}

	respondJSON(w, http.StatusOK, conversation)
}

// DeleteConversation godoc
// @Summary Delete conversation
// @Tags Messages
// @Param id path string true "Conversation ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id} [delete]
func (h *MessageHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	if err := h.messageService.DeleteConversation(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "Failed to delete conversation")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// ListMessages godoc
// @Summary List messages in a conversation
// @Tags Messages
// @Produce json
// @Param id path string true "Conversation ID" format(uuid)
// @Success 200 {array} domain.Message
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id}/messages [get]
func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	messages, err := h.messageService.ListMessages(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to list messages")
		return
	}

	respondJSON(w, http.StatusOK, messages)
}

// PostMessage godoc
// @Summary Post a message
// @Description Post a message as the authenticated user and notify the other participants
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path string true "Conversation ID" format(uuid)
// @Param request body domain.PostMessageRequest true "Message body"
// @Success 201 {object} domain.Message
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /conversations/{id}/messages [post]
func (h *MessageHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid conversation ID format")
		return
	}

	var req domain.PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	message, err := h.messageService.PostMessage(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to post message")
		return
	}

	respondJSON(w, http.StatusCreated, message)
}
