package handler

import (
	"net/http"

	"github.com/veltra-services/fieldservice-api/internal/domain"
	"github.com/veltra-services/fieldservice-api/internal/service"
	appsync "github.com/veltra-services/fieldservice-api/internal/sync"
	"go.uber.org/zap"
)

type SyncHandler struct {
	debouncer   *appsync.Debouncer
	syncService *service.RosterSyncService
	logger      *zap.Logger
}

func NewSyncHandler(debouncer *appsync.Debouncer, syncService *service.RosterSyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		debouncer:   debouncer,
		syncService: syncService,
		logger:      logger,
	}
}

// Notify godoc
// @Summary Report a remote roster change
// @Description Feed the sync debouncer. Bursts coalesce into one sync; notifications arriving while a sync is running are dropped.
// @Tags Sync
// @Produce json
// @Success 202 {object} domain.SyncNotifyResponse
// @Security BearerAuth
// @Router /sync/notify [post]
func (h *SyncHandler) Notify(w http.ResponseWriter, r *http.Request) {
	accepted, state := h.debouncer.Notify()

	respondJSON(w, http.StatusAccepted, domain.SyncNotifyResponse{
		Accepted: accepted,
		State:    state,
	})
}

// State godoc
// @Summary Get sync debouncer state
// @Tags Sync
// @Produce json
// @Success 200 {object} domain.SyncNotifyResponse
// @Security BearerAuth
// @Router /sync/state [get]
func (h *SyncHandler) State(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, domain.SyncNotifyResponse{
		Accepted: false,
		State:    h.debouncer.State(),
	})
}

// RunNow godoc
// @Summary Run a roster sync immediately
// @Description Admin-only escape hatch that bypasses the debounce window
// @Tags Sync
// @Produce json
// @Success 200 {object} domain.RosterSyncResult
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /sync/run [post]
func (h *SyncHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	result, err := h.syncService.Sync(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Roster sync failed")
		return
	}

	respondJSON(w, http.StatusOK, result)
}
