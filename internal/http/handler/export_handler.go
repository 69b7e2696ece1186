package handler

import (
	"net/http"

	"github.com/veltra-services/fieldservice-api/internal/service"
	"go.uber.org/zap"
)

type ExportHandler struct {
	exportService *service.ExportService
	logger        *zap.Logger
}

func NewExportHandler(exportService *service.ExportService, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{
		exportService: exportService,
		logger:        logger,
	}
}

// InventoryCSV godoc
// @Summary Export inventory as CSV
// @Description Comma-joined rows with a name,price,quantity,assignedTo header. Field values are not quoted.
// @Tags Exports
// @Produce text/csv
// @Success 200
// @Security BearerAuth
// @Router /exports/inventory.csv [get]
func (h *ExportHandler) InventoryCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportService.InventoryCSV(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to export inventory")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.csv"`)
	_, _ = w.Write(data)
}

// InventoryXLSX godoc
// @Summary Export inventory as XLSX
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @Security BearerAuth
// @Router /exports/inventory.xlsx [get]
func (h *ExportHandler) InventoryXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportService.InventoryXLSX(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to export inventory")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="inventory.xlsx"`)
	_, _ = w.Write(data)
}

// InvoicesXLSX godoc
// @Summary Export invoices as XLSX
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200
// @Security BearerAuth
// @Router /exports/invoices.xlsx [get]
func (h *ExportHandler) InvoicesXLSX(w http.ResponseWriter, r *http.Request) {
	data, err := h.exportService.InvoicesXLSX(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "Failed to export invoices")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.xlsx"`)
	_, _ = w.Write(data)
}
