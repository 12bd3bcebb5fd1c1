package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lexbridge/src/app/http/response"
	"lexbridge/src/app/middleware"
	"lexbridge/src/core/usecase"
)

// ExportHandler handles the bulk backup endpoint.
type ExportHandler struct {
	exportService *usecase.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService *usecase.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Snapshot dumps every store as one versioned, timestamped document.
// GET /api/system/export
func (h *ExportHandler) Snapshot(c *gin.Context) {
	snap, err := h.exportService.Snapshot(c.Request.Context())
	if err != nil {
		c.Error(err)
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	c.JSON(http.StatusOK, snap)
}
