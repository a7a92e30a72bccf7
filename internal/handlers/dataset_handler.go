package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/evpulse/internal/middleware"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/services"
)

const defaultErrorLimit = 100

// DatasetHandler exposes load status, reload and ingestion errors.
type DatasetHandler struct {
	service services.DashboardService
}

// NewDatasetHandler creates a new DatasetHandler instance.
func NewDatasetHandler(service services.DashboardService) *DatasetHandler {
	return &DatasetHandler{service: service}
}

// ErrorsRequest represents the query parameters of the errors endpoint.
type ErrorsRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=10000"`
}

// ErrorsResponse lists row-level ingestion errors.
type ErrorsResponse struct {
	Errors []models.RowError `json:"errors"`
	Total  int               `json:"total"`
}

// ReloadResponse acknowledges a reload request.
type ReloadResponse struct {
	LoadID string `json:"loadId"`
	Status string `json:"status"`
}

// Status handles GET /api/v1/dataset.
func (h *DatasetHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Status())
}

// Reload handles POST /api/v1/dataset/reload. The load runs in the
// background; poll Status for its progress.
func (h *DatasetHandler) Reload(c *gin.Context) {
	id := h.service.ReloadAsync(context.WithoutCancel(c.Request.Context()))

	if log := middleware.GetLogger(c); log != nil {
		log.Info("Dataset reload requested", map[string]interface{}{"load_id": id})
	}
	c.JSON(http.StatusAccepted, ReloadResponse{LoadID: id, Status: "accepted"})
}

// Errors handles GET /api/v1/dataset/errors.
func (h *DatasetHandler) Errors(c *gin.Context) {
	var req ErrorsRequest
	if !bindQuery(c, &req) {
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultErrorLimit
	}

	rowErrors, total := h.service.LoadErrors(req.Limit)
	c.JSON(http.StatusOK, ErrorsResponse{Errors: rowErrors, Total: total})
}
