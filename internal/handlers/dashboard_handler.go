package handlers

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/evpulse/internal/aggregate"
	"github.com/stwalsh4118/evpulse/internal/export"
	"github.com/stwalsh4118/evpulse/internal/middleware"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/services"
)

// DashboardHandler serves the read side of the dashboard: statistics,
// charts, the vehicle table and CSV export.
type DashboardHandler struct {
	service services.DashboardService
	now     func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		now:     time.Now,
	}
}

// LimitRequest represents an optional result limit.
type LimitRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// TableRequest represents the query parameters of the vehicles endpoint.
type TableRequest struct {
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
	SortYear  string `form:"sortYear" binding:"omitempty,oneof=asc desc"`
	SortRange string `form:"sortRange" binding:"omitempty,oneof=asc desc"`
	Toggle    string `form:"toggle" binding:"omitempty,oneof=modelYear electricRange"`
}

// ExportRequest represents the query parameters of the export endpoint.
// The byte order mark is written unless bom=false.
type ExportRequest struct {
	BOM *bool `form:"bom"`
}

// ChartsResponse wraps the chart series.
type ChartsResponse struct {
	Charts []aggregate.ChartSeries `json:"charts"`
}

// GroupsResponse wraps the top items per dimension.
type GroupsResponse struct {
	Groups map[string][]aggregate.ChartPoint `json:"groups"`
}

// Stats handles GET /api/v1/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	summary, err := h.service.Summary()
	if err != nil {
		serviceError(c, h.service, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Charts handles GET /api/v1/charts.
func (h *DashboardHandler) Charts(c *gin.Context) {
	var req LimitRequest
	if !bindQuery(c, &req) {
		return
	}

	charts, err := h.service.Charts(req.Limit)
	if err != nil {
		serviceError(c, h.service, err, "Failed to build charts")
		return
	}
	c.JSON(http.StatusOK, ChartsResponse{Charts: charts})
}

// RangeStats handles GET /api/v1/range-stats.
func (h *DashboardHandler) RangeStats(c *gin.Context) {
	stats, err := h.service.RangeStats()
	if err != nil {
		serviceError(c, h.service, err, "Failed to compute range statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Groups handles GET /api/v1/groups.
func (h *DashboardHandler) Groups(c *gin.Context) {
	var req LimitRequest
	if !bindQuery(c, &req) {
		return
	}

	groups, err := h.service.Groups(req.Limit)
	if err != nil {
		serviceError(c, h.service, err, "Failed to group vehicles")
		return
	}
	c.JSON(http.StatusOK, GroupsResponse{Groups: groups})
}

// Vehicles handles GET /api/v1/vehicles. Query parameters move the shared
// table position; omitted ones keep it.
func (h *DashboardHandler) Vehicles(c *gin.Context) {
	var req TableRequest
	if !bindQuery(c, &req) {
		return
	}

	page, err := h.service.Table(services.TableQuery{
		SortYear:  models.SortDirection(req.SortYear),
		SortRange: models.SortDirection(req.SortRange),
		Toggle:    models.SortColumn(req.Toggle),
		Page:      req.Page,
		PageSize:  req.PageSize,
	})
	if err != nil {
		serviceError(c, h.service, err, "Failed to load vehicles")
		return
	}
	c.JSON(http.StatusOK, page)
}

// Export handles GET /api/v1/export. The filtered view is sent as a CSV
// attachment in table order.
func (h *DashboardHandler) Export(c *gin.Context) {
	var req ExportRequest
	if !bindQuery(c, &req) {
		return
	}
	opts := export.Options{BOM: req.BOM == nil || *req.BOM}

	var buf bytes.Buffer
	n, err := h.service.Export(&buf, opts)
	if err != nil {
		serviceError(c, h.service, err, "Failed to export vehicles")
		return
	}

	filename := export.Filename(h.now())
	if log := middleware.GetLogger(c); log != nil {
		log.Info("Sending export", map[string]interface{}{
			"rows":     n,
			"filename": filename,
			"bytes":    buf.Len(),
		})
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
