package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/evpulse/internal/errors"
	"github.com/stwalsh4118/evpulse/internal/middleware"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/services"
)

// FilterHandler reads and mutates the shared filter specification.
type FilterHandler struct {
	service services.DashboardService
}

// NewFilterHandler creates a new FilterHandler instance.
func NewFilterHandler(service services.DashboardService) *FilterHandler {
	return &FilterHandler{service: service}
}

// OptionsResponse lists the distinct values of one dimension.
type OptionsResponse struct {
	Dimension models.Dimension `json:"dimension"`
	Options   []string         `json:"options"`
	Count     int              `json:"count"`
}

// Get handles GET /api/v1/filters.
func (h *FilterHandler) Get(c *gin.Context) {
	state, err := h.service.Filters()
	if err != nil {
		serviceError(c, h.service, err, "Failed to read filters")
		return
	}
	c.JSON(http.StatusOK, state)
}

// Update handles PATCH /api/v1/filters. The body is a partial
// specification; absent fields keep their current value.
func (h *FilterHandler) Update(c *gin.Context) {
	var update models.FilterUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return
		}
		apierrors.BadRequest(c, "Request body must be a JSON filter update", nil)
		return
	}

	state, err := h.service.UpdateFilters(update)
	if err != nil {
		serviceError(c, h.service, err, "Failed to update filters")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Filters updated", map[string]interface{}{
			"filtered": state.FilteredCount,
			"total":    state.TotalCount,
		})
	}
	c.JSON(http.StatusOK, state)
}

// Reset handles DELETE /api/v1/filters.
func (h *FilterHandler) Reset(c *gin.Context) {
	state, err := h.service.ResetFilters()
	if err != nil {
		serviceError(c, h.service, err, "Failed to reset filters")
		return
	}
	c.JSON(http.StatusOK, state)
}

// Options handles GET /api/v1/filters/options/:dimension.
func (h *FilterHandler) Options(c *gin.Context) {
	dim, err := models.ParseDimension(c.Param("dimension"))
	if err != nil {
		apierrors.BadRequest(c, err.Error(), map[string]interface{}{
			"supported": models.Dimensions(),
		})
		return
	}

	options, err := h.service.Options(dim)
	if err != nil {
		serviceError(c, h.service, err, "Failed to list filter options")
		return
	}
	c.JSON(http.StatusOK, OptionsResponse{
		Dimension: dim,
		Options:   options,
		Count:     len(options),
	})
}
