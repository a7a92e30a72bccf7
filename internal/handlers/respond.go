package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/stwalsh4118/evpulse/internal/errors"
	"github.com/stwalsh4118/evpulse/internal/export"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/services"
)

// bindQuery binds query parameters and writes the error response itself.
// It reports whether the handler may continue.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return false
	}
	return true
}

// serviceError maps a DashboardService error onto the error envelope.
func serviceError(c *gin.Context, svc services.DashboardService, err error, message string) {
	var invalid *services.InvalidFilterError
	switch {
	case errors.Is(err, services.ErrDatasetNotReady):
		apierrors.DatasetNotReady(c, string(svc.Status().Stage))
	case errors.As(err, &invalid):
		apierrors.FilterIssues(c, invalid.Issues)
	case errors.Is(err, services.ErrInvalidPage):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, models.ErrUnknownDimension):
		apierrors.BadRequest(c, err.Error(), nil)
	case errors.Is(err, export.ErrNoData):
		apierrors.NotFound(c, "No vehicles match the current filters")
	default:
		apierrors.InternalServerError(c, message, err)
	}
}
