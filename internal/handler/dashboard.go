package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/service"
	"go.uber.org/zap"
)

// DashboardHandler implements the doctor and admin dashboard endpoints.
type DashboardHandler struct {
	service *service.DashboardService
	logger  *zap.Logger
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(service *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// DoctorOverview returns the logged-in doctor's dashboard.
func (h *DashboardHandler) DoctorOverview(c *gin.Context) {
	overview, err := h.service.DoctorOverview(c.Request.Context(), c.GetString("subject"))
	if err != nil {
		if errors.Is(err, service.ErrDoctorNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "DOCTOR_NOT_FOUND",
				Message: "No doctor record for this account",
			})
			return
		}
		h.logger.Error("failed to build doctor overview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to build doctor overview",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// AdminOverview returns the administrator dashboard.
func (h *DashboardHandler) AdminOverview(c *gin.Context) {
	overview, err := h.service.AdminOverview(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to build admin overview", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to build admin overview",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// RegionalTrends returns the per-region disease table with health scores.
func (h *DashboardHandler) RegionalTrends(c *gin.Context) {
	trends, err := h.service.RegionalTrends(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to build regional trends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to build regional trends",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, trends)
}
