package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/service"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// AuthHandler implements the login and logout endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
	}
}

type citizenLoginRequest struct {
	CitizenType      model.CitizenType `json:"citizenType" binding:"required"`
	IdentificationID string            `json:"identificationId" binding:"required"`
}

type doctorLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type adminLoginRequest struct {
	AccessKey string `json:"accessKey" binding:"required"`
}

// LoginCitizen authenticates a citizen by Aadhaar or passport number.
func (h *AuthHandler) LoginCitizen(c *gin.Context) {
	var req citizenLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	result, err := h.service.LoginCitizen(c.Request.Context(), req.CitizenType, req.IdentificationID)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LoginDoctor authenticates the doctor account.
func (h *AuthHandler) LoginDoctor(c *gin.Context) {
	var req doctorLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	result, err := h.service.LoginDoctor(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LoginAdmin authenticates with the administrator access key.
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	result, err := h.service.LoginAdmin(c.Request.Context(), req.AccessKey)
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Logout clears the stored session identity.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to log out",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Code:    "INVALID_CREDENTIALS",
			Message: "Invalid credentials",
		})
		return
	}

	h.logger.Error("login failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    "INTERNAL_ERROR",
		Message: "Login failed",
		Details: stringPtr(err.Error()),
	})
}
