package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/internal/service"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// ProfileHandler implements the citizen profile, medical note and language
// endpoints.
type ProfileHandler struct {
	service *service.ProfileService
	logger  *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(service *service.ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger,
	}
}

// Get returns the logged-in citizen's profile.
func (h *ProfileHandler) Get(c *gin.Context) {
	profile, err := h.service.Get(c.Request.Context(), c.GetString("subject"))
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "PROFILE_NOT_FOUND",
				Message: "No profile has been created yet",
			})
			return
		}
		h.logger.Error("failed to load profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load profile",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// Update edits the logged-in citizen's profile. The generated user id and
// identification number never change through this endpoint.
func (h *ProfileHandler) Update(c *gin.Context) {
	var req model.UserProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	profile, err := h.service.Update(c.Request.Context(), c.GetString("subject"), req)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "PROFILE_NOT_FOUND",
				Message: "No profile has been created yet",
			})
			return
		}
		h.logger.Error("failed to update profile", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to update profile",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// MedicalNote returns the doctor note for a user. Citizens read their own
// note; doctors pass the target user id.
func (h *ProfileHandler) MedicalNote(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		userID = c.GetString("subject")
	}

	note, err := h.service.MedicalNote(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to load medical note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load medical note",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": userID, "note": note})
}

type medicalNoteRequest struct {
	UserID string `json:"userId" binding:"required"`
	Note   string `json:"note"`
}

// SetMedicalNote stores the doctor note for a patient.
func (h *ProfileHandler) SetMedicalNote(c *gin.Context) {
	var req medicalNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if err := h.service.SetMedicalNote(c.Request.Context(), c.GetString("subject"), req.UserID, req.Note); err != nil {
		h.logger.Error("failed to store medical note", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to store medical note",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Medical note saved"})
}

// Language returns the portal display language.
func (h *ProfileHandler) Language(c *gin.Context) {
	lang, err := h.service.Language(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to load language", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to load language",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": lang})
}

type languageRequest struct {
	Language model.Language `json:"language" binding:"required"`
}

// SetLanguage stores the portal display language.
func (h *ProfileHandler) SetLanguage(c *gin.Context) {
	var req languageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Invalid request body",
			Details: stringPtr(err.Error()),
		})
		return
	}

	if !model.ValidLanguage(req.Language) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Unsupported language",
		})
		return
	}

	if err := h.service.SetLanguage(c.Request.Context(), req.Language); err != nil {
		h.logger.Error("failed to store language", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to store language",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"language": req.Language})
}
