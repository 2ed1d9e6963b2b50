package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/internal/service"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// DocumentHandler implements the medical document endpoints.
type DocumentHandler struct {
	service  *service.DocumentService
	sessions *repository.SessionRepository
	logger   *zap.Logger
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(
	service *service.DocumentService,
	sessions *repository.SessionRepository,
	logger *zap.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		service:  service,
		sessions: sessions,
		logger:   logger,
	}
}

// List returns the user's uploaded documents.
func (h *DocumentHandler) List(c *gin.Context) {
	userID, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	docs, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to list documents",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, docs)
}

// Upload stores a multipart file upload as a new document.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "A file form field is required",
			Details: stringPtr(err.Error()),
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to read uploaded file",
			Details: stringPtr(err.Error()),
		})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to read uploaded file",
			Details: stringPtr(err.Error()),
		})
		return
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	doc, err := h.service.Upload(c.Request.Context(), userID, fileHeader.Filename, contentType, data)
	if err != nil {
		h.logger.Error("failed to upload document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to upload document",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// Download streams the document bytes back to the client.
func (h *DocumentHandler) Download(c *gin.Context) {
	userID, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	doc, data, err := h.service.Download(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "DOCUMENT_NOT_FOUND",
				Message: "Document not found",
			})
			return
		}
		h.logger.Error("failed to download document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to download document",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.Name+`"`)
	c.Data(http.StatusOK, doc.ContentType, data)
}

// Delete removes a document.
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, ok := h.resolveUserID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrDocumentNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{
				Code:    "DOCUMENT_NOT_FOUND",
				Message: "Document not found",
			})
			return
		}
		h.logger.Error("failed to delete document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Failed to delete document",
			Details: stringPtr(err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Document deleted"})
}

// resolveUserID finds the target user id: doctors address patients through
// the userId query parameter, citizens act on their own generated id.
func (h *DocumentHandler) resolveUserID(c *gin.Context) (string, bool) {
	if model.Role(c.GetString("role")) == model.RoleDoctor {
		userID := c.Query("userId")
		if userID == "" {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "The userId query parameter is required",
			})
			return "", false
		}
		return userID, true
	}

	identity, err := h.sessions.Identity(c.Request.Context())
	if err != nil || identity.UserID == "" {
		c.JSON(http.StatusConflict, ErrorResponse{
			Code:    "PROFILE_INCOMPLETE",
			Message: "Complete the registration questionnaire first",
		})
		return "", false
	}
	return identity.UserID, true
}
