package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/swasth-health/portal-backend/internal/audit"
	"github.com/swasth-health/portal-backend/internal/blob"
	"github.com/swasth-health/portal-backend/internal/repository"
	"github.com/swasth-health/portal-backend/pkg/model"
	"go.uber.org/zap"
)

// ErrDocumentNotFound is returned when a document id is not in the user's
// document list.
var ErrDocumentNotFound = errors.New("service: document not found")

// maxDocumentSize caps a single upload at 10 MiB.
const maxDocumentSize = 10 << 20

// DocumentService stores uploaded medical documents: the bytes go to blob
// storage and the metadata list is kept per user.
type DocumentService struct {
	profiles *repository.ProfileRepository
	storage  blob.Storage
	auditor  *audit.Logger
	logger   *zap.Logger
	now      func() time.Time
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(
	profiles *repository.ProfileRepository,
	storage blob.Storage,
	auditor *audit.Logger,
	logger *zap.Logger,
) *DocumentService {
	return &DocumentService{
		profiles: profiles,
		storage:  storage,
		auditor:  auditor,
		logger:   logger,
		now:      time.Now,
	}
}

// List returns the user's document metadata, oldest first. A user with no
// uploads gets an empty list, never nil.
func (s *DocumentService) List(ctx context.Context, userID string) ([]model.Document, error) {
	return s.profiles.LoadDocuments(ctx, userID)
}

// Upload stores the file bytes and appends the document metadata to the
// user's list.
func (s *DocumentService) Upload(ctx context.Context, userID, name, contentType string, data []byte) (model.Document, error) {
	if len(data) == 0 {
		return model.Document{}, fmt.Errorf("document is empty")
	}
	if len(data) > maxDocumentSize {
		return model.Document{}, fmt.Errorf("document exceeds %d byte limit", maxDocumentSize)
	}

	doc := model.Document{
		ID:          uuid.New().String(),
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		UploadDate:  s.now(),
	}
	doc.BlobName = fmt.Sprintf("documents/%s/%s", userID, doc.ID)

	if err := s.storage.Upload(ctx, doc.BlobName, contentType, data); err != nil {
		return model.Document{}, fmt.Errorf("failed to store document: %w", err)
	}

	docs, err := s.profiles.LoadDocuments(ctx, userID)
	if err != nil {
		return model.Document{}, err
	}
	docs = append(docs, doc)
	if err := s.profiles.SaveDocuments(ctx, userID, docs); err != nil {
		return model.Document{}, err
	}

	s.auditor.Log(ctx, audit.Entry{
		Subject:       userID,
		OperationType: audit.OperationCreate,
		ResourceType:  audit.ResourceDocument,
		ResourceID:    doc.ID,
	})
	s.logger.Info("document uploaded",
		zap.String("user_id", userID),
		zap.String("document_id", doc.ID),
		zap.Int64("size", doc.Size),
	)
	return doc, nil
}

// Download returns the document metadata and its bytes.
func (s *DocumentService) Download(ctx context.Context, userID, documentID string) (model.Document, []byte, error) {
	doc, _, err := s.find(ctx, userID, documentID)
	if err != nil {
		return model.Document{}, nil, err
	}
	data, err := s.storage.Download(ctx, doc.BlobName)
	if err != nil {
		return model.Document{}, nil, fmt.Errorf("failed to fetch document: %w", err)
	}
	return doc, data, nil
}

// Delete removes the document from the user's list and deletes the stored
// bytes. A missing blob does not fail the delete; the metadata removal is
// what the user observes.
func (s *DocumentService) Delete(ctx context.Context, userID, documentID string) error {
	doc, docs, err := s.find(ctx, userID, documentID)
	if err != nil {
		return err
	}

	remaining := make([]model.Document, 0, len(docs)-1)
	for _, d := range docs {
		if d.ID != documentID {
			remaining = append(remaining, d)
		}
	}
	if err := s.profiles.SaveDocuments(ctx, userID, remaining); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, doc.BlobName); err != nil {
		s.logger.Warn("failed to delete document blob",
			zap.String("blob_name", doc.BlobName),
			zap.Error(err),
		)
	}

	s.auditor.Log(ctx, audit.Entry{
		Subject:       userID,
		OperationType: audit.OperationDelete,
		ResourceType:  audit.ResourceDocument,
		ResourceID:    documentID,
	})
	return nil
}

func (s *DocumentService) find(ctx context.Context, userID, documentID string) (model.Document, []model.Document, error) {
	docs, err := s.profiles.LoadDocuments(ctx, userID)
	if err != nil {
		return model.Document{}, nil, err
	}
	for _, d := range docs {
		if d.ID == documentID {
			return d, docs, nil
		}
	}
	return model.Document{}, nil, ErrDocumentNotFound
}
