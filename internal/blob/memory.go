package blob

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// MemoryStorage is an in-memory Storage. It serves both tests and demo runs
// without Azure credentials.
type MemoryStorage struct {
	mu      sync.RWMutex
	storage map[string][]byte
	logger  *zap.Logger
}

var _ Storage = (*MemoryStorage)(nil)

// NewMemoryStorage creates an empty in-memory Storage.
func NewMemoryStorage(logger *zap.Logger) *MemoryStorage {
	return &MemoryStorage{
		storage: make(map[string][]byte),
		logger:  logger,
	}
}

func (s *MemoryStorage) Upload(_ context.Context, blobName, _ string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.storage[blobName] = bytes.Clone(data)

	if s.logger != nil {
		s.logger.Info("memory blob: document uploaded",
			zap.String("blob_name", blobName),
			zap.Int("size_bytes", len(data)),
		)
	}

	return nil
}

func (s *MemoryStorage) Download(_ context.Context, blobName string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, exists := s.storage[blobName]
	if !exists {
		return nil, fmt.Errorf("blob not found: %s", blobName)
	}

	return bytes.Clone(data), nil
}

func (s *MemoryStorage) Delete(_ context.Context, blobName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.storage[blobName]; !exists {
		return fmt.Errorf("blob not found: %s", blobName)
	}
	delete(s.storage, blobName)

	return nil
}

// Len returns the number of stored blobs. Used by tests.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.storage)
}
