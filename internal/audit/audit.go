// Package audit records who changed what. Entries are appended to a bounded
// ring under a dedicated store key and mirrored to the structured log.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/swasth-health/portal-backend/internal/store"
	"go.uber.org/zap"
)

// OperationType represents the type of operation performed.
type OperationType string

const (
	OperationCreate OperationType = "CREATE"
	OperationUpdate OperationType = "UPDATE"
	OperationDelete OperationType = "DELETE"
	OperationLogin  OperationType = "LOGIN"
	OperationLogout OperationType = "LOGOUT"
)

// ResourceType represents the type of resource being accessed.
type ResourceType string

const (
	ResourceProfile     ResourceType = "profile"
	ResourceDocument    ResourceType = "document"
	ResourceMedicalNote ResourceType = "medical_note"
	ResourceSession     ResourceType = "session"
)

const (
	auditKey   = "auditLog"
	maxEntries = 1000
)

// Entry is one audit log record.
type Entry struct {
	Subject       string        `json:"subject"`
	OperationType OperationType `json:"operation"`
	ResourceType  ResourceType  `json:"resourceType"`
	ResourceID    string        `json:"resourceId,omitempty"`
	Timestamp     time.Time     `json:"timestamp"`
}

// Logger handles audit logging.
type Logger struct {
	store  store.Store
	logger *zap.Logger
}

// NewLogger creates a new audit logger.
func NewLogger(s store.Store, logger *zap.Logger) *Logger {
	return &Logger{
		store:  s,
		logger: logger,
	}
}

// Log appends an audit entry. Audit failures are logged but never fail the
// operation being audited.
func (l *Logger) Log(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	l.logger.Info("audit log entry",
		zap.String("subject", entry.Subject),
		zap.String("operation", string(entry.OperationType)),
		zap.String("resource_type", string(entry.ResourceType)),
		zap.String("resource_id", entry.ResourceID),
		zap.Time("timestamp", entry.Timestamp),
	)

	entries, err := l.Entries(ctx)
	if err != nil {
		l.logger.Error("failed to load audit log", zap.Error(err))
		return
	}

	entries = append(entries, entry)
	if len(entries) > maxEntries {
		entries = entries[len(entries)-maxEntries:]
	}

	raw, err := json.Marshal(entries)
	if err != nil {
		l.logger.Error("failed to encode audit log", zap.Error(err))
		return
	}
	if err := l.store.Put(ctx, auditKey, raw); err != nil {
		l.logger.Error("failed to write audit log", zap.Error(err))
	}
}

// Entries returns the stored audit log, oldest first.
func (l *Logger) Entries(ctx context.Context) ([]Entry, error) {
	raw, err := l.store.Get(ctx, auditKey)
	if errors.Is(err, store.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
