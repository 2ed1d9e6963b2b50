// Package store provides the string-keyed JSON value store every repository
// is built on. Two implementations exist: an in-memory map for tests and
// single-process demo runs, and a Postgres-backed table for deployments.
// Writes are last-write-wins; there is no versioning or merge.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value. Repositories decide
// whether absence means "empty default" or a real error.
var ErrNotFound = errors.New("store: key not found")

// Store is a flat key-value namespace holding JSON-encoded values.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
