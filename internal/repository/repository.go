package repository

import (
	"context"
	"fmt"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// SnapshotRepository persists the ledger as one whole snapshot. There is
// no incremental write path and no schema migration: a snapshot that
// cannot be read or parsed is treated as absent.
type SnapshotRepository interface {
	// LoadSnapshot returns the persisted records in order, or (nil, nil)
	// when no snapshot exists.
	LoadSnapshot(ctx context.Context) ([]domain.Record, error)

	// SaveSnapshot replaces the persisted snapshot with the given records.
	SaveSnapshot(ctx context.Context, records []domain.Record) error
}

// ImageStore stores receipt source images and resolves the opaque refs
// kept on committed records.
type ImageStore interface {
	// StoreImage persists image bytes and returns an opaque reference.
	StoreImage(ctx context.Context, data []byte, mimeType string) (string, error)

	// LoadImage resolves a reference back to image bytes and MIME type.
	LoadImage(ctx context.Context, ref string) ([]byte, string, error)

	// RemoveImage deletes a stored image that no record will reference.
	RemoveImage(ctx context.Context, ref string) error
}
