package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

// PostgresRepository implements SnapshotRepository and ImageStore on
// PostgreSQL. The ledger is kept whole-snapshot in a single row, the
// same contract as the file and bolt backends, so the three stay
// interchangeable.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed ledger repository
// and ensures its tables exist.
func NewPostgresRepository(ctx context.Context, db *pgxpool.Pool) (*PostgresRepository, error) {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS ledger_snapshots (
			id INT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
			data JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS receipt_images (
			ref TEXT PRIMARY KEY,
			mime_type TEXT NOT NULL,
			data BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return nil, &RepositoryError{
				Op:  "create_tables",
				Err: fmt.Errorf("failed to create ledger tables: %w", err),
			}
		}
	}

	return &PostgresRepository{db: db}, nil
}

// LoadSnapshot reads the single snapshot row; an unparseable snapshot
// is treated as absent.
func (r *PostgresRepository) LoadSnapshot(ctx context.Context) ([]domain.Record, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT data FROM ledger_snapshots WHERE id = 1`).Scan(&data)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, &RepositoryError{
			Op:  "load_snapshot",
			Err: fmt.Errorf("failed to query snapshot: %w", err),
		}
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Warning: could not parse snapshot, starting empty: %v", err)
		return nil, nil
	}

	return records, nil
}

// SaveSnapshot upserts the whole ledger into the snapshot row
func (r *PostgresRepository) SaveSnapshot(ctx context.Context, records []domain.Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: fmt.Errorf("failed to serialize snapshot: %w", err),
		}
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO ledger_snapshots (id, data, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, data)
	if err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: fmt.Errorf("failed to upsert snapshot: %w", err),
		}
	}

	return nil
}

// StoreImage inserts the image bytes under a fresh reference
func (r *PostgresRepository) StoreImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	ref := uuid.NewString() + extForMIME(mimeType)

	_, err := r.db.Exec(ctx, `
		INSERT INTO receipt_images (ref, mime_type, data)
		VALUES ($1, $2, $3)
	`, ref, strings.ToLower(mimeType), data)
	if err != nil {
		return "", &RepositoryError{
			Op:  "store_image",
			Err: fmt.Errorf("failed to insert image: %w", err),
		}
	}

	return ref, nil
}

// RemoveImage deletes a stored image row
func (r *PostgresRepository) RemoveImage(ctx context.Context, ref string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM receipt_images WHERE ref = $1`, ref)
	if err != nil {
		return &RepositoryError{
			Op:  "remove_image",
			Err: fmt.Errorf("failed to delete image %q: %w", ref, err),
		}
	}
	return nil
}

// LoadImage resolves an image reference
func (r *PostgresRepository) LoadImage(ctx context.Context, ref string) ([]byte, string, error) {
	var data []byte
	var mimeType string
	err := r.db.QueryRow(ctx, `
		SELECT data, mime_type FROM receipt_images WHERE ref = $1
	`, ref).Scan(&data, &mimeType)
	if err != nil {
		return nil, "", &RepositoryError{
			Op:  "load_image",
			Err: fmt.Errorf("failed to query image %q: %w", ref, err),
		}
	}

	return data, mimeType, nil
}
