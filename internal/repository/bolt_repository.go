package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

var (
	bucketLedger = []byte("ledger")
	bucketImages = []byte("images")

	keySnapshot = []byte("snapshot")
)

// BoltRepository implements SnapshotRepository and ImageStore on a
// single bbolt database file. The whole ledger lives under one key so
// persistence stays whole-snapshot, matching the file backend.
type BoltRepository struct {
	db *bolt.DB
}

// NewBoltRepository opens (or creates) the bolt database at path
func NewBoltRepository(path string) (*BoltRepository, error) {
	db, err := bolt.Open(path, 0644, nil)
	if err != nil {
		return nil, &RepositoryError{
			Op:  "open_database",
			Err: fmt.Errorf("failed to open bolt database: %w", err),
		}
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketLedger, bucketImages} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, &RepositoryError{
			Op:  "create_buckets",
			Err: err,
		}
	}

	return &BoltRepository{db: db}, nil
}

// Close releases the underlying database file
func (r *BoltRepository) Close() error {
	return r.db.Close()
}

// LoadSnapshot reads the persisted ledger; an unparseable snapshot is
// treated as absent.
func (r *BoltRepository) LoadSnapshot(ctx context.Context) ([]domain.Record, error) {
	select {
	case <-ctx.Done():
		return nil, &RepositoryError{
			Op:  "load_snapshot",
			Err: ctx.Err(),
		}
	default:
	}

	var records []domain.Record
	err := r.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketLedger).Get(keySnapshot)
		if data == nil {
			return nil
		}
		if err := json.Unmarshal(data, &records); err != nil {
			log.Printf("Warning: could not parse snapshot, starting empty: %v", err)
			records = nil
		}
		return nil
	})
	if err != nil {
		return nil, &RepositoryError{
			Op:  "load_snapshot",
			Err: err,
		}
	}

	return records, nil
}

// SaveSnapshot replaces the persisted ledger in one transaction
func (r *BoltRepository) SaveSnapshot(ctx context.Context, records []domain.Record) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: ctx.Err(),
		}
	default:
	}

	data, err := json.Marshal(records)
	if err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: fmt.Errorf("failed to serialize snapshot: %w", err),
		}
	}

	err = r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLedger).Put(keySnapshot, data)
	})
	if err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: err,
		}
	}

	return nil
}

// StoreImage stores image bytes under a fresh reference
func (r *BoltRepository) StoreImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	select {
	case <-ctx.Done():
		return "", &RepositoryError{
			Op:  "store_image",
			Err: ctx.Err(),
		}
	default:
	}

	ref := uuid.NewString() + extForMIME(mimeType)
	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).Put([]byte(ref), data)
	})
	if err != nil {
		return "", &RepositoryError{
			Op:  "store_image",
			Err: err,
		}
	}

	return ref, nil
}

// LoadImage resolves an image reference
func (r *BoltRepository) LoadImage(ctx context.Context, ref string) ([]byte, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", &RepositoryError{
			Op:  "load_image",
			Err: ctx.Err(),
		}
	default:
	}

	var data []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		stored := tx.Bucket(bucketImages).Get([]byte(ref))
		if stored == nil {
			return fmt.Errorf("image %q not found", ref)
		}
		data = append([]byte(nil), stored...)
		return nil
	})
	if err != nil {
		return nil, "", &RepositoryError{
			Op:  "load_image",
			Err: err,
		}
	}

	ext := ""
	if i := strings.LastIndex(ref, "."); i >= 0 {
		ext = ref[i:]
	}
	return data, mimeForExt(ext), nil
}

// RemoveImage deletes a stored image; removing an unknown ref is a no-op
func (r *BoltRepository) RemoveImage(ctx context.Context, ref string) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{
			Op:  "remove_image",
			Err: ctx.Err(),
		}
	default:
	}

	err := r.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketImages).Delete([]byte(ref))
	})
	if err != nil {
		return &RepositoryError{
			Op:  "remove_image",
			Err: err,
		}
	}

	return nil
}
