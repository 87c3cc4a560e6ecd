package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
)

const snapshotFile = "ledger.json"

// FileRepository implements SnapshotRepository and ImageStore using the
// local filesystem. The snapshot is a single JSON file; images live in
// an images/ subdirectory keyed by random id.
type FileRepository struct {
	baseDir string
	mutex   sync.RWMutex
}

// NewFileRepository creates a new file-based ledger repository
func NewFileRepository(baseDir string) (*FileRepository, error) {
	// Ensure base directory exists
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &RepositoryError{
			Op:  "create_repository",
			Err: fmt.Errorf("failed to create base directory: %w", err),
		}
	}

	imagesDir := filepath.Join(baseDir, "images")
	if err := os.MkdirAll(imagesDir, 0755); err != nil {
		return nil, &RepositoryError{
			Op:  "create_repository",
			Err: fmt.Errorf("failed to create images directory: %w", err),
		}
	}

	return &FileRepository{
		baseDir: baseDir,
	}, nil
}

// LoadSnapshot reads the persisted ledger. A missing or unparseable
// snapshot is treated as absent, never as a startup failure.
func (r *FileRepository) LoadSnapshot(ctx context.Context) ([]domain.Record, error) {
	select {
	case <-ctx.Done():
		return nil, &RepositoryError{
			Op:  "load_snapshot",
			Err: ctx.Err(),
		}
	default:
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	data, err := os.ReadFile(filepath.Join(r.baseDir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		log.Printf("Warning: could not read snapshot, starting empty: %v", err)
		return nil, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Warning: could not parse snapshot, starting empty: %v", err)
		return nil, nil
	}

	return records, nil
}

// SaveSnapshot writes the whole ledger back to disk. The file is written
// to a temp name and renamed so readers never see a partial snapshot.
func (r *FileRepository) SaveSnapshot(ctx context.Context, records []domain.Record) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: ctx.Err(),
		}
	default:
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: fmt.Errorf("failed to serialize snapshot: %w", err),
		}
	}

	target := filepath.Join(r.baseDir, snapshotFile)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: fmt.Errorf("failed to write snapshot file: %w", err),
		}
	}
	if err := os.Rename(tmp, target); err != nil {
		return &RepositoryError{
			Op:  "save_snapshot",
			Err: fmt.Errorf("failed to replace snapshot file: %w", err),
		}
	}

	return nil
}

// StoreImage stores an image on disk and returns its reference
func (r *FileRepository) StoreImage(ctx context.Context, data []byte, mimeType string) (string, error) {
	select {
	case <-ctx.Done():
		return "", &RepositoryError{
			Op:  "store_image",
			Err: ctx.Err(),
		}
	default:
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	ref := filepath.Join("images", uuid.NewString()+extForMIME(mimeType))
	if err := os.WriteFile(filepath.Join(r.baseDir, ref), data, 0644); err != nil {
		return "", &RepositoryError{
			Op:  "store_image",
			Err: fmt.Errorf("failed to write image file: %w", err),
		}
	}

	return ref, nil
}

// LoadImage resolves an image reference back to its bytes and MIME type
func (r *FileRepository) LoadImage(ctx context.Context, ref string) ([]byte, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", &RepositoryError{
			Op:  "load_image",
			Err: ctx.Err(),
		}
	default:
	}

	// Refs come from clients, not just from StoreImage.
	if !filepath.IsLocal(ref) {
		return nil, "", &RepositoryError{
			Op:  "load_image",
			Err: fmt.Errorf("image ref %q escapes the data directory", ref),
		}
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	data, err := os.ReadFile(filepath.Join(r.baseDir, ref))
	if err != nil {
		return nil, "", &RepositoryError{
			Op:  "load_image",
			Err: fmt.Errorf("failed to read image file: %w", err),
		}
	}

	return data, mimeForExt(filepath.Ext(ref)), nil
}

// RemoveImage deletes a stored image file
func (r *FileRepository) RemoveImage(ctx context.Context, ref string) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{
			Op:  "remove_image",
			Err: ctx.Err(),
		}
	default:
	}

	if !filepath.IsLocal(ref) {
		return &RepositoryError{
			Op:  "remove_image",
			Err: fmt.Errorf("image ref %q escapes the data directory", ref),
		}
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if err := os.Remove(filepath.Join(r.baseDir, ref)); err != nil {
		return &RepositoryError{
			Op:  "remove_image",
			Err: fmt.Errorf("failed to remove image file: %w", err),
		}
	}

	return nil
}

func extForMIME(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/gif":
		return ".gif"
	default:
		return ".png"
	}
}

func mimeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	default:
		return "image/png"
	}
}
