package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/rdelacruz/receipt-ledger-service/internal/domain"
	"github.com/rdelacruz/receipt-ledger-service/internal/imageutil"
	"github.com/rdelacruz/receipt-ledger-service/internal/repository"
)

// ErrSupersededUpload is returned when a scan result arrives after a
// newer upload has started; the stale result must be discarded, not
// applied.
var ErrSupersededUpload = errors.New("scan superseded by a newer upload")

// ErrNoImage is returned when a commit is attempted without a bound
// source image.
var ErrNoImage = errors.New("cannot commit a record without a bound image")

// ReceiptServiceError represents an error in the receipt service
type ReceiptServiceError struct {
	Op  string
	Err error
}

func (e *ReceiptServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *ReceiptServiceError) Unwrap() error {
	return e.Err
}

// ValidationError carries the field-keyed messages for a draft that
// failed commit validation. No partial commit happens: every violation
// is surfaced at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("draft validation failed: %s", strings.Join(keys, ", "))
}

//go:generate mockgen -source=receipt_service.go -destination=receipt_service_mock.go -package=service

// Extractor turns a receipt image into a structured draft. The AI
// collaborator stays opaque behind this interface.
type Extractor interface {
	ExtractReceiptData(ctx context.Context, imageData []byte, mimeType string) (*domain.ReceiptDraft, error)
}

// ScanResult is the outcome of a successful upload: an editable draft
// bound to its stored source image.
type ScanResult struct {
	Draft    *domain.ReceiptDraft
	ImageRef string
}

// ReceiptService defines the interface for the receipt ledger
type ReceiptService interface {
	ScanReceipt(ctx context.Context, imageData []byte, mimeType string) (*ScanResult, error)
	CreateRecord(ctx context.Context, draft *domain.ReceiptDraft, imageRef string) (*domain.Record, error)
	GetRecord(ctx context.Context, id string) (*domain.Record, error)
	UpdateRecord(ctx context.Context, id string, draft *domain.ReceiptDraft) (*domain.Record, error)
	DeleteRecord(ctx context.Context, id string) error
	ListRecords(ctx context.Context) []domain.Record
	SearchRecords(ctx context.Context, query string) []domain.Record
}

// ReceiptServiceImpl implements the ReceiptService interface. The
// in-memory record sequence is the single source of truth for the
// session; every structural change re-persists the whole snapshot.
type ReceiptServiceImpl struct {
	repo      repository.SnapshotRepository
	images    repository.ImageStore
	extractor Extractor

	mu      sync.Mutex
	records []domain.Record

	// scanGen identifies the current upload; stale extraction results
	// are discarded when a newer upload has bumped it.
	scanGen    atomic.Uint64
	workerPool chan struct{}
}

// NewReceiptService creates a ReceiptService seeded from the persisted
// snapshot. A missing or unreadable snapshot yields an empty ledger,
// never a startup failure.
func NewReceiptService(ctx context.Context, repo repository.SnapshotRepository, images repository.ImageStore, extractor Extractor, maxWorkers int) *ReceiptServiceImpl {
	if maxWorkers <= 0 {
		maxWorkers = 5
	}

	records, err := repo.LoadSnapshot(ctx)
	if err != nil {
		log.Printf("Warning: could not load ledger snapshot, starting empty: %v", err)
		records = nil
	}

	return &ReceiptServiceImpl{
		repo:       repo,
		images:     images,
		extractor:  extractor,
		records:    records,
		workerPool: make(chan struct{}, maxWorkers),
	}
}

// ScanReceipt stores the uploaded image, runs extraction and returns an
// editable draft. Starting a new upload supersedes any scan still in
// flight: a result that comes back for an older generation is dropped.
// A failed or superseded scan removes the image it stored.
func (s *ReceiptServiceImpl) ScanReceipt(ctx context.Context, imageData []byte, mimeType string) (*ScanResult, error) {
	gen := s.scanGen.Add(1)

	// Acquire worker from pool
	select {
	case s.workerPool <- struct{}{}:
		defer func() {
			<-s.workerPool
		}()
	case <-ctx.Done():
		return nil, &ReceiptServiceError{
			Op:  "acquire_worker",
			Err: ctx.Err(),
		}
	}

	imageRef, err := s.images.StoreImage(ctx, imageData, mimeType)
	if err != nil {
		return nil, &ReceiptServiceError{
			Op:  "store_image",
			Err: err,
		}
	}

	// Downscale before extraction; the original bytes are what got
	// stored, so a resize failure only costs bandwidth.
	extractionInput := imageData
	if resized, err := imageutil.ResizeImage(imageData, nil); err == nil {
		extractionInput = resized
	}

	draft, err := s.extractor.ExtractReceiptData(ctx, extractionInput, mimeType)
	if err != nil {
		s.discardImage(ctx, imageRef)
		return nil, &ReceiptServiceError{
			Op:  "extract_receipt_data",
			Err: err,
		}
	}

	if s.scanGen.Load() != gen {
		s.discardImage(ctx, imageRef)
		return nil, ErrSupersededUpload
	}

	return &ScanResult{Draft: draft, ImageRef: imageRef}, nil
}

// discardImage removes a stored image no scan result will reference.
// Removal must survive a canceled request context; a removal failure is
// logged and absorbed.
func (s *ReceiptServiceImpl) discardImage(ctx context.Context, ref string) {
	if err := s.images.RemoveImage(context.WithoutCancel(ctx), ref); err != nil {
		log.Printf("Warning: failed to remove unused image %q: %v", ref, err)
	}
}

// CreateRecord commits a draft into the ledger. The draft must pass
// validation in full and must be bound to a stored image.
func (s *ReceiptServiceImpl) CreateRecord(ctx context.Context, draft *domain.ReceiptDraft, imageRef string) (*domain.Record, error) {
	if imageRef == "" {
		return nil, ErrNoImage
	}

	if errs := domain.Validate(draft); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	record := domain.Record{
		ReceiptDraft: *draft,
		ID:           uuid.NewString(),
		ImageRef:     imageRef,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record)
	s.persist(ctx)

	return &record, nil
}

// GetRecord returns the record with the given id
func (s *ReceiptServiceImpl) GetRecord(ctx context.Context, id string) (*domain.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			record := s.records[i]
			return &record, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

// UpdateRecord replaces the draft-shaped fields of an existing record,
// preserving its id, image reference and position in the ledger.
func (s *ReceiptServiceImpl) UpdateRecord(ctx context.Context, id string, draft *domain.ReceiptDraft) (*domain.Record, error) {
	if errs := domain.Validate(draft); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records[i].ReceiptDraft = *draft
		s.persist(ctx)
		record := s.records[i]
		return &record, nil
	}

	return nil, domain.ErrRecordNotFound
}

// DeleteRecord removes a record from the ledger. A missing id leaves
// the ledger untouched.
func (s *ReceiptServiceImpl) DeleteRecord(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID != id {
			continue
		}
		s.records = append(s.records[:i], s.records[i+1:]...)
		s.persist(ctx)
		return nil
	}

	log.Printf("Warning: delete requested for unknown record %q", id)
	return domain.ErrRecordNotFound
}

// ListRecords returns the records in insertion order
func (s *ReceiptServiceImpl) ListRecords(ctx context.Context) []domain.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.Record(nil), s.records...)
}

// SearchRecords filters by case-insensitive substring match on vendor
// name or invoice number. A blank query returns the unfiltered list in
// the same order.
func (s *ReceiptServiceImpl) SearchRecords(ctx context.Context, query string) []domain.Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.ListRecords(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]domain.Record, 0)
	for _, record := range s.records {
		if strings.Contains(strings.ToLower(record.VendorName), q) ||
			strings.Contains(strings.ToLower(record.InvoiceNumber), q) {
			matched = append(matched, record)
		}
	}
	return matched
}

// persist writes the whole snapshot back. A write failure is logged and
// absorbed: the in-memory ledger stays authoritative for the session.
// Callers must hold s.mu.
func (s *ReceiptServiceImpl) persist(ctx context.Context) {
	snapshot := append([]domain.Record(nil), s.records...)
	if err := s.repo.SaveSnapshot(ctx, snapshot); err != nil {
		log.Printf("Warning: failed to persist ledger snapshot: %v", err)
	}
}
