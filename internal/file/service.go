package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dompet/service/internal/normalizer"
	"github.com/dompet/service/internal/storage"
)

// urlExpiry is the fixed lifetime of issued access URLs.
const urlExpiry = time.Hour

// keyPrefix namespaces every stored object under uploads/{userId}/.
const keyPrefix = "uploads"

// Upload is a normalized single-file payload extracted from a request.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Entry is one element of a file listing.
type Entry struct {
	Key          string    `json:"key"`
	LastModified time.Time `json:"lastModified"`
	Size         int64     `json:"size"`
}

// MetadataStore is the metadata persistence the service depends on.
// *Repository is the production implementation; tests substitute fakes.
type MetadataStore interface {
	Insert(ctx context.Context, rec *Record) error
	ListByOwner(ctx context.Context, userID int64) ([]Record, error)
	GetByKey(ctx context.Context, key string) (*Record, error)
	UpdateByKey(ctx context.Context, key, filename, contentType string, size int64) error
	DeleteByKey(ctx context.Context, key string) error
}

// Service coordinates the object store and the metadata store. The two are
// written sequentially with no cross-store transaction; on a metadata
// failure after a successful object write the service compensates by
// deleting the freshly written object.
type Service struct {
	objects storage.Storage
	meta    MetadataStore
}

// NewService creates a new file Service.
func NewService(objects storage.Storage, meta MetadataStore) *Service {
	return &Service{objects: objects, meta: meta}
}

// ObjectKey derives the storage key for a user's file. The key is
// deterministic: re-uploading the same filename addresses the same object.
func ObjectKey(userID int64, filename string) string {
	return fmt.Sprintf("%s/%d/%s", keyPrefix, userID, filename)
}

// Create stores the payload and records its metadata, returning the storage
// key. Image payloads are normalized first. A re-upload
// of an existing filename overwrites the object and updates the existing
// metadata row instead of accumulating duplicates.
func (s *Service) Create(ctx context.Context, userID int64, up Upload) (string, error) {
	data, contentType, err := normalizer.Normalize(up.Data, up.ContentType)
	if err != nil {
		return "", fmt.Errorf("normalize image: %w", err)
	}

	key := ObjectKey(userID, up.Filename)
	size := int64(len(data))

	if err := s.objects.Upload(ctx, key, bytes.NewReader(data), size, contentType); err != nil {
		return "", fmt.Errorf("store object: %w", err)
	}

	if err := s.recordMetadata(ctx, userID, key, up.Filename, contentType, size); err != nil {
		// Compensate: the object exists but nothing tracks it. Remove it
		// best-effort so the two stores stay convergent.
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			log.Printf("file: compensation failed, orphaned object %q: %v", key, delErr)
		}
		return "", fmt.Errorf("record metadata: %w", err)
	}

	return key, nil
}

// recordMetadata upserts the metadata row for key.
func (s *Service) recordMetadata(ctx context.Context, userID int64, key, filename, contentType string, size int64) error {
	_, err := s.meta.GetByKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return s.meta.Insert(ctx, &Record{
			UserID:      userID,
			Key:         key,
			Filename:    filename,
			ContentType: contentType,
			Size:        size,
		})
	}
	if err != nil {
		return err
	}
	return s.meta.UpdateByKey(ctx, key, filename, contentType, size)
}

// List returns the caller's files from the metadata store only; the object
// store is never consulted.
func (s *Service) List(ctx context.Context, userID int64) ([]Entry, error) {
	records, err := s.meta.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list metadata: %w", err)
	}

	entries := make([]Entry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, Entry{
			Key:          rec.Key,
			LastModified: rec.CreatedAt,
			Size:         rec.Size,
		})
	}
	return entries, nil
}

// AccessURL issues a presigned read URL for the caller's own object. The key
// must map to a metadata row owned by the caller; a missing or foreign row
// yields ErrNotFound.
func (s *Service) AccessURL(ctx context.Context, userID int64, key string) (string, error) {
	if _, err := s.ownedRecord(ctx, userID, key); err != nil {
		return "", err
	}

	url, err := s.objects.PresignedGetURL(ctx, key, urlExpiry)
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return url, nil
}

// Update overwrites the caller's object at key with a new payload and
// refreshes the metadata row. Ownership is verified before any write.
func (s *Service) Update(ctx context.Context, userID int64, key string, up Upload) (string, error) {
	if _, err := s.ownedRecord(ctx, userID, key); err != nil {
		return "", err
	}

	data, contentType, err := normalizer.Normalize(up.Data, up.ContentType)
	if err != nil {
		return "", fmt.Errorf("normalize image: %w", err)
	}

	size := int64(len(data))
	if err := s.objects.Upload(ctx, key, bytes.NewReader(data), size, contentType); err != nil {
		return "", fmt.Errorf("store object: %w", err)
	}

	if err := s.meta.UpdateByKey(ctx, key, up.Filename, contentType, size); err != nil {
		// The old object content is already gone; there is nothing to
		// restore. The stale row is the residual inconsistency.
		return "", fmt.Errorf("update metadata: %w", err)
	}

	return key, nil
}

// Delete removes the caller's object and its metadata row. A key with no
// metadata row at all is an idempotent success and leaves the object store
// untouched; a row owned by someone else yields ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID int64, key string) error {
	rec, err := s.meta.GetByKey(ctx, key)
	if errors.Is(err, ErrNotFound) {
		// Nothing tracked under this key: idempotent no-op.
		return nil
	}
	if err != nil {
		return fmt.Errorf("get metadata: %w", err)
	}
	if rec.UserID != userID {
		return ErrNotFound
	}

	if err := s.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := s.meta.DeleteByKey(ctx, key); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

// ownedRecord loads the metadata row for key and verifies the caller owns
// it. Foreign rows are reported as ErrNotFound so callers cannot probe for
// key existence.
func (s *Service) ownedRecord(ctx context.Context, userID int64, key string) (*Record, error) {
	rec, err := s.meta.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if rec.UserID != userID {
		return nil, ErrNotFound
	}
	return rec, nil
}
