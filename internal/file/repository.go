// Package file implements the file-management core: it orchestrates the
// object store and the metadata table for each CRUD operation, enforcing
// per-user key namespacing and ownership.
package file

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is the metadata row tracking one stored object.
type Record struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Key         string    `json:"key"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ErrNotFound is returned when no metadata row matches the requested key,
// or when the row belongs to a different user (key existence is not leaked).
var ErrNotFound = errors.New("file not found")

// Repository handles file metadata persistence.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new file Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Insert stores a new metadata row and fills in its generated fields.
func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO files (user_id, key, filename, content_type, size)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		rec.UserID, rec.Key, rec.Filename, rec.ContentType, rec.Size,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// ListByOwner returns all metadata rows owned by the user, newest first.
func (r *Repository) ListByOwner(ctx context.Context, userID int64) ([]Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, key, filename, content_type, size, created_at
		 FROM files
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Key, &rec.Filename,
			&rec.ContentType, &rec.Size, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return records, nil
}

// GetByKey returns the newest metadata row for the given storage key.
func (r *Repository) GetByKey(ctx context.Context, key string) (*Record, error) {
	rec := &Record{}
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, key, filename, content_type, size, created_at
		 FROM files
		 WHERE key = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		key,
	).Scan(&rec.ID, &rec.UserID, &rec.Key, &rec.Filename,
		&rec.ContentType, &rec.Size, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file by key: %w", err)
	}
	return rec, nil
}

// UpdateByKey refreshes the descriptive attributes of all rows matching key.
func (r *Repository) UpdateByKey(ctx context.Context, key, filename, contentType string, size int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE files
		 SET filename = $2, content_type = $3, size = $4
		 WHERE key = $1`,
		key, filename, contentType, size,
	)
	if err != nil {
		return fmt.Errorf("update file by key: %w", err)
	}
	return nil
}

// DeleteByKey removes all metadata rows matching key. Deleting a missing
// key is a no-op.
func (r *Repository) DeleteByKey(ctx context.Context, key string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM files WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("delete file by key: %w", err)
	}
	return nil
}
