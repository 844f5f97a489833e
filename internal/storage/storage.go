// Package storage defines the interface for object storage operations.
// The MinIO implementation works with any S3-compatible provider.
package storage

import (
	"context"
	"io"
	"time"
)

// Storage is the interface for uploading, removing, and sharing objects.
type Storage interface {
	// Upload streams data to the store under the given key, overwriting any
	// existing object at that key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key. Deleting a missing object
	// is a no-op.
	Delete(ctx context.Context, key string) error
	// PresignedGetURL returns a time-limited signed URL granting direct read
	// access to the object. The object's existence is not verified.
	PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
