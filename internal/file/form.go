package file

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxUploadBytes bounds in-memory multipart parsing.
const maxUploadBytes = 32 << 20

// ErrNoFile is returned when the form carries no file part.
var ErrNoFile = errors.New("no file uploaded")

// ErrMultipleFiles is returned when the form carries more than one file
// part. Multi-file submissions are rejected outright rather than silently
// picking the first.
var ErrMultipleFiles = errors.New("multiple files uploaded")

// parseUploadForm normalizes a multipart request into exactly one typed
// Upload. The "file" field must be present exactly once; its content type
// falls back to application/octet-stream when the client declared none.
func parseUploadForm(r *http.Request) (*Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	parts := r.MultipartForm.File["file"]
	switch {
	case len(parts) == 0:
		return nil, ErrNoFile
	case len(parts) > 1:
		return nil, ErrMultipleFiles
	}

	header := parts[0]
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open file part: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read file part: %w", err)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
