package file

import (
	"errors"
	"log"
	"net/http"

	"github.com/dompet/service/internal/middleware"
	"github.com/dompet/service/internal/response"
)

// Handler holds HTTP handlers for the file-management endpoint. All methods
// operate on the single /files resource path.
type Handler struct {
	svc *Service
}

// NewHandler creates a new file Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create godoc
//
//	@Summary		Upload a file
//	@Description	Upload exactly one file as multipart field "file". Images are downsized and re-encoded as JPEG.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File payload"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/files [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	up, err := parseUploadForm(r)
	if errors.Is(err, ErrNoFile) {
		response.BadRequest(w, "no file uploaded")
		return
	}
	if errors.Is(err, ErrMultipleFiles) {
		response.BadRequest(w, "exactly one file required")
		return
	}
	if err != nil {
		log.Printf("file: parse upload: %v", err)
		response.InternalError(w)
		return
	}

	key, err := h.svc.Create(r.Context(), userID, *up)
	if err != nil {
		log.Printf("file: create: %v", err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "File uploaded",
		"key":     key,
	})
}

// Read godoc
//
//	@Summary		List files or get an access URL
//	@Description	Without "key": list the caller's files. With "key": return a presigned URL valid for one hour; the key must belong to the caller.
//	@Tags			files
//	@Produce		json
//	@Param			key	query		string	false	"Storage key"
//	@Success		200	{object}	map[string]string
//	@Failure		401	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/files [get]
func (h *Handler) Read(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	if key := r.URL.Query().Get("key"); key != "" {
		url, err := h.svc.AccessURL(r.Context(), userID, key)
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "file not found")
			return
		}
		if err != nil {
			log.Printf("file: access url: %v", err)
			response.InternalError(w)
			return
		}
		response.JSON(w, http.StatusOK, map[string]string{"url": url})
		return
	}

	entries, err := h.svc.List(r.Context(), userID)
	if err != nil {
		log.Printf("file: list: %v", err)
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusOK, entries)
}

// Update godoc
//
//	@Summary		Replace a file
//	@Description	Overwrite the object at "key" with a new payload and refresh its metadata. The key must belong to the caller.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"File payload"
//	@Param			key		formData	string	true	"Storage key"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	map[string]string
//	@Failure		401		{object}	map[string]string
//	@Failure		404		{object}	map[string]string
//	@Failure		500		{object}	map[string]string
//	@Router			/files [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	up, err := parseUploadForm(r)
	if errors.Is(err, ErrNoFile) || errors.Is(err, ErrMultipleFiles) {
		response.BadRequest(w, "file and key required")
		return
	}
	if err != nil {
		log.Printf("file: parse upload: %v", err)
		response.InternalError(w)
		return
	}

	key := r.FormValue("key")
	if key == "" {
		response.BadRequest(w, "file and key required")
		return
	}

	if _, err := h.svc.Update(r.Context(), userID, key, *up); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "file not found")
			return
		}
		log.Printf("file: update: %v", err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{
		"message": "File updated",
		"key":     key,
	})
}

// Delete godoc
//
//	@Summary		Delete a file
//	@Description	Remove the object at "key" and its metadata. Deleting an untracked key succeeds without effect.
//	@Tags			files
//	@Produce		json
//	@Param			key	query		string	true	"Storage key"
//	@Success		200	{object}	map[string]string
//	@Failure		400	{object}	map[string]string
//	@Failure		401	{object}	map[string]string
//	@Failure		404	{object}	map[string]string
//	@Failure		500	{object}	map[string]string
//	@Router			/files [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		response.Unauthorized(w, "authentication required")
		return
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		response.BadRequest(w, "key required")
		return
	}

	if err := h.svc.Delete(r.Context(), userID, key); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "file not found")
			return
		}
		log.Printf("file: delete: %v", err)
		response.InternalError(w)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "File deleted"})
}
