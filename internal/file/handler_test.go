package file

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dompet/service/internal/middleware"
)

const testSecret = "test-secret"

func testRouter(store *fakeStorage, meta *fakeMeta) http.Handler {
	h := NewHandler(NewService(store, meta))
	r := chi.NewRouter()
	r.Route("/files", func(r chi.Router) {
		r.Use(middleware.RequireAuth(testSecret))
		r.Post("/", h.Create)
		r.Get("/", h.Read)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)
	})
	return r
}

func sessionCookie(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookie, Value: signed}
}

// multipartBody builds a multipart form with the given file parts and fields.
func multipartBody(t *testing.T, files map[string][]string, fields map[string]string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, names := range files {
		for _, name := range names {
			part, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = part.Write([]byte("content of " + name))
			require.NoError(t, err)
		}
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestHandler_UnauthenticatedNeverReachesStorage(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	meta := newFakeMeta()
	router := testRouter(store, meta)

	methods := []string{http.MethodPost, http.MethodGet, http.MethodPut, http.MethodDelete}
	for _, method := range methods {
		req := httptest.NewRequest(method, "/files/", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, method)
	}

	assert.Empty(t, store.objects)
	assert.Empty(t, store.deleted)
	assert.Empty(t, meta.rows)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	t.Parallel()

	router := testRouter(newFakeStorage(), newFakeMeta())

	req := httptest.NewRequest(http.MethodPatch, "/files/", nil)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHandler_Upload(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	meta := newFakeMeta()
	router := testRouter(store, meta)

	body, contentType := multipartBody(t, map[string][]string{"file": {"report.txt"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File uploaded", resp["message"])
	assert.Equal(t, "uploads/7/report.txt", resp["key"])
	assert.Contains(t, store.objects, "uploads/7/report.txt")
}

func TestHandler_UploadNoFile(t *testing.T) {
	t.Parallel()

	router := testRouter(newFakeStorage(), newFakeMeta())

	body, contentType := multipartBody(t, nil, map[string]string{"note": "no file here"})
	req := httptest.NewRequest(http.MethodPost, "/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UploadMultipleFilesRejected(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	router := testRouter(store, newFakeMeta())

	body, contentType := multipartBody(t, map[string][]string{"file": {"a.txt", "b.txt"}}, nil)
	req := httptest.NewRequest(http.MethodPost, "/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.objects)
}

func TestHandler_List(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	meta := newFakeMeta()
	svc := NewService(store, meta)
	_, err := svc.Create(context.Background(), 7, Upload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("aaa")})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), 8, Upload{Filename: "other.txt", ContentType: "text/plain", Data: []byte("zzz")})
	require.NoError(t, err)

	router := testRouter(store, meta)
	req := httptest.NewRequest(http.MethodGet, "/files/", nil)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "uploads/7/a.txt", entries[0].Key)
	assert.Equal(t, int64(3), entries[0].Size)
}

func TestHandler_GetAccessURL(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	meta := newFakeMeta()
	svc := NewService(store, meta)
	key, err := svc.Create(context.Background(), 7, Upload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("aaa")})
	require.NoError(t, err)

	router := testRouter(store, meta)
	req := httptest.NewRequest(http.MethodGet, "/files/?key="+key, nil)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["url"], key)
}

func TestHandler_GetAccessURLForeignKey(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	meta := newFakeMeta()
	svc := NewService(store, meta)
	key, err := svc.Create(context.Background(), 7, Upload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("aaa")})
	require.NoError(t, err)

	router := testRouter(store, meta)
	req := httptest.NewRequest(http.MethodGet, "/files/?key="+key, nil)
	req.AddCookie(sessionCookie(t, "99"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_UpdateMissingKey(t *testing.T) {
	t.Parallel()

	router := testRouter(newFakeStorage(), newFakeMeta())

	body, contentType := multipartBody(t, map[string][]string{"file": {"a.txt"}}, nil)
	req := httptest.NewRequest(http.MethodPut, "/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Update(t *testing.T) {
	t.Parallel()

	store := newFakeStorage()
	meta := newFakeMeta()
	svc := NewService(store, meta)
	key, err := svc.Create(context.Background(), 7, Upload{Filename: "a.txt", ContentType: "text/plain", Data: []byte("old")})
	require.NoError(t, err)

	router := testRouter(store, meta)
	body, contentType := multipartBody(t, map[string][]string{"file": {"a.txt"}}, map[string]string{"key": key})
	req := httptest.NewRequest(http.MethodPut, "/files/", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File updated", resp["message"])
	assert.Equal(t, key, resp["key"])
	assert.Equal(t, []byte("content of a.txt"), store.objects[key])
}

func TestHandler_DeleteMissingKeyParam(t *testing.T) {
	t.Parallel()

	router := testRouter(newFakeStorage(), newFakeMeta())

	req := httptest.NewRequest(http.MethodDelete, "/files/", nil)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeleteUnknownKeySucceeds(t *testing.T) {
	t.Parallel()

	router := testRouter(newFakeStorage(), newFakeMeta())

	req := httptest.NewRequest(http.MethodDelete, "/files/?key=uploads/7/ghost.bin", nil)
	req.AddCookie(sessionCookie(t, "7"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "File deleted", resp["message"])
}
