package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) http.Handler {
	h := NewHandler(svc, 100*1024*1024)
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Get("/file/{code}", h.GetFileInfo)
	r.Get("/check/{code}", h.CheckCode)
	r.Get("/download/{code}", h.Download)
	return r
}

func multipartBody(t *testing.T, fieldName, fileName string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func doUpload(t *testing.T, router http.Handler, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", fileName, data)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUploadEndpoint_Scenario(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	svc := newTestService(store, blobs)
	router := newTestRouter(svc)

	before := time.Now().UTC()
	rec := doUpload(t, router, "sample.pdf", bytes.Repeat([]byte("x"), 2*1024*1024))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Code          string     `json:"code"`
		CodeFormatted string     `json:"codeFormatted"`
		OriginalName  string     `json:"originalName"`
		FileType      string     `json:"fileType"`
		FileSizeBytes int64      `json:"fileSizeBytes"`
		ExpiresAt     *time.Time `json:"expiresAt"`
		DeepLink      string     `json:"deepLink"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))

	assert.Equal(t, "pdf", res.FileType)
	assert.Equal(t, int64(2097152), res.FileSizeBytes)
	assert.Equal(t, "sample.pdf", res.OriginalName)
	assert.Equal(t, FormatCode(res.Code), res.CodeFormatted)
	assert.Equal(t, "imagineread://lite/"+res.Code, res.DeepLink)
	require.NotNil(t, res.ExpiresAt)
	assert.WithinDuration(t, before.Add(24*time.Hour), *res.ExpiresAt, time.Minute)

	// The code resolves within the TTL ...
	req := httptest.NewRequest(http.MethodGet, "/file/"+res.CodeFormatted, nil)
	lookupRec := httptest.NewRecorder()
	router.ServeHTTP(lookupRec, req)
	require.Equal(t, http.StatusOK, lookupRec.Code)

	var info FileInfo
	require.NoError(t, json.Unmarshal(lookupRec.Body.Bytes(), &info))
	assert.Equal(t, res.Code, info.Code)
	assert.NotEmpty(t, info.SignedURL)

	// ... and is gone after expiry.
	svc.now = fixedClock(time.Now().UTC().Add(25 * time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/file/"+res.Code, nil)
	expiredRec := httptest.NewRecorder()
	router.ServeHTTP(expiredRec, req)
	assert.Equal(t, http.StatusNotFound, expiredRec.Code)
}

func TestUploadEndpoint_UnsupportedType(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	router := newTestRouter(newTestService(store, blobs))

	rec := doUpload(t, router, "report.docx", []byte("word doc"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Detail, "docx")

	assert.Zero(t, store.len(), "no metadata side effects")
	assert.Zero(t, blobs.len(), "no blob side effects")
}

func TestUploadEndpoint_FileTooLarge(t *testing.T) {
	router := newTestRouter(newTestService(newFakeStore(), newFakeBlobs()))

	rec := doUpload(t, router, "big.pdf", bytes.Repeat([]byte("x"), 31*1024*1024))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "30MB")
}

func TestUploadEndpoint_MissingFileField(t *testing.T) {
	router := newTestRouter(newTestService(newFakeStore(), newFakeBlobs()))

	body, contentType := multipartBody(t, "document", "sample.pdf", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file")
}

func TestFileEndpoint_UnknownAndExpiredIndistinguishable(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeBlobs())
	router := newTestRouter(svc)

	res, err := svc.Upload(context.Background(), "sample.pdf", []byte("data"))
	require.NoError(t, err)
	svc.now = fixedClock(time.Now().UTC().Add(25 * time.Hour))

	get := func(code string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/file/"+code, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	expired := get(res.Code)
	unknown := get("ZZZZZZZZ")

	assert.Equal(t, http.StatusNotFound, expired.Code)
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Equal(t, unknown.Body.String(), expired.Body.String(),
		"expired and unknown codes must share one response body")
}

func TestCheckEndpoint(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeBlobs())
	router := newTestRouter(svc)

	res, err := svc.Upload(context.Background(), "comic.cbr", []byte("data"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/check/"+res.CodeFormatted, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var out CheckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Valid)
	assert.Equal(t, "comic.cbr", out.FileName)

	req = httptest.NewRequest(http.MethodGet, "/check/ZZZZZZZZ", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Valid)
	assert.Equal(t, "not_found", out.Reason)
}

func TestDownloadEndpoint(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeBlobs())
	router := newTestRouter(svc)

	res, err := svc.Upload(context.Background(), "book.epub", []byte("epub-bytes"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/download/"+res.Code, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/epub+zip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `"book.epub"`)
	assert.Equal(t, "epub-bytes", rec.Body.String())
}
