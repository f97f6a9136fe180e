package transfer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imagineread/lite/internal/response"
)

// notFoundDetail is shared by unknown and expired codes so callers cannot
// distinguish the two cases.
const notFoundDetail = "Code not found or expired. Please check and try again."

// uploadBodySlack leaves room for multipart framing on top of the file limit.
const uploadBodySlack = 1 << 20

// Handler holds HTTP handlers for transfer endpoints.
type Handler struct {
	svc          *Service
	maxBodyBytes int64
}

// NewHandler creates a new transfer Handler. maxUploadBytes is the largest
// accepted file size across tiers, used to cap request bodies early.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	return &Handler{svc: svc, maxBodyBytes: maxUploadBytes + uploadBodySlack}
}

// Upload godoc
//
//	@Summary		Upload a document
//	@Description	Upload a PDF, EPUB, CBZ, or CBR and receive a shareable access code. Free tier: 30MB limit, 24-hour expiry.
//	@Tags			transfers
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Document to share"
//	@Success		200		{object}	UploadResult
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		409		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, fmt.Sprintf("File too large. Maximum size: %dMB", (h.maxBodyBytes-uploadBodySlack)/bytesPerMB))
			return
		}
		response.BadRequest(w, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(w, fmt.Sprintf("File too large. Maximum size: %dMB", (h.maxBodyBytes-uploadBodySlack)/bytesPerMB))
			return
		}
		response.BadRequest(w, "could not read uploaded file")
		return
	}

	result, err := h.svc.Upload(r.Context(), header.Filename, data)
	if err != nil {
		h.writeUploadError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// GetFileInfo godoc
//
//	@Summary		Resolve a code
//	@Description	Returns file metadata and a time-limited signed download URL for the given code. Separators and case in the code are ignored.
//	@Tags			transfers
//	@Produce		json
//	@Param			code	path		string	true	"Access code (e.g. ABCD-EFGH)"
//	@Success		200		{object}	FileInfo
//	@Failure		404		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/file/{code} [get]
func (h *Handler) GetFileInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.svc.Lookup(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, info)
}

// CheckCode godoc
//
//	@Summary		Check a code
//	@Description	Lightweight validity probe: reports whether a code resolves without issuing a download URL or counting a download.
//	@Tags			transfers
//	@Produce		json
//	@Param			code	path		string	true	"Access code"
//	@Success		200		{object}	CheckResult
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/check/{code} [get]
func (h *Handler) CheckCode(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Check(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		log.Printf("check failed: %v", err)
		response.InternalError(w)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Download godoc
//
//	@Summary		Download by code
//	@Description	Streams the file through the API. Intended for local setups; production clients should use the signed URL from /file/{code}.
//	@Tags			transfers
//	@Produce		application/octet-stream
//	@Param			code	path	string	true	"Access code"
//	@Success		200
//	@Failure		404	{object}	response.ErrorBody
//	@Failure		500	{object}	response.ErrorBody
//	@Router			/download/{code} [get]
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	rc, t, err := h.svc.Download(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", ContentTypeFor(t.FileType))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", t.OriginalName))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", t.FileSizeBytes))
	if _, err := io.Copy(w, rc); err != nil {
		log.Printf("download stream for %s: %v", t.Code, err)
	}
}

// writeUploadError maps upload error kinds to HTTP statuses: 400 for
// validation, 409 for an exhausted code space, 500 for storage failures
// (generic message, internals stay in the logs).
func (h *Handler) writeUploadError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUnsupportedFileType),
		errors.Is(err, ErrFileTooLarge),
		errors.Is(err, ErrEmptyFile):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrCodeSpaceExhausted):
		log.Printf("upload failed: %v", err)
		response.Conflict(w, "could not allocate a code, please retry")
	default:
		log.Printf("upload failed: %v", err)
		response.Error(w, http.StatusInternalServerError, "Upload failed. Please try again.")
	}
}

// writeLookupError collapses not-found and expired into one 404 body.
func (h *Handler) writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFound(w, notFoundDetail)
	case errors.Is(err, ErrExpired):
		// Distinct kind for observability, identical body for callers.
		log.Printf("lookup of expired code")
		response.NotFound(w, notFoundDetail)
	default:
		log.Printf("lookup failed: %v", err)
		response.InternalError(w)
	}
}
