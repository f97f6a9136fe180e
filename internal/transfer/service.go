package transfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/imagineread/lite/internal/storage"
)

// DeepLinkFormat is the deep link scheme consumed by the mobile app.
const DeepLinkFormat = "imagineread://lite/%s"

// maxCreateAttempts bounds how many times an upload restarts with a fresh
// code after losing an insert race.
const maxCreateAttempts = 5

// allowedTypes maps accepted extensions to the content type stored alongside
// the blob.
var allowedTypes = map[string]string{
	"pdf":  "application/pdf",
	"epub": "application/epub+zip",
	"cbz":  "application/x-cbz",
	"cbr":  "application/x-cbr",
}

// UploadResult is returned to the uploader: everything needed to share the
// file by code, QR, or deep link.
type UploadResult struct {
	Code          string     `json:"code"`
	CodeFormatted string     `json:"codeFormatted"`
	OriginalName  string     `json:"originalName"`
	FileType      string     `json:"fileType"`
	FileSizeBytes int64      `json:"fileSizeBytes"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	DeepLink      string     `json:"deepLink"`
}

// FileInfo is returned on lookup: the record metadata plus a time-limited
// download URL.
type FileInfo struct {
	Code          string     `json:"code"`
	CodeFormatted string     `json:"codeFormatted"`
	OriginalName  string     `json:"originalName"`
	FileType      string     `json:"fileType"`
	FileSizeBytes int64      `json:"fileSizeBytes"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	SignedURL     string     `json:"signedUrl"`
	DownloadCount int        `json:"downloadCount"`
}

// CheckResult is the lightweight validity probe used by the mobile app
// before starting a download.
type CheckResult struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	FileName      string `json:"fileName,omitempty"`
	FileType      string `json:"fileType,omitempty"`
	FileSizeBytes int64  `json:"fileSizeBytes,omitempty"`
}

// Service contains the business logic for uploads and code lookups.
type Service struct {
	store        Store
	blobs        storage.Storage
	policy       *Policy
	gen          *Generator
	signedURLTTL time.Duration
	now          func() time.Time
}

// NewService creates a transfer Service.
func NewService(store Store, blobs storage.Storage, policy *Policy, signedURLTTL time.Duration) *Service {
	return &Service{
		store:        store,
		blobs:        blobs,
		policy:       policy,
		gen:          NewGenerator(store),
		signedURLTTL: signedURLTTL,
		now:          time.Now,
	}
}

// Upload validates the file, allocates a unique code, writes the blob, then
// the metadata record — in that order, so a failure never leaves a resolvable
// record without a stored blob. An orphaned blob after a lost insert race is
// acceptable collateral; the expiry sweep removes it.
func (s *Service) Upload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	ext, contentType, err := validateFileType(fileName)
	if err != nil {
		return nil, err
	}

	size := int64(len(data))
	if size == 0 {
		return nil, ErrEmptyFile
	}

	now := s.now().UTC()
	plan := s.policy.PlanFor(TierFree, now)
	if size > plan.MaxSizeBytes {
		return nil, fmt.Errorf("%w: maximum size is %dMB", ErrFileTooLarge, plan.MaxSizeBytes/bytesPerMB)
	}

	name := sanitizeFileName(fileName)

	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		code, err := s.gen.Generate(ctx)
		if err != nil {
			return nil, err
		}

		path := plan.StoragePrefix + code + "." + ext
		if err := s.blobs.Upload(ctx, path, bytes.NewReader(data), size, contentType); err != nil {
			log.Printf("upload: blob write failed for %s: %v", code, err)
			return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
		}

		t := &Transfer{
			Code:          code,
			OriginalName:  name,
			FileType:      ext,
			FileSizeBytes: size,
			StoragePath:   path,
			Tier:          TierFree,
			CreatedAt:     now,
			ExpiresAt:     plan.ExpiresAt,
		}
		err = s.store.Create(ctx, t)
		if errors.Is(err, ErrDuplicateCode) {
			// Lost the insert race. The blob at the loser's path is orphaned
			// until the sweep; retry with a fresh code.
			log.Printf("upload: code collision on %s, retrying", code)
			continue
		}
		if err != nil {
			return nil, err
		}

		log.Printf("upload complete: %s %s (%d bytes)", code, name, size)
		return &UploadResult{
			Code:          code,
			CodeFormatted: FormatCode(code),
			OriginalName:  name,
			FileType:      ext,
			FileSizeBytes: size,
			ExpiresAt:     t.ExpiresAt,
			DeepLink:      fmt.Sprintf(DeepLinkFormat, code),
		}, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// Lookup resolves a raw user-typed code into file metadata and a signed
// download URL. Expired records are tombstones: present in the store, gone
// to callers.
func (s *Service) Lookup(ctx context.Context, rawCode string) (*FileInfo, error) {
	code := NormalizeCode(rawCode)

	t, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if t.Expired(now) {
		return nil, ErrExpired
	}

	signedURL, err := s.blobs.PresignedURL(ctx, t.StoragePath, s.urlTTL(t, now), t.OriginalName)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			// Metadata outlived its blob (early sweep or failed upload of a
			// past duplicate). Treat as gone.
			log.Printf("lookup: blob missing for %s at %s", code, t.StoragePath)
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("sign download url: %w", err)
	}

	s.countDownload(ctx, code)

	return &FileInfo{
		Code:          t.Code,
		CodeFormatted: FormatCode(t.Code),
		OriginalName:  t.OriginalName,
		FileType:      t.FileType,
		FileSizeBytes: t.FileSizeBytes,
		ExpiresAt:     t.ExpiresAt,
		SignedURL:     signedURL,
		DownloadCount: t.DownloadCount + 1,
	}, nil
}

// Check reports whether a code currently resolves, without issuing a URL or
// counting a download.
func (s *Service) Check(ctx context.Context, rawCode string) (*CheckResult, error) {
	code := NormalizeCode(rawCode)

	t, err := s.store.Get(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return &CheckResult{Valid: false, Reason: "not_found"}, nil
	}
	if err != nil {
		return nil, err
	}
	if t.Expired(s.now().UTC()) {
		return &CheckResult{Valid: false, Reason: "expired"}, nil
	}

	return &CheckResult{
		Valid:         true,
		FileName:      t.OriginalName,
		FileType:      t.FileType,
		FileSizeBytes: t.FileSizeBytes,
	}, nil
}

// Download opens the blob for a code to stream it through the API. The
// caller must close the reader. Signed URLs from Lookup are the primary
// path; this serves local setups without a reachable object-store endpoint.
func (s *Service) Download(ctx context.Context, rawCode string) (io.ReadCloser, *Transfer, error) {
	code := NormalizeCode(rawCode)

	t, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if t.Expired(s.now().UTC()) {
		return nil, nil, ErrExpired
	}

	rc, err := s.blobs.Get(ctx, t.StoragePath)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open blob: %w", err)
	}

	s.countDownload(ctx, code)
	return rc, t, nil
}

// ContentTypeFor returns the content type stored for an allowed extension,
// or application/octet-stream for anything else.
func ContentTypeFor(ext string) string {
	if ct, ok := allowedTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// urlTTL caps the signed URL lifetime at whichever is sooner: the configured
// TTL or the record's own expiry.
func (s *Service) urlTTL(t *Transfer, now time.Time) time.Duration {
	ttl := s.signedURLTTL
	if t.ExpiresAt != nil {
		if remaining := t.ExpiresAt.Sub(now); remaining < ttl {
			ttl = remaining
		}
	}
	return ttl
}

// countDownload bumps the download counter best-effort; a counter failure
// never fails the request.
func (s *Service) countDownload(ctx context.Context, code string) {
	if err := s.store.IncrementDownloadCount(ctx, code); err != nil {
		log.Printf("download count for %s: %v", code, err)
	}
}

// validateFileType extracts and checks the lower-cased extension.
func validateFileType(fileName string) (ext, contentType string, err error) {
	idx := strings.LastIndexByte(fileName, '.')
	if idx < 0 || idx == len(fileName)-1 {
		return "", "", fmt.Errorf("%w: missing file extension, allowed: pdf, epub, cbz, cbr", ErrUnsupportedFileType)
	}
	ext = strings.ToLower(fileName[idx+1:])
	contentType, ok := allowedTypes[ext]
	if !ok {
		return "", "", fmt.Errorf("%w: .%s not allowed, allowed: pdf, epub, cbz, cbr", ErrUnsupportedFileType, ext)
	}
	return ext, contentType, nil
}

// sanitizeFileName strips path separators so the stored name can never be
// interpreted as a path by downstream consumers.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
