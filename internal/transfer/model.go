// Package transfer implements the code-based file sharing core: code
// generation, tier policy, metadata persistence, and the upload/lookup
// orchestration on top of object storage.
package transfer

import (
	"errors"
	"time"
)

// Tier is a named access-and-retention policy governing size limits,
// storage placement, and expiry.
type Tier string

const (
	// TierFree transfers expire 24 hours after upload.
	TierFree Tier = "free"
	// TierPremium transfers never expire. Reserved: nothing on the HTTP
	// surface resolves to it yet.
	TierPremium Tier = "premium"
)

// Transfer is the metadata record for one uploaded file, keyed by its code.
// Records are immutable after creation except for the download counter.
type Transfer struct {
	Code          string     `json:"code"`
	OriginalName  string     `json:"originalName"`
	FileType      string     `json:"fileType"`
	FileSizeBytes int64      `json:"fileSizeBytes"`
	StoragePath   string     `json:"-"`
	Tier          Tier       `json:"-"`
	DownloadCount int        `json:"downloadCount"`
	CreatedAt     time.Time  `json:"createdAt"`
	ExpiresAt     *time.Time `json:"expiresAt"` // nil = never expires
}

// Expired reports whether the transfer is past its expiry at the given time.
// A record with no expiry never expires.
func (t *Transfer) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && now.After(*t.ExpiresAt)
}

// ErrNotFound is returned when no transfer exists for a code.
var ErrNotFound = errors.New("transfer not found")

// ErrExpired is returned when a transfer exists but is past its expiry.
// User-facing messaging must not distinguish it from ErrNotFound; the kinds
// stay separate for logging.
var ErrExpired = errors.New("transfer expired")

// ErrDuplicateCode is returned when inserting a record whose code already
// exists. The upload flow retries it transparently with a fresh code.
var ErrDuplicateCode = errors.New("code already exists")

// ErrCodeSpaceExhausted is returned when repeated draws failed to produce an
// unused code. A safety valve, not a normal path.
var ErrCodeSpaceExhausted = errors.New("could not allocate a unique code")

// ErrUnsupportedFileType is returned for uploads whose extension is not allowed.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// ErrFileTooLarge is returned for uploads exceeding the tier size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrEmptyFile is returned for zero-byte uploads.
var ErrEmptyFile = errors.New("file is empty")

// ErrStorageWrite is returned when the blob store rejects a write. No
// metadata is persisted in that case.
var ErrStorageWrite = errors.New("storage write failed")
