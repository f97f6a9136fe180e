package transfer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the metadata persistence interface consumed by Service, the
// Generator, and the sweeper. *Repository is the PostgreSQL implementation.
type Store interface {
	Exists(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, t *Transfer) error
	Get(ctx context.Context, code string) (*Transfer, error)
	IncrementDownloadCount(ctx context.Context, code string) error
	ListExpired(ctx context.Context, now time.Time) ([]*Transfer, error)
	Delete(ctx context.Context, code string) error
}

// Repository handles all transfer database operations.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// Create inserts a new transfer record. The primary key on code makes the
// insert conditional on absence, so two concurrent uploads drawing the same
// code resolve atomically: one wins, the other gets ErrDuplicateCode.
func (r *Repository) Create(ctx context.Context, t *Transfer) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO transfers
		     (code, original_name, file_type, file_size_bytes, storage_path, tier, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.Code, t.OriginalName, t.FileType, t.FileSizeBytes, t.StoragePath, t.Tier, t.CreatedAt, t.ExpiresAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateCode
		}
		return fmt.Errorf("create transfer: %w", err)
	}
	return nil
}

// Get fetches a transfer by its canonical code.
func (r *Repository) Get(ctx context.Context, code string) (*Transfer, error) {
	t := &Transfer{}
	err := r.db.QueryRow(ctx,
		`SELECT code, original_name, file_type, file_size_bytes, storage_path, tier, download_count, created_at, expires_at
		 FROM transfers WHERE code = $1`,
		code,
	).Scan(&t.Code, &t.OriginalName, &t.FileType, &t.FileSizeBytes, &t.StoragePath, &t.Tier, &t.DownloadCount, &t.CreatedAt, &t.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	return t, nil
}

// Exists returns true if a transfer with the given code exists.
func (r *Repository) Exists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM transfers WHERE code = $1)`,
		code,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check transfer exists: %w", err)
	}
	return exists, nil
}

// IncrementDownloadCount bumps the download counter for a code.
func (r *Repository) IncrementDownloadCount(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE transfers SET download_count = download_count + 1 WHERE code = $1`,
		code,
	)
	if err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}
	return nil
}

// ListExpired returns all transfers whose expiry has passed as of now.
// Consumed by the sweeper, never by request handling.
func (r *Repository) ListExpired(ctx context.Context, now time.Time) ([]*Transfer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT code, original_name, file_type, file_size_bytes, storage_path, tier, download_count, created_at, expires_at
		 FROM transfers WHERE expires_at IS NOT NULL AND expires_at <= $1`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("list expired transfers: %w", err)
	}
	defer rows.Close()

	var expired []*Transfer
	for rows.Next() {
		t := &Transfer{}
		if err := rows.Scan(&t.Code, &t.OriginalName, &t.FileType, &t.FileSizeBytes, &t.StoragePath, &t.Tier, &t.DownloadCount, &t.CreatedAt, &t.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan expired transfer: %w", err)
		}
		expired = append(expired, t)
	}
	return expired, rows.Err()
}

// Delete removes a transfer record. Deleting a missing code is not an error.
func (r *Repository) Delete(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM transfers WHERE code = $1`, code)
	if err != nil {
		return fmt.Errorf("delete transfer: %w", err)
	}
	return nil
}

// isUniqueViolation checks whether an error is a PostgreSQL unique_violation (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
