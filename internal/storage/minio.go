package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const codeNoSuchKey = "NoSuchKey"

// MinioStorage implements Storage using a MinIO (or any S3-compatible) backend.
// To switch to Cloudflare R2, change STORAGE_ENDPOINT and credentials —
// no code changes are needed since R2 is S3-compatible.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage creates a MinIO client, ensures the bucket exists, and
// returns a ready-to-use MinioStorage. The bucket stays private: objects are
// only reachable through presigned URLs.
func NewMinioStorage(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*MinioStorage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
		log.Printf("storage: created bucket %q", bucket)
	}

	return &MinioStorage{client: client, bucket: bucket}, nil
}

// Upload streams reader to the bucket under path.
func (s *MinioStorage) Upload(ctx context.Context, path string, reader io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", path, err)
	}
	return nil
}

// PresignedURL generates a time-limited GET URL for the object at path.
// The object's existence is verified first so a missing blob surfaces as
// ErrObjectNotFound instead of a link that 404s later.
func (s *MinioStorage) PresignedURL(ctx context.Context, path string, expiry time.Duration, downloadName string) (string, error) {
	if _, err := s.client.StatObject(ctx, s.bucket, path, minio.StatObjectOptions{}); err != nil {
		return "", s.wrapMinioError(path, err)
	}

	params := url.Values{}
	if downloadName != "" {
		params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	}

	u, err := s.client.PresignedGetObject(ctx, s.bucket, path, expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", path, err)
	}
	return u.String(), nil
}

// Get opens the object at path for streaming. minio defers the actual request
// until the first read, so Stat is used to surface missing objects eagerly.
func (s *MinioStorage) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object %q: %w", path, err)
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, s.wrapMinioError(path, err)
	}
	return obj, nil
}

// Delete removes the object at path. RemoveObject on a missing key is a
// no-op, which matches the idempotent contract.
func (s *MinioStorage) Delete(ctx context.Context, path string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", path, err)
	}
	return nil
}

// wrapMinioError maps MinIO's NoSuchKey to ErrObjectNotFound.
func (s *MinioStorage) wrapMinioError(path string, err error) error {
	if minio.ToErrorResponse(err).Code == codeNoSuchKey {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, path)
	}
	return fmt.Errorf("stat object %q: %w", path, err)
}
