package sweep

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imagineread/lite/internal/storage"
	"github.com/imagineread/lite/internal/transfer"
)

type fakeStore struct {
	records map[string]*transfer.Transfer
}

func (f *fakeStore) Exists(_ context.Context, code string) (bool, error) {
	_, ok := f.records[code]
	return ok, nil
}

func (f *fakeStore) Create(_ context.Context, t *transfer.Transfer) error {
	f.records[t.Code] = t
	return nil
}

func (f *fakeStore) Get(_ context.Context, code string) (*transfer.Transfer, error) {
	t, ok := f.records[code]
	if !ok {
		return nil, transfer.ErrNotFound
	}
	return t, nil
}

func (f *fakeStore) IncrementDownloadCount(context.Context, string) error { return nil }

func (f *fakeStore) ListExpired(_ context.Context, now time.Time) ([]*transfer.Transfer, error) {
	var out []*transfer.Transfer
	for _, t := range f.records {
		if t.Expired(now) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) Delete(_ context.Context, code string) error {
	delete(f.records, code)
	return nil
}

type fakeBlobs struct {
	objects   map[string][]byte
	deleteErr map[string]error
}

func (f *fakeBlobs) Upload(_ context.Context, path string, r io.Reader, _ int64, _ string) error {
	data, _ := io.ReadAll(r)
	f.objects[path] = data
	return nil
}

func (f *fakeBlobs) PresignedURL(_ context.Context, path string, _ time.Duration, _ string) (string, error) {
	if _, ok := f.objects[path]; !ok {
		return "", storage.ErrObjectNotFound
	}
	return "https://blobs.test/" + path, nil
}

func (f *fakeBlobs) Get(_ context.Context, path string) (io.ReadCloser, error) {
	data, ok := f.objects[path]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeBlobs) Delete(_ context.Context, path string) error {
	if err := f.deleteErr[path]; err != nil {
		return err
	}
	delete(f.objects, path)
	return nil
}

func seed(store *fakeStore, blobs *fakeBlobs, code string, expiresAt *time.Time) {
	path := "free/" + code + ".pdf"
	blobs.objects[path] = []byte("data")
	store.records[code] = &transfer.Transfer{
		Code: code, OriginalName: "a.pdf", FileType: "pdf", FileSizeBytes: 4,
		StoragePath: path, Tier: transfer.TierFree,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour), ExpiresAt: expiresAt,
	}
}

func TestRun_RemovesOnlyExpired(t *testing.T) {
	store := &fakeStore{records: map[string]*transfer.Transfer{}}
	blobs := &fakeBlobs{objects: map[string][]byte{}, deleteErr: map[string]error{}}
	now := time.Now().UTC()

	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)
	seed(store, blobs, "EXPIRED1", &past)
	seed(store, blobs, "ALIVE222", &future)
	seed(store, blobs, "FOREVER3", nil) // premium-style, never expires

	removed, err := New(store, blobs).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NotContains(t, store.records, "EXPIRED1")
	assert.NotContains(t, blobs.objects, "free/EXPIRED1.pdf")
	assert.Contains(t, store.records, "ALIVE222")
	assert.Contains(t, store.records, "FOREVER3")
}

func TestRun_KeepsRecordWhenBlobDeleteFails(t *testing.T) {
	store := &fakeStore{records: map[string]*transfer.Transfer{}}
	blobs := &fakeBlobs{objects: map[string][]byte{}, deleteErr: map[string]error{}}

	past := time.Now().UTC().Add(-time.Hour)
	seed(store, blobs, "STUCK111", &past)
	blobs.deleteErr["free/STUCK111.pdf"] = errors.New("transient storage error")

	removed, err := New(store, blobs).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)

	// Record survives so the next pass retries the blob delete.
	assert.Contains(t, store.records, "STUCK111")
}
