// Package sweep removes expired transfers and their blobs. It is the
// external cleanup collaborator: the API server never runs it; a scheduler
// (cron, CronJob) invokes the sweeper binary independently.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/imagineread/lite/internal/storage"
	"github.com/imagineread/lite/internal/transfer"
)

// Sweeper deletes expired transfer records and the objects they point to.
type Sweeper struct {
	store transfer.Store
	blobs storage.Storage
	now   func() time.Time
}

// New creates a Sweeper.
func New(store transfer.Store, blobs storage.Storage) *Sweeper {
	return &Sweeper{store: store, blobs: blobs, now: time.Now}
}

// Run performs one sweep pass and returns the number of transfers removed.
// The blob is deleted before the record: if the object delete fails, the
// record survives so the next pass retries; the reverse order would strand
// blobs forever. Lookups already tombstone expired records, so the record
// lingering an extra pass is invisible to users.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	expired, err := s.store.ListExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, t := range expired {
		if err := s.blobs.Delete(ctx, t.StoragePath); err != nil {
			log.Printf("sweep: delete blob %s: %v", t.StoragePath, err)
			continue
		}
		if err := s.store.Delete(ctx, t.Code); err != nil {
			log.Printf("sweep: delete record %s: %v", t.Code, err)
			continue
		}
		log.Printf("sweep: removed %s (%s)", t.Code, t.StoragePath)
		removed++
	}
	return removed, nil
}
