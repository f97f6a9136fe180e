// Command sweeper removes expired transfers and their blobs in one pass,
// then exits. Schedule it externally (cron, Kubernetes CronJob); the API
// server itself never deletes anything.
package main

import (
	"context"
	"log"
	"time"

	"github.com/imagineread/lite/internal/config"
	"github.com/imagineread/lite/internal/db"
	"github.com/imagineread/lite/internal/storage"
	"github.com/imagineread/lite/internal/sweep"
	"github.com/imagineread/lite/internal/transfer"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	blobs, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	removed, err := sweep.New(transfer.NewRepository(pool), blobs).Run(ctx)
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	log.Printf("sweep done: %d transfers removed", removed)
}
