package main

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rdelacruz/receipt-ledger-service/internal/config"
	"github.com/rdelacruz/receipt-ledger-service/internal/export"
	"github.com/rdelacruz/receipt-ledger-service/internal/extraction"
	"github.com/rdelacruz/receipt-ledger-service/internal/handler"
	"github.com/rdelacruz/receipt-ledger-service/internal/repository"
	"github.com/rdelacruz/receipt-ledger-service/internal/server"
	"github.com/rdelacruz/receipt-ledger-service/internal/service"
)

func main() {
	log.Println("Loading configuration...")
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	appServer := server.NewServer(cfg)

	log.Printf("Initializing %s storage backend...", cfg.StorageBackend)
	snapshots, images, err := newStorageBackend(ctx, cfg, appServer)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	extractor := extraction.NewClient(&extraction.Config{
		APIKey:  cfg.OpenRouterAPIKey,
		APIURL:  cfg.OpenRouterAPIURL,
		ModelID: cfg.OpenRouterModelID,
		Timeout: cfg.OpenRouterTimeout,
	})

	log.Println("Creating receipt ledger service...")
	receiptService := service.NewReceiptService(ctx, snapshots, images, extractor, cfg.MaxWorkers)

	receiptHandler := handler.NewReceiptHandler(receiptService, export.NewPDFExporter(images))
	receiptHandler.RegisterRoutes(appServer.Router())

	log.Printf("Starting server on port %d...", cfg.Port)
	if err := appServer.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// newStorageBackend wires the snapshot repository and image store
// selected by configuration, registering any close hook on the server.
func newStorageBackend(ctx context.Context, cfg *config.Config, appServer *server.Server) (repository.SnapshotRepository, repository.ImageStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBolt:
		repo, err := repository.NewBoltRepository(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		appServer.OnShutdown(func() {
			if err := repo.Close(); err != nil {
				log.Printf("Warning: failed to close bolt store: %v", err)
			}
		})
		return repo, repo, nil

	case config.StoragePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewPostgresRepository(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		appServer.OnShutdown(pool.Close)
		return repo, repo, nil

	default:
		repo, err := repository.NewFileRepository(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo, nil
	}
}
