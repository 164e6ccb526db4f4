package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	syncapp "github.com/shopsync/backend/internal/application/integration"
	"github.com/shopsync/backend/internal/infrastructure/config"
	"github.com/shopsync/backend/internal/infrastructure/logger"
	"github.com/shopsync/backend/internal/infrastructure/marketplace"
	"github.com/shopsync/backend/internal/infrastructure/persistence"
	"github.com/shopsync/backend/internal/infrastructure/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ShopSync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	keyStore := persistence.NewGormRemoteKeyStore(db.DB)
	watermarkStore := persistence.NewGormWatermarkStore(db.DB)
	syncLog := persistence.NewGormSyncLog(db.DB)
	catalog := persistence.NewGormProductCatalog(db.DB)
	currencies := persistence.NewGormCurrencyLookup(db.DB)
	countries := persistence.NewGormCountryLookup(db.DB)
	orderImporter := persistence.NewGormOrderImporter(db.DB)

	// Initialize marketplace client
	amazonCfg := &marketplace.AmazonConfig{
		SellerID:          cfg.Amazon.SellerID,
		ClientID:          cfg.Amazon.ClientID,
		ClientSecret:      cfg.Amazon.ClientSecret,
		RefreshToken:      cfg.Amazon.RefreshToken,
		MainMarketplaceID: cfg.Amazon.MainMarketplace,
		MarketplaceIDs:    cfg.Amazon.Marketplaces,
		TimeoutSeconds:    cfg.Amazon.TimeoutSeconds,
		InsecureUpload:    cfg.Amazon.InsecureUpload,
	}
	client, err := marketplace.NewAmazonClient(amazonCfg, log)
	if err != nil {
		log.Fatal("Failed to create marketplace client", zap.Error(err))
	}

	// Initialize sync pipeline
	fetcher := syncapp.NewOrderFetcher(client, keyStore, cfg.Sync.BurstSize, cfg.Sync.BurstCooldown, log)
	poller := syncapp.NewJobPoller(cfg.Sync.PollInterval, log)
	mapper := syncapp.NewOrderMapper(keyStore, catalog, currencies, countries, cfg.Sync.DefaultLocale, cfg.Sync.LanguageID)
	productImporter := syncapp.NewProductImporter(keyStore, catalog, syncLog, log)
	exporter := syncapp.NewAvailabilityExporter(keyStore, catalog, syncLog, log)
	feedBuilder := marketplace.NewAmazonFeedBuilder(cfg.Amazon.SellerID)
	reportParser := marketplace.NewTabReportParser()

	orchestrator := syncapp.NewSyncOrchestrator(
		syncapp.OrchestratorConfig{
			SyncJobID:         syncJobID(cfg, log),
			MarketplaceIDs:    amazonCfg.MarketplaceIDs,
			MainMarketplaceID: amazonCfg.MainMarketplaceID,
			Lookback:          cfg.Sync.Lookback,
			SafetyMargin:      cfg.Sync.SafetyMargin,
			ScratchDir:        cfg.Sync.ScratchDir,
		},
		client,
		watermarkStore,
		keyStore,
		fetcher,
		poller,
		mapper,
		productImporter,
		exporter,
		feedBuilder,
		reportParser,
		orderImporter,
		syncLog,
		log,
	)

	// Initialize scheduler
	schedCfg := scheduler.DefaultSyncSchedulerConfig()
	schedCfg.Interval = cfg.Sync.Interval
	schedCfg.PassTimeout = cfg.Sync.PassTimeout
	sched, err := scheduler.NewSyncScheduler(schedCfg, orchestrator, log)
	if err != nil {
		log.Fatal("Failed to create sync scheduler", zap.Error(err))
	}

	if err := sched.Start(context.Background()); err != nil {
		log.Fatal("Failed to start sync scheduler", zap.Error(err))
	}

	// Wait for interrupt signal to gracefully shut down
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sched.Stop(ctx); err != nil {
		log.Fatal("Scheduler forced to shut down", zap.Error(err))
	}

	log.Info("Sync daemon exited gracefully")
}

// syncJobID resolves the stable watermark key for this deployment. When no
// job ID is configured one is derived from the seller ID so restarts keep
// their watermarks.
func syncJobID(cfg *config.Config, log *zap.Logger) uuid.UUID {
	if cfg.Sync.SyncJobID != "" {
		id, err := uuid.Parse(cfg.Sync.SyncJobID)
		if err != nil {
			log.Fatal("Invalid sync.job_id", zap.String("value", cfg.Sync.SyncJobID), zap.Error(err))
		}
		return id
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("shopsync://"+cfg.Amazon.SellerID))
}
