package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/FACorreiaa/stockflow/internal/domain/catalog"
	reconcilehandler "github.com/FACorreiaa/stockflow/internal/domain/reconcile/handler"
	"github.com/FACorreiaa/stockflow/internal/domain/reconcile/matcher"
	reconcileservice "github.com/FACorreiaa/stockflow/internal/domain/reconcile/service"
	"github.com/FACorreiaa/stockflow/pkg/config"
	"github.com/FACorreiaa/stockflow/pkg/cron"
	"github.com/FACorreiaa/stockflow/pkg/db"
	"github.com/FACorreiaa/stockflow/pkg/metrics"
	"github.com/FACorreiaa/stockflow/pkg/notify"
	"github.com/FACorreiaa/stockflow/pkg/storage"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Infrastructure
	Metrics      *metrics.Metrics
	CatalogRepo  *catalog.Repository
	CatalogCache *catalog.Cache
	SearchIndex  *matcher.SearchIndex
	Archive      storage.Archive
	Scheduler    *cron.Scheduler

	// Services
	ReconcileService *reconcileservice.Service

	// Handlers
	ReconcileHandler *reconcilehandler.ReconcileHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics.New(),
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}
	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}
	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initServices initializes the catalog plumbing and import service
func (d *Dependencies) initServices() error {
	d.CatalogRepo = catalog.NewRepository(d.DB.Pool)
	d.CatalogCache = catalog.NewCache(d.CatalogRepo)

	searchIndex, err := matcher.NewSearchIndex()
	if err != nil {
		return fmt.Errorf("failed to init catalog search index: %w", err)
	}
	d.SearchIndex = searchIndex

	archive, err := storage.New(&storage.Config{LocalPath: "./uploads"})
	if err != nil {
		return fmt.Errorf("failed to init document archive: %w", err)
	}
	d.Archive = archive

	d.ReconcileService = reconcileservice.New(d.CatalogRepo, d.CatalogCache, d.Metrics, d.Logger).
		WithSearchIndex(d.SearchIndex).
		WithArchive(d.Archive)

	if d.Config.Notify.ResendAPIKey != "" && d.Config.Notify.ToAddress != "" {
		notifier := notify.NewEmailNotifier(
			d.Config.Notify.ResendAPIKey,
			d.Config.Notify.FromAddress,
			d.Config.Notify.ToAddress,
			d.Logger,
		)
		d.ReconcileService.WithNotifier(notifier)
	}

	d.Scheduler = cron.NewScheduler(d.CatalogCache, d.Metrics, d.Config.Import.SnapshotRefresh, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() {
	d.ReconcileHandler = reconcilehandler.NewReconcileHandler(d.ReconcileService, d.Config.Import.AutoMapDefault, d.Logger)
	d.Logger.Info("handlers initialized")
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.SearchIndex != nil {
		if err := d.SearchIndex.Close(); err != nil {
			d.Logger.Warn("failed to close search index", "error", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
