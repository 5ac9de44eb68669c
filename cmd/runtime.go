package cmd

import (
	"context"
	"fmt"

	"search-sync/core/config"
	"search-sync/core/database"
	"search-sync/core/job"
	"search-sync/core/logger"
	"search-sync/core/metrics"
	"search-sync/core/search"
	"search-sync/core/storage"
	"search-sync/feature/wiki/index"
	"search-sync/feature/wiki/store"

	"github.com/olivere/elastic/v7"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds the connected collaborators shared by the commands.
type runtime struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	querier *store.Querier
	search  *elastic.Client
	objects storage.Client
	indexer job.Indexer
	metrics *metrics.Metrics
}

// newRuntime loads the configuration and connects the store, the index and
// object storage. reg may be nil when metrics are not exported.
func newRuntime(ctx context.Context, reg prometheus.Registerer) (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := store.VerifySchema(db); err != nil {
		return nil, err
	}
	log.Info("Connected to document store", zap.String("driver", cfg.Database.Driver))

	es, err := search.NewClient(cfg.Search)
	if err != nil {
		return nil, err
	}
	if err := search.EnsureIndex(ctx, es, cfg.Search.Index, index.Mapping); err != nil {
		return nil, err
	}

	objects, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, err
	}
	if err := storage.EnsureBucket(ctx, objects, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
		return nil, err
	}

	querier := store.NewQuerier(db)
	indexer := index.NewIndexer(index.IndexerConfig{
		Client:    es,
		Index:     cfg.Search.Index,
		Loader:    querier,
		Storage:   objects,
		Bucket:    cfg.Storage.Bucket,
		Store:     store.Factory(querier, cfg.Sync.BatchSize),
		BatchSize: cfg.Sync.BatchSize,
		Logger:    log,
	})

	rt := &runtime{
		cfg:     cfg,
		log:     log,
		db:      db,
		querier: querier,
		search:  es,
		objects: objects,
		indexer: index.NewRateLimited(indexer, cfg.Sync.IndexRate),
	}
	if reg != nil {
		rt.metrics = metrics.New(reg)
	}
	return rt, nil
}

// dependencies returns the job collaborators, applying mutations with indexer.
func (rt *runtime) dependencies(indexer job.Indexer) job.Dependencies {
	executor := index.NewExecutor(rt.search, rt.cfg.Search.Index)
	return job.Dependencies{
		Indexer: indexer,
		Exists:  rt.querier,
		Store:   store.Factory(rt.querier, rt.cfg.Sync.BatchSize),
		Index:   index.Factory(executor, rt.cfg.Sync.PageSize, rt.log),
		Logger:  rt.log,
		Metrics: rt.metrics,
	}
}

// scheduler creates a scheduler keeping the configured number of finished
// jobs and uploading reports when a prefix is configured.
func (rt *runtime) scheduler() *job.Scheduler {
	opts := []job.Option{job.WithLogger(rt.log), job.WithRetention(rt.cfg.Sync.Retention)}
	if rt.cfg.Sync.ReportPrefix != "" {
		opts = append(opts, job.WithReports(job.NewObjectReports(rt.objects, rt.cfg.Storage.Bucket, rt.cfg.Sync.ReportPrefix)))
	}
	return job.NewScheduler(opts...)
}

func (rt *runtime) close() {
	if sqlDB, err := rt.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	rt.search.Stop()
	_ = rt.log.Sync()
}
