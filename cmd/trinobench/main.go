package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/trinobench/trinobench/internal/bench"
	"github.com/trinobench/trinobench/internal/config"
	"github.com/trinobench/trinobench/internal/engine"
	"github.com/trinobench/trinobench/internal/observability"
	"github.com/trinobench/trinobench/internal/report"
	resultspostgres "github.com/trinobench/trinobench/internal/results/postgres"
	s3store "github.com/trinobench/trinobench/internal/storage/s3"
)

func main() {
	cfg, err := config.LoadFromEnv("trinobench")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Observability.MetricsAddr != "" {
		go func() {
			if err := observability.ServeMetrics(ctx, cfg.Observability.MetricsAddr); err != nil {
				logger.Error("metrics endpoint failed", slog.Any("error", err))
			}
		}()
	}

	db, dialect, err := engine.Open(ctx, engine.Config{
		Driver:       cfg.Engine.Driver,
		Host:         cfg.Engine.Host,
		Port:         cfg.Engine.Port,
		User:         cfg.Engine.User,
		Catalog:      cfg.Engine.Catalog,
		Schema:       cfg.Engine.Schema,
		SourceSchema: cfg.Engine.SourceSchema,
		ScaleFactor:  cfg.Engine.ScaleFactor,
	})
	if err != nil {
		logger.Error("failed to open engine", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	var store *s3store.Store
	if cfg.ObjectStore.Enabled {
		store, err = s3store.New(ctx, s3store.Config{
			Endpoint:         cfg.ObjectStore.Endpoint,
			Region:           cfg.ObjectStore.Region,
			Bucket:           cfg.ObjectStore.Bucket,
			AccessKeyID:      cfg.ObjectStore.AccessKeyID,
			SecretAccessKey:  cfg.ObjectStore.SecretAccessKey,
			UseSSL:           cfg.ObjectStore.UseSSL,
			Prefix:           cfg.ObjectStore.Prefix,
			AutoCreateBucket: cfg.ObjectStore.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize object store", slog.Any("error", err))
			os.Exit(1)
		}
	}

	harness := &bench.Harness{
		DB:              db,
		Dialect:         dialect,
		WarehouseBucket: cfg.ObjectStore.Bucket,
		Runs:            cfg.Bench.Runs,
		QueryTimeout:    cfg.Engine.QueryTimeout,
		Logger:          logger,
	}

	logger.Info("benchmark started",
		slog.String("engine", cfg.Engine.Driver),
		slog.Int("runs", cfg.Bench.Runs),
	)

	data, err := harness.Run(ctx)
	if err != nil {
		logger.Error("benchmark failed", slog.Any("error", err))
		os.Exit(1)
	}

	summary := bench.Summarize(data)
	if err := report.Print(os.Stdout, summary); err != nil {
		logger.Error("failed to print report", slog.Any("error", err))
		os.Exit(1)
	}

	chartPaths, err := report.RenderCharts(summary, cfg.Report.OutputDir)
	if err != nil {
		logger.Error("failed to render charts", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("charts written", slog.Int("count", len(chartPaths)), slog.String("dir", cfg.Report.OutputDir))

	parquetPath, err := report.WriteMeasurements(cfg.Report.OutputDir, report.BuildMeasurements(data))
	if err != nil {
		logger.Error("failed to write measurements", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("raw measurements written", slog.String("path", parquetPath))

	if cfg.Report.Publish && store != nil {
		keys, err := report.PublishArtifacts(ctx, store, data.StartedAt, append(chartPaths, parquetPath))
		if err != nil {
			logger.Error("failed to publish artifacts", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("artifacts published", slog.Int("count", len(keys)), slog.String("bucket", store.Bucket()))
	}

	if cfg.Archive.DSN != "" {
		archiveDB, err := resultspostgres.Open(ctx, resultspostgres.DBConfig{
			DSN:             cfg.Archive.DSN,
			MaxOpenConns:    cfg.Archive.MaxOpenConns,
			MaxIdleConns:    cfg.Archive.MaxIdleConns,
			ConnMaxIdleTime: cfg.Archive.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Archive.ConnMaxLifetime,
		})
		if err != nil {
			logger.Error("failed to open archive db", slog.Any("error", err))
			os.Exit(1)
		}
		defer func() { _ = archiveDB.Close() }()

		repo := resultspostgres.NewRepository(archiveDB)
		if err := repo.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure archive schema", slog.Any("error", err))
			os.Exit(1)
		}
		runID, err := repo.ArchiveSummary(ctx, summary)
		if err != nil {
			logger.Error("failed to archive results", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("results archived", slog.Int64("run_id", runID))
	}

	logger.Info("benchmark finished")
}
