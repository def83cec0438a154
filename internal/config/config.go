package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type LookupFunc func(string) (string, bool)

type Profile string

const (
	ProfileDev  Profile = "dev"
	ProfileTest Profile = "test"
	ProfileProd Profile = "prod"
)

const (
	EngineTrino  = "trino"
	EngineDuckDB = "duckdb"
)

type Config struct {
	Profile       Profile
	Service       ServiceConfig
	Engine        EngineConfig
	Bench         BenchConfig
	Report        ReportConfig
	Archive       ArchiveConfig
	ObjectStore   ObjectStoreConfig
	Observability ObservabilityConfig
}

type ServiceConfig struct {
	Name string
}

type EngineConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Catalog      string
	Schema       string
	SourceSchema string
	QueryTimeout time.Duration
	// ScaleFactor feeds dbgen when the local duckdb engine is selected.
	ScaleFactor float64
}

type BenchConfig struct {
	Runs int
}

type ReportConfig struct {
	OutputDir string
	Publish   bool
}

type ArchiveConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

type ObjectStoreConfig struct {
	Enabled          bool
	Endpoint         string
	Region           string
	Bucket           string
	AccessKeyID      string
	SecretAccessKey  string
	UseSSL           bool
	Prefix           string
	AutoCreateBucket bool
}

type ObservabilityConfig struct {
	LogLevel    slog.Level
	LogJSON     bool
	MetricsAddr string
}

func LoadFromEnv(serviceName string) (Config, error) {
	return Load(serviceName, os.LookupEnv)
}

func Load(serviceName string, lookup LookupFunc) (Config, error) {
	if lookup == nil {
		return Config{}, fmt.Errorf("lookup function is required")
	}

	profile := ProfileDev
	if raw, ok := lookup("TRINOBENCH_PROFILE"); ok {
		profile = Profile(strings.ToLower(strings.TrimSpace(raw)))
	}
	if !isValidProfile(profile) {
		return Config{}, fmt.Errorf("invalid TRINOBENCH_PROFILE: %q", profile)
	}

	cfg := defaultsForProfile(profile)
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}

	if err := applyString(lookup, "TRINOBENCH_SERVICE_NAME", &cfg.Service.Name); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ENGINE", &cfg.Engine.Driver); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ENGINE_HOST", &cfg.Engine.Host); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TRINOBENCH_ENGINE_PORT", &cfg.Engine.Port); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ENGINE_USER", &cfg.Engine.User); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ENGINE_CATALOG", &cfg.Engine.Catalog); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ENGINE_SCHEMA", &cfg.Engine.Schema); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ENGINE_SOURCE_SCHEMA", &cfg.Engine.SourceSchema); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "TRINOBENCH_ENGINE_QUERY_TIMEOUT", &cfg.Engine.QueryTimeout); err != nil {
		return Config{}, err
	}
	if err := applyFloat(lookup, "TRINOBENCH_ENGINE_SCALE_FACTOR", &cfg.Engine.ScaleFactor); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TRINOBENCH_RUNS", &cfg.Bench.Runs); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_REPORT_DIR", &cfg.Report.OutputDir); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "TRINOBENCH_REPORT_PUBLISH", &cfg.Report.Publish); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_ARCHIVE_DSN", &cfg.Archive.DSN); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TRINOBENCH_ARCHIVE_MAX_OPEN_CONNS", &cfg.Archive.MaxOpenConns); err != nil {
		return Config{}, err
	}
	if err := applyInt(lookup, "TRINOBENCH_ARCHIVE_MAX_IDLE_CONNS", &cfg.Archive.MaxIdleConns); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "TRINOBENCH_ARCHIVE_CONN_MAX_IDLE_TIME", &cfg.Archive.ConnMaxIdleTime); err != nil {
		return Config{}, err
	}
	if err := applyDuration(lookup, "TRINOBENCH_ARCHIVE_CONN_MAX_LIFETIME", &cfg.Archive.ConnMaxLifetime); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "TRINOBENCH_OBJECTSTORE_ENABLED", &cfg.ObjectStore.Enabled); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_OBJECTSTORE_ENDPOINT", &cfg.ObjectStore.Endpoint); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_OBJECTSTORE_REGION", &cfg.ObjectStore.Region); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_OBJECTSTORE_BUCKET", &cfg.ObjectStore.Bucket); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_OBJECTSTORE_ACCESS_KEY", &cfg.ObjectStore.AccessKeyID); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_OBJECTSTORE_SECRET_KEY", &cfg.ObjectStore.SecretAccessKey); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "TRINOBENCH_OBJECTSTORE_USE_SSL", &cfg.ObjectStore.UseSSL); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_OBJECTSTORE_PREFIX", &cfg.ObjectStore.Prefix); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "TRINOBENCH_OBJECTSTORE_AUTO_CREATE_BUCKET", &cfg.ObjectStore.AutoCreateBucket); err != nil {
		return Config{}, err
	}
	if err := applyBool(lookup, "TRINOBENCH_LOG_JSON", &cfg.Observability.LogJSON); err != nil {
		return Config{}, err
	}
	if err := applyLogLevel(lookup, "TRINOBENCH_LOG_LEVEL", &cfg.Observability.LogLevel); err != nil {
		return Config{}, err
	}
	if err := applyString(lookup, "TRINOBENCH_METRICS_ADDR", &cfg.Observability.MetricsAddr); err != nil {
		return Config{}, err
	}

	if cfg.Service.Name == "" {
		return Config{}, fmt.Errorf("service name is required")
	}
	if cfg.Engine.Driver != EngineTrino && cfg.Engine.Driver != EngineDuckDB {
		return Config{}, fmt.Errorf("invalid TRINOBENCH_ENGINE: %q", cfg.Engine.Driver)
	}
	if cfg.Bench.Runs <= 0 {
		return Config{}, fmt.Errorf("TRINOBENCH_RUNS must be positive")
	}
	if cfg.Report.Publish && !cfg.ObjectStore.Enabled {
		return Config{}, fmt.Errorf("TRINOBENCH_REPORT_PUBLISH requires TRINOBENCH_OBJECTSTORE_ENABLED")
	}
	return cfg, nil
}

// Defaults mirror the connection values the benchmark targets out of the box:
// local Trino at 8080, user admin, catalog example, schema benchmark, TPC-H
// sf10 sources, three runs. Unset environments run exactly that.
func defaultsForProfile(profile Profile) Config {
	cfg := Config{
		Profile: profile,
		Service: ServiceConfig{Name: "trinobench"},
		Engine: EngineConfig{
			Driver:       EngineTrino,
			Host:         "localhost",
			Port:         8080,
			User:         "admin",
			Catalog:      "example",
			Schema:       "benchmark",
			SourceSchema: "tpch.sf10",
			QueryTimeout: 0,
			ScaleFactor:  0.1,
		},
		Bench: BenchConfig{
			Runs: 3,
		},
		Report: ReportConfig{
			OutputDir: "results",
			Publish:   false,
		},
		Archive: ArchiveConfig{
			DSN:             "",
			MaxOpenConns:    4,
			MaxIdleConns:    4,
			ConnMaxIdleTime: 5 * time.Minute,
			ConnMaxLifetime: 30 * time.Minute,
		},
		ObjectStore: ObjectStoreConfig{
			Enabled:          false,
			Endpoint:         "localhost:9000",
			Region:           "us-east-1",
			Bucket:           "warehouse",
			AccessKeyID:      "minio",
			SecretAccessKey:  "miniostorage",
			UseSSL:           false,
			Prefix:           "",
			AutoCreateBucket: true,
		},
		Observability: ObservabilityConfig{
			LogLevel:    slog.LevelInfo,
			LogJSON:     false,
			MetricsAddr: "",
		},
	}

	switch profile {
	case ProfileTest:
		cfg.Observability.LogLevel = slog.LevelWarn
		cfg.Engine.Driver = EngineDuckDB
		cfg.Engine.ScaleFactor = 0.01
		cfg.Bench.Runs = 1
	case ProfileProd:
		cfg.Observability.LogJSON = true
		cfg.ObjectStore.UseSSL = true
		cfg.ObjectStore.AutoCreateBucket = false
	}

	return cfg
}

func isValidProfile(profile Profile) bool {
	switch profile {
	case ProfileDev, ProfileTest, ProfileProd:
		return true
	default:
		return false
	}
}

func applyString(lookup LookupFunc, key string, dst *string) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	*dst = strings.TrimSpace(raw)
	return nil
}

func applyDuration(lookup LookupFunc, key string, dst *time.Duration) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyBool(lookup LookupFunc, key string, dst *bool) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyInt(lookup LookupFunc, key string, dst *int) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyFloat(lookup LookupFunc, key string, dst *float64) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = value
	return nil
}

func applyLogLevel(lookup LookupFunc, key string, dst *slog.Level) error {
	raw, ok := lookup(key)
	if !ok {
		return nil
	}
	level := strings.ToLower(strings.TrimSpace(raw))
	switch level {
	case "debug":
		*dst = slog.LevelDebug
	case "info":
		*dst = slog.LevelInfo
	case "warn", "warning":
		*dst = slog.LevelWarn
	case "error":
		*dst = slog.LevelError
	default:
		return fmt.Errorf("invalid %s: %q", key, raw)
	}
	return nil
}
