package observability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinobench_queries_total",
			Help: "Total number of benchmark queries executed.",
		},
		[]string{"table", "kind"},
	)

	queryFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trinobench_query_failures_total",
			Help: "Total number of failed benchmark queries.",
		},
		[]string{"table", "kind"},
	)

	queryDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinobench_query_duration_seconds",
			Help:    "Benchmark query latency by table and kind.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
		[]string{"table", "kind"},
	)

	tableCreationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trinobench_table_creation_seconds",
			Help:    "Table creation latency by table.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"table"},
	)
)

func init() {
	prometheus.MustRegister(queriesTotal, queryFailuresTotal, queryDurationSeconds, tableCreationSeconds)
}

func ObserveQuery(table, kind string, duration time.Duration) {
	queriesTotal.WithLabelValues(table, kind).Inc()
	queryDurationSeconds.WithLabelValues(table, kind).Observe(duration.Seconds())
}

func IncrementQueryFailure(table, kind string) {
	queryFailuresTotal.WithLabelValues(table, kind).Inc()
}

func ObserveTableCreation(table string, duration time.Duration) {
	tableCreationSeconds.WithLabelValues(table).Observe(duration.Seconds())
}

// ServeMetrics exposes /metrics until ctx is cancelled. The harness is a
// batch job, so the listener is best-effort and shut down with the run.
func ServeMetrics(ctx context.Context, addr string) error {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
