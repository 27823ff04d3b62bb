package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Pass metrics
	SchedulesVisited prometheus.Counter
	PassDuration     prometheus.Histogram
	PassFailures     *prometheus.CounterVec
	PassesSkipped    prometheus.Counter
	PostingsCreated  prometheus.Counter

	// Batch metrics
	BatchRuns     prometheus.Counter
	BatchDuration prometheus.Histogram
	BatchBacklog  prometheus.Gauge

	// Database metrics
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Lock metrics
	LockConflicts prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Pass metrics
		SchedulesVisited: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contractledger_schedules_visited_total",
			Help: "Total number of completed schedule passes",
		}),
		PassDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contractledger_pass_duration_seconds",
			Help:    "Duration of one schedule pass",
			Buckets: prometheus.DefBuckets,
		}),
		PassFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contractledger_pass_failures_total",
				Help: "Total failed schedule passes by kind",
			},
			[]string{"kind"},
		),
		PassesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contractledger_passes_skipped_total",
			Help: "Total passes skipped because the schedule was locked",
		}),
		PostingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contractledger_postings_created_total",
			Help: "Total posted ledger lines",
		}),

		// Batch metrics
		BatchRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contractledger_batch_runs_total",
			Help: "Total batch runs",
		}),
		BatchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "contractledger_batch_duration_seconds",
			Help:    "Duration of one batch run",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		}),
		BatchBacklog: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "contractledger_batch_backlog",
			Help: "Schedules still needing a visit after the last batch run",
		}),

		// Database metrics
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "contractledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contractledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Lock metrics
		LockConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "contractledger_lock_conflicts_total",
			Help: "Total schedule lock conflicts",
		}),
	}
}
