package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "rendezvous"

// Run outcomes used as the "result" label of the runs counter.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder owns a registry and the scoring metrics registered in it.
type Recorder struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
	pairsEvaluated  *prometheus.CounterVec
	pairsExcluded   *prometheus.CounterVec
	pairsBelow      *prometheus.CounterVec
	vectorsComputed *prometheus.CounterVec
	matches         *prometheus.GaugeVec
}

// RunStats is what one scoring run reports.
type RunStats struct {
	EventID           string
	Duration          time.Duration
	Evaluated         int
	Excluded          int
	BelowThreshold    int
	VectorsRecomputed int
	Matches           int
}

// NewRecorder creates a Recorder with a fresh registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		// runs counts scoring runs by outcome.
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scoring_runs_total",
			Help:      "Total number of scoring runs",
		}, []string{"event", "result"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scoring_run_duration_seconds",
			Help:      "Duration of successful scoring runs in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"event"}),

		pairsEvaluated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_evaluated_total",
			Help:      "Total number of participant pairs scored",
		}, []string{"event"}),

		pairsExcluded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_excluded_total",
			Help:      "Total number of pairs skipped by same-company or same-role rules",
		}, []string{"event"}),

		pairsBelow: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pairs_below_threshold_total",
			Help:      "Total number of scored pairs dropped below the minimum score",
		}, []string{"event"}),

		vectorsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "intent_vectors_recomputed_total",
			Help:      "Total number of participant intent vectors recomputed instead of read from cache",
		}, []string{"event"}),

		// matches is the number of stored matches after the last run.
		matches: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "matches",
			Help:      "Number of stored match candidates per event",
		}, []string{"event"}),
	}
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveRun records a successful run.
func (r *Recorder) ObserveRun(s RunStats) {
	r.runs.WithLabelValues(s.EventID, ResultSuccess).Inc()
	r.runDuration.WithLabelValues(s.EventID).Observe(s.Duration.Seconds())
	r.pairsEvaluated.WithLabelValues(s.EventID).Add(float64(s.Evaluated))
	r.pairsExcluded.WithLabelValues(s.EventID).Add(float64(s.Excluded))
	r.pairsBelow.WithLabelValues(s.EventID).Add(float64(s.BelowThreshold))
	r.vectorsComputed.WithLabelValues(s.EventID).Add(float64(s.VectorsRecomputed))
	r.matches.WithLabelValues(s.EventID).Set(float64(s.Matches))
}

// ObserveFailure records a run that ended with an error.
func (r *Recorder) ObserveFailure(eventID string) {
	r.runs.WithLabelValues(eventID, ResultError).Inc()
}

// WriteTextfile writes every metric in the text exposition format to path,
// atomically replacing any previous file.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
