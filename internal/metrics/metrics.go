// Package metrics exposes summarizer activity in Prometheus format.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wgomg/rezumat/internal/embedding"
	"github.com/wgomg/rezumat/internal/summarizer"
)

const namespace = "rezumat"

const (
	OutcomeOK      = "ok"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Metrics struct {
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	sentences    prometheus.Histogram
	iterations   prometheus.Histogram
	notConverged prometheus.Counter
}

// New registers every collector on reg. cache may be nil when model
// embeddings are not cached.
func New(reg prometheus.Registerer, cache *embedding.EmbeddingCache) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summarize_requests_total",
				Help:      "Summarization requests by embedding and outcome.",
			},
			[]string{"embedding", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_duration_seconds",
				Help:      "Time spent producing a summary.",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 9),
			},
			[]string{"embedding"},
		),
		sentences: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "summarize_sentences",
				Help:      "Retained sentences per summarized document.",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		iterations: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lexrank_iterations",
				Help:      "Power iterations run per LexRank call.",
				Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
			},
		),
		notConverged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lexrank_not_converged_total",
				Help:      "LexRank calls that stopped at the iteration limit.",
			},
		),
	}

	reg.MustRegister(m.requests, m.duration, m.sentences, m.iterations, m.notConverged)

	if cache != nil {
		reg.MustRegister(
			prometheus.NewCounterFunc(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "embedding_cache_hits_total",
					Help:      "Sentence embeddings served from cache.",
				},
				func() float64 { return float64(cache.Hits()) },
			),
			prometheus.NewCounterFunc(
				prometheus.CounterOpts{
					Namespace: namespace,
					Name:      "embedding_cache_misses_total",
					Help:      "Sentence embeddings sent to a model.",
				},
				func() float64 { return float64(cache.Misses()) },
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Namespace: namespace,
					Name:      "embedding_cache_entries",
					Help:      "Sentence embeddings currently cached.",
				},
				func() float64 { return float64(cache.Size()) },
			),
		)
	}

	return m
}

// Outcome classifies a Summarize error for the outcome label.
func Outcome(err error) string {
	var verr *summarizer.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &verr):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

// ObserveSummary records one Summarize call. result is nil when err is not.
func (m *Metrics) ObserveSummary(choice string, elapsed time.Duration, result *summarizer.Result, err error) {
	m.requests.WithLabelValues(choice, Outcome(err)).Inc()
	m.duration.WithLabelValues(choice).Observe(elapsed.Seconds())

	if result == nil {
		return
	}

	m.sentences.Observe(float64(len(result.Sentences)))
	if result.Iterations > 0 {
		m.iterations.Observe(float64(result.Iterations))
	}
	if !result.Converged {
		m.notConverged.Inc()
	}
}
