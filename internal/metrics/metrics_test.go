package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wgomg/rezumat/internal/embedding"
	"github.com/wgomg/rezumat/internal/summarizer"
)

func TestObserveSummary(t *testing.T) {
	m := New(prometheus.NewRegistry(), nil)

	m.ObserveSummary("tfidf", 10*time.Millisecond, &summarizer.Result{
		Sentences:  []string{"a.", "b."},
		Iterations: 100,
		Converged:  false,
	}, nil)
	m.ObserveSummary("tfidf", time.Millisecond, nil, &summarizer.ValidationError{
		Field: "compression_rate",
		Err:   summarizer.ErrInvalidCompressionRate,
	})
	m.ObserveSummary("bert", time.Second, nil, errors.New("python exited"))

	if got := testutil.ToFloat64(m.requests.WithLabelValues("tfidf", OutcomeOK)); got != 1 {
		t.Errorf("ok requests = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("tfidf", OutcomeInvalid)); got != 1 {
		t.Errorf("invalid requests = %v", got)
	}
	if got := testutil.ToFloat64(m.requests.WithLabelValues("bert", OutcomeError)); got != 1 {
		t.Errorf("error requests = %v", got)
	}
	if got := testutil.ToFloat64(m.notConverged); got != 1 {
		t.Errorf("not converged = %v", got)
	}
}

type echoEncoder struct{}

func (echoEncoder) ModelName() string { return "echo" }

func (echoEncoder) EncodeTexts(_ context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = []float64{float64(len(text))}
	}
	return out, nil
}

func TestCacheCollectors(t *testing.T) {
	cache, err := embedding.NewEmbeddingCache(4)
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	New(reg, cache)

	enc := embedding.NewCachedEncoder(echoEncoder{}, cache)
	enc.EncodeTexts(context.Background(), []string{"unu", "doi"})
	enc.EncodeTexts(context.Background(), []string{"unu"})

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}

	values := make(map[string]float64)
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			switch {
			case metric.GetCounter() != nil:
				values[family.GetName()] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				values[family.GetName()] = metric.GetGauge().GetValue()
			}
		}
	}

	want := map[string]float64{
		"rezumat_embedding_cache_hits_total":   1,
		"rezumat_embedding_cache_misses_total": 2,
		"rezumat_embedding_cache_entries":      2,
	}
	for name, v := range want {
		if values[name] != v {
			t.Errorf("%s = %v, want %v", name, values[name], v)
		}
	}
}

func TestOutcome(t *testing.T) {
	if Outcome(nil) != OutcomeOK {
		t.Error("nil error should be ok")
	}
	wrapped := errors.Join(errors.New("ctx"), &summarizer.ValidationError{Field: "embedding", Err: embedding.ErrUnsupportedEmbedding})
	if Outcome(wrapped) != OutcomeInvalid {
		t.Error("wrapped validation error should be invalid")
	}
	if Outcome(errors.New("boom")) != OutcomeError {
		t.Error("plain error should be error")
	}
}
