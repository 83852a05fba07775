// Package summarizer turns raw Romanian text into an extractive summary:
// preprocess, embed, build the similarity graph, rank with LexRank, pick
// the top sentences in document order.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/wgomg/rezumat/internal/config"
	"github.com/wgomg/rezumat/internal/embedding"
	"github.com/wgomg/rezumat/internal/graph"
	"github.com/wgomg/rezumat/internal/preprocess"
	"github.com/wgomg/rezumat/internal/utils"
)

const (
	MinCompressionRate = 0.1
	MaxCompressionRate = 1.0

	scoreDecimals = 4
)

// EmbedderSource resolves an embedding choice. *embedding.Registry is the
// production implementation.
type EmbedderSource interface {
	Embedder(choice embedding.Choice) (embedding.Embedder, error)
}

type Options struct {
	Threshold              float64
	Iteration              graph.PowerIteration
	DefaultCompressionRate float64
	DefaultEmbedding       embedding.Choice
}

func DefaultOptions() Options {
	return Options{
		Threshold:              0.1,
		Iteration:              graph.DefaultPowerIteration(),
		DefaultCompressionRate: 0.3,
		DefaultEmbedding:       embedding.TFIDFChoice,
	}
}

// OptionsFromConfig maps the SUMMARY_* settings and rejects an unknown
// default embedding.
func OptionsFromConfig(cfg *config.SummaryConfig) (Options, error) {
	choice, err := embedding.ParseChoice(cfg.DefaultEmbedding)
	if err != nil {
		return Options{}, fmt.Errorf("SUMMARY_DEFAULT_EMBEDDING: %w", err)
	}
	return Options{
		Threshold: cfg.Threshold,
		Iteration: graph.PowerIteration{
			Damping:       cfg.Damping,
			MaxIterations: cfg.MaxIterations,
			Epsilon:       cfg.Epsilon,
		},
		DefaultCompressionRate: cfg.DefaultCompressionRate,
		DefaultEmbedding:       choice,
	}, nil
}

// Request fields left at their zero value take the summarizer defaults.
type Request struct {
	Text            string
	CompressionRate float64
	Embedding       string
}

type Summarizer struct {
	logger    *utils.Logger
	resources *preprocess.Resources
	embedders EmbedderSource
	opts      Options
}

func New(
	logger *utils.Logger,
	resources *preprocess.Resources,
	embedders EmbedderSource,
	opts Options,
) *Summarizer {
	return &Summarizer{
		logger:    logger,
		resources: resources,
		embedders: embedders,
		opts:      opts,
	}
}

func (s *Summarizer) DefaultEmbedding() embedding.Choice {
	return s.opts.DefaultEmbedding
}

func (s *Summarizer) Summarize(ctx context.Context, req Request) (*Result, error) {
	reqID := utils.RequestID(ctx)

	rate, choice, err := s.validate(req)
	if err != nil {
		return nil, err
	}

	original, processed := s.resources.NewPreprocessor().Process(req.Text)
	s.logger.Debug(reqID, "Segmented %d sentences from %d words", len(original), utils.CountWords(req.Text))

	switch len(original) {
	case 0:
		return &Result{
			Summary:           req.Text,
			Sentences:         []string{},
			Scores:            []float64{1.0},
			SelectedIndices:   []int{},
			SelectedSentences: []string{},
			Converged:         true,
		}, nil
	case 1:
		return &Result{
			Summary:           original[0],
			Sentences:         original,
			Scores:            []float64{1.0},
			SelectedIndices:   []int{0},
			SelectedSentences: []string{original[0]},
			Converged:         true,
		}, nil
	}

	embedder, err := s.embedders.Embedder(choice)
	if err != nil {
		if errors.Is(err, embedding.ErrUnsupportedEmbedding) {
			return nil, &ValidationError{Field: "embedding", Err: err}
		}
		return nil, err
	}

	matrix, err := embedder.Embed(ctx, processed)
	if err != nil {
		return nil, fmt.Errorf("embed sentences: %w", err)
	}
	if matrix.Rows() != len(original) {
		return nil, fmt.Errorf("embedder returned %d rows for %d sentences", matrix.Rows(), len(original))
	}

	sim := graph.BuildSimilarity(matrix, s.opts.Threshold)
	ranking := graph.LexRank(sim, s.opts.Iteration)
	if !ranking.Converged {
		s.logger.Info(reqID, "LexRank did not converge after %d iterations", ranking.Iterations)
	}

	selected := SelectTop(ranking.Scores, TopN(rate, len(original)))
	selectedSentences := make([]string, len(selected))
	for k, i := range selected {
		selectedSentences[k] = original[i]
	}

	scores := make([]float64, len(ranking.Scores))
	for i, score := range ranking.Scores {
		scores[i] = utils.RoundDecimals(score, scoreDecimals)
	}

	s.logger.Debug(reqID, "Selected %d of %d sentences with %s: %v", len(selected), len(original), choice, selected)

	return &Result{
		Summary:           strings.Join(selectedSentences, " "),
		Sentences:         original,
		Scores:            scores,
		SelectedIndices:   selected,
		SelectedSentences: selectedSentences,
		Iterations:        ranking.Iterations,
		Converged:         ranking.Converged,
	}, nil
}

func (s *Summarizer) validate(req Request) (float64, embedding.Choice, error) {
	rate := req.CompressionRate
	if rate == 0 {
		rate = s.opts.DefaultCompressionRate
	}
	if math.IsNaN(rate) || rate < MinCompressionRate || rate > MaxCompressionRate {
		return 0, "", &ValidationError{Field: "compression_rate", Err: ErrInvalidCompressionRate}
	}

	choice := s.opts.DefaultEmbedding
	if req.Embedding != "" {
		parsed, err := embedding.ParseChoice(req.Embedding)
		if err != nil {
			return 0, "", &ValidationError{Field: "embedding", Err: err}
		}
		choice = parsed
	}

	return rate, choice, nil
}
