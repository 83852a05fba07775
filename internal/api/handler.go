package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/wgomg/rezumat/internal/config"
	"github.com/wgomg/rezumat/internal/embedding"
	"github.com/wgomg/rezumat/internal/metrics"
	"github.com/wgomg/rezumat/internal/summarizer"
	"github.com/wgomg/rezumat/internal/utils"
	"github.com/wgomg/rezumat/internal/utils/httputils"
)

const maxBodyBytes = 4 << 20

type Handler struct {
	logger     *utils.Logger
	summarizer *summarizer.Summarizer
	metrics    *metrics.Metrics
	cfg        *config.Config
}

func NewHandler(
	logger *utils.Logger,
	summarizer *summarizer.Summarizer,
	metrics *metrics.Metrics,
	cfg *config.Config,
) *Handler {
	return &Handler{
		logger:     logger,
		summarizer: summarizer,
		metrics:    metrics,
		cfg:        cfg,
	}
}

func (h *Handler) HandleSummarize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := utils.RequestID(ctx)

	if _, err := httputils.LogRequestBody(r, h.logger, reqID, maxBodyBytes); err != nil {
		h.logger.Error(reqID, "Failed to read request body: %v", err)
		httputils.HandleError(w, err)
		return
	}

	var payload SummarizeRequest
	if err := httputils.DecodeJSON(r, &payload); err != nil {
		h.logger.Error(reqID, "JSON decode error: %v", err)
		httputils.HandleError(w, err)
		return
	}

	if err := h.validate(&payload); err != nil {
		h.logger.Info(reqID, "Rejected request: %v", err)
		httputils.HandleError(w, err)
		return
	}

	req := summarizer.Request{
		Text:      payload.Text,
		Embedding: payload.EmbeddingType,
	}
	if payload.CompressionRate != nil {
		req.CompressionRate = *payload.CompressionRate
	}

	choice := payload.EmbeddingType
	if choice == "" {
		choice = string(h.summarizer.DefaultEmbedding())
	}

	h.logger.Info(reqID, "Summarizing %d words with embedding=%s, compression_rate=%v",
		utils.CountWords(payload.Text), choice, req.CompressionRate)
	h.logger.Debug(reqID, "Text preview: %s", utils.Truncate(payload.Text, 200))

	start := time.Now()
	result, err := h.summarizer.Summarize(ctx, req)
	elapsed := time.Since(start)

	if h.metrics != nil {
		h.metrics.ObserveSummary(metricLabel(choice), elapsed, result, err)
	}

	if err != nil {
		h.logger.Error(reqID, "Summarization failed: %v", err)
		httputils.HandleError(w, summarizeError(err))
		return
	}

	h.logger.Info(reqID, "Selected %d of %d sentences in %v (iterations=%d, converged=%v)",
		len(result.SelectedIndices), len(result.Sentences), elapsed, result.Iterations, result.Converged)

	body, err := result.JSON()
	if err != nil {
		h.logger.Error(reqID, "Failed to encode result: %v", err)
		httputils.HandleError(w, err)
		return
	}

	if err := httputils.RawJSONResponse(w, http.StatusOK, body); err != nil {
		h.logger.Error(reqID, "Error sending response: %v", err)
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	choices := embedding.Choices()
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = string(c)
	}

	health := HealthResponse{
		Embeddings:       names,
		DefaultEmbedding: string(h.summarizer.DefaultEmbedding()),
	}
	if err := httputils.SuccessResponse(w, "Summarization service is running", health); err != nil {
		h.logger.Error(utils.RequestID(r.Context()), "Error sending response: %v", err)
	}
}

func (h *Handler) validate(payload *SummarizeRequest) error {
	if n := utf8.RuneCountInString(payload.Text); n < h.cfg.Summary.MinTextLength {
		return &httputils.HTTPError{
			Code:    http.StatusUnprocessableEntity,
			Message: fmt.Sprintf("text must be at least %d characters, got %d", h.cfg.Summary.MinTextLength, n),
		}
	}
	// an explicit zero would otherwise read as "use the default"
	if rate := payload.CompressionRate; rate != nil &&
		(*rate < summarizer.MinCompressionRate || *rate > summarizer.MaxCompressionRate) {
		return &httputils.HTTPError{
			Code:    http.StatusUnprocessableEntity,
			Message: summarizer.ErrInvalidCompressionRate.Error(),
		}
	}
	return nil
}

func summarizeError(err error) error {
	var verr *summarizer.ValidationError
	if errors.As(err, &verr) {
		return &httputils.HTTPError{Code: http.StatusUnprocessableEntity, Message: verr.Error()}
	}
	return &httputils.HTTPError{Code: http.StatusBadGateway, Message: "Embedding backend failed: " + err.Error()}
}

// metricLabel keeps the label set bounded to known embedding names.
func metricLabel(choice string) string {
	parsed, err := embedding.ParseChoice(choice)
	if err != nil {
		return "unknown"
	}
	return string(parsed)
}
