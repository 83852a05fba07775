package embedding

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	ollama "github.com/ollama/ollama/api"

	"github.com/wgomg/rezumat/internal/config"
)

// OllamaEncoder embeds texts through a local or remote Ollama server.
type OllamaEncoder struct {
	client *ollama.Client
	model  string
}

func NewOllamaEncoder(cfg *config.OllamaConfig, timeout time.Duration) (*OllamaEncoder, error) {
	u, err := url.Parse(cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("parse OLLAMA_HOST: %w", err)
	}
	httpClient := &http.Client{Timeout: timeout}

	return &OllamaEncoder{
		client: ollama.NewClient(u, httpClient),
		model:  cfg.Model,
	}, nil
}

func (e *OllamaEncoder) ModelName() string {
	return "ollama/" + e.model
}

func (e *OllamaEncoder) EncodeTexts(ctx context.Context, texts []string) ([][]float64, error) {
	res, err := e.client.Embed(ctx, &ollama.EmbedRequest{
		Model: e.model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	if res == nil || len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("ollama returned an unexpected number of embeddings")
	}

	vectors := make([][]float64, len(res.Embeddings))
	for i, emb := range res.Embeddings {
		vectors[i] = toFloat64(emb)
	}
	return vectors, nil
}
