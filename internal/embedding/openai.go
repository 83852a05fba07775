package embedding

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/wgomg/rezumat/internal/config"
)

// OpenAIEncoder embeds texts with an OpenAI-compatible embeddings endpoint.
type OpenAIEncoder struct {
	client *openai.Client
	model  string
}

func NewOpenAIEncoder(cfg *config.OpenAIConfig) (*OpenAIEncoder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai embedding")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &OpenAIEncoder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

func (e *OpenAIEncoder) ModelName() string {
	return "openai/" + e.model
}

func (e *OpenAIEncoder) EncodeTexts(ctx context.Context, texts []string) ([][]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("openai returned embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = toFloat64(d.Embedding)
	}
	return vectors, nil
}
