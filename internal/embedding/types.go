// Package embedding maps sentence term lists to vectors. TFIDF is built in;
// model-backed encoders are external collaborators adapted to the same
// Embedder contract.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Matrix has one row per sentence. All rows share one dimensionality.
type Matrix [][]float64

func (m Matrix) Rows() int {
	return len(m)
}

func (m Matrix) Dim() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Embedder returns a Matrix with exactly one row per input sentence.
type Embedder interface {
	Embed(ctx context.Context, sentences [][]string) (Matrix, error)
}

// TextEncoder embeds whole texts with an external model.
type TextEncoder interface {
	EncodeTexts(ctx context.Context, texts []string) ([][]float64, error)
	ModelName() string
}

type Choice string

const (
	TFIDFChoice   Choice = "tfidf"
	BERTChoice    Choice = "bert"
	RoBERTaChoice Choice = "roberta"
	OllamaChoice  Choice = "ollama"
	OpenAIChoice  Choice = "openai"
)

var (
	ErrUnsupportedEmbedding = errors.New("unsupported embedding")
	ErrEncoderClosed        = errors.New("encoder closed")
)

func Choices() []Choice {
	return []Choice{TFIDFChoice, BERTChoice, RoBERTaChoice, OllamaChoice, OpenAIChoice}
}

func ParseChoice(s string) (Choice, error) {
	c := Choice(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Choices() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedEmbedding, s)
}
