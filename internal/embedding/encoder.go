package embedding

import (
	"context"
	"fmt"
	"strings"
)

type textEmbedder struct {
	enc TextEncoder
}

// FromTextEncoder adapts a TextEncoder to Embedder. Each sentence's terms
// are joined with single spaces; sentences without terms are not sent to
// the model and get a zero row.
func FromTextEncoder(enc TextEncoder) Embedder {
	return &textEmbedder{enc: enc}
}

func (e *textEmbedder) Embed(ctx context.Context, sentences [][]string) (Matrix, error) {
	var texts []string
	var rows []int
	for i, terms := range sentences {
		if len(terms) == 0 {
			continue
		}
		texts = append(texts, strings.Join(terms, " "))
		rows = append(rows, i)
	}

	matrix := make(Matrix, len(sentences))
	if len(texts) == 0 {
		for i := range matrix {
			matrix[i] = []float64{}
		}
		return matrix, nil
	}

	vectors, err := e.enc.EncodeTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.enc.ModelName(), err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%s: got %d vectors for %d texts", e.enc.ModelName(), len(vectors), len(texts))
	}

	dim := len(vectors[0])
	for k, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("%s: vector %d has dimension %d, want %d", e.enc.ModelName(), k, len(vec), dim)
		}
		matrix[rows[k]] = vec
	}
	for i := range matrix {
		if matrix[i] == nil {
			matrix[i] = make([]float64, dim)
		}
	}
	return matrix, nil
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
