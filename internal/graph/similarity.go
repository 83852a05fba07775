// Package graph builds the sentence similarity graph and ranks its nodes
// with LexRank.
package graph

import (
	"math"

	"github.com/wgomg/rezumat/internal/embedding"
)

// SimilarityMatrix is square and symmetric with a zero diagonal. Entries are
// either 0 or strictly above the threshold it was built with.
type SimilarityMatrix [][]float64

func (s SimilarityMatrix) Size() int {
	return len(s)
}

// CosineSimilarity returns 0 when either vector has zero norm or the
// lengths differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func BuildSimilarity(m embedding.Matrix, threshold float64) SimilarityMatrix {
	n := m.Rows()
	sim := make(SimilarityMatrix, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	for i := range n {
		for j := i + 1; j < n; j++ {
			similarity := CosineSimilarity(m[i], m[j])

			if similarity > threshold {
				sim[i][j] = similarity
				sim[j][i] = similarity
			}
		}
	}

	return sim
}
