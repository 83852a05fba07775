package embedding

import (
	"context"
	"math"
	"slices"
)

// TFIDF weights each sentence as its own document: tf is count/len within
// the sentence, idf is ln(N / (1 + df)) across the sentences of one input.
// Columns follow the lexicographically sorted vocabulary. It keeps no state
// between calls.
type TFIDF struct{}

func NewTFIDF() *TFIDF {
	return &TFIDF{}
}

func (t *TFIDF) Embed(_ context.Context, sentences [][]string) (Matrix, error) {
	return t.Matrix(sentences), nil
}

func (t *TFIDF) Matrix(sentences [][]string) Matrix {
	idf := InverseDocumentFrequency(sentences)
	vocabulary := Vocabulary(idf)

	columns := make(map[string]int, len(vocabulary))
	for j, term := range vocabulary {
		columns[term] = j
	}

	matrix := make(Matrix, len(sentences))
	for i, sentence := range sentences {
		row := make([]float64, len(vocabulary))
		for term, tf := range TermFrequency(sentence) {
			row[columns[term]] = tf * idf[term]
		}
		matrix[i] = row
	}
	return matrix
}

// TermFrequency returns count/len for each term. An empty sentence has no
// terms.
func TermFrequency(sentence []string) map[string]float64 {
	counts := make(map[string]int, len(sentence))
	for _, term := range sentence {
		counts[term]++
	}

	tf := make(map[string]float64, len(counts))
	total := float64(len(sentence))
	for term, count := range counts {
		tf[term] = float64(count) / total
	}
	return tf
}

func InverseDocumentFrequency(sentences [][]string) map[string]float64 {
	df := make(map[string]int)
	for _, sentence := range sentences {
		seen := make(map[string]bool, len(sentence))
		for _, term := range sentence {
			if !seen[term] {
				df[term]++
				seen[term] = true
			}
		}
	}

	n := float64(len(sentences))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(n / float64(1+count))
	}
	return idf
}

func Vocabulary(idf map[string]float64) []string {
	terms := make([]string, 0, len(idf))
	for term := range idf {
		terms = append(terms, term)
	}
	slices.Sort(terms)
	return terms
}
