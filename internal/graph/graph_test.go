package graph

import (
	"math"
	"testing"

	"github.com/wgomg/rezumat/internal/embedding"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 1}, []float64{-1, -1}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", []float64{}, []float64{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CosineSimilarity(tt.a, tt.b); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuildSimilarity(t *testing.T) {
	m := embedding.Matrix{
		{1, 0, 0},
		{1, 1, 0},
		{0, 0, 1},
		{0.05, 0, 1},
	}

	sim := BuildSimilarity(m, 0.1)
	if sim.Size() != 4 {
		t.Fatalf("size = %d", sim.Size())
	}

	for i := range sim {
		if sim[i][i] != 0 {
			t.Errorf("diagonal [%d] = %v", i, sim[i][i])
		}
		for j := range sim {
			if sim[i][j] != sim[j][i] {
				t.Errorf("not symmetric at %d,%d", i, j)
			}
			if v := sim[i][j]; v != 0 && v <= 0.1 {
				t.Errorf("value %v at %d,%d not above threshold", v, i, j)
			}
		}
	}

	if want := 1 / math.Sqrt2; math.Abs(sim[0][1]-want) > 1e-12 {
		t.Errorf("sim[0][1] = %v, want %v", sim[0][1], want)
	}
	if sim[0][2] != 0 {
		t.Errorf("orthogonal rows should be 0, got %v", sim[0][2])
	}
	// cos ≈ 0.035, dropped by the threshold
	if sim[1][3] != 0 {
		t.Errorf("sim[1][3] = %v, want 0", sim[1][3])
	}
	if sim[2][3] <= 0.99 {
		t.Errorf("sim[2][3] = %v", sim[2][3])
	}
}

func TestBuildSimilarityWithZeroRows(t *testing.T) {
	sim := BuildSimilarity(embedding.Matrix{{}, {}, {}}, 0.1)
	for i := range sim {
		for j := range sim[i] {
			if sim[i][j] != 0 {
				t.Fatalf("expected all-zero matrix, got %v", sim)
			}
		}
	}
}

func sum(v []float64) float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total
}

func TestLexRankConnectedGraphSumsToOne(t *testing.T) {
	sim := SimilarityMatrix{
		{0, 0.5, 0.2, 0},
		{0.5, 0, 0.8, 0.3},
		{0.2, 0.8, 0, 0.4},
		{0, 0.3, 0.4, 0},
	}

	ranking := LexRank(sim, DefaultPowerIteration())
	if !ranking.Converged {
		t.Fatalf("expected convergence, ran %d iterations", ranking.Iterations)
	}
	if got := sum(ranking.Scores); math.Abs(got-1) > 1e-6 {
		t.Errorf("scores sum = %v, want 1", got)
	}
	for i, s := range ranking.Scores {
		if s <= 0 {
			t.Errorf("score[%d] = %v, want positive", i, s)
		}
	}
	// node 1 has the strongest connections
	for i, s := range ranking.Scores {
		if i != 1 && s >= ranking.Scores[1] {
			t.Errorf("score[%d] = %v not below central node %v", i, s, ranking.Scores[1])
		}
	}
}

func TestLexRankSymmetricNodesScoreEqually(t *testing.T) {
	sim := SimilarityMatrix{
		{0, 0.6, 0.6},
		{0.6, 0, 0.6},
		{0.6, 0.6, 0},
	}

	ranking := LexRank(sim, DefaultPowerIteration())
	for i, s := range ranking.Scores {
		if math.Abs(s-1.0/3.0) > 1e-9 {
			t.Errorf("score[%d] = %v, want 1/3", i, s)
		}
	}
}

func TestLexRankAllZero(t *testing.T) {
	const n = 5
	sim := make(SimilarityMatrix, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	opts := DefaultPowerIteration()
	ranking := LexRank(sim, opts)

	want := opts.Damping / n
	for i, s := range ranking.Scores {
		if math.IsNaN(s) || math.Abs(s-want) > 1e-12 {
			t.Errorf("score[%d] = %v, want %v", i, s, want)
		}
	}
	if !ranking.Converged || ranking.Iterations != 2 {
		t.Errorf("converged=%v iterations=%d, want true/2", ranking.Converged, ranking.Iterations)
	}
}

func TestLexRankMaxIterations(t *testing.T) {
	sim := SimilarityMatrix{
		{0, 0.9, 0.1},
		{0.9, 0, 0.5},
		{0.1, 0.5, 0},
	}

	ranking := LexRank(sim, PowerIteration{Damping: 0.15, MaxIterations: 1, Epsilon: 1e-12})
	if ranking.Iterations != 1 || ranking.Converged {
		t.Errorf("iterations=%d converged=%v, want 1/false", ranking.Iterations, ranking.Converged)
	}
	if len(ranking.Scores) != 3 {
		t.Errorf("scores = %v", ranking.Scores)
	}

	ranking = LexRank(sim, PowerIteration{Damping: 0.15, MaxIterations: 0, Epsilon: 1e-4})
	for i, s := range ranking.Scores {
		if s != 1.0/3.0 {
			t.Errorf("zero iterations should return the uniform start, score[%d] = %v", i, s)
		}
	}
}

func TestLexRankEmpty(t *testing.T) {
	ranking := LexRank(SimilarityMatrix{}, DefaultPowerIteration())
	if len(ranking.Scores) != 0 {
		t.Errorf("scores = %v, want empty", ranking.Scores)
	}
}
