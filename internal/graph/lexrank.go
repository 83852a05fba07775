package graph

import "math"

type PowerIteration struct {
	Damping       float64
	MaxIterations int
	Epsilon       float64
}

func DefaultPowerIteration() PowerIteration {
	return PowerIteration{Damping: 0.15, MaxIterations: 100, Epsilon: 1e-4}
}

// Ranking holds one centrality score per sentence. Converged is false when
// MaxIterations ran out before the L2 change dropped below Epsilon; the
// last vector is still returned.
type Ranking struct {
	Scores     []float64
	Iterations int
	Converged  bool
}

// LexRank runs s' = d/N + (1-d)·Tᵀs from the uniform vector, where T is
// sim row-normalized. Rows that sum to zero are left as zero rows, so their
// mass is not redistributed and the scores then sum to less than 1.
func LexRank(sim SimilarityMatrix, opts PowerIteration) Ranking {
	n := sim.Size()
	if n == 0 {
		return Ranking{Scores: []float64{}, Converged: true}
	}

	transition := rowNormalize(sim)

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	randomComponent := opts.Damping / float64(n)
	ranking := Ranking{}

	for range opts.MaxIterations {
		newScores := make([]float64, n)
		for i := range n {
			linkComponent := 0.0
			for j := range n {
				if weight := transition[j][i]; weight > 0 {
					linkComponent += weight * scores[j]
				}
			}
			newScores[i] = randomComponent + (1.0-opts.Damping)*linkComponent
		}

		change := l2Distance(newScores, scores)
		scores = newScores
		ranking.Iterations++

		if change < opts.Epsilon {
			ranking.Converged = true
			break
		}
	}

	ranking.Scores = scores
	return ranking
}

func rowNormalize(sim SimilarityMatrix) [][]float64 {
	n := sim.Size()
	transition := make([][]float64, n)
	for i := range n {
		sum := 0.0
		for _, w := range sim[i] {
			sum += w
		}
		if sum == 0 {
			sum = 1.0
		}

		row := make([]float64, n)
		for j, w := range sim[i] {
			row[j] = w / sum
		}
		transition[i] = row
	}
	return transition
}

func l2Distance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
