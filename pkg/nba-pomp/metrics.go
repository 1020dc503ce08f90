package nbapomp

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ClassificationMetrics compares majority-vote simulated outcomes against
// the real observed trajectory.
type ClassificationMetrics struct {
	Accuracy          float64 `json:"accuracy"`
	FalsePositiveRate float64 `json:"false_positive_rate"`
	FalseNegativeRate float64 `json:"false_negative_rate"`
	TruePositives     int     `json:"true_positives"`
	TrueNegatives     int     `json:"true_negatives"`
	FalsePositives    int     `json:"false_positives"`
	FalseNegatives    int     `json:"false_negatives"`
}

// TrajectoryBands summarizes the replicate ensemble per time step:
// mean team strength with 10/50/90 percent quantile bands.
type TrajectoryBands struct {
	Mean   []float64 `json:"mean"`
	Lower  []float64 `json:"lower"`
	Median []float64 `json:"median"`
	Upper  []float64 `json:"upper"`
}

// classifyTrajectories predicts a win at step t when the majority of
// replicate draws produced one, then scores the predictions against the
// observed outcomes.
func classifyTrajectories(trajectories []Trajectory, observed []int) ClassificationMetrics {
	predicted := make([]int, len(observed))
	for t := range observed {
		wins := 0
		for _, traj := range trajectories {
			wins += traj.Outcomes[t]
		}
		if 2*wins >= len(trajectories) {
			predicted[t] = 1
		}
	}
	return Classify(predicted, observed)
}

// Classify computes accuracy and error rates for binary predictions
func Classify(predicted, observed []int) ClassificationMetrics {
	var m ClassificationMetrics
	for t := range observed {
		switch {
		case predicted[t] == 1 && observed[t] == 1:
			m.TruePositives++
		case predicted[t] == 0 && observed[t] == 0:
			m.TrueNegatives++
		case predicted[t] == 1 && observed[t] == 0:
			m.FalsePositives++
		default:
			m.FalseNegatives++
		}
	}

	total := len(observed)
	if total > 0 {
		m.Accuracy = float64(m.TruePositives+m.TrueNegatives) / float64(total)
	}
	if negatives := m.FalsePositives + m.TrueNegatives; negatives > 0 {
		m.FalsePositiveRate = float64(m.FalsePositives) / float64(negatives)
	}
	if positives := m.FalseNegatives + m.TruePositives; positives > 0 {
		m.FalseNegativeRate = float64(m.FalseNegatives) / float64(positives)
	}
	return m
}

// trajectoryBands builds a steps x replicates strength matrix and reduces
// each row to its mean and quantiles.
func trajectoryBands(trajectories []Trajectory) *TrajectoryBands {
	if len(trajectories) == 0 || len(trajectories[0].TeamStrength) == 0 {
		return nil
	}

	steps := len(trajectories[0].TeamStrength)
	reps := len(trajectories)

	strengths := mat.NewDense(steps, reps, nil)
	for r, traj := range trajectories {
		for t, v := range traj.TeamStrength {
			strengths.Set(t, r, v)
		}
	}

	bands := &TrajectoryBands{
		Mean:   make([]float64, steps),
		Lower:  make([]float64, steps),
		Median: make([]float64, steps),
		Upper:  make([]float64, steps),
	}

	row := make([]float64, reps)
	for t := 0; t < steps; t++ {
		mat.Row(row, t, strengths)
		bands.Mean[t] = stat.Mean(row, nil)

		sort.Float64s(row)
		bands.Lower[t] = stat.Quantile(0.1, stat.Empirical, row, nil)
		bands.Median[t] = stat.Quantile(0.5, stat.Empirical, row, nil)
		bands.Upper[t] = stat.Quantile(0.9, stat.Empirical, row, nil)
	}
	return bands
}
