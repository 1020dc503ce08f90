package nbapomp

import (
	"golang.org/x/exp/rand"
)

// Trajectory is one full simulated draw of latent states and outcomes
type Trajectory struct {
	TeamStrength []float64 `json:"team_strength"`
	OppStrength  []float64 `json:"opp_strength,omitempty"`
	WinProb      []float64 `json:"win_prob"`
	Outcomes     []int     `json:"outcomes"`
}

// SimulationResult holds replicate trajectory draws plus the observed
// outcomes for overlay comparison. Diagnostic only; it never feeds back
// into parameter estimation.
type SimulationResult struct {
	Trajectories []Trajectory          `json:"trajectories"`
	Observed     []int                 `json:"observed"`
	Bands        *TrajectoryBands      `json:"bands,omitempty"`
	Metrics      ClassificationMetrics `json:"metrics"`
}

// Simulate draws replicate full-trajectory realizations from the process
// and observation models for a fixed parameter vector. The attendance
// variant simulates with the attendance-aware observation model, same as
// the filter scores with.
func Simulate(series ObservationSeries, p Params, cfg *EngineConfig, seed int64) *SimulationResult {
	k := newKernel(cfg)
	reps := cfg.SimReplicates
	if reps <= 0 {
		reps = 1
	}

	steps := len(series.Records)
	result := &SimulationResult{
		Trajectories: make([]Trajectory, reps),
		Observed:     make([]int, steps),
	}
	for t, rec := range series.Records {
		result.Observed[t] = rec.Win
	}

	for r := 0; r < reps; r++ {
		rng := rand.New(rand.NewSource(uint64(seed + int64(r)*seedStride)))

		traj := Trajectory{
			TeamStrength: make([]float64, steps),
			WinProb:      make([]float64, steps),
			Outcomes:     make([]int, steps),
		}
		if cfg.Variant.usesLatentOpponent() {
			traj.OppStrength = make([]float64, steps)
		}

		state := k.initialState()
		for t, rec := range series.Records {
			state = k.step(state, rec, p, rng)

			traj.TeamStrength[t] = state.TeamStrength
			if traj.OppStrength != nil {
				traj.OppStrength[t] = state.OppStrength
			}
			traj.WinProb[t] = k.winProbability(state, rec, p)
			traj.Outcomes[t] = k.drawOutcome(state, rec, p, rng)
		}

		result.Trajectories[r] = traj
	}

	result.Bands = trajectoryBands(result.Trajectories)
	result.Metrics = classifyTrajectories(result.Trajectories, result.Observed)
	return result
}
