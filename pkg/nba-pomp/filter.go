package nbapomp

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
)

// DegenerateFilterError reports total particle-weight collapse at one
// time step: the observed outcome was wildly inconsistent with every
// particle's predicted probability. The optimization layer treats this
// as a rejected candidate, not a fatal error.
type DegenerateFilterError struct {
	Step int
}

func (e *DegenerateFilterError) Error() string {
	return fmt.Sprintf("particle filter degenerated: all weights collapsed at step %d", e.Step)
}

// FilterOptions toggles optional filter outputs
type FilterOptions struct {
	RecordTrajectory bool // keep per-step resampled team strengths for inspection
}

// FilterResult is one particle-filter pass: an unbiased Monte Carlo
// estimate of the series log-likelihood plus optional diagnostics.
type FilterResult struct {
	LogLik     float64    `json:"log_lik"`
	StepLogLik []float64  `json:"step_log_lik,omitempty"`
	Trajectory *mat.Dense `json:"-"` // steps x particles team strengths, nil unless requested
}

// RunParticleFilter runs a bootstrap particle filter over the series for
// a fixed parameter vector. Time steps are processed strictly in order;
// the per-step log(mean(weights)) is accumulated before resampling, which
// is what keeps the estimator unbiased for the marginal likelihood.
func RunParticleFilter(series ObservationSeries, p Params, cfg *EngineConfig, seed int64, opts FilterOptions) (*FilterResult, error) {
	k := newKernel(cfg)
	rng := rand.New(rand.NewSource(uint64(seed)))

	n := cfg.Particles
	particles := make([]LatentState, n)
	resampled := make([]LatentState, n)
	for i := range particles {
		particles[i] = k.initialState()
	}

	logw := make([]float64, n)
	weights := make([]float64, n)

	var traj *mat.Dense
	if opts.RecordTrajectory {
		traj = mat.NewDense(len(series.Records), n, nil)
	}

	total := 0.0
	stepLL := make([]float64, 0, len(series.Records))

	for t, rec := range series.Records {
		// Prediction step: propagate every particle through the process model.
		for i := range particles {
			particles[i] = k.step(particles[i], rec, p, rng)
			logw[i] = k.logLikelihood(particles[i], rec, p)
		}

		// Weighting step, accumulated before resampling.
		step := logMeanExp(logw)
		if math.IsInf(step, -1) || math.IsNaN(step) {
			return nil, &DegenerateFilterError{Step: rec.TimeIndex}
		}
		total += step
		stepLL = append(stepLL, step)

		if !normalizeWeights(logw, weights) {
			return nil, &DegenerateFilterError{Step: rec.TimeIndex}
		}

		// Resampling step: replace the ensemble wholesale.
		resampleSystematic(particles, resampled, weights, rng)
		particles, resampled = resampled, particles

		if traj != nil {
			for i := range particles {
				traj.Set(t, i, particles[i].TeamStrength)
			}
		}
	}

	return &FilterResult{LogLik: total, StepLogLik: stepLL, Trajectory: traj}, nil
}

// normalizeWeights converts log weights into normalized weights after
// max-subtraction. Returns false when every weight underflows to zero.
func normalizeWeights(logw, weights []float64) bool {
	m := math.Inf(-1)
	for _, lw := range logw {
		if lw > m {
			m = lw
		}
	}
	if math.IsInf(m, -1) || math.IsNaN(m) {
		return false
	}

	sum := 0.0
	for i, lw := range logw {
		weights[i] = math.Exp(lw - m)
		sum += weights[i]
	}
	if sum <= 0 || math.IsNaN(sum) {
		return false
	}

	for i := range weights {
		weights[i] /= sum
	}
	return true
}

// resampleSystematic draws len(src) particles with replacement, with
// probability proportional to weight, using a single stratified uniform.
// This is what keeps the filter stable over a full season of steps
// instead of collapsing onto one dominant particle.
func resampleSystematic(src, dst []LatentState, weights []float64, rng *rand.Rand) {
	n := len(src)
	u := rng.Float64() / float64(n)

	j := 0
	cum := weights[0]
	for i := 0; i < n; i++ {
		target := u + float64(i)/float64(n)
		for target > cum && j < n-1 {
			j++
			cum += weights[j]
		}
		dst[i] = src[j]
	}
}
