package nbapomp

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// MifIteration is one point of the iterated-filtering trace
type MifIteration struct {
	Iteration int     `json:"iteration"`
	Params    Params  `json:"params"`
	LogLik    float64 `json:"log_lik"`
}

// MifResult is the output of one iterated-filtering run
type MifResult struct {
	Params     Params         `json:"params"`
	LogLik     float64        `json:"log_lik"` // last non-degenerate pass
	Trace      []MifIteration `json:"trace"`
	Degenerate int            `json:"degenerate"` // passes that collapsed
}

// mifParticle augments the latent state with a particle-local parameter
// vector, so resampling lets parameters drift with the states.
type mifParticle struct {
	state  LatentState
	params Params
}

// RunIteratedFilter drives the parameter vector toward a local likelihood
// maximum by repeated perturbed filtering passes. Each pass jitters every
// particle's parameters at every time step with Gaussian noise whose scale
// decays geometrically across passes; the next center is the ensemble mean
// of the surviving particle parameters. This is a stochastic hill-climb,
// not a gradient method: the likelihood trace is expected to be noisy and
// non-monotonic, and is returned in full for convergence diagnostics.
func RunIteratedFilter(series ObservationSeries, start Params, cfg *EngineConfig, seed int64) *MifResult {
	k := newKernel(cfg)
	rng := rand.New(rand.NewSource(uint64(seed)))
	unit := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	n := cfg.Particles
	particles := make([]mifParticle, n)
	resampled := make([]mifParticle, n)
	logw := make([]float64, n)
	weights := make([]float64, n)

	result := &MifResult{
		Params: clampParams(start, cfg),
		LogLik: math.Inf(-1),
		Trace:  make([]MifIteration, 0, cfg.MifIterations),
	}

	center := result.Params
	scale := perturbScale(cfg)

	for iter := 0; iter < cfg.MifIterations; iter++ {
		sd := scaleParams(scale, math.Pow(cfg.CoolingFraction, float64(iter)))

		for i := range particles {
			particles[i] = mifParticle{
				state:  k.initialState(),
				params: clampParams(perturbParams(center, sd, &unit), cfg),
			}
		}

		total := 0.0
		degenerate := false

		for _, rec := range series.Records {
			for i := range particles {
				particles[i].params = clampParams(perturbParams(particles[i].params, sd, &unit), cfg)
				particles[i].state = k.step(particles[i].state, rec, particles[i].params, rng)
				logw[i] = k.logLikelihood(particles[i].state, rec, particles[i].params)
			}

			step := logMeanExp(logw)
			if math.IsInf(step, -1) || math.IsNaN(step) || !normalizeWeights(logw, weights) {
				degenerate = true
				break
			}
			total += step

			resampleMif(particles, resampled, weights, rng)
			particles, resampled = resampled, particles
		}

		if degenerate {
			// Rejected pass: keep the previous center and carry on.
			result.Degenerate++
			result.Trace = append(result.Trace, MifIteration{Iteration: iter, Params: center, LogLik: math.Inf(-1)})
			continue
		}

		center = meanParams(particles)
		result.LogLik = total
		result.Trace = append(result.Trace, MifIteration{Iteration: iter, Params: center, LogLik: total})
	}

	result.Params = center
	return result
}

func resampleMif(src, dst []mifParticle, weights []float64, rng *rand.Rand) {
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

// perturbScale returns the configured random-walk scale, zeroing the
// fields the variant does not use so they never drift.
func perturbScale(cfg *EngineConfig) Params {
	scale := cfg.PerturbScale
	if !cfg.Variant.usesLatentOpponent() {
		scale.Beta2 = 0
	}
	return scale
}

func scaleParams(p Params, f float64) Params {
	return Params{
		Beta1:         p.Beta1 * f,
		Beta2:         p.Beta2 * f,
		Sigma:         p.Sigma * f,
		Alpha:         p.Alpha * f,
		HomeAdvantage: p.HomeAdvantage * f,
	}
}

func perturbParams(p, sd Params, unit *distuv.Normal) Params {
	return Params{
		Beta1:         p.Beta1 + sd.Beta1*unit.Rand(),
		Beta2:         p.Beta2 + sd.Beta2*unit.Rand(),
		Sigma:         p.Sigma + sd.Sigma*unit.Rand(),
		Alpha:         p.Alpha + sd.Alpha*unit.Rand(),
		HomeAdvantage: p.HomeAdvantage + sd.HomeAdvantage*unit.Rand(),
	}
}

// clampParams keeps a perturbed vector inside the search box and the
// noise scale non-negative.
func clampParams(p Params, cfg *EngineConfig) Params {
	lo, hi := cfg.Bounds.Lower, cfg.Bounds.Upper
	p.Beta1 = clamp(p.Beta1, lo.Beta1, hi.Beta1)
	p.Beta2 = clamp(p.Beta2, lo.Beta2, hi.Beta2)
	p.Sigma = math.Max(0, clamp(p.Sigma, lo.Sigma, hi.Sigma))
	p.Alpha = clamp(p.Alpha, lo.Alpha, hi.Alpha)
	p.HomeAdvantage = clamp(p.HomeAdvantage, lo.HomeAdvantage, hi.HomeAdvantage)
	return p
}

func clamp(x, lo, hi float64) float64 {
	if hi > lo {
		return math.Min(hi, math.Max(lo, x))
	}
	return x
}

func meanParams(particles []mifParticle) Params {
	var sum Params
	for _, pt := range particles {
		sum.Beta1 += pt.params.Beta1
		sum.Beta2 += pt.params.Beta2
		sum.Sigma += pt.params.Sigma
		sum.Alpha += pt.params.Alpha
		sum.HomeAdvantage += pt.params.HomeAdvantage
	}
	return scaleParams(sum, 1/float64(len(particles)))
}
