package nbapomp

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// LatentState is one realization of the latent state vector. It is never
// observed directly; the filter infers it through the particle ensemble.
type LatentState struct {
	TeamStrength float64 `json:"team_strength"`
	OppStrength  float64 `json:"opp_strength"`
	WinProb      float64 `json:"win_prob"` // ELO expected score from the last transition, diagnostic only
}

// kernel bundles the process and observation models for one variant.
// The variant tag swaps strategy without duplicating the pipeline.
type kernel struct {
	variant Variant
	base    float64 // mean-reversion target
	k       float64 // ELO correction factor
	scale   float64 // score-space divisor
}

func newKernel(cfg *EngineConfig) kernel {
	return kernel{
		variant: cfg.Variant,
		base:    cfg.BaselineRating,
		k:       cfg.EloK,
		scale:   cfg.RatingScale,
	}
}

func (k kernel) initialState() LatentState {
	return LatentState{TeamStrength: k.base, OppStrength: k.base}
}

// revert is the deterministic part of the pre-adjustment: covariate
// drift pulled back toward the baseline. The pull is what stops the
// asymmetric ELO correction below from driving the team and opponent
// scales apart without bound.
func (k kernel) revert(strength, covariate, beta float64, p Params) float64 {
	return strength + beta*covariate - p.Alpha*(strength-k.base)
}

// step advances the latent state by one game. The pre-adjustment is a
// mean-reverting covariate-driven random walk; the post-adjustment folds
// a standard ELO correction around a simulated win draw, so the state
// behaves like a noisy ELO trajectory rather than a free random walk.
func (k kernel) step(s LatentState, rec GameRecord, p Params, rng *rand.Rand) LatentState {
	noise := distuv.Normal{Mu: 0, Sigma: p.Sigma, Src: rng}

	team := k.revert(s.TeamStrength, rec.OwnForm, p.Beta1, p)
	if p.Sigma > 0 {
		team += noise.Rand()
	}

	var opp float64
	if k.variant.usesLatentOpponent() {
		opp = k.revert(s.OppStrength, rec.OppForm, p.Beta2, p)
		if p.Sigma > 0 {
			opp += noise.Rand()
		}
	} else {
		// Opponent strength is exogenous in the covariate variants.
		opp = rec.OppRating
	}

	e := eloExpectedScore(team, opp)

	// Two-state micro machine: branch on the simulated win, nothing persists.
	win := distuv.Bernoulli{P: e, Src: rng}.Rand() > 0.5
	if win {
		team += k.k * (1 - e)
	} else {
		team -= k.k * (1 - e)
	}

	return LatentState{TeamStrength: team, OppStrength: opp, WinProb: e}
}
