package nbapomp

import (
	"math"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// systematicScores converts the latent strengths into Bradley-Terry
// log-odds terms, applying the home-court bonus (plus log-attendance in
// the attendance variant) to whichever side hosts the game. The home/away
// branch is evaluated per record, never assumed.
func (k kernel) systematicScores(s LatentState, rec GameRecord, p Params) (team, opp float64) {
	team = s.TeamStrength / k.scale
	opp = s.OppStrength / k.scale

	bonus := p.HomeAdvantage
	if k.variant.usesAttendance() {
		bonus += math.Log(rec.Attendance)
	}

	if rec.Home {
		team += bonus
	} else {
		opp += bonus
	}
	return team, opp
}

// winProbability evaluates the logistic win probability, stabilized by
// subtracting the larger score before exponentiating.
func (k kernel) winProbability(s LatentState, rec GameRecord, p Params) float64 {
	team, opp := k.systematicScores(s, rec, p)
	m := math.Max(team, opp)
	et, eo := math.Exp(team-m), math.Exp(opp-m)
	return et / (et + eo)
}

// logLikelihood returns the Bernoulli log mass of the observed outcome
// under the observation model. Computed fully in log space so extreme
// score gaps stay finite.
func (k kernel) logLikelihood(s LatentState, rec GameRecord, p Params) float64 {
	team, opp := k.systematicScores(s, rec, p)
	denom := logAddExp(team, opp)
	if rec.Win == 1 {
		return team - denom
	}
	return opp - denom
}

// drawOutcome draws a Bernoulli outcome from the same win probability.
// Simulation path only; the filter never calls this.
func (k kernel) drawOutcome(s LatentState, rec GameRecord, p Params, rng *rand.Rand) int {
	b := distuv.Bernoulli{P: k.winProbability(s, rec, p), Src: rng}
	if b.Rand() > 0.5 {
		return 1
	}
	return 0
}
