package nbapomp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWinProbabilityOpenInterval(t *testing.T) {
	p := Params{HomeAdvantage: 0.2}
	rec := GameRecord{Attendance: 18000}

	for _, variant := range []Variant{VariantCovariateOpponent, VariantStateOpponent, VariantAttendance} {
		k := newKernel(neutralConfig(variant))
		for team := 800.0; team <= 2200; team += 200 {
			for opp := 800.0; opp <= 2200; opp += 200 {
				for _, home := range []bool{true, false} {
					rec.Home = home
					s := LatentState{TeamStrength: team, OppStrength: opp}
					prob := k.winProbability(s, rec, p)
					assert.Greater(t, prob, 0.0)
					assert.Less(t, prob, 1.0)
				}
			}
		}
	}
}

func TestWinProbabilityBradleyTerry(t *testing.T) {
	k := newKernel(neutralConfig(VariantCovariateOpponent))
	s := LatentState{TeamStrength: 1640, OppStrength: 1480}
	rec := GameRecord{Home: false}

	// Away game with no home bonus reduces to plain Bradley-Terry on the
	// score-space strengths.
	et := math.Exp(s.TeamStrength / 400)
	eo := math.Exp(s.OppStrength / 400)
	want := et / (et + eo)

	assert.InDelta(t, want, k.winProbability(s, rec, Params{}), 1e-12)
}

func TestHomeAdvantageAppliesToHostingSide(t *testing.T) {
	k := newKernel(neutralConfig(VariantCovariateOpponent))
	s := LatentState{TeamStrength: 1500, OppStrength: 1500}
	p := Params{HomeAdvantage: 0.3}

	home := k.winProbability(s, GameRecord{Home: true}, p)
	away := k.winProbability(s, GameRecord{Home: false}, p)

	assert.Greater(t, home, 0.5)
	assert.Less(t, away, 0.5)
	// The bonus is symmetric between the two venues.
	assert.InDelta(t, 1.0, home+away, 1e-12)
}

func TestAttendanceUnitReduction(t *testing.T) {
	plain := newKernel(neutralConfig(VariantCovariateOpponent))
	attended := newKernel(neutralConfig(VariantAttendance))

	s := LatentState{TeamStrength: 1570, OppStrength: 1440}
	p := Params{HomeAdvantage: 0.15}

	for _, home := range []bool{true, false} {
		rec := GameRecord{Home: home, Attendance: 1}
		assert.InDelta(t, plain.winProbability(s, rec, p), attended.winProbability(s, rec, p), 1e-12)
	}
}

func TestAttendanceBonusScalesWithCrowd(t *testing.T) {
	k := newKernel(neutralConfig(VariantAttendance))
	s := LatentState{TeamStrength: 1500, OppStrength: 1500}
	p := Params{HomeAdvantage: 0.1}

	quiet := k.winProbability(s, GameRecord{Home: true, Attendance: math.E}, p)
	loud := k.winProbability(s, GameRecord{Home: true, Attendance: math.E * math.E}, p)
	assert.Greater(t, loud, quiet)

	// On the road the crowd boosts the opponent instead, symmetrically.
	road := k.winProbability(s, GameRecord{Home: false, Attendance: math.E * math.E}, p)
	assert.InDelta(t, 1-loud, road, 1e-12)
	assert.Less(t, road, 0.5)
}

func TestLogLikelihoodMatchesProbability(t *testing.T) {
	k := newKernel(neutralConfig(VariantCovariateOpponent))
	s := LatentState{TeamStrength: 1610, OppStrength: 1530}
	p := Params{HomeAdvantage: 0.2}

	for _, home := range []bool{true, false} {
		prob := k.winProbability(s, GameRecord{Home: home}, p)

		win := k.logLikelihood(s, GameRecord{Home: home, Win: 1}, p)
		loss := k.logLikelihood(s, GameRecord{Home: home, Win: 0}, p)

		assert.InDelta(t, math.Log(prob), win, 1e-12)
		assert.InDelta(t, math.Log(1-prob), loss, 1e-12)
	}
}
