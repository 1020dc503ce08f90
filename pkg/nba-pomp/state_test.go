package nbapomp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestRevertMeanReversion(t *testing.T) {
	k := newKernel(DefaultEngineConfig())
	p := Params{Alpha: 0.05}

	tests := []struct {
		name  string
		start float64
	}{
		{"above baseline", 1700},
		{"below baseline", 1300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := tt.start
			for i := 0; i < 200; i++ {
				next := k.revert(x, 0, 0, p)
				assert.Less(t, math.Abs(next-1500), math.Abs(x-1500),
					"each application must move strictly toward the baseline")
				if tt.start > 1500 {
					assert.Greater(t, next, 1500.0)
				} else {
					assert.Less(t, next, 1500.0)
				}
				x = next
			}
			assert.InDelta(t, 1500, x, 1)
		})
	}
}

func TestStepNeutralParamsPinState(t *testing.T) {
	cfg := neutralConfig(VariantCovariateOpponent)
	k := newKernel(cfg)
	rng := rand.New(rand.NewSource(1))

	rec := GameRecord{TimeIndex: 1, Home: true, OppRating: 1500, Win: 1}
	state := k.initialState()

	for i := 0; i < 10; i++ {
		state = k.step(state, rec, neutralParams(), rng)
		assert.Equal(t, 1500.0, state.TeamStrength)
		assert.Equal(t, 1500.0, state.OppStrength)
		assert.Equal(t, 0.5, state.WinProb)
	}
}

func TestStepExogenousOpponent(t *testing.T) {
	for _, variant := range []Variant{VariantCovariateOpponent, VariantAttendance} {
		t.Run(string(variant), func(t *testing.T) {
			cfg := neutralConfig(variant)
			k := newKernel(cfg)
			rng := rand.New(rand.NewSource(1))

			rec := GameRecord{OppRating: 1625, Attendance: 18000}
			state := k.step(k.initialState(), rec, neutralParams(), rng)
			assert.Equal(t, 1625.0, state.OppStrength)
		})
	}
}

func TestStepLatentOpponent(t *testing.T) {
	cfg := neutralConfig(VariantStateOpponent)
	k := newKernel(cfg)
	rng := rand.New(rand.NewSource(1))

	p := Params{Beta2: 0.5}
	rec := GameRecord{OppForm: 8, OppRating: 1900}

	state := k.step(k.initialState(), rec, p, rng)
	// Opponent strength evolves from its prior latent value, never from
	// the exogenous rating column.
	assert.Equal(t, 1504.0, state.OppStrength)
}

func TestStepEloCorrectionMagnitude(t *testing.T) {
	cfg := testConfig(VariantCovariateOpponent)
	k := newKernel(cfg)
	rng := rand.New(rand.NewSource(3))

	rec := GameRecord{OppRating: 1500}
	state := k.step(k.initialState(), rec, neutralParams(), rng)

	// Evenly matched sides: the correction is +-EloK*(1-0.5) = +-10.
	assert.InDelta(t, 10, math.Abs(state.TeamStrength-1500), 1e-12)
	assert.Equal(t, 0.5, state.WinProb)
}

func TestStepSeedReproducible(t *testing.T) {
	cfg := testConfig(VariantStateOpponent)
	k := newKernel(cfg)
	p := Params{Beta1: 0.1, Beta2: 0.05, Sigma: 8, Alpha: 0.02, HomeAdvantage: 0.1}
	series := testSeries(10)

	run := func(seed uint64) []LatentState {
		rng := rand.New(rand.NewSource(seed))
		state := k.initialState()
		states := make([]LatentState, 0, len(series.Records))
		for _, rec := range series.Records {
			state = k.step(state, rec, p, rng)
			states = append(states, state)
		}
		return states
	}

	first := run(42)
	second := run(42)
	require.Equal(t, first, second)
}
