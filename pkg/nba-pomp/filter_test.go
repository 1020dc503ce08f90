package nbapomp

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestParticleFilterExactLikelihood(t *testing.T) {
	// With no drift, no noise and no home bonus every game is a coin
	// flip, so the marginal likelihood is exact.
	cfg := neutralConfig(VariantCovariateOpponent)
	series := testSeries(10)
	for i := range series.Records {
		series.Records[i].OppRating = 1500
	}

	result, err := RunParticleFilter(series, neutralParams(), cfg, 1, FilterOptions{})
	require.NoError(t, err)

	assert.InDelta(t, 10*math.Log(0.5), result.LogLik, 1e-9)
	require.Len(t, result.StepLogLik, 10)
	for _, step := range result.StepLogLik {
		assert.InDelta(t, math.Log(0.5), step, 1e-9)
	}
	assert.Nil(t, result.Trajectory)
}

func TestParticleFilterSeedReproducible(t *testing.T) {
	cfg := testConfig(VariantCovariateOpponent)
	p := Params{Beta1: 0.1, Sigma: 8, Alpha: 0.02, HomeAdvantage: 0.1}
	series := testSeries(12)

	first, err := RunParticleFilter(series, p, cfg, 99, FilterOptions{})
	require.NoError(t, err)
	second, err := RunParticleFilter(series, p, cfg, 99, FilterOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.LogLik, second.LogLik)
	assert.Equal(t, first.StepLogLik, second.StepLogLik)
}

func TestParticleFilterTimeOrderMatters(t *testing.T) {
	// Deterministic dynamics with varying form covariates: reversing the
	// game order changes the strength path and hence the likelihood.
	cfg := neutralConfig(VariantCovariateOpponent)
	p := Params{Beta1: 0.5, Alpha: 0.1, HomeAdvantage: 0.1}

	forward := testSeries(7)
	reversed := ObservationSeries{Team: forward.Team, Season: forward.Season}
	for i := len(forward.Records) - 1; i >= 0; i-- {
		rec := forward.Records[i]
		rec.TimeIndex = len(forward.Records) - i
		reversed.Records = append(reversed.Records, rec)
	}

	fwd, err := RunParticleFilter(forward, p, cfg, 1, FilterOptions{})
	require.NoError(t, err)
	rev, err := RunParticleFilter(reversed, p, cfg, 1, FilterOptions{})
	require.NoError(t, err)

	assert.Greater(t, math.Abs(fwd.LogLik-rev.LogLik), 1e-9)
}

func TestParticleFilterDegenerate(t *testing.T) {
	cfg := testConfig(VariantCovariateOpponent)
	series := testSeries(5)
	series.Records[2].OppRating = math.NaN()

	result, err := RunParticleFilter(series, neutralParams(), cfg, 1, FilterOptions{})
	require.Error(t, err)
	assert.Nil(t, result)

	var degenerate *DegenerateFilterError
	require.True(t, errors.As(err, &degenerate))
	assert.Equal(t, 3, degenerate.Step)
}

func TestParticleFilterTrajectoryShape(t *testing.T) {
	cfg := testConfig(VariantCovariateOpponent)
	series := testSeries(8)

	result, err := RunParticleFilter(series, Params{Sigma: 5}, cfg, 1, FilterOptions{RecordTrajectory: true})
	require.NoError(t, err)
	require.NotNil(t, result.Trajectory)

	rows, cols := result.Trajectory.Dims()
	assert.Equal(t, 8, rows)
	assert.Equal(t, cfg.Particles, cols)
}

func TestNormalizeWeights(t *testing.T) {
	tests := []struct {
		name string
		logw []float64
		ok   bool
	}{
		{"uniform", []float64{-1, -1, -1, -1}, true},
		{"spread", []float64{-700, -1, -2}, true},
		{"all collapsed", []float64{math.Inf(-1), math.Inf(-1)}, false},
		{"nan weight", []float64{math.NaN(), math.NaN()}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weights := make([]float64, len(tt.logw))
			ok := normalizeWeights(tt.logw, weights)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}

			sum := 0.0
			for _, w := range weights {
				assert.GreaterOrEqual(t, w, 0.0)
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-12)
		})
	}
}

func TestResampleSystematicUniformWeights(t *testing.T) {
	// Under uniform weights systematic resampling is a permutation-free
	// copy: every particle survives exactly once.
	n := 8
	src := make([]LatentState, n)
	dst := make([]LatentState, n)
	weights := make([]float64, n)
	for i := range src {
		src[i] = LatentState{TeamStrength: float64(1500 + i)}
		weights[i] = 1.0 / float64(n)
	}

	rng := rand.New(rand.NewSource(5))
	resampleSystematic(src, dst, weights, rng)
	assert.Equal(t, src, dst)
}
