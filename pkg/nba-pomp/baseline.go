package nbapomp

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// BaselineFit is the logistic-regression home-win baseline the POMP
// models are compared against: P(home win) = sigmoid(b0 + b1*eloDiff).
// The intercept absorbs the average home-court effect.
type BaselineFit struct {
	Intercept  float64               `json:"intercept"`
	RatingCoef float64               `json:"rating_coef"`
	LogLik     float64               `json:"log_lik"`
	Converged  bool                  `json:"converged"`
	Metrics    ClassificationMetrics `json:"metrics"`
}

// FitLogisticBaseline fits the baseline by L-BFGS on the Bernoulli
// negative log-likelihood with analytic gradient, using pre-game ELO
// differences from the pure fold as the single rating feature.
func FitLogisticBaseline(games []ScheduleGame, opts SeriesOptions) (*BaselineFit, error) {
	if len(games) == 0 {
		return nil, fmt.Errorf("no games provided for baseline fit")
	}

	diffs := make([]float64, len(games))
	wins := make([]float64, len(games))

	table := EloTable{}
	for i, g := range games {
		home := table.Rating(g.HomeTeam, opts.BaseRating)
		away := table.Rating(g.AwayTeam, opts.BaseRating)
		diffs[i] = (home - away) / 400
		if g.HomeWin() {
			wins[i] = 1
		}
		table = FoldGame(table, g, opts.EloK, opts.BaseRating)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			nll := 0.0
			for i, d := range diffs {
				p := logistic(x[0] + x[1]*d)
				if wins[i] == 1 {
					nll -= math.Log(p)
				} else {
					nll -= math.Log(1 - p)
				}
			}
			return nll
		},
		Grad: func(grad, x []float64) {
			grad[0], grad[1] = 0, 0
			for i, d := range diffs {
				residual := logistic(x[0]+x[1]*d) - wins[i]
				grad[0] += residual
				grad[1] += residual * d
			}
		},
	}

	method := &optimize.LBFGS{}
	settings := optimize.Settings{
		FuncEvaluations:   1000,
		GradientThreshold: 1e-6,
	}

	result, err := optimize.Minimize(problem, []float64{0, 0}, &settings, method)
	if err != nil {
		return nil, fmt.Errorf("baseline optimization failed: %w", err)
	}

	fit := &BaselineFit{
		Intercept:  result.X[0],
		RatingCoef: result.X[1],
		LogLik:     -result.F,
		Converged:  result.Status == optimize.GradientThreshold,
	}

	predicted := make([]int, len(games))
	observed := make([]int, len(games))
	for i, d := range diffs {
		if logistic(fit.Intercept+fit.RatingCoef*d) > 0.5 {
			predicted[i] = 1
		}
		observed[i] = int(wins[i])
	}
	fit.Metrics = Classify(predicted, observed)

	return fit, nil
}
