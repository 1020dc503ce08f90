package nbapomp

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// RunEstimation is the main entry point: it validates the observation
// series, runs the global parameter search, and produces the diagnostic
// simulation for the best-fit vector.
func RunEstimation(ctx context.Context, request EstimationRequest, log *logrus.Logger) (*EstimationResult, error) {
	startTime := time.Now()

	cfg := request.Config
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := ValidateSeries(request.Series, cfg.Variant); err != nil {
		return nil, fmt.Errorf("invalid series: %w", err)
	}

	search, err := RunGlobalSearch(ctx, request.Series, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("parameter search failed: %w", err)
	}

	// Final diagnostic run on its own stream, downstream of estimation.
	simSeed := cfg.Seed + int64(cfg.Restarts+1)*seedStride
	simulation := Simulate(request.Series, search.Best.Params, cfg, simSeed)

	if log != nil {
		log.WithFields(logrus.Fields{
			"games":    len(request.Series.Records),
			"accuracy": simulation.Metrics.Accuracy,
			"log_lik":  search.Best.LogLik,
			"elapsed":  time.Since(startTime),
		}).Info("estimation complete")
	}

	return &EstimationResult{
		Search:         *search,
		Simulation:     simulation,
		ProcessingTime: time.Since(startTime),
		GamesProcessed: len(request.Series.Records),
	}, nil
}
