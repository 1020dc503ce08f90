package nbapomp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"

	"gonum.org/v1/gonum/stat"
)

// seedStride separates the random streams of parallel units; each
// restart and each of its replicate filter passes derives its own seed
// from the base seed, so the whole search is deterministic given one seed.
const seedStride = 1_000_003

// RunGlobalSearch launches Restarts randomized starting vectors through
// the iterated filter in parallel, then re-evaluates each fitted vector
// with Replicates independent filter passes combined by log-mean-exp.
// Selection is arg-max on the combined estimate, ties broken by lower
// standard error. Degenerate restarts are counted and skipped but never
// abort the batch; cancellation is observed between units only.
func RunGlobalSearch(ctx context.Context, series ObservationSeries, cfg *EngineConfig, log *logrus.Logger) (*SearchResult, error) {
	starts := drawStartingPoints(cfg)

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"restarts":  cfg.Restarts,
			"particles": cfg.Particles,
			"workers":   workers,
			"variant":   cfg.Variant,
		}).Info("starting global parameter search")
	}

	candidates := make([]CandidateResult, cfg.Restarts)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range starts {
		i := i
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			candidates[i] = runRestart(series, starts[i], cfg, cfg.Seed+int64(i+1)*seedStride, log)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("global search aborted: %w", err)
	}

	result := &SearchResult{Candidates: candidates}
	bestIdx := -1
	for i, c := range candidates {
		if c.Degenerate {
			result.Degenerate++
			continue
		}
		if bestIdx < 0 || betterCandidate(c, candidates[bestIdx]) {
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return nil, errors.New("global search failed: every restart degenerated")
	}
	result.Best = candidates[bestIdx]

	if log != nil {
		log.WithFields(logrus.Fields{
			"run_id":     result.Best.RunID,
			"log_lik":    result.Best.LogLik,
			"std_err":    result.Best.StdErr,
			"degenerate": result.Degenerate,
		}).Info("global parameter search complete")
	}

	return result, nil
}

// runRestart is one independent unit of the search: a pure function of
// (series, start, seed) sharing no mutable state with its siblings.
func runRestart(series ObservationSeries, start Params, cfg *EngineConfig, seed int64, log *logrus.Logger) CandidateResult {
	candidate := CandidateResult{
		RunID: uuid.NewString(),
		Start: start,
	}

	mif := RunIteratedFilter(series, start, cfg, seed)
	candidate.Params = mif.Params
	candidate.Trace = mif.Trace

	lls := make([]float64, 0, cfg.Replicates)
	for r := 0; r < cfg.Replicates; r++ {
		fr, err := RunParticleFilter(series, mif.Params, cfg, seed+int64(r+1), FilterOptions{})
		if err != nil {
			// Degenerate passes are dropped from the replicate pool.
			continue
		}
		lls = append(lls, fr.LogLik)
	}
	candidate.ReplicateLLs = lls

	if len(lls) == 0 {
		candidate.Degenerate = true
		candidate.LogLik = math.Inf(-1)
		if log != nil {
			log.WithField("run_id", candidate.RunID).Warn("restart degenerated on every replicate")
		}
		return candidate
	}

	candidate.LogLik = logMeanExp(lls)
	if len(lls) > 1 {
		candidate.StdErr = stat.StdDev(lls, nil) / math.Sqrt(float64(len(lls)))
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"run_id":     candidate.RunID,
			"log_lik":    candidate.LogLik,
			"std_err":    candidate.StdErr,
			"replicates": len(lls),
			"mif_passes": len(mif.Trace),
		}).Debug("restart complete")
	}

	return candidate
}

// betterCandidate implements arg-max by combined log-likelihood, with
// lower standard error breaking exact ties.
func betterCandidate(a, b CandidateResult) bool {
	if a.LogLik != b.LogLik {
		return a.LogLik > b.LogLik
	}
	return a.StdErr < b.StdErr
}

// drawStartingPoints samples Restarts parameter vectors uniformly from
// the bounds box, from their own deterministic stream.
func drawStartingPoints(cfg *EngineConfig) []Params {
	rng := rand.New(rand.NewSource(uint64(cfg.Seed)))
	lo, hi := cfg.Bounds.Lower, cfg.Bounds.Upper

	uniform := func(a, b float64) float64 {
		if b <= a {
			return a
		}
		return a + rng.Float64()*(b-a)
	}

	starts := make([]Params, cfg.Restarts)
	for i := range starts {
		starts[i] = Params{
			Beta1:         uniform(lo.Beta1, hi.Beta1),
			Beta2:         uniform(lo.Beta2, hi.Beta2),
			Sigma:         uniform(lo.Sigma, hi.Sigma),
			Alpha:         uniform(lo.Alpha, hi.Alpha),
			HomeAdvantage: uniform(lo.HomeAdvantage, hi.HomeAdvantage),
		}
		if !cfg.Variant.usesLatentOpponent() {
			starts[i].Beta2 = 0
		}
	}
	return starts
}
