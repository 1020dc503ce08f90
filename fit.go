package main

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	nbapomp "github.com/jhw/go-nba-pomp/pkg/nba-pomp"
)

func fitCmd() *cobra.Command {
	var (
		scheduleFile string
		seriesFile   string
		team         string
		season       string
		outFile      string
	)

	cmd := &cobra.Command{
		Use:   "fit",
		Short: "Fit the POMP-ELO model to one team's season",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd.Flag("config").Value.String())
			if err != nil {
				return err
			}
			engineCfg, err := cfg.EngineConfig()
			if err != nil {
				return err
			}

			series, err := resolveSeries(scheduleFile, seriesFile, team, season, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("🏀 NBA POMP-ELO Fit\n")
			fmt.Printf("===================\n\n")
			fmt.Printf("Loaded %d games for %s (%s)\n", len(series.Records), series.Team, series.Season)
			fmt.Printf("- Variant: %s\n", engineCfg.Variant)
			fmt.Printf("- Particles: %d\n", engineCfg.Particles)
			fmt.Printf("- Restarts: %d x %d filtering passes\n", engineCfg.Restarts, engineCfg.MifIterations)
			fmt.Printf("- Replicates: %d\n\n", engineCfg.Replicates)

			result, err := nbapomp.RunEstimation(cmd.Context(), nbapomp.EstimationRequest{
				Series: series,
				Config: engineCfg,
			}, logrus.StandardLogger())
			if err != nil {
				return err
			}

			printFitResult(result)

			if outFile != "" {
				if err := writeJSON(outFile, result); err != nil {
					return err
				}
				fmt.Printf("\n✓ Wrote full result to %s\n", outFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleFile, "schedule", "", "Season schedule CSV/JSON file (glob allowed)")
	cmd.Flags().StringVar(&seriesFile, "series", "", "Prepared observation series JSON file")
	cmd.Flags().StringVar(&team, "team", "", "Tracked team name (schedule input)")
	cmd.Flags().StringVar(&season, "season", "", "Season identifier (schedule input)")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write full result JSON to this file")

	return cmd
}

// resolveSeries builds the observation series either from a prepared
// series file or from a raw schedule plus a tracked team.
func resolveSeries(scheduleFile, seriesFile, team, season string, cfg *Config) (nbapomp.ObservationSeries, error) {
	if seriesFile != "" {
		return loadSeries(seriesFile)
	}
	if scheduleFile == "" || team == "" {
		return nbapomp.ObservationSeries{}, fmt.Errorf("either --series or both --schedule and --team are required")
	}

	games, err := loadScheduleGlob(scheduleFile)
	if err != nil {
		return nbapomp.ObservationSeries{}, err
	}
	return nbapomp.BuildObservationSeries(games, team, season, cfg.SeriesOptions())
}

func printFitResult(result *nbapomp.EstimationResult) {
	best := result.Search.Best

	fmt.Printf("✓ Estimation completed in %v\n", result.ProcessingTime)
	fmt.Printf("✓ Log likelihood: %.2f (se %.3f)\n", best.LogLik, best.StdErr)
	fmt.Printf("✓ Degenerate restarts: %d/%d\n\n", result.Search.Degenerate, len(result.Search.Candidates))

	fmt.Printf("📊 Best Parameters\n")
	fmt.Printf("==================\n")
	fmt.Printf("%-15s %10.4f\n", "beta1", best.Params.Beta1)
	fmt.Printf("%-15s %10.4f\n", "beta2", best.Params.Beta2)
	fmt.Printf("%-15s %10.4f\n", "sigma", best.Params.Sigma)
	fmt.Printf("%-15s %10.4f\n", "alpha", best.Params.Alpha)
	fmt.Printf("%-15s %10.4f\n", "home_advantage", best.Params.HomeAdvantage)

	fmt.Printf("\n📈 Restart Leaderboard\n")
	fmt.Printf("======================\n")
	fmt.Printf("%-38s %10s %8s %6s\n", "Run", "LogLik", "StdErr", "Degen")
	for _, c := range result.Search.Candidates {
		ll := fmt.Sprintf("%10.2f", c.LogLik)
		if math.IsInf(c.LogLik, -1) {
			ll = "      -inf"
		}
		fmt.Printf("%-38s %s %8.3f %6v\n", c.RunID, ll, c.StdErr, c.Degenerate)
	}

	if result.Simulation != nil {
		m := result.Simulation.Metrics
		fmt.Printf("\n🎯 Diagnostic Simulation\n")
		fmt.Printf("========================\n")
		fmt.Printf("Accuracy: %.3f  FPR: %.3f  FNR: %.3f\n", m.Accuracy, m.FalsePositiveRate, m.FalseNegativeRate)
	}
}
