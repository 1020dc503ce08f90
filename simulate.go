package main

import (
	"fmt"

	"github.com/spf13/cobra"

	nbapomp "github.com/jhw/go-nba-pomp/pkg/nba-pomp"
)

func simulateCmd() *cobra.Command {
	var (
		scheduleFile string
		seriesFile   string
		team         string
		season       string
		paramsFile   string
		outFile      string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Draw replicate trajectories for a fitted parameter vector",
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
			if err := nbapomp.ValidateSeries(series, engineCfg.Variant); err != nil {
				return err
			}

			params, err := loadParams(paramsFile)
			if err != nil {
				return err
			}

			result := nbapomp.Simulate(series, params, engineCfg, engineCfg.Seed)

			fmt.Printf("🏀 Simulated %d trajectories over %d games for %s\n\n",
				len(result.Trajectories), len(result.Observed), series.Team)

			if result.Bands != nil {
				fmt.Printf("📊 Team Strength Bands\n")
				fmt.Printf("======================\n")
				fmt.Printf("%5s %10s %10s %10s %10s %8s\n", "Game", "Mean", "P10", "Median", "P90", "Observed")
				for t := range result.Bands.Mean {
					fmt.Printf("%5d %10.1f %10.1f %10.1f %10.1f %8d\n",
						t+1,
						result.Bands.Mean[t],
						result.Bands.Lower[t],
						result.Bands.Median[t],
						result.Bands.Upper[t],
						result.Observed[t],
					)
				}
			}

			m := result.Metrics
			fmt.Printf("\n🎯 Outcome Metrics\n")
			fmt.Printf("==================\n")
			fmt.Printf("Accuracy: %.3f  FPR: %.3f  FNR: %.3f\n", m.Accuracy, m.FalsePositiveRate, m.FalseNegativeRate)

			if outFile != "" {
				if err := writeJSON(outFile, result); err != nil {
					return err
				}
				fmt.Printf("\n✓ Wrote simulation result to %s\n", outFile)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleFile, "schedule", "", "Season schedule CSV/JSON file (glob allowed)")
	cmd.Flags().StringVar(&seriesFile, "series", "", "Prepared observation series JSON file")
	cmd.Flags().StringVar(&team, "team", "", "Tracked team name (schedule input)")
	cmd.Flags().StringVar(&season, "season", "", "Season identifier (schedule input)")
	cmd.Flags().StringVar(&paramsFile, "params", "", "Fitted parameter vector JSON file")
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "Write simulation result JSON to this file")
	cmd.MarkFlagRequired("params")

	return cmd
}
