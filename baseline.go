package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	nbapomp "github.com/jhw/go-nba-pomp/pkg/nba-pomp"
)

func baselineCmd() *cobra.Command {
	var scheduleFile string

	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Compute ELO ratings and the logistic baseline for a schedule",
		Args:  cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(cmd.Flag("config").Value.String())
			if err != nil {
				return err
			}
			opts := cfg.SeriesOptions()

			games, err := loadScheduleGlob(scheduleFile)
			if err != nil {
				return err
			}

			table := nbapomp.FoldGames(nbapomp.EloTable{}, games, opts.EloK, opts.BaseRating)

			type rated struct {
				team   string
				rating float64
			}
			ratings := make([]rated, 0, len(table))
			for team, rating := range table {
				ratings = append(ratings, rated{team, rating})
			}
			sort.Slice(ratings, func(i, j int) bool {
				return ratings[i].rating > ratings[j].rating
			})

			fmt.Printf("🏀 ELO Ratings (%d games, K=%.0f)\n", len(games), opts.EloK)
			fmt.Printf("================================\n")
			fmt.Printf("%3s %-25s %8s\n", "Pos", "Team", "Rating")
			for i, r := range ratings {
				fmt.Printf("%3d %-25s %8.1f\n", i+1, r.team, r.rating)
			}

			fit, err := nbapomp.FitLogisticBaseline(games, opts)
			if err != nil {
				return err
			}

			fmt.Printf("\n📈 Logistic Baseline\n")
			fmt.Printf("====================\n")
			fmt.Printf("Intercept (home edge): %.4f\n", fit.Intercept)
			fmt.Printf("Rating coefficient:    %.4f\n", fit.RatingCoef)
			fmt.Printf("Log likelihood:        %.2f\n", fit.LogLik)
			fmt.Printf("Converged:             %v\n", fit.Converged)
			fmt.Printf("Accuracy: %.3f  FPR: %.3f  FNR: %.3f\n",
				fit.Metrics.Accuracy, fit.Metrics.FalsePositiveRate, fit.Metrics.FalseNegativeRate)

			return nil
		},
	}

	cmd.Flags().StringVar(&scheduleFile, "schedule", "", "Season schedule CSV/JSON file (glob allowed)")
	cmd.MarkFlagRequired("schedule")

	return cmd
}
