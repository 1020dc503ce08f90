package nbapomp

import (
	"fmt"
	"sort"
)

// SeriesOptions controls schedule-to-series assembly
type SeriesOptions struct {
	FormWindow int     `json:"form_window"` // rolling games in the form covariate (default: 5)
	EloK       float64 `json:"elo_k"`       // baseline fold K factor (default: 20)
	BaseRating float64 `json:"base_rating"` // initial baseline rating (default: 1500)
}

// DefaultSeriesOptions returns default assembly values
func DefaultSeriesOptions() SeriesOptions {
	return SeriesOptions{
		FormWindow: 5,
		EloK:       20,
		BaseRating: 1500,
	}
}

// ExtractScheduleTeams gets unique team names from schedule data
func ExtractScheduleTeams(games []ScheduleGame) []string {
	teamSet := make(map[string]bool)
	for _, g := range games {
		teamSet[g.HomeTeam] = true
		teamSet[g.AwayTeam] = true
	}

	teams := make([]string, 0, len(teamSet))
	for team := range teamSet {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// ExtractSeasons gets unique season codes from schedule data
func ExtractSeasons(games []ScheduleGame) []string {
	seasonSet := make(map[string]bool)
	for _, g := range games {
		seasonSet[g.Season] = true
	}

	seasons := make([]string, 0, len(seasonSet))
	for season := range seasonSet {
		seasons = append(seasons, season)
	}
	sort.Strings(seasons)
	return seasons
}

// BuildObservationSeries assembles the time-indexed observation table for
// one tracked team from a raw schedule: sequential time indices, rolling
// point-margin form covariates for both sides, and pre-game opponent
// baseline ratings from the ELO fold.
func BuildObservationSeries(games []ScheduleGame, team, season string, opts SeriesOptions) (ObservationSeries, error) {
	series := ObservationSeries{Team: team, Season: season}

	ordered := make([]ScheduleGame, len(games))
	copy(ordered, games)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date < ordered[j].Date
	})

	table := EloTable{}
	margins := make(map[string][]float64)

	form := func(name string) float64 {
		recent := margins[name]
		if len(recent) == 0 {
			return 0
		}
		if len(recent) > opts.FormWindow {
			recent = recent[len(recent)-opts.FormWindow:]
		}
		total := 0.0
		for _, m := range recent {
			total += m
		}
		return total / float64(len(recent))
	}

	for _, g := range ordered {
		tracked := g.HomeTeam == team || g.AwayTeam == team

		if tracked && (season == "" || g.Season == season) {
			home := g.HomeTeam == team
			opponent := g.AwayTeam
			win := 0
			if g.HomeWin() == home {
				win = 1
			}
			if !home {
				opponent = g.HomeTeam
			}

			series.Records = append(series.Records, GameRecord{
				TimeIndex:  len(series.Records) + 1,
				Date:       g.Date,
				Home:       home,
				Opponent:   opponent,
				OwnForm:    form(team),
				OppForm:    form(opponent),
				OppRating:  table.Rating(opponent, opts.BaseRating),
				Attendance: g.Attendance,
				Win:        win,
			})
		}

		// Fold ratings and margins after recording, so covariates stay
		// strictly pre-game.
		table = FoldGame(table, g, opts.EloK, opts.BaseRating)
		margin := float64(g.HomeScore - g.AwayScore)
		margins[g.HomeTeam] = append(margins[g.HomeTeam], margin)
		margins[g.AwayTeam] = append(margins[g.AwayTeam], -margin)
	}

	if len(series.Records) == 0 {
		return series, fmt.Errorf("no games found for team %q in season %q", team, season)
	}
	return series, nil
}
