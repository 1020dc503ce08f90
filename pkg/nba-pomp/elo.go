package nbapomp

// ScheduleGame is one raw game from a season schedule, before the
// per-team observation series is assembled.
type ScheduleGame struct {
	Date       string  `json:"date"`
	Season     string  `json:"season"`
	HomeTeam   string  `json:"home_team"`
	AwayTeam   string  `json:"away_team"`
	HomeScore  int     `json:"home_score"`
	AwayScore  int     `json:"away_score"`
	Attendance float64 `json:"attendance,omitempty"`
}

// HomeWin reports whether the home side won; the NBA has no draws.
func (g ScheduleGame) HomeWin() bool {
	return g.HomeScore > g.AwayScore
}

// EloTable maps team name to current baseline rating. Updates are pure
// folds: every update returns a fresh table and never mutates its input,
// so game ordering is explicit in the fold rather than hidden in shared
// table mutation.
type EloTable map[string]float64

// Rating returns a team's current rating, defaulting to base for teams
// that have not appeared yet.
func (t EloTable) Rating(team string, base float64) float64 {
	if r, ok := t[team]; ok {
		return r
	}
	return base
}

// FoldGame applies one game's ELO update to both sides and returns the
// resulting table.
func FoldGame(t EloTable, g ScheduleGame, k, base float64) EloTable {
	home := t.Rating(g.HomeTeam, base)
	away := t.Rating(g.AwayTeam, base)

	expected := eloExpectedScore(home, away)
	score := 0.0
	if g.HomeWin() {
		score = 1.0
	}
	delta := k * (score - expected)

	next := make(EloTable, len(t)+2)
	for team, rating := range t {
		next[team] = rating
	}
	next[g.HomeTeam] = home + delta
	next[g.AwayTeam] = away - delta
	return next
}

// FoldGames threads the ELO fold through a game sequence in order
func FoldGames(t EloTable, games []ScheduleGame, k, base float64) EloTable {
	for _, g := range games {
		t = FoldGame(t, g, k, base)
	}
	return t
}
