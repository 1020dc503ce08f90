package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	nbapomp "github.com/jhw/go-nba-pomp/pkg/nba-pomp"
)

// loadSchedule reads a season schedule from a CSV or JSON file,
// dispatching on the extension.
func loadSchedule(path string) ([]nbapomp.ScheduleGame, error) {
	if filepath.Ext(path) == ".csv" {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening schedule file: %w", err)
		}
		defer file.Close()
		return parseScheduleCSV(file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}
	var games []nbapomp.ScheduleGame
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, fmt.Errorf("parsing schedule JSON from %s: %w", path, err)
	}
	return games, nil
}

// loadScheduleGlob concatenates every schedule file matching the pattern
// (e.g. "data/*-games.json") into one date-sorted game list.
func loadScheduleGlob(pattern string) ([]nbapomp.ScheduleGame, error) {
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("finding schedule files: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no schedule files match %s", pattern)
	}
	sort.Strings(paths)

	var all []nbapomp.ScheduleGame
	for _, path := range paths {
		games, err := loadSchedule(path)
		if err != nil {
			return nil, err
		}
		all = append(all, games...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date < all[j].Date
	})
	return all, nil
}

// parseScheduleCSV parses a schedule CSV with a header row. Required
// columns: date, season, home_team, away_team, home_score, away_score;
// attendance is optional.
func parseScheduleCSV(reader io.Reader) ([]nbapomp.ScheduleGame, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1 // Allow variable field count

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("schedule CSV has no data rows")
	}

	// Map column names to indices from the header row
	columns := make(map[string]int)
	for i, name := range records[0] {
		columns[name] = i
	}
	for _, required := range []string{"date", "season", "home_team", "away_team", "home_score", "away_score"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("schedule CSV missing column %q", required)
		}
	}

	games := make([]nbapomp.ScheduleGame, 0, len(records)-1)
	for rowIdx, row := range records[1:] {
		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(row) {
				return ""
			}
			return row[idx]
		}

		homeScore, err := strconv.Atoi(field("home_score"))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad home_score: %w", rowIdx+2, err)
		}
		awayScore, err := strconv.Atoi(field("away_score"))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad away_score: %w", rowIdx+2, err)
		}

		game := nbapomp.ScheduleGame{
			Date:      field("date"),
			Season:    field("season"),
			HomeTeam:  field("home_team"),
			AwayTeam:  field("away_team"),
			HomeScore: homeScore,
			AwayScore: awayScore,
		}

		if att := field("attendance"); att != "" {
			game.Attendance, err = strconv.ParseFloat(att, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad attendance: %w", rowIdx+2, err)
			}
		}

		games = append(games, game)
	}
	return games, nil
}

// loadSeries reads a prepared observation series JSON file
func loadSeries(path string) (nbapomp.ObservationSeries, error) {
	var series nbapomp.ObservationSeries
	data, err := os.ReadFile(path)
	if err != nil {
		return series, fmt.Errorf("reading series file: %w", err)
	}
	if err := json.Unmarshal(data, &series); err != nil {
		return series, fmt.Errorf("parsing series JSON from %s: %w", path, err)
	}
	return series, nil
}

// loadParams reads a fitted parameter vector JSON file
func loadParams(path string) (nbapomp.Params, error) {
	var params nbapomp.Params
	data, err := os.ReadFile(path)
	if err != nil {
		return params, fmt.Errorf("reading params file: %w", err)
	}
	if err := json.Unmarshal(data, &params); err != nil {
		return params, fmt.Errorf("parsing params JSON from %s: %w", path, err)
	}
	return params, nil
}

// writeJSON writes any result value as indented JSON
func writeJSON(path string, value interface{}) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
