package nbapomp

// Shared fixtures for the engine tests. Configs are scaled down from the
// defaults so the search tests stay fast.

func testConfig(variant Variant) *EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.Variant = variant
	cfg.Particles = 50
	cfg.MifIterations = 3
	cfg.Restarts = 4
	cfg.Replicates = 3
	cfg.SimReplicates = 20
	cfg.Workers = 2
	cfg.Seed = 7
	cfg.Bounds.Upper.Sigma = 5
	return cfg
}

// neutralConfig removes every source of drift and randomness from the
// process model, so the latent state stays pinned at the baseline and
// likelihoods become exact.
func neutralConfig(variant Variant) *EngineConfig {
	cfg := testConfig(variant)
	cfg.EloK = 0
	return cfg
}

func neutralParams() Params {
	return Params{}
}

func testSeries(n int) ObservationSeries {
	series := ObservationSeries{Team: "BOS", Season: "2023-24"}
	forms := []float64{4, -2, 6, 0, 2, -5, 3}
	for i := 0; i < n; i++ {
		series.Records = append(series.Records, GameRecord{
			TimeIndex:  i + 1,
			Date:       "2023-11-01",
			Home:       i%2 == 0,
			Opponent:   "NYK",
			OwnForm:    forms[i%len(forms)],
			OppForm:    forms[(i+3)%len(forms)],
			OppRating:  1450 + float64(i%5)*25,
			Attendance: 18000,
			Win:        (i / 2) % 2,
		})
	}
	return series
}
