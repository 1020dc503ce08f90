package main

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	nbapomp "github.com/jhw/go-nba-pomp/pkg/nba-pomp"
)

// Config holds CLI-level engine settings, loadable from an optional
// config file and NBAPOMP_* environment variables.
type Config struct {
	Variant       string  `mapstructure:"VARIANT"`
	Particles     int     `mapstructure:"PARTICLES"`
	MifIterations int     `mapstructure:"MIF_ITERATIONS"`
	Restarts      int     `mapstructure:"RESTARTS"`
	Replicates    int     `mapstructure:"REPLICATES"`
	Workers       int     `mapstructure:"WORKERS"`
	Seed          int64   `mapstructure:"SEED"`
	EloK          float64 `mapstructure:"ELO_K"`
	SimReplicates int     `mapstructure:"SIM_REPLICATES"`
	FormWindow    int     `mapstructure:"FORM_WINDOW"`
}

// LoadConfig reads settings from the given file (if any) and the
// environment, falling back to engine defaults.
func LoadConfig(path string) (*Config, error) {
	defaults := nbapomp.DefaultEngineConfig()

	v := viper.New()
	v.SetDefault("VARIANT", string(defaults.Variant))
	v.SetDefault("PARTICLES", defaults.Particles)
	v.SetDefault("MIF_ITERATIONS", defaults.MifIterations)
	v.SetDefault("RESTARTS", defaults.Restarts)
	v.SetDefault("REPLICATES", defaults.Replicates)
	v.SetDefault("WORKERS", defaults.Workers)
	v.SetDefault("SEED", defaults.Seed)
	v.SetDefault("ELO_K", defaults.EloK)
	v.SetDefault("SIM_REPLICATES", defaults.SimReplicates)
	v.SetDefault("FORM_WINDOW", nbapomp.DefaultSeriesOptions().FormWindow)

	v.SetEnvPrefix("NBAPOMP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

// EngineConfig converts CLI settings into the engine's config struct
func (c *Config) EngineConfig() (*nbapomp.EngineConfig, error) {
	cfg := nbapomp.DefaultEngineConfig()

	switch strings.ToLower(c.Variant) {
	case "", string(nbapomp.VariantCovariateOpponent):
		cfg.Variant = nbapomp.VariantCovariateOpponent
	case string(nbapomp.VariantStateOpponent):
		cfg.Variant = nbapomp.VariantStateOpponent
	case string(nbapomp.VariantAttendance):
		cfg.Variant = nbapomp.VariantAttendance
	default:
		return nil, fmt.Errorf("unknown variant %q (want covariate, state, or attendance)", c.Variant)
	}

	cfg.Particles = c.Particles
	cfg.MifIterations = c.MifIterations
	cfg.Restarts = c.Restarts
	cfg.Replicates = c.Replicates
	cfg.Workers = c.Workers
	cfg.Seed = c.Seed
	cfg.EloK = c.EloK
	cfg.SimReplicates = c.SimReplicates
	return cfg, nil
}

// SeriesOptions converts CLI settings into schedule-assembly options
func (c *Config) SeriesOptions() nbapomp.SeriesOptions {
	opts := nbapomp.DefaultSeriesOptions()
	if c.FormWindow > 0 {
		opts.FormWindow = c.FormWindow
	}
	if c.EloK > 0 {
		opts.EloK = c.EloK
	}
	return opts
}
