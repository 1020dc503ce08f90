package nbapomp

import (
	"fmt"
	"strings"
)

// ValidationError represents a single input-validation failure
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every failure found in one pass
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// ValidateSeries checks an observation series against the input table
// invariants before any filtering begins: time indices strictly increasing
// and contiguous from 1, binary outcomes, positive attendance where the
// variant needs it. All failures are reported at once.
func ValidateSeries(series ObservationSeries, variant Variant) error {
	var errors []ValidationError

	if len(series.Records) == 0 {
		errors = append(errors, ValidationError{
			Field:   "records",
			Message: "observation series is empty",
		})
		return ValidationErrors{Errors: errors}
	}

	for i, rec := range series.Records {
		field := fmt.Sprintf("records[%d]", i)

		if rec.TimeIndex != i+1 {
			errors = append(errors, ValidationError{
				Field:   field + ".time_index",
				Message: fmt.Sprintf("time indices must be contiguous from 1: got %d, want %d", rec.TimeIndex, i+1),
			})
		}

		if rec.Win != 0 && rec.Win != 1 {
			errors = append(errors, ValidationError{
				Field:   field + ".win",
				Message: fmt.Sprintf("outcome must be binary: got %d", rec.Win),
			})
		}

		if variant.usesAttendance() && rec.Attendance <= 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".attendance",
				Message: fmt.Sprintf("attendance must be positive: got %v", rec.Attendance),
			})
		}

		if !variant.usesLatentOpponent() && rec.OppRating <= 0 {
			errors = append(errors, ValidationError{
				Field:   field + ".opp_rating",
				Message: "opponent baseline rating is required for the covariate variant",
			})
		}
	}

	if len(errors) > 0 {
		return ValidationErrors{Errors: errors}
	}
	return nil
}

// validateConfig checks engine configuration ahead of a run
func validateConfig(cfg *EngineConfig) error {
	if cfg.Particles <= 0 {
		return fmt.Errorf("particle count must be positive, got %d", cfg.Particles)
	}
	if cfg.MifIterations <= 0 {
		return fmt.Errorf("iteration count must be positive, got %d", cfg.MifIterations)
	}
	if cfg.CoolingFraction <= 0 || cfg.CoolingFraction > 1 {
		return fmt.Errorf("cooling fraction must be in (0,1], got %v", cfg.CoolingFraction)
	}
	if cfg.Restarts <= 0 {
		return fmt.Errorf("restart count must be positive, got %d", cfg.Restarts)
	}
	if cfg.Replicates <= 0 {
		return fmt.Errorf("replicate count must be positive, got %d", cfg.Replicates)
	}
	if cfg.RatingScale <= 0 {
		return fmt.Errorf("rating scale must be positive, got %v", cfg.RatingScale)
	}
	switch cfg.Variant {
	case VariantCovariateOpponent, VariantStateOpponent, VariantAttendance:
	default:
		return fmt.Errorf("unknown model variant %q", cfg.Variant)
	}
	return nil
}
