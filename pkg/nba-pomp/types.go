package nbapomp

import "time"

// Variant selects which POMP model the engine runs
type Variant string

const (
	// VariantCovariateOpponent reads the opponent's strength directly from
	// the data (baseline ELO covariate); only team strength is latent.
	VariantCovariateOpponent Variant = "covariate"

	// VariantStateOpponent treats the opponent's strength as a second
	// latent state driven by the opponent's form covariate.
	VariantStateOpponent Variant = "state"

	// VariantAttendance is the covariate model with an attendance-adjusted
	// home-court bonus in the observation model.
	VariantAttendance Variant = "attendance"
)

// GameRecord represents one game of a tracked team's season
type GameRecord struct {
	TimeIndex  int     `json:"time_index"`           // sequential per tracked team, starts at 1
	Date       string  `json:"date"`                 // calendar date, YYYY-MM-DD
	Home       bool    `json:"home"`                 // true when the tracked team hosts
	Opponent   string  `json:"opponent"`             // opponent identity
	OwnForm    float64 `json:"own_form"`             // tracked team's recent-performance covariate
	OppForm    float64 `json:"opp_form"`             // opponent's recent-performance covariate (state variant)
	OppRating  float64 `json:"opp_rating"`           // opponent baseline ELO (covariate/attendance variants)
	Attendance float64 `json:"attendance,omitempty"` // positive, attendance variant only
	Win        int     `json:"win"`                  // observed outcome, 0 or 1
}

// ObservationSeries is the ordered per-game table for one tracked team.
// Read-only once constructed; the engine never mutates it.
type ObservationSeries struct {
	Team    string       `json:"team"`
	Season  string       `json:"season"`
	Records []GameRecord `json:"records"`
}

// Params holds one model parameter vector
type Params struct {
	Beta1         float64 `json:"beta1"`          // own-form sensitivity
	Beta2         float64 `json:"beta2"`          // opponent-form sensitivity (state variant only)
	Sigma         float64 `json:"sigma"`          // process noise scale, >= 0
	Alpha         float64 `json:"alpha"`          // mean-reversion strength
	HomeAdvantage float64 `json:"home_advantage"` // home-court bonus in score space
}

// ParamBounds gives per-parameter lower/upper limits for the global search
type ParamBounds struct {
	Lower Params `json:"lower"`
	Upper Params `json:"upper"`
}

// EngineConfig holds all engine parameterization values
type EngineConfig struct {
	Variant Variant `json:"variant"` // model variant (default: covariate)

	// Process model constants
	BaselineRating float64 `json:"baseline_rating"` // mean-reversion target (default: 1500)
	EloK           float64 `json:"elo_k"`           // ELO correction factor (default: 20)
	RatingScale    float64 `json:"rating_scale"`    // score-space divisor (default: 400)

	// Particle filter
	Particles int `json:"particles"` // ensemble size (default: 200)

	// Iterated filtering
	MifIterations   int     `json:"mif_iterations"`   // filtering passes per restart (default: 50)
	CoolingFraction float64 `json:"cooling_fraction"` // per-iteration decay; default halves by iteration 50
	PerturbScale    Params  `json:"perturb_scale"`    // initial random-walk sd per parameter

	// Global search
	Restarts   int         `json:"restarts"`   // random starting points (default: 16)
	Replicates int         `json:"replicates"` // likelihood replicates per candidate (default: 10)
	Workers    int         `json:"workers"`    // parallel restart workers (default: NumCPU)
	Seed       int64       `json:"seed"`       // base seed; all parallel units derive from it
	Bounds     ParamBounds `json:"bounds"`     // uniform start-point box

	// Diagnostics
	SimReplicates int `json:"sim_replicates"` // simulator trajectory draws (default: 100)
}

// CandidateResult is one global-search restart: its fitted parameters and
// the replicated likelihood estimate used as the selection objective.
type CandidateResult struct {
	RunID        string         `json:"run_id"`
	Start        Params         `json:"start"`
	Params       Params         `json:"params"`
	LogLik       float64        `json:"log_lik"`
	StdErr       float64        `json:"std_err"`
	ReplicateLLs []float64      `json:"replicate_lls,omitempty"`
	Trace        []MifIteration `json:"trace,omitempty"`
	Degenerate   bool           `json:"degenerate"`
}

// SearchResult contains the output of a global parameter search
type SearchResult struct {
	Best       CandidateResult   `json:"best"`
	Candidates []CandidateResult `json:"candidates"`
	Degenerate int               `json:"degenerate"` // restarts that collapsed
}

// EstimationRequest contains everything needed for a full estimation run
type EstimationRequest struct {
	Series ObservationSeries `json:"series"`
	Config *EngineConfig     `json:"config,omitempty"` // uses defaults if nil
}

// EstimationResult is the top-level output: best-fit parameters plus the
// diagnostic simulation against the observed trajectory.
type EstimationResult struct {
	Search         SearchResult      `json:"search"`
	Simulation     *SimulationResult `json:"simulation"`
	ProcessingTime time.Duration     `json:"processing_time"`
	GamesProcessed int               `json:"games_processed"`
}

// DefaultEngineConfig returns default engine parameterization values
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Variant: VariantCovariateOpponent,

		BaselineRating: 1500, // common ELO baseline
		EloK:           20,   // standard fixed K
		RatingScale:    400,  // ELO logistic scale

		Particles: 200,

		MifIterations:   50,
		CoolingFraction: 0.98618, // 0.5^(1/50): perturbation halves by iteration 50
		PerturbScale: Params{
			Beta1:         0.02,
			Beta2:         0.02,
			Sigma:         0.5,
			Alpha:         0.005,
			HomeAdvantage: 0.02,
		},

		Restarts:   16,
		Replicates: 10,
		Workers:    0, // 0 means NumCPU
		Seed:       1,
		Bounds: ParamBounds{
			Lower: Params{Beta1: -0.5, Beta2: -0.5, Sigma: 0, Alpha: 0, HomeAdvantage: 0},
			Upper: Params{Beta1: 0.5, Beta2: 0.5, Sigma: 25, Alpha: 0.2, HomeAdvantage: 0.5},
		},

		SimReplicates: 100,
	}
}

// usesLatentOpponent reports whether the variant carries opponent strength
// as a second latent state.
func (v Variant) usesLatentOpponent() bool {
	return v == VariantStateOpponent
}

// usesAttendance reports whether the observation model includes the
// log-attendance home bonus.
func (v Variant) usesAttendance() bool {
	return v == VariantAttendance
}
