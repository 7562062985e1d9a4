package rules

// Settings carries the business-policy inputs the built-in rules
// parameterize on. Initialized once at startup from configuration and
// read-only thereafter.
type Settings struct {
	ZombieGraceDays   int     // contract end age before a missing renewal is leakage
	GhostOrderAgeDays int     // activation age before a missing reference is leakage
	TrialMinTermDays  int     // zero-price term length that counts as an eternal trial
	CoTermWindowDays  int     // end-date spread that marks a co-term failure
	HugLowPct         float64 // threshold-hugging discount band, inclusive
	HugHighPct        float64
	ApprovalThresholdPct float64 // discount above this requires an approved status
	TaxExposureRate      float64 // share of amount at risk when tax status is missing
	TrialExemptFamily    string  // product family allowed to run long at zero price

	Disabled map[string]bool // use-case names to skip
	Workers  int             // evaluation worker pool size; <=1 is sequential
}

var rsettings = Settings{
	ZombieGraceDays:      30,
	GhostOrderAgeDays:    7,
	TrialMinTermDays:     90,
	CoTermWindowDays:     90,
	HugLowPct:            19.01,
	HugHighPct:           19.99,
	ApprovalThresholdPct: 20,
	TaxExposureRate:      0.46,
	TrialExemptFamily:    "Marketing",
	Disabled:             map[string]bool{},
	Workers:              1,
}

// SetSettings installs the process-wide rule settings, filling zero
// fields from the defaults.
func SetSettings(s Settings) {
	if s.ZombieGraceDays == 0 {
		s.ZombieGraceDays = rsettings.ZombieGraceDays
	}
	if s.GhostOrderAgeDays == 0 {
		s.GhostOrderAgeDays = rsettings.GhostOrderAgeDays
	}
	if s.TrialMinTermDays == 0 {
		s.TrialMinTermDays = rsettings.TrialMinTermDays
	}
	if s.CoTermWindowDays == 0 {
		s.CoTermWindowDays = rsettings.CoTermWindowDays
	}
	if s.HugLowPct == 0 {
		s.HugLowPct = rsettings.HugLowPct
	}
	if s.HugHighPct == 0 {
		s.HugHighPct = rsettings.HugHighPct
	}
	if s.ApprovalThresholdPct == 0 {
		s.ApprovalThresholdPct = rsettings.ApprovalThresholdPct
	}
	if s.TaxExposureRate == 0 {
		s.TaxExposureRate = rsettings.TaxExposureRate
	}
	if s.TrialExemptFamily == "" {
		s.TrialExemptFamily = rsettings.TrialExemptFamily
	}
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	if s.Workers == 0 {
		s.Workers = 1
	}
	rsettings = s
}
