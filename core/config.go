package core

// Weights sets the relative contribution of each sub-score to the composite.
// They are renormalized per run, so they need not sum to 1.
type Weights struct {
	Intent          float64 `koanf:"intent" json:"intent" validate:"gte=0"`
	Industry        float64 `koanf:"industry" json:"industry" validate:"gte=0"`
	Interest        float64 `koanf:"interest" json:"interest" validate:"gte=0"`
	Complementarity float64 `koanf:"complementarity" json:"complementarity" validate:"gte=0"`
	Embedding       float64 `koanf:"embedding" json:"embedding" validate:"gte=0"`
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Intent + w.Industry + w.Interest + w.Complementarity + w.Embedding
}

// ScoringConfig is the per-event configuration of a scoring run.
type ScoringConfig struct {
	Weights            Weights `koanf:"weights" json:"weights"`
	MinScore           float64 `koanf:"min_score" json:"min_score" validate:"gte=0,lte=100"`
	ExcludeSameCompany bool    `koanf:"exclude_same_company" json:"exclude_same_company"`
	ExcludeSameRole    bool    `koanf:"exclude_same_role" json:"exclude_same_role"`

	// IntentConfidenceThreshold is stored for compatibility with event
	// configuration but does not gate matches.
	IntentConfidenceThreshold int `koanf:"intent_confidence_threshold" json:"intent_confidence_threshold" validate:"gte=0,lte=100"`
}

// DefaultScoringConfig returns the configuration used when an event has none.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights: Weights{
			Intent:          0.35,
			Industry:        0.25,
			Interest:        0.25,
			Complementarity: 0.15,
			Embedding:       0,
		},
		MinScore:                  40,
		IntentConfidenceThreshold: 30,
	}
}
