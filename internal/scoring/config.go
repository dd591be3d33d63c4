// Package scoring implements the three-stage document scoring cascade: a
// chunked embedding prefilter, a quick LLM relevance screen, and a concurrent
// per-category detailed scorer with weighted rollup.
package scoring

// Config holds the tunable thresholds of the cascade. All values have working
// defaults; callers override individual fields before constructing a Pipeline.
type Config struct {
	// Stage1Threshold rejects documents whose best-chunk similarity (0-100)
	// falls below it.
	Stage1Threshold float64 `json:"stage1_threshold"`

	// Stage2MinThreshold rejects documents whose quick-screen relevance score
	// falls below it. Stage2StrongThreshold separates borderline passes from
	// strong passes.
	Stage2MinThreshold    float64 `json:"stage2_min_threshold"`
	Stage2StrongThreshold float64 `json:"stage2_strong_threshold"`

	// Recommendation bands for the final decision label. The numeric overall
	// score is canonical; these only pick the label.
	BandModerate float64 `json:"band_moderate"`
	BandGood     float64 `json:"band_good"`
	BandStrong   float64 `json:"band_strong"`

	// WeightFloor is the minimum integer weight used when persona weights are
	// normalized during scoring-time validation.
	WeightFloor int `json:"weight_floor"`

	// ChunkSize and ChunkOverlap control the fixed-window fallback chunker,
	// measured in runes.
	ChunkSize    int `json:"chunk_size"`
	ChunkOverlap int `json:"chunk_overlap"`

	// MaxScreeningChars truncates the document for the quick screen. The
	// detailed stage always sees the full text.
	MaxScreeningChars int `json:"max_screening_chars"`
}

// DefaultConfig returns the standard cascade thresholds.
func DefaultConfig() *Config {
	return &Config{
		Stage1Threshold:       50,
		Stage2MinThreshold:    70,
		Stage2StrongThreshold: 80,
		BandModerate:          60,
		BandGood:              70,
		BandStrong:            80,
		WeightFloor:           2,
		ChunkSize:             800,
		ChunkOverlap:          200,
		MaxScreeningChars:     2500,
	}
}

// RecommendationBand maps a 0-100 score to its fit label.
func RecommendationBand(score float64, cfg *Config) string {
	switch {
	case score >= cfg.BandStrong:
		return "STRONG_FIT"
	case score >= cfg.BandGood:
		return "GOOD_FIT"
	case score >= cfg.BandModerate:
		return "MODERATE_FIT"
	default:
		return "WEAK_FIT"
	}
}
