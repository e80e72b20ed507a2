package grid

import "github.com/nestris-org/botfit/internal/model"

// FilterFunc returns true when a candidate should be kept.
type FilterFunc func(model.CandidateConfig) bool

// DefaultFilters returns the plausibility rules applied before prediction.
func DefaultFilters() []FilterFunc {
	return []FilterFunc{NotSlowAndPrecise, NotFastAndSloppy}
}

// NotSlowAndPrecise rejects slow bots that rarely misdrop; they only ever
// play out long, uneventful lineout games.
func NotSlowAndPrecise(c model.CandidateConfig) bool {
	return !(c.InputSpeed <= 8 && c.Misdrop <= 0.01)
}

// NotFastAndSloppy rejects fast bots that misdrop a lot.
func NotFastAndSloppy(c model.CandidateConfig) bool {
	return !(c.InputSpeed >= 14 && c.Misdrop >= 0.01)
}

// Keep reports whether every filter accepts the candidate.
func Keep(c model.CandidateConfig, filters ...FilterFunc) bool {
	for _, f := range filters {
		if !f(c) {
			return false
		}
	}
	return true
}
