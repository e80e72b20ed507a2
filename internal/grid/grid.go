// Package grid enumerates candidate bot configurations.
package grid

import "github.com/nestris-org/botfit/internal/model"

// Values holds the discrete candidate values for each configuration dimension.
type Values struct {
	InputSpeeds  []int
	Inaccuracies []float64
	Mistakes     []float64
	Misdrops     []float64
}

// DefaultValues returns the stock candidate sets (960 combinations).
func DefaultValues() Values {
	return Values{
		InputSpeeds:  []int{6, 8, 10, 12, 14, 17, 20, 25},
		Inaccuracies: []float64{0.9, 0.6, 0.3, 0.1},
		Mistakes:     []float64{0.3, 0.1, 0.05, 0.03, 0.01, 0.005},
		Misdrops:     []float64{0.03, 0.01, 0.005, 0.001, 0.0005},
	}
}

// Size returns the number of combinations before filtering.
func (v Values) Size() int {
	return len(v.InputSpeeds) * len(v.Inaccuracies) * len(v.Mistakes) * len(v.Misdrops)
}

// Enumerate returns the Cartesian product in declaration order, input speed
// varying slowest, dropping every candidate rejected by one of the filters.
func Enumerate(v Values, filters ...FilterFunc) []model.CandidateConfig {
	out := make([]model.CandidateConfig, 0, v.Size())
	for _, speed := range v.InputSpeeds {
		for _, inaccuracy := range v.Inaccuracies {
			for _, mistake := range v.Mistakes {
				for _, misdrop := range v.Misdrops {
					c := model.CandidateConfig{
						InputSpeed: model.InputSpeed(speed),
						Inaccuracy: inaccuracy,
						Mistake:    mistake,
						Misdrop:    misdrop,
					}
					if Keep(c, filters...) {
						out = append(out, c)
					}
				}
			}
		}
	}
	return out
}

// Predictor maps raw configuration features to a predicted score.
type Predictor interface {
	Predict(x []float64) float64
}

// Scored is a candidate paired with its predicted average score.
type Scored struct {
	Config model.CandidateConfig
	Score  float64
}

// Predict scores every candidate and drops non-positive predictions.
func Predict(candidates []model.CandidateConfig, p Predictor) []Scored {
	out := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		score := p.Predict(c.Features())
		if score <= 0 {
			continue
		}
		out = append(out, Scored{Config: c, Score: score})
	}
	return out
}
