package grid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nestris-org/botfit/internal/model"
)

type linearPredictor struct{}

// Predict returns speed*10 - 100, so speeds <= 10 are non-positive.
func (linearPredictor) Predict(x []float64) float64 {
	return x[0]*10 - 100
}

func TestEnumerateUnfiltered(t *testing.T) {
	v := DefaultValues()
	all := Enumerate(v)
	require.Len(t, all, 960)
	require.Equal(t, 960, v.Size())
	require.Equal(t, model.CandidateConfig{InputSpeed: 6, Inaccuracy: 0.9, Mistake: 0.3, Misdrop: 0.03}, all[0])
	require.Equal(t, model.CandidateConfig{InputSpeed: 6, Inaccuracy: 0.9, Mistake: 0.3, Misdrop: 0.01}, all[1])
	require.Equal(t, model.CandidateConfig{InputSpeed: 25, Inaccuracy: 0.1, Mistake: 0.005, Misdrop: 0.0005}, all[959])
}

func TestEnumerateFiltered(t *testing.T) {
	kept := Enumerate(DefaultValues(), DefaultFilters()...)
	for _, c := range kept {
		require.False(t, c.InputSpeed <= 8 && c.Misdrop <= 0.01, "slow precise bot kept: %+v", c)
		require.False(t, c.InputSpeed >= 14 && c.Misdrop >= 0.01, "fast sloppy bot kept: %+v", c)
	}
	// speeds 6,8 keep only misdrop 0.03; speeds 14,17,20,25 keep three misdrops;
	// speeds 10,12 keep all five. 24 inaccuracy/mistake pairs per speed-misdrop.
	require.Len(t, kept, 24*(2*1+4*3+2*5))
}

func TestFilters(t *testing.T) {
	require.False(t, NotSlowAndPrecise(model.CandidateConfig{InputSpeed: 8, Misdrop: 0.01}))
	require.True(t, NotSlowAndPrecise(model.CandidateConfig{InputSpeed: 8, Misdrop: 0.03}))
	require.True(t, NotSlowAndPrecise(model.CandidateConfig{InputSpeed: 10, Misdrop: 0.001}))
	require.False(t, NotFastAndSloppy(model.CandidateConfig{InputSpeed: 14, Misdrop: 0.01}))
	require.True(t, NotFastAndSloppy(model.CandidateConfig{InputSpeed: 14, Misdrop: 0.005}))
	require.True(t, NotFastAndSloppy(model.CandidateConfig{InputSpeed: 12, Misdrop: 0.03}))
}

func TestPredictDropsNonPositive(t *testing.T) {
	candidates := []model.CandidateConfig{{InputSpeed: 8}, {InputSpeed: 10}, {InputSpeed: 12}}
	scored := Predict(candidates, linearPredictor{})
	require.Len(t, scored, 1)
	require.Equal(t, model.InputSpeed(12), scored[0].Config.InputSpeed)
	require.InDelta(t, 20, scored[0].Score, 1e-9)
}
