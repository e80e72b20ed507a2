package botgen_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/nestris-org/botfit/internal/botgen"
	"github.com/nestris-org/botfit/internal/grid"
	"github.com/nestris-org/botfit/internal/model"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("bot-%d", n)
	}
}

// simulatedRecords mimics a hyperparameter sweep of the simulator.
func simulatedRecords() []model.ResultRecord {
	var records []model.ResultRecord
	for _, speed := range []float64{6, 8, 10, 12, 14, 17, 20} {
		for _, inacc := range []float64{0.5, 0.3, 0.1} {
			for _, mistake := range []float64{0.3, 0.2, 0.1, 0.05} {
				for _, misdrop := range []float64{0.05, 0.03, 0.01, 0.005, 0.001} {
					score := 40000 + 9000*speed*(1-inacc)*(1-mistake)*(1-8*misdrop)
					records = append(records, model.ResultRecord{
						Config: model.SimConfig{InputSpeed: speed, Inaccuracy: inacc, Mistake: mistake, Misdrop: misdrop},
						Stats: model.SimStats{
							Average:  model.GameStats{Score: score, Lines: score / 2000},
							Variance: model.GameStats{Score: score / 10, Lines: score / 20000},
						},
					})
				}
			}
		}
	}
	return records
}

func TestScoreConversions(t *testing.T) {
	require.Equal(t, 2512, botgen.DisplayScore(100))

	trophies, err := botgen.TrophiesFromScore(100)
	require.NoError(t, err)
	require.InDelta(t, 34.0, trophies, 1e-9)

	for _, s := range []float64{0, -1, -1e9} {
		_, err := botgen.TrophiesFromScore(s)
		require.ErrorIs(t, err, botgen.ErrNonPositiveScore, "score %g", s)
	}

	prev := 0.0
	for s := 1.0; s < 1e6; s *= 1.7 {
		trophies, err := botgen.TrophiesFromScore(s)
		require.NoError(t, err)
		require.Greater(t, trophies, prev, "trophies must increase with score")
		prev = trophies
	}
}

func TestSynthesize(t *testing.T) {
	scored := []grid.Scored{
		{Config: model.CandidateConfig{InputSpeed: 20, Inaccuracy: 0.1, Mistake: 0.01, Misdrop: 0.001}, Score: 400},
		{Config: model.CandidateConfig{InputSpeed: 10, Inaccuracy: 0.3, Mistake: 0.05, Misdrop: 0.005}, Score: 100},
		{Config: model.CandidateConfig{InputSpeed: 6, Inaccuracy: 0.9, Mistake: 0.3, Misdrop: 0.03}, Score: 1e-6},
		{Config: model.CandidateConfig{InputSpeed: 12, Inaccuracy: 0.6, Mistake: 0.1, Misdrop: 0.01}, Score: 101},
	}

	bots, skipped := botgen.Synthesizer{NewID: sequentialIDs()}.Synthesize(scored)
	require.Equal(t, 1, skipped, "trophies rounding to zero are skipped")
	require.Len(t, bots, 3)

	// Sorted by trophies, ties keep input order.
	require.Equal(t, model.InputSpeed(10), bots[0].Speed)
	require.Equal(t, model.InputSpeed(12), bots[1].Speed)
	require.Equal(t, model.InputSpeed(20), bots[2].Speed)
	require.Equal(t, []int{34, 34, 68}, []int{bots[0].Trophies, bots[1].Trophies, bots[2].Trophies})

	require.Equal(t, 2512, bots[0].Score)
	require.Equal(t, 0.3, bots[0].Inaccuracy)
	require.Equal(t, 0.05, bots[0].Mistake)
	require.Equal(t, 0.005, bots[0].Misdrop)

	require.Equal(t, []string{"bot-2"}, bots[0].BotIDs)
	require.Equal(t, []string{"bot-3"}, bots[1].BotIDs)
	require.Equal(t, []string{"bot-1"}, bots[2].BotIDs)
}

func TestSynthesizeRandomIDs(t *testing.T) {
	bots, _ := botgen.Synthesizer{}.Synthesize([]grid.Scored{{Score: 50}, {Score: 60}})
	require.Len(t, bots, 2)
	require.Len(t, bots[0].BotIDs[0], 36)
	require.NotEqual(t, bots[0].BotIDs[0], bots[1].BotIDs[0])
}

func TestGenerate(t *testing.T) {
	ctx := zerolog.Nop().WithContext(context.Background())
	opts := botgen.DefaultOptions()
	opts.NewID = sequentialIDs()

	summary, err := botgen.Generate(ctx, simulatedRecords(), opts)
	require.NoError(t, err)

	require.Equal(t, 420, summary.Records)
	require.Equal(t, 960, summary.Candidates)
	require.Equal(t, 384, summary.Filtered)
	require.Equal(t, 576, summary.NonPositive+summary.Skipped+summary.Synthesized)
	removed := int(math.RoundToEven(float64(summary.Synthesized) * 0.7))
	require.Equal(t, removed, summary.Removed)
	require.Len(t, summary.Bots, summary.Synthesized-removed)

	require.Equal(t, 84, summary.Model.TestSize)
	require.GreaterOrEqual(t, summary.Model.MSE, 0.0)

	require.Greater(t, len(summary.Bots), 2)
	for i, b := range summary.Bots {
		require.Positive(t, b.Score)
		require.Positive(t, b.Trophies)
		require.False(t, b.Speed <= 8 && b.Misdrop <= 0.01, "slow and precise bot %+v", b)
		require.False(t, b.Speed >= 14 && b.Misdrop >= 0.01, "fast and sloppy bot %+v", b)
		if i > 0 {
			require.GreaterOrEqual(t, b.Trophies, summary.Bots[i-1].Trophies)
		}
	}
}

func TestGenerateRejectsRemoveFraction(t *testing.T) {
	opts := botgen.DefaultOptions()
	opts.RemoveFraction = 1.5
	_, err := botgen.Generate(context.Background(), simulatedRecords(), opts)
	require.Error(t, err)
}
