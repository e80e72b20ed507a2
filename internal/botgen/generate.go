package botgen

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nestris-org/botfit/internal/grid"
	"github.com/nestris-org/botfit/internal/model"
	"github.com/nestris-org/botfit/internal/regress"
	"github.com/nestris-org/botfit/internal/results"
	"github.com/nestris-org/botfit/internal/thin"
)

// DefaultRemoveFraction is the share of synthesized bots thinned away.
const DefaultRemoveFraction = 0.7

// Options configures a generation run.
type Options struct {
	Regress        regress.Options
	Values         grid.Values
	Filters        []grid.FilterFunc
	RemoveFraction float64
	NewID          func() string
}

// DefaultOptions returns the stock generation settings.
func DefaultOptions() Options {
	return Options{
		Regress:        regress.DefaultOptions(),
		Values:         grid.DefaultValues(),
		Filters:        grid.DefaultFilters(),
		RemoveFraction: DefaultRemoveFraction,
	}
}

// Summary describes the outcome of a generation run.
type Summary struct {
	Records     int
	Model       *regress.Model
	Candidates  int
	Filtered    int
	NonPositive int
	Skipped     int
	Synthesized int
	Removed     int
	Bots        []model.BotEntry
}

// Generate fits the score model on records and produces the thinned bot list.
func Generate(ctx context.Context, records []model.ResultRecord, opts Options) (Summary, error) {
	logger := zerolog.Ctx(ctx)
	if opts.RemoveFraction < 0 || opts.RemoveFraction > 1 {
		return Summary{}, fmt.Errorf("remove fraction must be between 0 and 1, got %g", opts.RemoveFraction)
	}

	x, y := results.Dataset(records)
	m, err := regress.Fit(x, y, opts.Regress)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to fit model: %w", err)
	}
	logger.Info().
		Int("train", m.TrainSize).
		Int("test", m.TestSize).
		Int("features", len(m.Terms)).
		Float64("mse", m.MSE).
		Msg("fitted score model")

	summary := Summary{Records: len(records), Model: m}
	summary.Candidates = opts.Values.Size()
	candidates := grid.Enumerate(opts.Values, opts.Filters...)
	summary.Filtered = summary.Candidates - len(candidates)

	scored := grid.Predict(candidates, m)
	summary.NonPositive = len(candidates) - len(scored)
	logger.Debug().
		Int("candidates", summary.Candidates).
		Int("filtered", summary.Filtered).
		Int("non_positive", summary.NonPositive).
		Msg("scored grid")

	bots, skipped := Synthesizer{NewID: opts.NewID}.Synthesize(scored)
	summary.Skipped = skipped
	summary.Synthesized = len(bots)
	if skipped > 0 {
		logger.Debug().Int("skipped", skipped).Msg("skipped candidates without trophies")
	}

	bots = thin.RemoveFraction(bots, opts.RemoveFraction, func(b model.BotEntry) float64 {
		return float64(b.Trophies)
	})
	summary.Removed = summary.Synthesized - len(bots)
	summary.Bots = bots
	logger.Info().Int("bots", len(bots)).Int("removed", summary.Removed).Msg("generated bots")
	return summary, nil
}
