package report

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/nestris-org/botfit/internal/botgen"
	"github.com/nestris-org/botfit/internal/model"
)

const (
	defaultHistBins  = 10
	defaultHistWidth = 40
)

// RenderHistogram prints a bucketed distribution of values.
func RenderHistogram(w io.Writer, title string, values []float64, bins, width int) error {
	if len(values) == 0 {
		return nil
	}
	if bins <= 0 {
		bins = defaultHistBins
	}
	if width <= 0 {
		width = defaultHistWidth
	}
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if minMaxEqual(values) {
		_, err := fmt.Fprintf(w, "%.0f: %d\n", values[0], len(values))
		return err
	}
	h := histogram.Hist(bins, values)
	return histogram.Fprint(w, h, histogram.Linear(width))
}

func minMaxEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// Scores returns the average scores of records.
func Scores(records []model.ResultRecord) []float64 {
	out := make([]float64, len(records))
	for i, r := range records {
		out[i] = r.Stats.Average.Score
	}
	return out
}

// RenderSummary prints the outcome of a generation run.
func RenderSummary(w io.Writer, s botgen.Summary) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Records: %d", s.Records),
	}
	if s.Model != nil {
		lines = append(lines,
			fmt.Sprintf("Model: degree %d, %d features, train %d, test %d", s.Model.Degree, len(s.Model.Terms), s.Model.TrainSize, s.Model.TestSize),
			fmt.Sprintf("Mean Squared Error on Test Set: %g", s.Model.MSE),
		)
	}
	lines = append(lines,
		fmt.Sprintf("Candidates: %d (filtered %d, non-positive %d, skipped %d)", s.Candidates, s.Filtered, s.NonPositive, s.Skipped),
		fmt.Sprintf("Synthesized: %d, removed %d", s.Synthesized, s.Removed),
		fmt.Sprintf("num bots: %d", len(s.Bots)),
	)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if len(s.Bots) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	trophies := make([]float64, len(s.Bots))
	for i, b := range s.Bots {
		trophies[i] = float64(b.Trophies)
	}
	return RenderHistogram(w, "Trophies", trophies, defaultHistBins, defaultHistWidth)
}
