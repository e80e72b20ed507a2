// Package results loads simulation result files.
package results

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nestris-org/botfit/internal/model"
)

// ErrEmpty is returned when a results file holds no records.
var ErrEmpty = errors.New("results file is empty")

// DefaultPath is the results file read when no path is configured.
const DefaultPath = "results.json"

// Load reads a JSON array of result records from the provided file path.
func Load(path string) ([]model.ResultRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only results file.
			_ = cerr
		}
	}()

	var records []model.ResultRecord
	if err := json.NewDecoder(bufio.NewReader(file)).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	return records, nil
}

// Dataset splits records into feature rows and average-score targets.
func Dataset(records []model.ResultRecord) ([][]float64, []float64) {
	x := make([][]float64, len(records))
	y := make([]float64, len(records))
	for i, r := range records {
		x[i] = r.Features()
		y[i] = r.Stats.Average.Score
	}
	return x, y
}
