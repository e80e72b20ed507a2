// Package botgen turns a fitted score model into ranked bot definitions.
package botgen

import (
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/nestris-org/botfit/internal/grid"
	"github.com/nestris-org/botfit/internal/model"
)

// ErrNonPositiveScore is returned when trophies are requested for a score <= 0.
var ErrNonPositiveScore = errors.New("score must be greater than zero for trophies calculation")

const (
	trophyFactor  = 3.4
	scoreExponent = 0.7
	scoreScale    = 100
)

// TrophiesFromScore converts a predicted average score into trophies.
func TrophiesFromScore(score float64) (float64, error) {
	if score <= 0 {
		return 0, ErrNonPositiveScore
	}
	return trophyFactor * math.Sqrt(score), nil
}

// DisplayScore bumps a predicted average score up to a plausible high score.
func DisplayScore(score float64) int {
	return int(math.RoundToEven(math.Pow(score, scoreExponent) * scoreScale))
}

// NewID returns a random bot identifier.
func NewID() string {
	return uuid.NewString()
}

// Synthesizer builds bot entries from scored candidates.
type Synthesizer struct {
	// NewID generates bot identifiers; defaults to random UUIDs.
	NewID func() string
}

// Synthesize converts scored candidates into bots sorted ascending by trophies.
// Candidates whose trophies cannot be computed, or round to a non-positive
// value, are skipped and counted.
func (s Synthesizer) Synthesize(scored []grid.Scored) (bots []model.BotEntry, skipped int) {
	newID := s.NewID
	if newID == nil {
		newID = NewID
	}
	bots = make([]model.BotEntry, 0, len(scored))
	for _, sc := range scored {
		trophies, err := TrophiesFromScore(sc.Score)
		if err != nil {
			skipped++
			continue
		}
		bot := model.BotEntry{
			Score:      DisplayScore(sc.Score),
			Trophies:   int(math.RoundToEven(trophies)),
			Speed:      sc.Config.InputSpeed,
			Inaccuracy: sc.Config.Inaccuracy,
			Mistake:    sc.Config.Mistake,
			Misdrop:    sc.Config.Misdrop,
		}
		if bot.Score <= 0 || bot.Trophies <= 0 {
			skipped++
			continue
		}
		bot.BotIDs = []string{newID()}
		bots = append(bots, bot)
	}
	sort.SliceStable(bots, func(i, j int) bool {
		return bots[i].Trophies < bots[j].Trophies
	})
	return bots, skipped
}
