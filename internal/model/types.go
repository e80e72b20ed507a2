// Package model defines shared data structures.
package model

import "fmt"

// SimConfig is the bot configuration a simulation batch was run with.
type SimConfig struct {
	InputSpeed float64  `json:"inputSpeed"`
	Inaccuracy float64  `json:"inaccuracy"`
	Mistake    float64  `json:"mistake"`
	Misdrop    float64  `json:"misdrop"`
	StartLevel *float64 `json:"startLevel,omitempty"`
}

// GameStats holds one aggregate over the simulated games of a configuration.
type GameStats struct {
	Score float64 `json:"score"`
	Lines float64 `json:"lines"`
	Level float64 `json:"level,omitempty"`
}

// SimStats pairs the central value with its spread.
// Variance carries the per-configuration standard deviation.
type SimStats struct {
	Average  GameStats `json:"average"`
	Variance GameStats `json:"variance"`
}

// ResultRecord is one entry of a simulation results file.
type ResultRecord struct {
	Config SimConfig `json:"config"`
	Stats  SimStats  `json:"stats"`
}

// Features returns the regression inputs for the record.
func (r ResultRecord) Features() []float64 {
	return []float64{r.Config.InputSpeed, r.Config.Inaccuracy, r.Config.Mistake, r.Config.Misdrop}
}

// Label renders the chart label used for a record.
func (r ResultRecord) Label() string {
	return fmt.Sprintf("Speed: %g, Inacc: %g, Misdrop: %g", r.Config.InputSpeed, r.Config.Inaccuracy, r.Config.Misdrop)
}

// InputSpeed is a tapping speed in Hz.
type InputSpeed int

// Label renders the speed as the game's enum member.
func (s InputSpeed) Label() string {
	return fmt.Sprintf("InputSpeed.HZ_%d", int(s))
}

// CandidateConfig is a grid point considered for bot generation.
type CandidateConfig struct {
	InputSpeed InputSpeed
	Inaccuracy float64
	Mistake    float64
	Misdrop    float64
}

// Features returns the regression inputs for the candidate.
func (c CandidateConfig) Features() []float64 {
	return []float64{float64(c.InputSpeed), c.Inaccuracy, c.Mistake, c.Misdrop}
}

// BotEntry is a synthesized bot definition.
type BotEntry struct {
	Score      int
	Trophies   int
	Speed      InputSpeed
	Inaccuracy float64
	Mistake    float64
	Misdrop    float64
	BotIDs     []string
}

// GenerateConfig defines settings for a generation run.
type GenerateConfig struct {
	ResultsPath    string
	OutPath        string
	RemoveFraction float64
	Alpha          float64
	Degree         int
	TestFraction   float64
	Seed           int64
	MetricsPath    string
}

// PlotConfig defines settings for results charts.
type PlotConfig struct {
	ResultsPath string
	Title       string
	PNGPath     string
	Plain       bool
}
