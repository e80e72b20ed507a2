// Package main provides the CLI entrypoint for botfit.
package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nestris-org/botfit/internal/botgen"
	"github.com/nestris-org/botfit/internal/config"
	"github.com/nestris-org/botfit/internal/emit"
	"github.com/nestris-org/botfit/internal/grid"
	"github.com/nestris-org/botfit/internal/metrics"
	"github.com/nestris-org/botfit/internal/model"
	"github.com/nestris-org/botfit/internal/regress"
	"github.com/nestris-org/botfit/internal/report"
	"github.com/nestris-org/botfit/internal/results"
	"github.com/nestris-org/botfit/internal/resultsui"
)

const (
	defaultAlpha        = 1.0
	defaultDegree       = 3
	defaultTestFraction = 0.2
	defaultSeed         = 42
	defaultPlotTitle    = "StackRabbit performance with depth=1, no tucks"
)

var (
	configPath string
	verbose    bool

	genResults      string
	genOut          string
	genRemove       float64
	genAlpha        float64
	genDegree       int
	genTestFraction float64
	genSeed         int64
	genMetricsFile  string

	plotResults string
	plotTitle   string
	plotPNG     string
	plotPlain   bool

	predictResults    string
	predictSpeed      int
	predictInaccuracy float64
	predictMistake    float64
	predictMisdrop    float64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "botfit",
		Short:         "Fit bot simulation results and generate bot definitions",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runGenerateCmd,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/botfit/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newPredictCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate bot definitions from simulation results",
		Args:  cobra.NoArgs,
		RunE:  runGenerateCmd,
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&genResults, "results", results.DefaultPath, "simulation results JSON file")
	cmd.Flags().StringVar(&genOut, "out", emit.DefaultPath, "output file for the bot array")
	cmd.Flags().Float64Var(&genRemove, "remove", botgen.DefaultRemoveFraction, "fraction of synthesized bots to thin away (0-1)")
	cmd.Flags().Float64Var(&genAlpha, "alpha", defaultAlpha, "ridge regularization strength")
	cmd.Flags().IntVar(&genDegree, "degree", defaultDegree, "polynomial degree")
	cmd.Flags().Float64Var(&genTestFraction, "test-fraction", defaultTestFraction, "share of records held out for evaluation")
	cmd.Flags().Int64Var(&genSeed, "seed", defaultSeed, "seed for the train/test shuffle")
	cmd.Flags().StringVar(&genMetricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "results", &genResults, fileCfg.Generate.Results)
	applyStringConfig(cmd, "out", &genOut, fileCfg.Generate.Out)
	applyFloatConfig(cmd, "remove", &genRemove, fileCfg.Generate.Remove)
	applyFloatConfig(cmd, "alpha", &genAlpha, fileCfg.Generate.Alpha)
	applyIntConfig(cmd, "degree", &genDegree, fileCfg.Generate.Degree)
	applyFloatConfig(cmd, "test-fraction", &genTestFraction, fileCfg.Generate.TestFraction)
	applyInt64Config(cmd, "seed", &genSeed, fileCfg.Generate.Seed)
	applyStringConfig(cmd, "metrics-file", &genMetricsFile, fileCfg.Generate.MetricsFile)

	cfg := model.GenerateConfig{
		ResultsPath:    genResults,
		OutPath:        genOut,
		RemoveFraction: genRemove,
		Alpha:          genAlpha,
		Degree:         genDegree,
		TestFraction:   genTestFraction,
		Seed:           genSeed,
		MetricsPath:    genMetricsFile,
	}
	if err := validateGenerateConfig(cfg); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())
	ctx := logger.WithContext(commandContext(cmd))

	records, err := results.Load(cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	logger.Debug().Str("path", cfg.ResultsPath).Int("records", len(records)).Msg("loaded results")

	opts := botgen.DefaultOptions()
	opts.Regress = regressOptions(cfg)
	opts.Values = gridValues(opts.Values, fileCfg.Grid)
	opts.RemoveFraction = cfg.RemoveFraction

	start := time.Now()
	summary, err := botgen.Generate(ctx, records, opts)
	if err != nil {
		return fmt.Errorf("failed to generate bots: %w", err)
	}
	if err := emit.WriteFile(cfg.OutPath, summary.Bots); err != nil {
		return err
	}
	logger.Info().Str("path", cfg.OutPath).Int("bots", len(summary.Bots)).Msg("wrote bots")

	if err := report.RenderSummary(cmd.OutOrStdout(), summary); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if cfg.MetricsPath != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(summary, time.Since(start))
		if err := recorder.WriteFile(cfg.MetricsPath); err != nil {
			return err
		}
		logger.Debug().Str("path", cfg.MetricsPath).Msg("wrote metrics")
	}
	return nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Chart simulation results",
		Args:  cobra.NoArgs,
		RunE:  runPlotCmd,
	}
	cmd.Flags().StringVar(&plotResults, "results", results.DefaultPath, "simulation results JSON file")
	cmd.Flags().StringVar(&plotTitle, "title", defaultPlotTitle, "chart title")
	cmd.Flags().StringVar(&plotPNG, "png", "", "save the chart as a PNG instead of printing it")
	cmd.Flags().BoolVar(&plotPlain, "plain", false, "print a plain chart and table instead of the interactive viewer")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "results", &plotResults, fileCfg.Plot.Results)
	applyStringConfig(cmd, "title", &plotTitle, fileCfg.Plot.Title)
	applyStringConfig(cmd, "png", &plotPNG, fileCfg.Plot.PNG)

	cfg := model.PlotConfig{
		ResultsPath: plotResults,
		Title:       plotTitle,
		PNGPath:     plotPNG,
		Plain:       plotPlain,
	}
	logger := newLogger(cmd.ErrOrStderr())

	records, err := results.Load(cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	if cfg.PNGPath != "" {
		if err := report.SavePNG(cfg.PNGPath, cfg.Title, records); err != nil {
			return err
		}
		logger.Info().Str("path", cfg.PNGPath).Int("records", len(records)).Msg("saved chart")
		return nil
	}

	out := cmd.OutOrStdout()
	if cfg.Plain || !report.IsTerminal(out) {
		if err := report.RenderBars(out, cfg.Title, records, 0, false); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if err := report.RenderTable(out, records); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	program := tea.NewProgram(resultsui.NewModel(records, cfg.Title), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run results TUI: %w", err)
	}
	return nil
}

func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict score and trophies for one configuration",
		Args:  cobra.NoArgs,
		RunE:  runPredictCmd,
	}
	cmd.Flags().StringVar(&predictResults, "results", results.DefaultPath, "simulation results JSON file")
	cmd.Flags().IntVar(&predictSpeed, "speed", 10, "input speed in Hz")
	cmd.Flags().Float64Var(&predictInaccuracy, "inaccuracy", 0.3, "inaccuracy rate")
	cmd.Flags().Float64Var(&predictMistake, "mistake", 0.05, "mistake rate")
	cmd.Flags().Float64Var(&predictMisdrop, "misdrop", 0.005, "misdrop rate")
	return cmd
}

func runPredictCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "results", &predictResults, fileCfg.Generate.Results)
	if predictSpeed <= 0 {
		return fmt.Errorf("--speed must be > 0")
	}

	cfg := model.GenerateConfig{
		ResultsPath:  predictResults,
		Alpha:        defaultAlpha,
		Degree:       defaultDegree,
		TestFraction: defaultTestFraction,
		Seed:         defaultSeed,
	}
	applyFloatConfig(cmd, "alpha", &cfg.Alpha, fileCfg.Generate.Alpha)
	applyIntConfig(cmd, "degree", &cfg.Degree, fileCfg.Generate.Degree)
	applyFloatConfig(cmd, "test-fraction", &cfg.TestFraction, fileCfg.Generate.TestFraction)
	applyInt64Config(cmd, "seed", &cfg.Seed, fileCfg.Generate.Seed)

	records, err := results.Load(cfg.ResultsPath)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	x, y := results.Dataset(records)
	m, err := regress.Fit(x, y, regressOptions(cfg))
	if err != nil {
		return fmt.Errorf("failed to fit model: %w", err)
	}

	candidate := model.CandidateConfig{
		InputSpeed: model.InputSpeed(predictSpeed),
		Inaccuracy: predictInaccuracy,
		Mistake:    predictMistake,
		Misdrop:    predictMisdrop,
	}
	return writePrediction(cmd.OutOrStdout(), candidate, m.Predict(candidate.Features()))
}

func writePrediction(w io.Writer, c model.CandidateConfig, score float64) error {
	lines := []string{
		fmt.Sprintf("Configuration: speed %s, inaccuracy %g, mistake %g, misdrop %g", c.InputSpeed.Label(), c.Inaccuracy, c.Mistake, c.Misdrop),
		fmt.Sprintf("Predicted score: %.1f", score),
	}
	trophies, err := botgen.TrophiesFromScore(score)
	if err != nil {
		lines = append(lines, fmt.Sprintf("Trophies: n/a (%v)", err))
	} else {
		lines = append(lines,
			fmt.Sprintf("Display score: %d", botgen.DisplayScore(score)),
			fmt.Sprintf("Trophies: %d", int(math.RoundToEven(trophies))),
		)
	}
	if grid.Keep(c, grid.DefaultFilters()...) {
		lines = append(lines, "Grid filters: kept")
	} else {
		lines = append(lines, "Grid filters: excluded")
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := resolveConfigPath()
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(resolveConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func newLogger(w io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: w, NoColor: !report.IsTerminal(w), TimeFormat: time.Kitchen}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger()
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func regressOptions(cfg model.GenerateConfig) regress.Options {
	return regress.Options{
		Degree:       cfg.Degree,
		Alpha:        cfg.Alpha,
		TestFraction: cfg.TestFraction,
		Seed:         cfg.Seed,
	}
}

func gridValues(base grid.Values, override config.GridConfig) grid.Values {
	if len(override.InputSpeeds) > 0 {
		base.InputSpeeds = append([]int(nil), override.InputSpeeds...)
	}
	if len(override.Inaccuracies) > 0 {
		base.Inaccuracies = append([]float64(nil), override.Inaccuracies...)
	}
	if len(override.Mistakes) > 0 {
		base.Mistakes = append([]float64(nil), override.Mistakes...)
	}
	if len(override.Misdrops) > 0 {
		base.Misdrops = append([]float64(nil), override.Misdrops...)
	}
	return base
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# botfit configuration
# Uncomment a value to enable it. CLI flags override config values.
# BOTFIT_ environment variables override both, e.g. BOTFIT_GENERATE__TEST_FRACTION=0.25.

[generate]
# results = %q     # Simulation results JSON file
# out = %q   # Output file for the bot array
# remove = %.1f              # Fraction of synthesized bots to thin away (0-1)
# alpha = %.1f               # Ridge regularization strength
# degree = %d                # Polynomial degree
# test-fraction = %.1f       # Share of records held out for evaluation
# seed = %d                 # Seed for the train/test shuffle
# metrics-file = ""          # Prometheus textfile for the run

[grid]
# input-speeds = [6, 8, 10, 12, 14, 17, 20, 25]
# inaccuracies = [0.9, 0.6, 0.3, 0.1]
# mistakes = [0.3, 0.1, 0.05, 0.03, 0.01, 0.005]
# misdrops = [0.03, 0.01, 0.005, 0.001, 0.0005]

[plot]
# results = %q
# title = %q
# png = ""                   # Save a PNG instead of printing the chart
`,
		results.DefaultPath,
		emit.DefaultPath,
		botgen.DefaultRemoveFraction,
		defaultAlpha,
		defaultDegree,
		defaultTestFraction,
		defaultSeed,
		results.DefaultPath,
		defaultPlotTitle,
	)
}

func validateGenerateConfig(cfg model.GenerateConfig) error {
	if cfg.ResultsPath == "" {
		return fmt.Errorf("--results must not be empty")
	}
	if cfg.OutPath == "" {
		return fmt.Errorf("--out must not be empty")
	}
	if cfg.RemoveFraction < 0 || cfg.RemoveFraction > 1 {
		return fmt.Errorf("--remove must be between 0 and 1")
	}
	if cfg.Alpha < 0 {
		return fmt.Errorf("--alpha must be >= 0")
	}
	if cfg.Degree < 1 {
		return fmt.Errorf("--degree must be >= 1")
	}
	if cfg.TestFraction < 0 || cfg.TestFraction >= 1 {
		return fmt.Errorf("--test-fraction must be in [0, 1)")
	}
	return nil
}
