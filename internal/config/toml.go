// Package config provides configuration helpers and TOML parsing.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrInvalidConfig marks configuration values that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// EnvPrefix prefixes environment variables that override file values.
// BOTFIT_GENERATE__TEST_FRACTION maps to generate.test-fraction; grid lists are
// comma-separated.
const EnvPrefix = "BOTFIT_"

// FileConfig represents the configuration file.
type FileConfig struct {
	Generate GenerateConfig `koanf:"generate"`
	Grid     GridConfig     `koanf:"grid"`
	Plot     PlotConfig     `koanf:"plot"`
}

// GenerateConfig maps bot generation settings.
type GenerateConfig struct {
	Results      *string  `koanf:"results"`
	Out          *string  `koanf:"out"`
	Remove       *float64 `koanf:"remove"`
	Alpha        *float64 `koanf:"alpha"`
	Degree       *int     `koanf:"degree"`
	TestFraction *float64 `koanf:"test-fraction"`
	Seed         *int64   `koanf:"seed"`
	MetricsFile  *string  `koanf:"metrics-file"`
}

// GridConfig overrides the candidate value sets.
type GridConfig struct {
	InputSpeeds  []int     `koanf:"input-speeds"`
	Inaccuracies []float64 `koanf:"inaccuracies"`
	Mistakes     []float64 `koanf:"mistakes"`
	Misdrops     []float64 `koanf:"misdrops"`
}

// PlotConfig maps results chart settings.
type PlotConfig struct {
	Results *string `koanf:"results"`
	Title   *string `koanf:"title"`
	PNG     *string `koanf:"png"`
}

// LoadConfig reads a TOML (or YAML, by extension) config from the given path
// and layers BOTFIT_ environment overrides on top. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	k := koanf.New(".")
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
		}
	} else if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return FileConfig{}, fmt.Errorf("failed to read environment: %w", err)
	}

	var cfg FileConfig
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	s = strings.ReplaceAll(s, "__", ".")
	return strings.ReplaceAll(s, "_", "-")
}

// envValue splits comma-separated grid lists so BOTFIT_GRID__INPUT_SPEEDS=10,12
// decodes like the file's input-speeds = [10, 12].
func envValue(k, v string) (string, interface{}) {
	key := envKey(k)
	if strings.HasPrefix(key, "grid.") {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return key, parts
	}
	return key, v
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	default:
		return tomlParser{}
	}
}

func (c FileConfig) validate() error {
	g := c.Generate
	if g.Remove != nil && (*g.Remove < 0 || *g.Remove > 1) {
		return fmt.Errorf("%w: generate.remove must be between 0 and 1", ErrInvalidConfig)
	}
	if g.TestFraction != nil && (*g.TestFraction < 0 || *g.TestFraction >= 1) {
		return fmt.Errorf("%w: generate.test-fraction must be in [0, 1)", ErrInvalidConfig)
	}
	if g.Alpha != nil && *g.Alpha < 0 {
		return fmt.Errorf("%w: generate.alpha must be >= 0", ErrInvalidConfig)
	}
	if g.Degree != nil && *g.Degree < 1 {
		return fmt.Errorf("%w: generate.degree must be >= 1", ErrInvalidConfig)
	}
	for _, speed := range c.Grid.InputSpeeds {
		if speed <= 0 {
			return fmt.Errorf("%w: grid.input-speeds must be positive", ErrInvalidConfig)
		}
	}
	return nil
}

// tomlParser adapts BurntSushi/toml to koanf.
type tomlParser struct{}

func (tomlParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := map[string]interface{}{}
	if _, err := toml.Decode(string(b), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (tomlParser) Marshal(m map[string]interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
