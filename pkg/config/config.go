// Package config holds the settings of a tonedict build, read from a YAML
// file and completed with defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
	"github.com/temporal-IPA/tonedict/pkg/conversion"
	"github.com/temporal-IPA/tonedict/pkg/phono"
)

// Config is the root of a tonedict configuration file.
type Config struct {
	Sources Sources `yaml:"sources"`
	Build   Build   `yaml:"build"`
	Output  Output  `yaml:"output"`
	Audio   Audio   `yaml:"audio"`
}

// Sources lists the three build inputs. Every path may be a local file or
// an HTTP(S) URL, optionally .gz or .bz2 compressed.
type Sources struct {
	Cedict   string   `yaml:"cedict"`
	Ngrams   []string `yaml:"ngrams"`
	Readings []string `yaml:"readings"`
	// ReadingsMerge is append, no-override or replace.
	ReadingsMerge string `yaml:"readings_merge"`
	Encoding      string `yaml:"encoding"`
}

// Build holds the named constants of the candidate pipeline.
type Build struct {
	// CutoffYear keeps usage observed strictly after it. Nil selects
	// phono.DefaultCutoffYear; 0 counts every year.
	CutoffYear         *int    `yaml:"cutoff_year"`
	DominanceThreshold float64 `yaml:"dominance_threshold"`
	MaxLength          int     `yaml:"max_length"`
	MinCodePoint       int     `yaml:"min_code_point"`
	// Overrides replace the derived reading distribution of a character.
	// A nil map selects DefaultOverrides; an empty map disables them.
	Overrides map[string]map[string]float64 `yaml:"overrides"`
}

type Output struct {
	SQLite string `yaml:"sqlite"`
	JSON   string `yaml:"json"`
	Text   string `yaml:"text"`
	Gob    string `yaml:"gob"`
	// Rare selects the JSON shape carrying rare-tone flags.
	Rare bool `yaml:"rare"`
}

type Audio struct {
	DB      string `yaml:"db"`
	Command string `yaml:"command"`
}

// DefaultOverrides are the curated distributions of two very frequent
// characters whose derived statistics over-represent a literary reading.
func DefaultOverrides() map[string]map[string]float64 {
	return map[string]map[string]float64{
		"了": {"le5": 0.9, "liao3": 0.1},
		"的": {"de5": 0.95, "di2": 0.03, "di4": 0.02},
	}
}

// Default returns a configuration with every default applied.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Sources.ReadingsMerge == "" {
		c.Sources.ReadingsMerge = phono.MergeModeAppend.String()
	}
	if c.Sources.Encoding == "" {
		c.Sources.Encoding = conversion.UTF8.EncodingName()
	}
	if c.Build.CutoffYear == nil {
		cutoff := phono.DefaultCutoffYear
		c.Build.CutoffYear = &cutoff
	}
	if c.Build.DominanceThreshold <= 0 {
		c.Build.DominanceThreshold = candidate.DefaultDominanceThreshold
	}
	if c.Build.MaxLength <= 0 {
		c.Build.MaxLength = candidate.DefaultMaxLength
	}
	if c.Build.MinCodePoint <= 0 {
		c.Build.MinCodePoint = int(candidate.DefaultMinCodePoint)
	}
	if c.Build.Overrides == nil {
		c.Build.Overrides = DefaultOverrides()
	}
	if c.Output.SQLite == "" {
		c.Output.SQLite = "dict.sqlite3"
	}
}

// Cutoff returns the effective cutoff year.
func (b Build) Cutoff() int {
	if b.CutoffYear == nil {
		return phono.DefaultCutoffYear
	}
	return *b.CutoffYear
}

// Validate reports settings that cannot be used for a build.
func (c Config) Validate() error {
	if c.Build.DominanceThreshold > 1 {
		return fmt.Errorf("dominance_threshold %v is above 1", c.Build.DominanceThreshold)
	}
	if _, err := ParseMergeMode(c.Sources.ReadingsMerge); err != nil {
		return err
	}
	if _, err := conversion.ParseEncoding(c.Sources.Encoding); err != nil {
		return err
	}
	return nil
}

// Load reads a YAML configuration. The empty path yields Default().
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		c.ApplyDefaults()
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("decode config %s: %w", path, err)
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Save writes c as YAML through a temporary file.
func Save(path string, c Config) error {
	if path == "" {
		return errors.New("save config: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	c.ApplyDefaults()
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// ParseMergeMode parses the spelling returned by MergeMode.String.
func ParseMergeMode(s string) (phono.MergeMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "append":
		return phono.MergeModeAppend, nil
	case "no-override", "nooverride":
		return phono.MergeModeNoOverride, nil
	case "replace":
		return phono.MergeModeReplace, nil
	}
	return 0, fmt.Errorf("unknown merge mode %q", s)
}

// CandidateOptions converts the build section into pipeline options.
func (c Config) CandidateOptions() (candidate.Options, error) {
	overrides, err := phono.NewReadingTable(c.Build.Overrides)
	if err != nil {
		return candidate.Options{}, fmt.Errorf("overrides: %w", err)
	}
	return candidate.Options{
		DominanceThreshold: c.Build.DominanceThreshold,
		MaxLength:          c.Build.MaxLength,
		MinCodePoint:       rune(c.Build.MinCodePoint),
		Overrides:          overrides,
	}, nil
}
