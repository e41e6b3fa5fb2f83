package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
	"github.com/temporal-IPA/tonedict/pkg/config"
	"github.com/temporal-IPA/tonedict/pkg/conversion"
	"github.com/temporal-IPA/tonedict/pkg/phono"
	"github.com/temporal-IPA/tonedict/pkg/source"
	"github.com/temporal-IPA/tonedict/pkg/store"
)

// buildConfig is the resolved configuration of one build.
type buildConfig struct {
	config.Config
	ConfigPath   string
	SaveReadings string
}

// runBuildFromArgs parses flags for the "build" subcommand on top of the
// optional configuration file and delegates to runBuild.
func runBuildFromArgs(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("build", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	configPath := fs.String("config", "", "YAML configuration file")
	cedict := fs.String("cedict", "", "CC-CEDICT source")
	ngrams := fs.StringArray("ngram", nil, "Google Books 1-gram source (repeatable)")
	readings := fs.StringArray("readings", nil, "reading-frequency source, text or gob (repeatable)")
	merge := fs.String("merge", "", "merge mode between reading sources: append, no-override or replace")
	encoding := fs.String("encoding", "", "encoding of the CC-CEDICT and 1-gram sources")
	cutoff := fs.Int("cutoff", phono.DefaultCutoffYear, "only count usage observed after this year")
	threshold := fs.Float64("threshold", candidate.DefaultDominanceThreshold, "dominance threshold of the rare-tone rule")
	noOverrides := fs.Bool("no-overrides", false, "ignore the curated reading overrides")
	out := fs.String("out", "", "SQLite output path")
	jsonPath := fs.String("json", "", "JSON export path")
	rare := fs.Bool("rare", false, "export JSON candidates with their rare-tone flag")
	textPath := fs.String("text", "", "text export path")
	gobPath := fs.String("gob", "", "gob export path")
	saveReadings := fs.String("save-readings", "", "save the merged reading table as gob")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(os.Stdout)
			return nil
		}
		return err
	}
	if fs.NArg() != 0 {
		return fmt.Errorf(`"build" takes no positional argument, got %q`, fs.Args())
	}

	cfg, err := config.Load(strings.TrimSpace(*configPath))
	if err != nil {
		return err
	}

	// Explicit flags win over the configuration file.
	if fs.Changed("cedict") {
		cfg.Sources.Cedict = strings.TrimSpace(*cedict)
	}
	if fs.Changed("ngram") {
		cfg.Sources.Ngrams = *ngrams
	}
	if fs.Changed("readings") {
		cfg.Sources.Readings = *readings
	}
	if fs.Changed("merge") {
		cfg.Sources.ReadingsMerge = *merge
	}
	if fs.Changed("encoding") {
		cfg.Sources.Encoding = *encoding
	}
	if fs.Changed("cutoff") {
		cfg.Build.CutoffYear = cutoff
	}
	if fs.Changed("threshold") {
		cfg.Build.DominanceThreshold = *threshold
	}
	if *noOverrides {
		cfg.Build.Overrides = map[string]map[string]float64{}
	}
	if fs.Changed("out") {
		cfg.Output.SQLite = strings.TrimSpace(*out)
	}
	if fs.Changed("json") {
		cfg.Output.JSON = strings.TrimSpace(*jsonPath)
	}
	if fs.Changed("rare") {
		cfg.Output.Rare = *rare
	}
	if fs.Changed("text") {
		cfg.Output.Text = strings.TrimSpace(*textPath)
	}
	if fs.Changed("gob") {
		cfg.Output.Gob = strings.TrimSpace(*gobPath)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	return runBuild(ctx, buildConfig{
		Config:       cfg,
		ConfigPath:   *configPath,
		SaveReadings: strings.TrimSpace(*saveReadings),
	})
}

func runBuild(ctx context.Context, cfg buildConfig) error {
	if cfg.Sources.Cedict == "" {
		return errors.New("missing CC-CEDICT source (--cedict)")
	}
	if len(cfg.Sources.Ngrams) == 0 {
		return errors.New("missing 1-gram source (--ngram)")
	}
	enc, err := conversion.ParseEncoding(cfg.Sources.Encoding)
	if err != nil {
		return err
	}
	mode, err := config.ParseMergeMode(cfg.Sources.ReadingsMerge)
	if err != nil {
		return err
	}
	opts, err := cfg.CandidateOptions()
	if err != nil {
		return err
	}

	ts := time.Now()

	entries, err := loadCedict(ctx, cfg.Sources.Cedict, enc)
	if err != nil {
		return err
	}
	corpus, err := loadCorpus(ctx, cfg.Sources.Ngrams, enc, cfg.Build.Cutoff())
	if err != nil {
		return err
	}
	readings, err := loadReadings(ctx, cfg.Sources.Readings, mode)
	if err != nil {
		return err
	}
	if cfg.SaveReadings != "" {
		if err := saveReadings(cfg.SaveReadings, readings); err != nil {
			return err
		}
	}

	fmt.Fprintf(os.Stderr, "\rBuilding candidates...%40s", "")
	dict, stats, err := candidate.NewBuilder(opts).Build(entries, corpus, readings)
	if err != nil {
		return fmt.Errorf("build: %w", err)
	}

	info, err := store.WriteSQLite(ctx, cfg.Output.SQLite, dict)
	if err != nil {
		return fmt.Errorf("write %s: %w", cfg.Output.SQLite, err)
	}
	if cfg.Output.JSON != "" {
		if err := store.WriteJSON(cfg.Output.JSON, dict, cfg.Output.Rare); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}
	if cfg.Output.Text != "" {
		if err := store.WriteText(cfg.Output.Text, dict); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	if cfg.Output.Gob != "" {
		if err := store.WriteGob(cfg.Output.Gob, dict); err != nil {
			return fmt.Errorf("write gob: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr,
		"\rFinished build %s. Entries: %d (admitted: %d, rejected: %d), candidates: %d, readings: %d, rare tones: %d, elapsed: %.3f seconds\n",
		info.ID, stats.Input, stats.Admitted, stats.Rejected, stats.Entries, stats.Readings, stats.Rare, time.Since(ts).Seconds())
	return nil
}

func loadCedict(ctx context.Context, path string, enc conversion.EncodingID) ([]phono.DictEntry, error) {
	fmt.Fprintf(os.Stderr, "\rLoading dictionary %s", path)
	r, err := source.Open(ctx, path, enc)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	defer r.Close()
	entries, err := phono.LoadCedict(r)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", path, err)
	}
	return entries, nil
}

func loadCorpus(ctx context.Context, paths []string, enc conversion.EncodingID, cutoff int) (phono.CorpusTable, error) {
	corpus := make(phono.CorpusTable, 1<<16)
	for i, path := range paths {
		fmt.Fprintf(os.Stderr, "\rLoading corpus %d/%d: %s", i+1, len(paths), path)
		if err := loadCorpusFile(ctx, path, enc, cutoff, corpus); err != nil {
			return nil, err
		}
	}
	return corpus, nil
}

func loadCorpusFile(ctx context.Context, path string, enc conversion.EncodingID, cutoff int, corpus phono.CorpusTable) error {
	r, err := source.Open(ctx, path, enc)
	if err != nil {
		return fmt.Errorf("open %q: %w", path, err)
	}
	defer r.Close()
	if err := phono.LoadCorpus(r, cutoff, corpus); err != nil {
		return fmt.Errorf("load %q: %w", path, err)
	}
	return nil
}

// loadReadings merges the reading sources in order. They are always read
// as UTF-8 since gob snapshots must reach the sniffer untouched.
func loadReadings(ctx context.Context, paths []string, mode phono.MergeMode) (phono.ReadingTable, error) {
	table := make(phono.ReadingTable)
	for i, path := range paths {
		fmt.Fprintf(os.Stderr, "\rLoading readings %d/%d: %s", i+1, len(paths), path)
		r, err := source.Open(ctx, path, conversion.UTF8)
		if err != nil {
			return nil, fmt.Errorf("open %q: %w", path, err)
		}
		err = phono.LoadInto(table, mode, r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("load %q: %w", path, err)
		}
	}
	return table, nil
}

func saveReadings(path string, table phono.ReadingTable) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save readings: %w", err)
	}
	if err := phono.WriteGob(f, table); err != nil {
		f.Close()
		return fmt.Errorf("save readings %s: %w", path, err)
	}
	return f.Close()
}
