package candidate

import (
	"github.com/temporal-IPA/tonedict/pkg/phono"
)

// Options are the named constants of a build.
//
// Zero values select the defaults, so Options{} is a valid configuration.
type Options struct {
	// DominanceThreshold is the inclusive share a tone must reach within
	// its toneless group for the other tones of the group to be rare.
	DominanceThreshold float64
	// MaxLength is the longest admitted candidate, in characters.
	MaxLength int
	// MinCodePoint is the lowest code point admitted in a candidate.
	MinCodePoint rune
	// Overrides are manually curated distributions. They replace, never
	// merge with, the distributions of the reading table.
	Overrides phono.ReadingTable
}

func (o Options) withDefaults() Options {
	if o.DominanceThreshold <= 0 {
		o.DominanceThreshold = DefaultDominanceThreshold
	}
	if o.MaxLength <= 0 {
		o.MaxLength = DefaultMaxLength
	}
	if o.MinCodePoint <= 0 {
		o.MinCodePoint = DefaultMinCodePoint
	}
	return o
}

// Stats summarizes a build.
type Stats struct {
	// Input is the number of raw dictionary entries.
	Input int
	// Admitted is the number of entries that passed the Filter.
	Admitted int
	// Rejected is Input - Admitted.
	Rejected int
	// Entries is the number of distinct (reading, candidate) pairs.
	Entries int
	// Readings is the number of distinct readings.
	Readings int
	// Rare is the number of entries flagged with a rare tone.
	Rare int
}

// Builder runs the whole candidate pipeline.
type Builder struct {
	opts Options
}

// NewBuilder returns a Builder using opts, zero fields being replaced by
// their defaults.
func NewBuilder(opts Options) *Builder {
	return &Builder{opts: opts.withDefaults()}
}

// Options returns the effective options of b.
func (b *Builder) Options() Options {
	return b.opts
}

// Processors returns the ordered stages run by Build for the given
// tables. readings must already include the overrides.
func (b *Builder) Processors(corpus phono.CorpusTable, readings phono.ReadingTable) []Processor {
	return []Processor{
		Normalizer{},
		Filter{MinCodePoint: b.opts.MinCodePoint, MaxLength: b.opts.MaxLength},
		FrequencyLookup{Corpus: corpus},
		Aggregator{},
		Expander{},
		Aggregator{},
		Scaler{Readings: readings},
		Classifier{Readings: readings, Threshold: b.opts.DominanceThreshold},
	}
}

// ReadingsWithOverrides returns a copy of readings where every character
// of the overrides has its distribution replaced. readings is not
// modified.
func (b *Builder) ReadingsWithOverrides(readings phono.ReadingTable) phono.ReadingTable {
	out := make(phono.ReadingTable, len(readings)+len(b.opts.Overrides))
	for char, d := range readings {
		cp := make(phono.Distribution, len(d))
		for r, w := range d {
			cp[r] = w
		}
		out[char] = cp
	}
	if len(b.opts.Overrides) > 0 {
		out.Merge(b.opts.Overrides, phono.MergeModeReplace)
	}
	return out
}

// Build turns raw dictionary entries into a ranked Dictionary.
//
// corpus and readings are read only. Missing lookups in either table are
// not errors. The only failure is an admitted entry that is not aligned,
// reported as an *AlignmentError.
func (b *Builder) Build(entries []phono.DictEntry, corpus phono.CorpusTable, readings phono.ReadingTable) (*Dictionary, Stats, error) {
	stats := Stats{Input: len(entries)}
	processors := b.Processors(corpus, b.ReadingsWithOverrides(readings))

	current := FromDictEntries(entries)
	for _, p := range processors {
		out, err := Run(current, p)
		if err != nil {
			return nil, stats, err
		}
		if _, ok := p.(Filter); ok {
			stats.Admitted = len(out)
			stats.Rejected = stats.Input - stats.Admitted
		}
		current = out
	}

	stats.Entries = len(current)
	for _, e := range current {
		if e.RareTone {
			stats.Rare++
		}
	}
	dict := Assemble(current)
	stats.Readings = dict.Len()
	return dict, stats, nil
}
