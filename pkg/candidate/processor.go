package candidate

import (
	"fmt"

	"github.com/temporal-IPA/tonedict/pkg/phono"
	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// Processor is one stage of the candidate pipeline.
//
// A Processor takes the entries produced by the previous stage and
// returns a new slice. Implementations must not modify the input slice
// in place and must keep the relative order of the entries they keep:
// ties are ranked by input order at the end of the chain.
type Processor interface {
	// Name identifies the stage in errors.
	Name() string
	Apply(entries []Entry) ([]Entry, error)
}

// Run applies processors in order.
func Run(entries []Entry, processors ...Processor) ([]Entry, error) {
	var err error
	for _, p := range processors {
		entries, err = p.Apply(entries)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return entries, nil
}

// Normalizer canonicalises readings with pinyin.NormalizeKey, so that
// dictionary readings ("lu:3") and reading-table keys ("lǚ") join.
// Entries whose reading cannot be normalized at all are dropped, like
// any other entry the Filter would reject.
type Normalizer struct{}

func (Normalizer) Name() string { return "normalize" }

func (Normalizer) Apply(entries []Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		key, err := pinyin.NormalizeKey(e.Reading)
		if err != nil {
			continue
		}
		e.Reading = key
		out = append(out, e)
	}
	return out, nil
}

// FrequencyLookup sets the frequency of every entry to the corpus usage
// count of its simplified form. Words never observed get 0.
type FrequencyLookup struct {
	Corpus phono.CorpusTable
}

func (FrequencyLookup) Name() string { return "frequency" }

func (f FrequencyLookup) Apply(entries []Entry) ([]Entry, error) {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.Frequency = f.Corpus.Count(e.Simplified)
		out[i] = e
	}
	return out, nil
}

// Aggregator is the Processor form of Aggregate.
type Aggregator struct{}

func (Aggregator) Name() string { return "aggregate" }

func (Aggregator) Apply(entries []Entry) ([]Entry, error) {
	return Aggregate(entries), nil
}

// Expander is the Processor form of Expand. It refuses misaligned
// entries instead of truncating them.
type Expander struct{}

func (Expander) Name() string { return "expand" }

func (Expander) Apply(entries []Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(entries)*2)
	for _, e := range entries {
		if err := CheckAlignment(e); err != nil {
			return nil, err
		}
		out = append(out, Expand(e)...)
	}
	return out, nil
}

// Scaler is the Processor form of Scale.
type Scaler struct {
	Readings phono.ReadingTable
}

func (Scaler) Name() string { return "scale" }

func (s Scaler) Apply(entries []Entry) ([]Entry, error) {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = Scale(e, s.Readings)
	}
	return out, nil
}

// Classifier sets RareTone on every entry with IsRare.
type Classifier struct {
	Readings  phono.ReadingTable
	Threshold float64
}

func (Classifier) Name() string { return "classify" }

func (c Classifier) Apply(entries []Entry) ([]Entry, error) {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		e.RareTone = IsRare(e.Simplified, e.Reading, c.Readings, c.Threshold)
		out[i] = e
	}
	return out, nil
}
