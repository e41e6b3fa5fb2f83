// Package candidate builds the reading → ranked candidates table used by
// an input-method candidate picker.
//
// Raw dictionary triples flow through an explicit chain of Processor
// stages:
//
//	Normalizer → Filter → FrequencyLookup → Aggregator → Expander →
//	Aggregator → Scaler → Classifier
//
// and the result is grouped and ranked by Assemble. Every stage is a pure
// transform over a slice of Entry values and can be exercised on its own.
// The package performs no I/O: the three input tables are loaded by
// package phono and the resulting Dictionary is persisted by package
// store.
package candidate

import (
	"unicode/utf8"

	"github.com/temporal-IPA/tonedict/pkg/phono"
	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// Entry is the unit flowing through the pipeline.
type Entry struct {
	// Traditional is kept for display only.
	Traditional string
	// Simplified is the lookup and display key of the candidate.
	Simplified string
	// Reading is the phonetic key, one syllable per character. Raw
	// entries carry the source spelling until the Normalizer stage.
	Reading string
	// Frequency is a non-negative evidence score. It is a raw usage count
	// after FrequencyLookup and becomes fractional once scaled.
	Frequency float64
	// RareTone is set by the Classifier when the tone of Reading is a
	// statistical outlier for the character.
	RareTone bool
}

// Len returns the number of characters of the candidate.
func (e Entry) Len() int {
	return utf8.RuneCountInString(e.Simplified)
}

// Syllables returns the number of syllables of the reading.
func (e Entry) Syllables() int {
	return len(pinyin.Syllables(e.Reading))
}

// FromDictEntries turns raw dictionary triples into pipeline entries with
// a zero frequency. Readings are left as written in the source.
func FromDictEntries(raw []phono.DictEntry) []Entry {
	out := make([]Entry, len(raw))
	for i, d := range raw {
		out[i] = Entry{
			Traditional: d.Traditional,
			Simplified:  d.Simplified,
			Reading:     d.Reading,
		}
	}
	return out
}
