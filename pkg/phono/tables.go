// Package phono loads and represents the three inputs of a candidate
// dictionary build: CC-CEDICT entries, corpus usage counts and
// per-character reading frequencies. Text formats are read through
// pluggable Loader implementations; reading-frequency sources can be
// sniffed and merged with MergeMode semantics.
package phono

import (
	"fmt"
	"sort"

	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// DictEntry is one raw dictionary triple as found in CC-CEDICT.
// Reading is kept as written in the source ("Bei3 jing1", "lu:3").
type DictEntry struct {
	Traditional string
	Simplified  string
	Reading     string
}

// CorpusTable maps a literal character sequence to its aggregate usage
// count.
type CorpusTable map[string]float64

// Count returns the usage count of s, 0 when s was never observed.
func (c CorpusTable) Count(s string) float64 {
	return c[s]
}

// Distribution maps canonical readings of one character to their
// relative frequency.
type Distribution map[string]float64

// Sum returns the total weight of the distribution.
func (d Distribution) Sum() float64 {
	total := 0.0
	for _, w := range d {
		total += w
	}
	return total
}

// Readings returns the readings of d sorted by decreasing weight, ties
// broken alphabetically.
func (d Distribution) Readings() []string {
	out := make([]string, 0, len(d))
	for r := range d {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if d[out[i]] == d[out[j]] {
			return out[i] < out[j]
		}
		return d[out[i]] > d[out[j]]
	})
	return out
}

// ReadingTable maps a single character to the probability distribution of
// its readings. Loaders renormalize every distribution to sum to 1.
type ReadingTable map[string]Distribution

// NewReadingTable builds a table from raw weights, canonicalising every
// reading with pinyin.Normalize and renormalizing per character. It is
// used for configuration-provided overrides.
func NewReadingTable(raw map[string]map[string]float64) (ReadingTable, error) {
	t := make(ReadingTable, len(raw))
	for char, readings := range raw {
		d := make(Distribution, len(readings))
		for reading, w := range readings {
			if w < 0 {
				return nil, fmt.Errorf("reading %s/%s: negative weight %v", char, reading, w)
			}
			key, _, err := pinyin.Normalize(reading)
			if err != nil {
				return nil, fmt.Errorf("reading %s/%s: %w", char, reading, err)
			}
			d[key] += w
		}
		t[char] = d
	}
	t.Normalize()
	return t, nil
}

// Has reports whether char has recorded reading statistics.
func (t ReadingTable) Has(char string) bool {
	_, ok := t[char]
	return ok
}

// Probability returns the recorded probability of reading for char. The
// second result is false when char is absent from the table; a present
// character that never uses reading yields (0, true).
func (t ReadingTable) Probability(char, reading string) (float64, bool) {
	d, ok := t[char]
	if !ok {
		return 0, false
	}
	return d[reading], true
}

// Normalize rescales every distribution to sum to 1. Characters whose
// weights sum to zero are dropped.
func (t ReadingTable) Normalize() {
	for char, d := range t {
		total := d.Sum()
		if total <= 0 {
			delete(t, char)
			continue
		}
		for r, w := range d {
			d[r] = w / total
		}
	}
}

// Merge combines other into t following mode, then renormalizes. other
// is expected to be normalized already, so that readings appended from it
// are on the same scale as the existing ones.
func (t ReadingTable) Merge(other ReadingTable, mode MergeMode) {
	for char, d := range other {
		t.mergeChar(char, d, mode)
	}
	t.Normalize()
}

func (t ReadingTable) mergeChar(char string, d Distribution, mode MergeMode) {
	current, ok := t[char]
	if !ok {
		fresh := make(Distribution, len(d))
		for r, w := range d {
			fresh[r] = w
		}
		t[char] = fresh
		return
	}

	switch mode {
	case MergeModeNoOverride:
		return
	case MergeModeReplace:
		fresh := make(Distribution, len(d))
		for r, w := range d {
			fresh[r] = w
		}
		t[char] = fresh
	default:
		for r, w := range d {
			if _, seen := current[r]; !seen {
				current[r] = w
			}
		}
	}
}

// add accumulates raw weights for char, without any merge semantics. It
// is used while reading a single source.
func (t ReadingTable) add(char string, d Distribution) {
	current, ok := t[char]
	if !ok {
		current = make(Distribution, len(d))
		t[char] = current
	}
	for r, w := range d {
		current[r] += w
	}
}

// Chars returns the characters of the table in sorted order.
func (t ReadingTable) Chars() []string {
	out := make([]string, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
