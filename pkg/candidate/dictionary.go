package candidate

import (
	"cmp"
	"slices"
)

// Candidate is one ranked entry of a Dictionary.
type Candidate struct {
	Char      string  `json:"char"`
	Frequency float64 `json:"frequency"`
	RareTone  bool    `json:"rare_tone"`
}

// Dictionary maps a canonical phonetic key to its candidates, most
// frequent first. It is the only durable artifact of a build.
type Dictionary struct {
	Readings map[string][]Candidate
}

// Lookup returns the ranked candidates of reading, nil when unknown.
// reading must be canonical (see pinyin.NormalizeKey).
func (d *Dictionary) Lookup(reading string) []Candidate {
	if d == nil {
		return nil
	}
	return d.Readings[reading]
}

// Keys returns every reading in lexical order.
func (d *Dictionary) Keys() []string {
	if d == nil {
		return nil
	}
	keys := make([]string, 0, len(d.Readings))
	for k := range d.Readings {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Len returns the number of readings.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Readings)
}

// Assemble groups entries by reading and orders every group by
// decreasing frequency. The sort is stable: candidates with the same
// frequency keep their input order.
func Assemble(entries []Entry) *Dictionary {
	d := &Dictionary{Readings: make(map[string][]Candidate)}
	for _, e := range entries {
		d.Readings[e.Reading] = append(d.Readings[e.Reading], Candidate{
			Char:      e.Simplified,
			Frequency: e.Frequency,
			RareTone:  e.RareTone,
		})
	}
	for _, group := range d.Readings {
		slices.SortStableFunc(group, func(a, b Candidate) int {
			return cmp.Compare(b.Frequency, a.Frequency)
		})
	}
	return d
}
