// Package audit compares the single-character readings of a built
// dictionary with an independent pinyin lexicon. It reports, it never
// edits.
package audit

import (
	"cmp"
	"slices"

	gopinyin "github.com/mozillazg/go-pinyin"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// Reference returns the canonical readings known for a character, nil
// when the character is unknown.
type Reference func(char string) []string

// GoPinyin is the Reference backed by github.com/mozillazg/go-pinyin,
// heteronyms included.
func GoPinyin() Reference {
	args := gopinyin.NewArgs()
	args.Style = gopinyin.Tone3
	args.Heteronym = true
	return func(char string) []string {
		res := gopinyin.Pinyin(char, args)
		if len(res) != 1 {
			return nil
		}
		var out []string
		for _, raw := range res[0] {
			key, _, err := pinyin.Normalize(raw)
			if err != nil || slices.Contains(out, key) {
				continue
			}
			out = append(out, key)
		}
		return out
	}
}

// Finding is a candidate whose reading the reference does not list.
type Finding struct {
	Char      string
	Reading   string
	Frequency float64
	RareTone  bool
	Known     []string
}

// Report is the result of Check.
type Report struct {
	// Checked counts the single-character candidates examined.
	Checked int
	// Unknown counts those whose character the reference ignores.
	Unknown  int
	Findings []Finding
}

// Options bound the report.
type Options struct {
	// Limit caps the number of findings, 0 meaning no cap.
	Limit int
	// MinFrequency skips candidates below this frequency, such as the
	// zeroed readings demoted by heteronym scaling.
	MinFrequency float64
}

// Check audits every single-character candidate of dict against ref.
// Findings are ordered by decreasing frequency, then by reading.
func Check(dict *candidate.Dictionary, ref Reference, opts Options) Report {
	var rep Report
	cache := make(map[string][]string)
	for _, reading := range dict.Keys() {
		if len(pinyin.Syllables(reading)) != 1 {
			continue
		}
		for _, c := range dict.Lookup(reading) {
			if c.Frequency < opts.MinFrequency {
				continue
			}
			rep.Checked++
			known, ok := cache[c.Char]
			if !ok {
				known = ref(c.Char)
				cache[c.Char] = known
			}
			if len(known) == 0 {
				rep.Unknown++
				continue
			}
			if slices.Contains(known, reading) {
				continue
			}
			rep.Findings = append(rep.Findings, Finding{
				Char:      c.Char,
				Reading:   reading,
				Frequency: c.Frequency,
				RareTone:  c.RareTone,
				Known:     known,
			})
		}
	}
	slices.SortStableFunc(rep.Findings, func(a, b Finding) int {
		if n := cmp.Compare(b.Frequency, a.Frequency); n != 0 {
			return n
		}
		return cmp.Compare(a.Reading, b.Reading)
	})
	if opts.Limit > 0 && len(rep.Findings) > opts.Limit {
		rep.Findings = rep.Findings[:opts.Limit]
	}
	return rep
}
