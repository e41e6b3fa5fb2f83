package candidate

import (
	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// Expand returns one entry per prefix length 1..N of e, N being its
// length, the last one being e itself.
//
// Every prefix carries the full current frequency of e: a substring of a
// popular word is a plausible candidate too, so evidence is deliberately
// counted once per prefix rather than split. Duplicates produced across
// words sharing a prefix are resolved by Aggregate.
//
// e must be aligned (see CheckAlignment).
func Expand(e Entry) []Entry {
	simp := []rune(e.Simplified)
	trad := []rune(e.Traditional)
	syl := pinyin.Syllables(e.Reading)

	n := min(len(simp), len(syl))
	out := make([]Entry, 0, n)
	for i := 1; i <= n; i++ {
		p := Entry{
			Simplified: string(simp[:i]),
			Reading:    pinyin.Join(syl[:i]),
			Frequency:  e.Frequency,
		}
		if len(trad) >= i {
			p.Traditional = string(trad[:i])
		}
		out = append(out, p)
	}
	return out
}

// Aggregate merges entries sharing the same (Reading, Simplified) pair by
// summing their frequencies. Keys are compared as exact strings. The
// merged entry keeps the position and the Traditional form of the first
// occurrence, so the result is deterministic. Aggregate is idempotent.
func Aggregate(entries []Entry) []Entry {
	type key struct{ reading, simplified string }
	index := make(map[key]int, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		k := key{e.Reading, e.Simplified}
		if i, ok := index[k]; ok {
			out[i].Frequency += e.Frequency
			out[i].RareTone = out[i].RareTone || e.RareTone
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}
