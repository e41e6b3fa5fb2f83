package candidate

import (
	"unicode/utf8"

	"github.com/temporal-IPA/tonedict/pkg/phono"
	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// DefaultDominanceThreshold is the share a tone must reach within its
// toneless group to be considered clearly common.
const DefaultDominanceThreshold = 0.75

// shareEpsilon absorbs the rounding of renormalized shares, so that a
// share of exactly the threshold counts as reaching it.
const shareEpsilon = 1e-9

// Scale weighs e by the probability that its character is read as
// e.Reading. A character of the table that never uses the reading gets a
// zero frequency, which demotes readings produced by bad source joins.
// Entries absent from the table, in practice every multi-character word,
// pass through unchanged.
func Scale(e Entry, table phono.ReadingTable) Entry {
	if p, ok := table.Probability(e.Simplified, e.Reading); ok {
		e.Frequency *= p
	}
	return e
}

// IsRare reports whether reading is a rare tone of char.
//
// The readings of char sharing the toneless form of reading are
// renormalized among themselves. reading is rare when one of them holds
// at least threshold of that group while reading itself holds less.
// Balanced groups flag nothing. Multi-character strings and characters
// absent from the table are never rare.
func IsRare(char, reading string, table phono.ReadingTable, threshold float64) bool {
	if utf8.RuneCountInString(char) != 1 {
		return false
	}
	d, ok := table[char]
	if !ok {
		return false
	}

	base := pinyin.Toneless(reading)
	total := 0.0
	for r, w := range d {
		if pinyin.Toneless(r) == base {
			total += w
		}
	}
	if total <= 0 {
		return false
	}

	dominant := false
	for r, w := range d {
		if pinyin.Toneless(r) == base && w/total >= threshold-shareEpsilon {
			dominant = true
			break
		}
	}
	return dominant && d[reading]/total < threshold-shareEpsilon
}
