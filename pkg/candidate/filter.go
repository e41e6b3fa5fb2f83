package candidate

import (
	"fmt"

	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

const (
	// DefaultMinCodePoint is the first code point of CJK Unified
	// Ideographs Extension A. It is a coarse filter against punctuation,
	// Latin letters and symbols such as '%' or '々'.
	DefaultMinCodePoint rune = 0x3400

	// DefaultMaxLength is the longest admitted candidate, in characters.
	DefaultMaxLength = 4
)

// Filter admits entries whose reading is well formed and whose text is
// short and made of ideographs only. Rejected entries are dropped
// silently: the source dictionary is a superset containing symbols,
// proverbs and abbreviations.
type Filter struct {
	MinCodePoint rune
	MaxLength    int
}

// NewFilter returns a Filter with the default bounds.
func NewFilter() Filter {
	return Filter{MinCodePoint: DefaultMinCodePoint, MaxLength: DefaultMaxLength}
}

// Accept reports whether e is admitted. The reading must already be
// canonical.
func (f Filter) Accept(e Entry) bool {
	if !pinyin.WellFormed(e.Reading) {
		return false
	}
	n := 0
	for _, r := range e.Simplified {
		if r < f.MinCodePoint {
			return false
		}
		n++
	}
	return n > 0 && n <= f.MaxLength
}

func (f Filter) Name() string { return "filter" }

// Apply keeps the admitted entries and checks that each of them is
// positionally aligned. A misaligned admitted entry is an error: later
// stages slice characters and syllables together.
func (f Filter) Apply(entries []Entry) ([]Entry, error) {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !f.Accept(e) {
			continue
		}
		if err := CheckAlignment(e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// AlignmentError reports an entry whose reading does not have one
// syllable per character, or whose traditional and simplified forms
// differ in length. It signals a broken source join.
type AlignmentError struct {
	Entry       Entry
	Syllables   int
	Simplified  int
	Traditional int
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("misaligned entry %s/%s [%s]: %d syllables, %d simplified and %d traditional characters",
		e.Entry.Traditional, e.Entry.Simplified, e.Entry.Reading, e.Syllables, e.Simplified, e.Traditional)
}

// CheckAlignment returns an *AlignmentError when e is not aligned.
func CheckAlignment(e Entry) error {
	syl := e.Syllables()
	simp := e.Len()
	trad := len([]rune(e.Traditional))
	if syl != simp || (e.Traditional != "" && trad != simp) {
		return &AlignmentError{Entry: e, Syllables: syl, Simplified: simp, Traditional: trad}
	}
	return nil
}
