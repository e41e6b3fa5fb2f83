// Package pinyin canonicalises romanized Mandarin syllables.
//
// Two spellings coexist in the sources used by tonedict:
//
//   - numbered pinyin, as found in CC-CEDICT: "lu:3", "Bei3", "r5";
//   - diacritic pinyin, as found in reading-frequency tables: "lǚ", "chī", "de".
//
// Both are reduced to the same canonical form, "{letters}{tone}", where
// letters are lowercase ASCII (ü is spelled "v") and tone is a digit 1–5
// (5 being the neutral tone). Phonetic keys are canonical syllables joined
// by single spaces, e.g. "fei1 chang2".
package pinyin

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NeutralTone is the tone digit used for syllables without a tone mark.
const NeutralTone = 5

// Combining marks carrying Mandarin tones, in canonical decomposition.
const (
	markMacron = '\u0304' // ā, tone 1
	markAcute  = '\u0301' // á, tone 2
	markCaron  = '\u030c' // ǎ, tone 3
	markGrave  = '\u0300' // à, tone 4
)

var toneMarks = map[rune]int{
	markMacron: 1,
	markAcute:  2,
	markCaron:  3,
	markGrave:  4,
}

// umlautReplacer maps both umlaut spellings to the canonical "v".
var umlautReplacer = strings.NewReplacer("u:", "v", "ü", "v")

// keyRegex is the grammar of a canonical phonetic key.
var keyRegex = regexp.MustCompile(`^[a-z]+[1-5](?: [a-z]+[1-5])*$`)

// Normalize converts a single raw syllable into its canonical form and
// returns it together with its tone digit.
//
// The tone is taken from a trailing ASCII digit 1–5 when present, and from
// the first tone diacritic otherwise; a syllable carrying neither gets the
// neutral tone. Normalize does not validate the letters: "xx" yields
// "xx5" and "·" yields "·5". Use WellFormed to check the result.
func Normalize(raw string) (string, int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", 0, fmt.Errorf("empty syllable")
	}

	tone := 0
	if last := s[len(s)-1]; last >= '0' && last <= '9' {
		if last < '1' || last > '5' {
			return "", 0, fmt.Errorf("syllable %q: invalid tone digit %q", raw, last)
		}
		tone = int(last - '0')
		s = s[:len(s)-1]
	}

	// Decompose so that tone marks become separate combining runes, drop
	// the tone marks and recompose whatever remains (the diaeresis of ü).
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if t, ok := toneMarks[r]; ok {
			if tone == 0 {
				tone = t
			}
			continue
		}
		b.WriteRune(r)
	}
	if tone == 0 {
		tone = NeutralTone
	}

	letters := umlautReplacer.Replace(norm.NFC.String(b.String()))
	if letters == "" {
		return "", 0, fmt.Errorf("syllable %q: no letters", raw)
	}
	return fmt.Sprintf("%s%d", letters, tone), tone, nil
}

// NormalizeKey canonicalises every syllable of a key whose syllables are
// separated by single spaces. An empty syllable, as produced by a double
// or leading space, is an error.
func NormalizeKey(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty phonetic key")
	}
	fields := strings.Split(raw, " ")
	out := make([]string, len(fields))
	for i, f := range fields {
		syl, _, err := Normalize(f)
		if err != nil {
			return "", err
		}
		out[i] = syl
	}
	return strings.Join(out, " "), nil
}

// WellFormed reports whether key matches the phonetic key grammar: one or
// more lowercase letters followed by a tone digit 1–5, syllables separated
// by single spaces, nothing else.
func WellFormed(key string) bool {
	return keyRegex.MatchString(key)
}

// Syllables splits a phonetic key on single spaces.
func Syllables(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, " ")
}

// Join is the inverse of Syllables.
func Join(syllables []string) string {
	return strings.Join(syllables, " ")
}

// Toneless returns key with its trailing tone digit removed.
func Toneless(key string) string {
	if n := len(key); n > 0 && key[n-1] >= '1' && key[n-1] <= '5' {
		return key[:n-1]
	}
	return key
}

// Tone returns the trailing tone digit of key, or 0 when there is none.
func Tone(key string) int {
	if n := len(key); n > 0 && key[n-1] >= '1' && key[n-1] <= '5' {
		return int(key[n-1] - '0')
	}
	return 0
}
