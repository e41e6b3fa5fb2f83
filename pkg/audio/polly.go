// Package audio synthesizes and caches a spoken sample for every
// candidate of a dictionary.
//
// Audio bytes are stored once per content hash; a key table maps each
// (characters, reading) request to the hash of its audio, which makes
// Ensure idempotent.
package audio

import (
	"fmt"
	"strings"

	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// PollyPinyin converts a canonical phonetic key to the pinyin dialect of
// Amazon Polly's x-amazon-pinyin phoneme alphabet: the neutral tone is 0,
// "v" is spelled "yu", syllables are joined by '-', and an erhua "r5"
// suffix is merged into the preceding syllable ("na3 r5" → "nar3").
func PollyPinyin(reading string) string {
	if reading == "r5" {
		return "er0"
	}
	var out []string
	for _, syl := range pinyin.Syllables(reading) {
		if syl == "r5" && len(out) > 0 {
			prev := out[len(out)-1]
			out[len(out)-1] = prev[:len(prev)-1] + "r" + prev[len(prev)-1:]
			continue
		}
		syl = strings.ReplaceAll(syl, "v", "yu")
		if pinyin.Tone(syl) == pinyin.NeutralTone {
			syl = pinyin.Toneless(syl) + "0"
		}
		out = append(out, syl)
	}
	return strings.Join(out, "-")
}

// ReadingSSML returns the SSML document pronouncing reading.
func ReadingSSML(reading string) string {
	return fmt.Sprintf(`<speak><phoneme alphabet="x-amazon-pinyin" ph="%s" /></speak>`, PollyPinyin(reading))
}
