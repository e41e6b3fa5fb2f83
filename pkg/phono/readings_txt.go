package phono

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/temporal-IPA/tonedict/pkg/pinyin"
)

// sniffReadingTxt accepts UTF-8 text whose first record line looks like
//
//	<char>\t<reading> <weight> | <reading> <weight>
func sniffReadingTxt(sniff []byte, isEOF bool) bool {
	if !isEOF {
		// Do not judge a truncated last line.
		if i := bytes.LastIndexByte(sniff, '\n'); i >= 0 {
			sniff = sniff[:i]
		}
	}
	if !utf8.Valid(sniff) {
		return false
	}
	for _, line := range strings.Split(string(sniff), "\n") {
		_, ok, err := parseReadingTxtLine(line)
		if err != nil {
			return false
		}
		if ok {
			return true
		}
	}
	return false
}

// parseReadingTxtLine parses one reading-frequency record. Readings may
// use tone diacritics or digits; they are canonicalised. The character
// field may carry HTML entities when scraped from web tables.
func parseReadingTxtLine(raw string) (Reading, bool, error) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return Reading{}, false, nil
	}
	// '#' also opens numeric HTML entities, so inline comments are only
	// recognised after the character field.
	charField, rest, found := strings.Cut(line, "\t")
	rest = stripInlineCommentAndTrim(rest)
	if !found {
		return Reading{}, false, fmt.Errorf("missing tab separator in %q", line)
	}
	char := strings.TrimSpace(html.UnescapeString(charField))
	if utf8.RuneCountInString(char) != 1 {
		return Reading{}, false, fmt.Errorf("expected a single character, got %q", char)
	}

	weights := make(Distribution)
	for _, part := range strings.Split(rest, "|") {
		fields := strings.Fields(part)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return Reading{}, false, fmt.Errorf("%s: expected \"<reading> <weight>\", got %q", char, strings.TrimSpace(part))
		}
		reading, _, err := pinyin.Normalize(fields[0])
		if err != nil {
			return Reading{}, false, fmt.Errorf("%s: %w", char, err)
		}
		w, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return Reading{}, false, fmt.Errorf("%s/%s: weight: %w", char, reading, err)
		}
		if w < 0 {
			return Reading{}, false, fmt.Errorf("%s/%s: negative weight %v", char, reading, w)
		}
		weights[reading] += w
	}
	if len(weights) == 0 {
		return Reading{}, false, nil
	}
	return Reading{Char: char, Weights: weights}, true, nil
}
