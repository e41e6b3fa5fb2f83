package phono

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// cedictRegex captures traditional, simplified and the bracketed reading
// of a CC-CEDICT line. Glosses are ignored.
var cedictRegex = regexp.MustCompile(`^(\S+) (\S+) \[(.*?)\]`)

func parseCedictLine(line string) (DictEntry, bool, error) {
	if strings.HasPrefix(line, "#") {
		return DictEntry{}, false, nil
	}
	m := cedictRegex.FindStringSubmatch(line)
	if m == nil {
		return DictEntry{}, false, fmt.Errorf("malformed CC-CEDICT entry %q", line)
	}
	return DictEntry{Traditional: m[1], Simplified: m[2], Reading: m[3]}, true, nil
}

// ScanCedict streams the entries of a CC-CEDICT source to emit, in source
// order. Readings are passed through untouched.
func ScanCedict(r io.Reader, emit func(DictEntry) error) error {
	return scanLines(KindCedict, r, parseCedictLine, emit)
}

// LoadCedict reads a whole CC-CEDICT source into memory.
func LoadCedict(r io.Reader) ([]DictEntry, error) {
	var entries []DictEntry
	err := ScanCedict(r, func(e DictEntry) error {
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
