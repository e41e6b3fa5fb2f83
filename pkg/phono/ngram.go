package phono

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DefaultCutoffYear keeps usage from 1981 onwards.
const DefaultCutoffYear = 1980

// Observation is the usage count of a word for one year.
type Observation struct {
	Word  string
	Year  int
	Count float64
}

// parseNgramLine handles both Google Books 1-gram layouts:
//
//	word[_POS]\tyear,count,volumes\tyear,count,volumes...   (2020)
//	word[_POS]\tyear\tcount\tvolumes                         (2012)
func parseNgramLine(line string) ([]Observation, bool, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return nil, false, fmt.Errorf("expected tab-separated observations in %q", line)
	}
	word := fields[0]
	if i := strings.IndexByte(word, '_'); i >= 0 {
		word = word[:i]
	}
	if word == "" {
		return nil, false, nil
	}

	if len(fields) == 4 && !strings.Contains(fields[1], ",") {
		year, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, false, fmt.Errorf("year %q: %w", fields[1], err)
		}
		count, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, false, fmt.Errorf("count %q: %w", fields[2], err)
		}
		return []Observation{{Word: word, Year: year, Count: count}}, true, nil
	}

	obs := make([]Observation, 0, len(fields)-1)
	for _, f := range fields[1:] {
		if f == "" {
			continue
		}
		parts := strings.Split(f, ",")
		if len(parts) != 3 {
			return nil, false, fmt.Errorf("expected year,count,volumes, got %q", f)
		}
		year, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, false, fmt.Errorf("year %q: %w", parts[0], err)
		}
		count, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, false, fmt.Errorf("count %q: %w", parts[1], err)
		}
		obs = append(obs, Observation{Word: word, Year: year, Count: count})
	}
	return obs, true, nil
}

// ScanNgram streams every observation of a 1-gram source, whatever its
// year.
func ScanNgram(r io.Reader, emit func(Observation) error) error {
	return scanLines(KindNgram, r, parseNgramLine, func(obs []Observation) error {
		for _, o := range obs {
			if err := emit(o); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadCorpus accumulates into table the usage counts of a 1-gram source
// observed strictly after cutoff. Part-of-speech variants of a word are
// summed together. Several sources can be loaded into the same table.
func LoadCorpus(r io.Reader, cutoff int, table CorpusTable) error {
	if table == nil {
		return fmt.Errorf("nil corpus table")
	}
	return ScanNgram(r, func(o Observation) error {
		if o.Year > cutoff {
			table[o.Word] += o.Count
		}
		return nil
	})
}
