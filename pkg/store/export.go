package store

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
)

// RareCandidate is the JSON shape of a candidate when rare tones are
// exported.
type RareCandidate struct {
	Char     string `json:"char"`
	RareTone bool   `json:"rare_tone"`
}

// writeFileAtomic writes through a temporary file renamed into place, so
// that a failed export never leaves a truncated file behind.
func writeFileAtomic(path string, write func(w io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}
	w := bufio.NewWriterSize(f, 1<<20)
	if err := write(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

// EncodeJSON writes dict as a JSON object mapping every reading to its
// ranked characters. With rare set, every candidate is an object carrying
// its rare-tone flag instead of a bare string.
func EncodeJSON(w io.Writer, dict *candidate.Dictionary, rare bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if rare {
		out := make(map[string][]RareCandidate, dict.Len())
		for reading, cands := range dict.Readings {
			list := make([]RareCandidate, len(cands))
			for i, c := range cands {
				list[i] = RareCandidate{Char: c.Char, RareTone: c.RareTone}
			}
			out[reading] = list
		}
		return enc.Encode(out)
	}
	out := make(map[string][]string, dict.Len())
	for reading, cands := range dict.Readings {
		list := make([]string, len(cands))
		for i, c := range cands {
			list[i] = c.Char
		}
		out[reading] = list
	}
	return enc.Encode(out)
}

// WriteJSON writes EncodeJSON output to path.
func WriteJSON(path string, dict *candidate.Dictionary, rare bool) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		if err := EncodeJSON(w, dict, rare); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	})
}

// EncodeText writes one line per reading, sorted by reading:
//
//	<reading>\t<char> | <char> | ...
//
// Characters with a rare tone are suffixed with '*'.
func EncodeText(w io.Writer, dict *candidate.Dictionary) error {
	for _, reading := range dict.Keys() {
		cands := dict.Lookup(reading)
		parts := make([]string, len(cands))
		for i, c := range cands {
			parts[i] = c.Char
			if c.RareTone {
				parts[i] += "*"
			}
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\n", reading, strings.Join(parts, " | ")); err != nil {
			return err
		}
	}
	return nil
}

// WriteText writes EncodeText output to path.
func WriteText(path string, dict *candidate.Dictionary) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		return EncodeText(w, dict)
	})
}

// WriteGob writes dict.Readings gob-encoded to path.
func WriteGob(path string, dict *candidate.Dictionary) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		if err := gob.NewEncoder(w).Encode(dict.Readings); err != nil {
			return fmt.Errorf("encode gob: %w", err)
		}
		return nil
	})
}

// ReadGob loads a dictionary written by WriteGob.
func ReadGob(path string) (*candidate.Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	readings := make(map[string][]candidate.Candidate)
	if err := gob.NewDecoder(bufio.NewReader(f)).Decode(&readings); err != nil {
		return nil, fmt.Errorf("decode gob %s: %w", path, err)
	}
	return &candidate.Dictionary{Readings: readings}, nil
}
