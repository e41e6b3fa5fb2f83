package phono

import (
	"encoding/gob"
	"fmt"
	"io"
	"unicode/utf8"
)

// GobLoader handles gob-encoded ReadingTable snapshots, as written by
// WriteGob.
type GobLoader struct{}

// Kind reports the loader kind identifier for gob tables.
func (g *GobLoader) Kind() Kind { return KindReadingGob }

// Sniff detects gob payloads from binary heuristics: bytes that are not
// valid UTF-8 or that contain NUL. Text tables never match.
func (g *GobLoader) Sniff(sniff []byte, isEOF bool) bool {
	if len(sniff) == 0 {
		return false
	}
	if !isEOF {
		// A multi-byte rune may be cut at the sniff boundary.
		for i := 0; i < utf8.UTFMax-1 && len(sniff) > 0 && !utf8.Valid(sniff); i++ {
			sniff = sniff[:len(sniff)-1]
		}
	}
	if !utf8.Valid(sniff) {
		return true
	}
	for _, b := range sniff {
		if b == 0 {
			return true
		}
	}
	return false
}

// LoadAll deserializes a ReadingTable and renormalizes it.
func (g *GobLoader) LoadAll(r io.Reader) (ReadingTable, error) {
	t := make(ReadingTable)
	if err := gob.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode gob: %w", err)
	}
	t.Normalize()
	return t, nil
}

// Load decodes a gob-encoded ReadingTable and emits every character.
// Prefer LoadAll.
func (g *GobLoader) Load(r io.Reader, emit OnReadingFunc) error {
	t := make(ReadingTable)
	if err := gob.NewDecoder(r).Decode(&t); err != nil {
		return fmt.Errorf("decode gob: %w", err)
	}
	for _, char := range t.Chars() {
		if len(t[char]) == 0 {
			continue
		}
		if err := emit(char, t[char]); err != nil {
			return err
		}
	}
	return nil
}

// WriteGob serializes t so that it can be reloaded quickly by GobLoader.
func WriteGob(w io.Writer, t ReadingTable) error {
	if err := gob.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}
