package phono

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoLoader is returned when no registered Loader recognises a
// reading-frequency source.
var ErrNoLoader = errors.New("no reading loader matched the source")

func init() {
	// Built-in loaders, ordered from most specific to most generic.
	builtinLoaders = []Loader{
		&GobLoader{},
		NewLineLoader(KindReadingTxt, sniffReadingTxt, parseReadingTxtLine),
	}
}

// OnReadingFunc is called by a Loader for each character of a
// reading-frequency source with its raw reading weights.
type OnReadingFunc func(char string, weights Distribution) error

// Loader parses a reading-frequency source (file or bytes) and emits
// (character, weights) records through the provided callback.
type Loader interface {
	// Kind returns a short identifier for the loader.
	Kind() Kind

	// Sniff inspects a prefix of the input (sniff) and decides whether
	// this loader is appropriate for the source.
	//
	// - sniff: initial bytes of the source (up to a few KB).
	// - isEOF: true if sniff contains the full source.
	Sniff(sniff []byte, isEOF bool) bool

	// Load parses the entire source from r and calls emit for each record.
	Load(r io.Reader, emit OnReadingFunc) error

	// LoadAll loads the entire source into a normalized table.
	LoadAll(r io.Reader) (ReadingTable, error)
}

var builtinLoaders []Loader

// RegisterLoader allows external code to add additional Loaders.
// Loaders are consulted in registration order during sniffing, after the
// built-in ones.
func RegisterLoader(p Loader) {
	if p == nil {
		return
	}
	builtinLoaders = append(builtinLoaders, p)
}

// selectLoader chooses the first loader whose Sniff method returns true.
func selectLoader(sniff []byte, isEOF bool) Loader {
	for _, p := range builtinLoaders {
		if p.Sniff(sniff, isEOF) {
			return p
		}
	}
	return nil
}

// LoadInto sniffs the format of r, loads it as one source and merges it
// into t with mode.
func LoadInto(t ReadingTable, mode MergeMode, r io.Reader) error {
	buf := make([]byte, sniffLen)
	n, readErr := io.ReadFull(r, buf)
	if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
		return fmt.Errorf("sniff: %w", readErr)
	}
	buf = buf[:n]
	isEOF := readErr == io.EOF || readErr == io.ErrUnexpectedEOF || n == 0

	pl := selectLoader(buf, isEOF)
	if pl == nil {
		return ErrNoLoader
	}
	return runLoader(pl, mode, io.MultiReader(bytes.NewReader(buf), r), t)
}

// runLoader reads a whole source into its own table, normalizes it and
// merges it into t. Records of the same character within one source are
// summed; MergeMode only applies between sources.
func runLoader(pl Loader, mode MergeMode, r io.Reader, t ReadingTable) error {
	source := make(ReadingTable)
	err := pl.Load(r, func(char string, weights Distribution) error {
		char = strings.TrimSpace(char)
		if char == "" || len(weights) == 0 {
			return nil
		}
		source.add(char, weights)
		return nil
	})
	if err != nil {
		return fmt.Errorf("load (%s): %w", pl.Kind(), err)
	}
	source.Normalize()
	t.Merge(source, mode)
	return nil
}
