package phono

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineLen bounds a single source line. N-gram records carrying one
// observation per year can be long.
const maxLineLen = 1 << 20

// LineParser is a per-line parser for text-based formats.
//
// It receives one line without its line terminator. It returns ok=false
// when the line carries no record (blank, comment, header).
type LineParser[T any] func(line string) (record T, ok bool, err error)

// scanLines reads r line by line, hands every non-blank line to parse and
// emits the records it produces. Parse errors are reported with their
// 1-based line number.
func scanLines[T any](kind Kind, r io.Reader, parse LineParser[T], emit func(T) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineLen)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, ok, err := parse(line)
		if err != nil {
			return fmt.Errorf("(%s) line %d: %w", kind, lineNo, err)
		}
		if !ok {
			continue
		}
		if err := emit(record); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("(%s) after line %d: %w", kind, lineNo, err)
	}
	return nil
}

// Reading is one record of a reading-frequency source: a character and
// its raw reading weights.
type Reading struct {
	Char    string
	Weights Distribution
}

// NewLineLoader constructs a Loader that reads a text source
// line by line and delegates actual parsing to the provided LineParser.
// This makes it easy to support additional reading-frequency layouts.
func NewLineLoader(
	kind Kind,
	sniff func(sniff []byte, isEOF bool) bool,
	parser LineParser[Reading],
) Loader {
	return &lineLoader{
		kind:      kind,
		sniffFunc: sniff,
		parseLine: parser,
	}
}

// lineLoader is a generic implementation for textual formats where
// each character fits on a single line.
type lineLoader struct {
	kind      Kind
	sniffFunc func(sniff []byte, isEOF bool) bool
	parseLine LineParser[Reading]
}

func (p *lineLoader) Kind() Kind { return p.kind }

func (p *lineLoader) Sniff(sniff []byte, isEOF bool) bool {
	if p.sniffFunc == nil {
		return false
	}
	return p.sniffFunc(sniff, isEOF)
}

func (p *lineLoader) LoadAll(r io.Reader) (ReadingTable, error) {
	t := make(ReadingTable)
	err := p.Load(r, func(char string, d Distribution) error {
		t.add(char, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	t.Normalize()
	return t, nil
}

func (p *lineLoader) Load(r io.Reader, emit OnReadingFunc) error {
	return scanLines(p.kind, r, p.parseLine, func(rec Reading) error {
		if rec.Char == "" || len(rec.Weights) == 0 {
			return nil
		}
		return emit(rec.Char, rec.Weights)
	})
}
