package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
	"github.com/temporal-IPA/tonedict/pkg/pinyin"
	"github.com/temporal-IPA/tonedict/pkg/store"
)

func runLookupFromArgs(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("lookup", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dbPath := fs.String("db", "dict.sqlite3", "dictionary database")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(os.Stdout)
			return nil
		}
		return err
	}
	if fs.NArg() == 0 {
		return errors.New(`"lookup" needs at least one reading`)
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	return runLookup(ctx, os.Stdout, s, fs.Args())
}

// runLookup prints one line per query. Unknown or malformed readings are
// reported in place and do not stop the remaining queries.
func runLookup(ctx context.Context, w io.Writer, s *store.Store, queries []string) error {
	for _, q := range queries {
		key, err := pinyin.NormalizeKey(strings.Join(strings.Fields(q), " "))
		if err != nil {
			fmt.Fprintf(w, "%s\t(invalid reading: %v)\n", q, err)
			continue
		}
		cands, err := s.Lookup(ctx, key)
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(w, "%s\t(not found)\n", key)
			continue
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\n", key, formatCandidates(cands))
	}
	return nil
}

func formatCandidates(cands []candidate.Candidate) string {
	parts := make([]string, len(cands))
	for i, c := range cands {
		parts[i] = c.Char
		if c.RareTone {
			parts[i] += "*"
		}
	}
	return strings.Join(parts, " | ")
}
