package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/temporal-IPA/tonedict/pkg/audit"
	"github.com/temporal-IPA/tonedict/pkg/store"
)

func runAuditFromArgs(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("audit", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dbPath := fs.String("db", "dict.sqlite3", "dictionary database")
	limit := fs.Int("limit", 0, "maximum number of findings, 0 for all")
	minFreq := fs.Float64("min-frequency", 0, "skip candidates below this frequency")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(os.Stdout)
			return nil
		}
		return err
	}

	s, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	dict, err := s.Dictionary(ctx)
	if err != nil {
		return err
	}

	rep := audit.Check(dict, audit.GoPinyin(), audit.Options{Limit: *limit, MinFrequency: *minFreq})
	printReport(os.Stdout, rep)
	return nil
}

func printReport(w io.Writer, rep audit.Report) {
	for _, f := range rep.Findings {
		rare := ""
		if f.RareTone {
			rare = "*"
		}
		fmt.Fprintf(w, "%s%s\t%s\t%.0f\tknown: %s\n", f.Char, rare, f.Reading, f.Frequency, strings.Join(f.Known, ", "))
	}
	fmt.Fprintf(w, "Checked %d single-character candidates, %d unknown to the reference, %d findings\n",
		rep.Checked, rep.Unknown, len(rep.Findings))
}
