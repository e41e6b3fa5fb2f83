// The command "tonedict" builds a pinyin reading → candidates dictionary
// for an input-method candidate picker.
//
// It joins CC-CEDICT entries with Google Books 1-gram usage counts and
// per-character reading frequencies, expands every word into its prefixes,
// demotes readings a character does not actually use and flags rare
// tones. The result is written to SQLite, with optional JSON, text and
// gob exports.
//
// Example usages:
//
//   # Build from local files:
//   tonedict build --cedict cedict_ts.u8 --ngram 1grams-chi-sim.gz --readings readings.txt --out dict.sqlite3
//
//   # Build from a YAML configuration, overriding the cutoff year:
//   tonedict build --config tonedict.yaml --cutoff 1990
//
//   # Query the database:
//   tonedict lookup --db dict.sqlite3 wo3 "fei1 chang2" lǚ
//
//   # Compare single-character readings with a reference lexicon:
//   tonedict audit --db dict.sqlite3 --limit 50
//
//   # Synthesize one audio sample per candidate:
//   tonedict audio --db dict.sqlite3 --audio audio.sqlite3 --tts-cmd "my-tts --voice zh"
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
)

const helpText = `tonedict - pinyin candidate dictionary builder

Usage:
  tonedict help
      Print this help message.

  tonedict build [flags]
      Build the dictionary database.

  tonedict lookup --db PATH <reading>...
      Print the ranked candidates of each reading. Readings may use tone
      digits ("lv3", "nu:3") or diacritics ("lǚ"). Rare tones are marked '*'.

  tonedict audit --db PATH [--limit N] [--min-frequency F]
      List single-character candidates whose reading is unknown to the
      go-pinyin reference lexicon.

  tonedict audio --db PATH --audio PATH --tts-cmd CMD [--top N] [--export-dir DIR]
      Synthesize and cache one audio sample per candidate. --config reads
      the database paths and the command from the configuration file.

Flags for "build":
  --config PATH          YAML configuration; flags below override it
  --cedict PATH          CC-CEDICT source
  --ngram PATH           Google Books 1-gram source (repeatable)
  --readings PATH        reading-frequency source, text or gob (repeatable)
  --merge MODE           how reading sources combine: append, no-override, replace
  --encoding NAME        encoding of the CC-CEDICT and 1-gram sources (default UTF-8)
  --cutoff YEAR          only count usage after YEAR (default 1980)
  --threshold T          dominance threshold of the rare-tone rule (default 0.75)
  --no-overrides         ignore the curated reading overrides
  --out PATH             SQLite output (default dict.sqlite3)
  --json PATH            also export reading → [char, ...] JSON
  --rare                 export JSON candidates as {"char", "rare_tone"} objects
  --text PATH            also export "<reading>\t<c1> | <c2>" text
  --gob PATH             also export a gob-encoded map
  --save-readings PATH   save the merged reading table as gob for faster rebuilds

Input sources:
  Every PATH may be a local file or an HTTP/HTTPS URL. Names ending with
  ".gz" or ".bz2" are decompressed on the fly.

Reading-frequency text format:
  <char>\t<reading> <weight> | <reading> <weight> | ...
  Weights are relative and renormalized per character. Lines starting with
  '#' are comments.
`

// printUsage writes the CLI help text to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, helpText+"\n")
}

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch os.Args[1] {
	case "help", "-h", "--help":
		printUsage(os.Stdout)
		return
	case "build":
		err = runBuildFromArgs(ctx, os.Args[2:])
	case "lookup":
		err = runLookupFromArgs(ctx, os.Args[2:])
	case "audit":
		err = runAuditFromArgs(ctx, os.Args[2:])
	case "audio":
		err = runAudioFromArgs(ctx, os.Args[2:])
	default:
		log.Printf("Unknown subcommand %q\n\n", os.Args[1])
		printUsage(os.Stderr)
		os.Exit(1)
	}
	if err != nil {
		stop()
		log.Fatal(err)
	}
}
