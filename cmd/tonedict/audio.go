package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/temporal-IPA/tonedict/pkg/audio"
	"github.com/temporal-IPA/tonedict/pkg/config"
	"github.com/temporal-IPA/tonedict/pkg/store"
)

func runAudioFromArgs(ctx context.Context, args []string) error {
	fs := pflag.NewFlagSet("audio", pflag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "YAML configuration file")
	dbPath := fs.String("db", "", "dictionary database")
	audioPath := fs.String("audio", "", "audio cache database")
	ttsCmd := fs.String("tts-cmd", "", "speech synthesis command")
	top := fs.Int("top", 0, "only synthesize the first N candidates of each reading, 0 for all")
	exportDir := fs.String("export-dir", "", "also write every sample as an mp3 file under this directory")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			printUsage(os.Stdout)
			return nil
		}
		return err
	}

	cfg, err := config.Load(strings.TrimSpace(*configPath))
	if err != nil {
		return err
	}
	if fs.Changed("db") {
		cfg.Output.SQLite = strings.TrimSpace(*dbPath)
	}
	if fs.Changed("audio") {
		cfg.Audio.DB = strings.TrimSpace(*audioPath)
	}
	if fs.Changed("tts-cmd") {
		cfg.Audio.Command = *ttsCmd
	}
	cfg.ApplyDefaults()
	if cfg.Audio.DB == "" {
		return errors.New("missing audio database (--audio)")
	}

	synth, err := audio.ParseCommand(cfg.Audio.Command)
	if err != nil {
		return err
	}
	return runAudio(ctx, cfg.Output.SQLite, cfg.Audio.DB, synth, *top, strings.TrimSpace(*exportDir))
}

func runAudio(ctx context.Context, dbPath, audioPath string, synth audio.Synthesizer, top int, exportDir string) error {
	ts := time.Now()

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()
	dict, err := s.Dictionary(ctx)
	if err != nil {
		return err
	}

	as, err := audio.OpenStore(ctx, audioPath, synth)
	if err != nil {
		return err
	}
	defer as.Close()

	done := 0
	for _, reading := range dict.Keys() {
		cands := dict.Lookup(reading)
		if top > 0 && len(cands) > top {
			cands = cands[:top]
		}
		for _, c := range cands {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := as.Ensure(ctx, c.Char, reading); err != nil {
				return err
			}
			if exportDir != "" {
				if _, err := as.Export(ctx, exportDir, c.Char, reading); err != nil {
					return err
				}
			}
			done++
			if done%100 == 0 {
				fmt.Fprintf(os.Stderr, "\rSynthesized %d requests (%s)%20s", done, reading, "")
			}
		}
	}

	keys, samples, err := as.Counts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "\rFinished... Requests: %d, keys: %d, samples: %d, elapsed: %.3f seconds\n",
		done, keys, samples, time.Since(ts).Seconds())
	return nil
}
