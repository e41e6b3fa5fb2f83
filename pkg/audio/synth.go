package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Synthesizer turns text or an SSML document into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, ssml bool) ([]byte, error)
}

// CommandSynthesizer runs an external text-to-speech program once per
// request. The text is written to its standard input and the audio is
// read from its standard output. TONEDICT_TEXT_TYPE is set to "ssml" or
// "text" in its environment.
type CommandSynthesizer struct {
	Path string
	Args []string
}

// ParseCommand splits a command line on whitespace. Quoting is not
// supported.
func ParseCommand(cmdline string) (CommandSynthesizer, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return CommandSynthesizer{}, errors.New("empty synthesizer command")
	}
	return CommandSynthesizer{Path: fields[0], Args: fields[1:]}, nil
}

func (c CommandSynthesizer) Synthesize(ctx context.Context, text string, ssml bool) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	textType := "text"
	if ssml {
		textType = "ssml"
	}
	cmd.Env = append(os.Environ(), "TONEDICT_TEXT_TYPE="+textType)
	cmd.Stdin = strings.NewReader(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("synthesize %q: %w: %s", text, err, msg)
		}
		return nil, fmt.Errorf("synthesize %q: %w", text, err)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("synthesize %q: empty output", text)
	}
	return stdout.Bytes(), nil
}
