package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestPollyPinyin(t *testing.T) {
	cases := map[string]string{
		"wo3":            "wo3",
		"wo3 men5":       "wo3-men0",
		"na3 r5":         "nar3",
		"diao4 r5 lang2": "diaor4-lang2",
		"nv3 peng2 you5": "nyu3-peng2-you0",
		"r5":             "er0",
	}
	for in, want := range cases {
		if got := PollyPinyin(in); got != want {
			t.Errorf("PollyPinyin(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadingSSML(t *testing.T) {
	want := `<speak><phoneme alphabet="x-amazon-pinyin" ph="nyu3" /></speak>`
	if got := ReadingSSML("nv3"); got != want {
		t.Errorf("ReadingSSML = %s", got)
	}
}

func TestFilePath(t *testing.T) {
	if got := FilePath("我", "wo3"); got != filepath.Join("single_char", "wo3.mp3") {
		t.Errorf("FilePath(我) = %s", got)
	}
	// 非 is E9 9D 9E in UTF-8.
	if got := FilePath("非常", "fei1 chang2"); got != filepath.Join("multi_char", "E9", "9D", "9E", "非常.mp3") {
		t.Errorf("FilePath(非常) = %s", got)
	}
}

type fakeSynth struct {
	calls []string
}

func (f *fakeSynth) Synthesize(_ context.Context, text string, ssml bool) ([]byte, error) {
	f.calls = append(f.calls, text)
	if ssml {
		return []byte("ssml:" + text), nil
	}
	// Every word sounds the same, to exercise content deduplication.
	return []byte("word"), nil
}

func TestStore_EnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	synth := &fakeSynth{}
	s, err := OpenStore(ctx, filepath.Join(t.TempDir(), "audio.sqlite3"), synth)
	if err != nil {
		t.Fatalf("OpenStore returned error: %v", err)
	}
	defer s.Close()

	h1, err := s.Ensure(ctx, "喝", "he1")
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	h2, err := s.Ensure(ctx, "呵", "he1")
	if err != nil {
		t.Fatalf("Ensure returned error: %v", err)
	}
	if h1 != h2 || len(synth.calls) != 1 {
		t.Errorf("characters sharing a reading should share one sample: %s %s, %d calls", h1, h2, len(synth.calls))
	}
	if !strings.Contains(synth.calls[0], `ph="he1"`) {
		t.Errorf("single characters should be synthesized from SSML, got %q", synth.calls[0])
	}

	w1, err := s.Ensure(ctx, "非常", "fei1 chang2")
	if err != nil {
		t.Fatal(err)
	}
	w2, err := s.Ensure(ctx, "东西", "dong1 xi1")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Ensure(ctx, "非常", "fei1 chang2"); err != nil {
		t.Fatal(err)
	}
	if len(synth.calls) != 3 {
		t.Errorf("expected 3 synthesizer calls, got %d", len(synth.calls))
	}
	if w1 != w2 || w1 != ContentHash([]byte("word")) {
		t.Errorf("identical audio should share its hash")
	}

	keys, samples, err := s.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if keys != 3 || samples != 2 {
		t.Errorf("Counts = %d keys, %d samples; want 3, 2", keys, samples)
	}

	dir := t.TempDir()
	path, err := s.Export(ctx, dir, "非常", "fei1 chang2")
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "word" {
		t.Errorf("exported %q, %v", data, err)
	}
}

func TestStore_NoSynthesizer(t *testing.T) {
	ctx := context.Background()
	s, err := OpenStore(ctx, filepath.Join(t.TempDir(), "audio.sqlite3"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Ensure(ctx, "我", "wo3"); err == nil {
		t.Errorf("expected an error without a synthesizer")
	}
}

func TestCommandSynthesizer(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	c, err := ParseCommand("cat -")
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Synthesize(context.Background(), "非常", false)
	if err != nil {
		t.Fatalf("Synthesize returned error: %v", err)
	}
	if string(out) != "非常" {
		t.Errorf("Synthesize = %q", out)
	}
	if _, err := ParseCommand("  "); err == nil {
		t.Errorf("expected an error for an empty command")
	}
}
