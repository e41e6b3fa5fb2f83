package store

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/temporal-IPA/tonedict/pkg/candidate"
)

func sampleDictionary() *candidate.Dictionary {
	return &candidate.Dictionary{Readings: map[string][]candidate.Candidate{
		"he1": {
			{Char: "喝", Frequency: 50000},
			{Char: "呵", Frequency: 1000},
		},
		"na5": {
			{Char: "哪", Frequency: 19, RareTone: true},
		},
		"fei1 chang2": {
			{Char: "非常", Frequency: 4000000},
		},
	}}
}

func TestWriteSQLite_LookupAndBuildInfo(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dict.sqlite3")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	info, err := WriteSQLite(ctx, path, sampleDictionary())
	if err != nil {
		t.Fatalf("WriteSQLite returned error: %v", err)
	}
	if info.Entries != 4 || info.Readings != 3 {
		t.Errorf("unexpected build info %+v", info)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer s.Close()

	he, err := s.Lookup(ctx, "he1")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if len(he) != 2 || he[0].Char != "喝" || he[1].Char != "呵" {
		t.Errorf("he1 → %+v", he)
	}
	na, err := s.Lookup(ctx, "na5")
	if err != nil || len(na) != 1 || !na[0].RareTone {
		t.Errorf("na5 → %+v, %v", na, err)
	}
	if _, err := s.Lookup(ctx, "xx5"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	stored, err := s.BuildInfo(ctx)
	if err != nil {
		t.Fatalf("BuildInfo returned error: %v", err)
	}
	if stored.ID != info.ID || !stored.BuiltAt.Equal(info.BuiltAt) || stored.Entries != 4 {
		t.Errorf("BuildInfo = %+v, want %+v", stored, info)
	}

	dict, err := s.Dictionary(ctx)
	if err != nil {
		t.Fatalf("Dictionary returned error: %v", err)
	}
	if !reflect.DeepEqual(dict.Readings, sampleDictionary().Readings) {
		t.Errorf("Dictionary = %+v", dict.Readings)
	}
}

func TestOpen_Missing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.sqlite3")); err == nil {
		t.Fatalf("expected an error for a missing database")
	}
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeJSON(&buf, sampleDictionary(), false); err != nil {
		t.Fatalf("EncodeJSON returned error: %v", err)
	}
	want := `{"fei1 chang2":["非常"],"he1":["喝","呵"],"na5":["哪"]}` + "\n"
	if buf.String() != want {
		t.Errorf("EncodeJSON = %s, want %s", buf.String(), want)
	}

	buf.Reset()
	if err := EncodeJSON(&buf, sampleDictionary(), true); err != nil {
		t.Fatalf("EncodeJSON returned error: %v", err)
	}
	if !strings.Contains(buf.String(), `"na5":[{"char":"哪","rare_tone":true}]`) {
		t.Errorf("rare JSON = %s", buf.String())
	}
}

func TestEncodeText(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeText(&buf, sampleDictionary()); err != nil {
		t.Fatalf("EncodeText returned error: %v", err)
	}
	want := "fei1 chang2\t非常\nhe1\t喝 | 呵\nna5\t哪*\n"
	if buf.String() != want {
		t.Errorf("EncodeText = %q, want %q", buf.String(), want)
	}
}

func TestGobRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "dict.gob")
	if err := WriteGob(path, sampleDictionary()); err != nil {
		t.Fatalf("WriteGob returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file left behind: %v", err)
	}
	dict, err := ReadGob(path)
	if err != nil {
		t.Fatalf("ReadGob returned error: %v", err)
	}
	if !reflect.DeepEqual(dict.Readings, sampleDictionary().Readings) {
		t.Errorf("ReadGob = %+v", dict.Readings)
	}
}

func TestWriteJSONAndText(t *testing.T) {
	dir := t.TempDir()
	if err := WriteJSON(filepath.Join(dir, "dict.json"), sampleDictionary(), false); err != nil {
		t.Fatalf("WriteJSON returned error: %v", err)
	}
	if err := WriteText(filepath.Join(dir, "dict.txt"), sampleDictionary()); err != nil {
		t.Fatalf("WriteText returned error: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "dict.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "fei1 chang2\t") {
		t.Errorf("unexpected text export %q", data)
	}
}
