package phono

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"testing"
	"testing/fstest"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// loadBlobs merges in-memory sources in order, like successive LoadInto
// calls on a build's reading sources.
func loadBlobs(mode MergeMode, blobs ...[]byte) (ReadingTable, error) {
	t := make(ReadingTable)
	for i, blob := range blobs {
		if err := LoadInto(t, mode, bytes.NewReader(blob)); err != nil {
			return nil, fmt.Errorf("blob %d: %w", i, err)
		}
	}
	return t, nil
}

// loadFS merges the named files of fsys in order.
func loadFS(fsys fs.FS, mode MergeMode, paths ...string) (ReadingTable, error) {
	t := make(ReadingTable)
	for _, path := range paths {
		f, err := fsys.Open(path)
		if err != nil {
			return nil, err
		}
		err = LoadInto(t, mode, f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return t, nil
}

func TestLoadCedict(t *testing.T) {
	src := `# CC-CEDICT
# comment line
我 我 [wo3] /I; me/
東西 东西 [dong1 xi1] /east and west/

女朋友 女朋友 [nu:3 peng2 you5] /girlfriend/
`
	entries, err := LoadCedict(strings.NewReader(src))
	if err != nil {
		t.Fatalf("LoadCedict returned error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d: %#v", len(entries), entries)
	}
	want := DictEntry{Traditional: "東西", Simplified: "东西", Reading: "dong1 xi1"}
	if entries[1] != want {
		t.Errorf("entries[1] = %#v, want %#v", entries[1], want)
	}
	if entries[2].Reading != "nu:3 peng2 you5" {
		t.Errorf("reading should be kept as written, got %q", entries[2].Reading)
	}
}

func TestLoadCedict_MalformedLine(t *testing.T) {
	src := "我 我 [wo3] /I/\nthis is not an entry\n"
	_, err := LoadCedict(strings.NewReader(src))
	if err == nil {
		t.Fatalf("expected an error for a malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line number, got %v", err)
	}
}

func TestLoadCorpus_CutoffAndPOS(t *testing.T) {
	src := "我_PRON\t1979,10,1\t1981,5,2\t2000,7,3\n" +
		"我\t1990,3,1\n" +
		"水_NOUN\t1950,100,1\n"
	table := make(CorpusTable)
	if err := LoadCorpus(strings.NewReader(src), DefaultCutoffYear, table); err != nil {
		t.Fatalf("LoadCorpus returned error: %v", err)
	}
	if got := table.Count("我"); got != 15 {
		t.Errorf("Count(我) = %v, want 15", got)
	}
	if got := table.Count("水"); got != 0 {
		t.Errorf("Count(水) = %v, want 0", got)
	}
}

func TestLoadCorpus_OneYearPerLine(t *testing.T) {
	src := "非常\t1980\t100\t3\n非常\t1981\t40\t2\n非常\t2008\t2\t1\n"
	table := make(CorpusTable)
	if err := LoadCorpus(strings.NewReader(src), 1980, table); err != nil {
		t.Fatalf("LoadCorpus returned error: %v", err)
	}
	if got := table.Count("非常"); got != 42 {
		t.Errorf("Count(非常) = %v, want 42", got)
	}
}

func TestLoadCorpus_BadObservation(t *testing.T) {
	table := make(CorpusTable)
	err := LoadCorpus(strings.NewReader("我\t1990,x,1\n"), 1980, table)
	if err == nil {
		t.Fatalf("expected an error for a non-numeric count")
	}
}

func TestReadingTxt_NormalizesAndRescales(t *testing.T) {
	src := "# char\treadings\n吃\tchī 9 | chi1 1\n&#31163;\tlí 3 | chi1 1  # scraped\n"
	table, err := loadBlobs(MergeModeAppend, []byte(src))
	if err != nil {
		t.Fatalf("loadBlobs returned error: %v", err)
	}
	if p, ok := table.Probability("吃", "chi1"); !ok || !near(p, 1) {
		t.Errorf("P(吃, chi1) = %v, %v; want 1, true", p, ok)
	}
	if p, ok := table.Probability("离", "li2"); !ok || !near(p, 0.75) {
		t.Errorf("P(离, li2) = %v, %v; want 0.75, true", p, ok)
	}
	if p, ok := table.Probability("离", "wo3"); !ok || p != 0 {
		t.Errorf("P(离, wo3) = %v, %v; want 0, true", p, ok)
	}
	if _, ok := table.Probability("水", "shui3"); ok {
		t.Errorf("absent character should report ok=false")
	}
}

func TestReadingTxt_Errors(t *testing.T) {
	for _, line := range []string{
		"吃\tchi1",
		"吃\tchi1 -1",
		"吃吃\tchi1 1",
		"吃\tchi7 1",
	} {
		if _, _, err := parseReadingTxtLine(line); err == nil {
			t.Errorf("parseReadingTxtLine(%q) should fail", line)
		}
	}
}

func TestMergeModes(t *testing.T) {
	base := []byte("了\tle5 1 | liao3 1\n的\tde5 1\n")
	next := []byte("了\tle5 9 | liao3 1\n")
	extra := []byte("了\tla1 1\n")

	replaced, err := loadBlobs(MergeModeReplace, base, next)
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if p, _ := replaced.Probability("了", "le5"); !near(p, 0.9) {
		t.Errorf("replace: P(了, le5) = %v, want 0.9", p)
	}
	if !replaced.Has("的") {
		t.Errorf("replace: 的 should be kept")
	}

	kept, err := loadBlobs(MergeModeNoOverride, base, next)
	if err != nil {
		t.Fatalf("no-override: %v", err)
	}
	if p, _ := kept.Probability("了", "le5"); !near(p, 0.5) {
		t.Errorf("no-override: P(了, le5) = %v, want 0.5", p)
	}

	appended, err := loadBlobs(MergeModeAppend, base, next, extra)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if p, _ := appended.Probability("了", "le5"); !near(p, 0.25) {
		t.Errorf("append: P(了, le5) = %v, want 0.25", p)
	}
	if p, _ := appended.Probability("了", "la1"); !near(p, 0.5) {
		t.Errorf("append: P(了, la1) = %v, want 0.5", p)
	}
}

func TestGobRoundTrip(t *testing.T) {
	table, err := NewReadingTable(map[string]map[string]float64{
		"的": {"de5": 95, "dí": 3, "di4": 2},
	})
	if err != nil {
		t.Fatalf("NewReadingTable returned error: %v", err)
	}
	var buf bytes.Buffer
	if err := WriteGob(&buf, table); err != nil {
		t.Fatalf("WriteGob returned error: %v", err)
	}
	if pl := selectLoader(buf.Bytes(), true); pl == nil || pl.Kind() != KindReadingGob {
		t.Fatalf("gob payload was not sniffed as gob")
	}
	loaded, err := loadBlobs(MergeModeAppend, buf.Bytes())
	if err != nil {
		t.Fatalf("loadBlobs returned error: %v", err)
	}
	if p, _ := loaded.Probability("的", "di2"); !near(p, 0.03) {
		t.Errorf("P(的, di2) = %v, want 0.03", p)
	}
}

func TestLoadInto_SourcesInOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"derived.txt":  {Data: []byte("了\tle5 1 | liao3 1\n")},
		"override.txt": {Data: []byte("了\tle5 9 | liao3 1\n")},
	}
	table, err := loadFS(fsys, MergeModeReplace, "derived.txt", "override.txt")
	if err != nil {
		t.Fatalf("loadFS returned error: %v", err)
	}
	if p, _ := table.Probability("了", "liao3"); !near(p, 0.1) {
		t.Errorf("P(了, liao3) = %v, want 0.1", p)
	}
	if _, err := loadFS(fsys, MergeModeAppend, "missing.txt"); err == nil {
		t.Errorf("expected an error for a missing path")
	}
}

func TestLoadInto_NoLoader(t *testing.T) {
	_, err := loadBlobs(MergeModeAppend, []byte("我 我 [wo3] /I/\n"))
	if !errors.Is(err, ErrNoLoader) {
		t.Fatalf("expected ErrNoLoader, got %v", err)
	}
}

func TestDistributionReadings(t *testing.T) {
	d := Distribution{"na3": 0.4, "na5": 0.2, "na4": 0.4}
	got := strings.Join(d.Readings(), ",")
	if got != "na3,na4,na5" {
		t.Fatalf("Readings() = %s", got)
	}
}

func TestMergeModeString(t *testing.T) {
	if MergeModeNoOverride.String() != "no-override" {
		t.Fatalf("unexpected spelling %q", MergeModeNoOverride.String())
	}
}
