package candidate

import (
	"errors"
	"testing"
)

func normalized(t *testing.T, entries ...Entry) []Entry {
	t.Helper()
	out, err := Normalizer{}.Apply(entries)
	if err != nil {
		t.Fatalf("Normalizer returned error: %v", err)
	}
	return out
}

func TestFilter_Accept(t *testing.T) {
	f := NewFilter()
	accepted := normalized(t,
		Entry{Traditional: "東西南北", Simplified: "东西南北", Reading: "dong1 xi1 nan2 bei3"},
		Entry{Traditional: "我", Simplified: "我", Reading: "wo3"},
		Entry{Traditional: "女", Simplified: "女", Reading: "nu:3"},
		Entry{Traditional: "兒", Simplified: "儿", Reading: "r5"},
	)
	for _, e := range accepted {
		if !f.Accept(e) {
			t.Errorf("Accept(%s [%s]) = false, want true", e.Simplified, e.Reading)
		}
	}

	rejected := normalized(t,
		Entry{Traditional: "%", Simplified: "%", Reading: "pa1"},
		Entry{Traditional: "々", Simplified: "々", Reading: "xx"},
		Entry{Traditional: "烏里雅蘇台", Simplified: "乌里雅苏台", Reading: "wu1 li3 ya3 su1 tai2"},
		Entry{Traditional: "卡拉OK", Simplified: "卡拉OK", Reading: "ka3 la1 O K"},
		Entry{Traditional: "卡爾·馬克思", Simplified: "卡尔·马克思", Reading: "Ka3 er3 · Ma3 ke4 si1"},
	)
	for _, e := range rejected {
		if f.Accept(e) {
			t.Errorf("Accept(%s [%s]) = true, want false", e.Simplified, e.Reading)
		}
	}
}

func TestFilter_RejectsMalformedReadings(t *testing.T) {
	f := NewFilter()
	for _, reading := range []string{"wo", "wo3 ", "wo3  ni3", "wo3,ni3", "WO3", ""} {
		e := Entry{Simplified: "我", Reading: reading}
		if f.Accept(e) {
			t.Errorf("Accept with reading %q = true, want false", reading)
		}
	}
}

func TestFilter_Bounds(t *testing.T) {
	e := Entry{Simplified: "东西南北", Reading: "dong1 xi1 nan2 bei3"}
	if (Filter{MinCodePoint: DefaultMinCodePoint, MaxLength: 3}).Accept(e) {
		t.Errorf("a 4-character entry should be rejected with MaxLength 3")
	}
	if !(Filter{MinCodePoint: 0x20, MaxLength: 4}).Accept(Entry{Simplified: "A", Reading: "a5"}) {
		t.Errorf("a lowered MinCodePoint should admit Latin letters")
	}
}

func TestFilter_AlignmentAfterFilter(t *testing.T) {
	entries := normalized(t,
		Entry{Traditional: "東西南北", Simplified: "东西南北", Reading: "dong1 xi1 nan2 bei3"},
		Entry{Traditional: "非常", Simplified: "非常", Reading: "fei1 chang2"},
		Entry{Traditional: "%", Simplified: "%", Reading: "pa1 sen1"},
	)
	out, err := NewFilter().Apply(entries)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	for _, e := range out {
		if e.Syllables() != e.Len() {
			t.Errorf("%s: %d syllables for %d characters", e.Simplified, e.Syllables(), e.Len())
		}
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 admitted entries, got %d", len(out))
	}
}

func TestFilter_MisalignedEntry(t *testing.T) {
	entries := []Entry{{Traditional: "非常", Simplified: "非常", Reading: "fei1"}}
	_, err := NewFilter().Apply(entries)
	var aerr *AlignmentError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected *AlignmentError, got %v", err)
	}
	if aerr.Syllables != 1 || aerr.Simplified != 2 {
		t.Errorf("unexpected counts in %v", aerr)
	}

	entries = []Entry{{Traditional: "東西南", Simplified: "东西", Reading: "dong1 xi1"}}
	if _, err := NewFilter().Apply(entries); !errors.As(err, &aerr) {
		t.Fatalf("traditional/simplified length mismatch should fail, got %v", err)
	}
}

func TestNormalizer_RejectsRepeatedSpaces(t *testing.T) {
	out := normalized(t,
		Entry{Traditional: "我們", Simplified: "我们", Reading: "wo3  men5"},
		Entry{Traditional: "我們", Simplified: "我们", Reading: "wo3 men5"},
	)
	admitted, err := NewFilter().Apply(out)
	if err != nil {
		t.Fatalf("Filter returned error: %v", err)
	}
	if len(admitted) != 1 || admitted[0].Reading != "wo3 men5" {
		t.Errorf("expected only the single-spaced reading, got %#v", admitted)
	}
}

func TestNormalizer(t *testing.T) {
	out := normalized(t,
		Entry{Simplified: "女朋友", Reading: "Nu:3 peng2 you5"},
		Entry{Simplified: "?", Reading: "a0"},
	)
	if len(out) != 1 {
		t.Fatalf("expected the unnormalizable entry to be dropped, got %#v", out)
	}
	if out[0].Reading != "nv3 peng2 you5" {
		t.Errorf("Reading = %q", out[0].Reading)
	}
}
