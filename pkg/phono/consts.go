package phono

// MergeMode controls how multiple reading-frequency sources are combined
// when the same character appears in more than one source.
type MergeMode int

const (
	// MergeModeAppend adds readings that the existing distribution of a
	// character does not know yet. Readings already present keep their
	// current weight.
	MergeModeAppend MergeMode = iota

	// MergeModeNoOverride does not change characters that already exist
	// in the table. New distributions are only added for characters that
	// are not present yet.
	MergeModeNoOverride

	// MergeModeReplace replaces the distribution of characters that
	// already exist in the table. As soon as a character appears in a new
	// source, its existing readings are discarded and the new ones are
	// kept. Manual overrides are applied with this mode.
	MergeModeReplace
)

// String returns the flag spelling of the mode.
func (m MergeMode) String() string {
	switch m {
	case MergeModeAppend:
		return "append"
	case MergeModeNoOverride:
		return "no-override"
	case MergeModeReplace:
		return "replace"
	}
	return "unknown"
}

// Kind identifies the "type" of loader used.
// It is mostly informational but shows up in error messages and logs.
type Kind string

const (
	// KindCedict identifies CC-CEDICT dictionary lines:
	//   <traditional> <simplified> [<pin1 yin1>] /<gloss>/.../
	KindCedict Kind = "cedict"

	// KindNgram identifies Google Books 1-gram lines, either
	//   <word>[_POS]\t<year>,<count>,<volumes>\t<year>,<count>,<volumes>...
	// or the older one-year-per-line layout
	//   <word>[_POS]\t<year>\t<count>\t<volumes>
	KindNgram Kind = "ngram"

	// KindReadingTxt identifies the native reading-frequency text format:
	//   <char>\t<reading> <weight> | <reading> <weight> | ...
	KindReadingTxt Kind = "reading_txt"

	// KindReadingGob identifies a gob-encoded ReadingTable.
	KindReadingGob Kind = "reading_gob"
)

// sniffLen defines the size of the block used to sniff the type.
const sniffLen = 4 * 1024 // a few kilobytes, like http.DetectContentType
