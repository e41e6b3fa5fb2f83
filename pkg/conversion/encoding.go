// Package conversion decodes dictionary and corpus sources from legacy
// CJK encodings to UTF-8.
package conversion

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// EncodingID is an enum-like type for the source encodings tonedict can
// read. CJK dictionaries and corpora are still commonly distributed in
// legacy national encodings.
type EncodingID int

const (
	UTF8 EncodingID = iota
	UTF16LE
	UTF16BE
	UTF16LEBOM
	UTF16BEBOM

	GBK
	HZGB2312
	GB18030

	Big5

	ShiftJIS
	EUCJP

	EUCKR
)

// EncodingName returns a canonical string name.
func (e EncodingID) EncodingName() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16LE"
	case UTF16BE:
		return "UTF-16BE"
	case UTF16LEBOM:
		return "UTF-16LE-BOM"
	case UTF16BEBOM:
		return "UTF-16BE-BOM"
	case GBK:
		return "GBK"
	case HZGB2312:
		return "HZ-GB2312"
	case GB18030:
		return "GB18030"
	case Big5:
		return "Big5"
	case ShiftJIS:
		return "ShiftJIS"
	case EUCJP:
		return "EUC-JP"
	case EUCKR:
		return "EUC-KR"
	}
	return "Unknown"
}

// String implements fmt.Stringer.
func (e EncodingID) String() string { return e.EncodingName() }

// nameToEncoding maps lower-case names to enum.
var nameToEncoding = map[string]EncodingID{
	"":             UTF8,
	"utf-8":        UTF8,
	"utf8":         UTF8,
	"utf-16le":     UTF16LE,
	"utf-16be":     UTF16BE,
	"utf-16le-bom": UTF16LEBOM,
	"utf-16be-bom": UTF16BEBOM,

	"gbk":       GBK,
	"cp936":     GBK,
	"hz-gb2312": HZGB2312,
	"gb18030":   GB18030,
	"gb2312":    GB18030,

	"big5": Big5,

	"shiftjis":  ShiftJIS,
	"shift-jis": ShiftJIS,
	"euc-jp":    EUCJP,

	"euc-kr": EUCKR,
}

// ParseEncoding returns the EncodingID for a given name (case-insensitive).
// The empty name selects UTF-8.
func ParseEncoding(name string) (EncodingID, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := nameToEncoding[key]; ok {
		return enc, nil
	}
	return 0, fmt.Errorf("unknown encoding: %s", name)
}

// GetEncoding returns the encoding.Encoding instance.
func GetEncoding(e EncodingID) (encoding.Encoding, error) {
	switch e {
	case UTF8:
		return unicode.UTF8, nil
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), nil
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), nil
	case UTF16LEBOM:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), nil
	case UTF16BEBOM:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), nil
	case GBK:
		return simplifiedchinese.GBK, nil
	case HZGB2312:
		return simplifiedchinese.HZGB2312, nil
	case GB18030:
		return simplifiedchinese.GB18030, nil
	case Big5:
		return traditionalchinese.Big5, nil
	case ShiftJIS:
		return japanese.ShiftJIS, nil
	case EUCJP:
		return japanese.EUCJP, nil
	case EUCKR:
		return korean.EUCKR, nil
	}

	return nil, errors.New("unsupported encoding id")
}

// NewReader decodes r from src to UTF-8 while it is read. UTF-8 input is
// returned as is, minus a leading byte order mark.
func NewReader(r io.Reader, src EncodingID) (io.Reader, error) {
	if src == UTF8 {
		return transform.NewReader(r, unicode.BOMOverride(transform.Nop)), nil
	}
	enc, err := GetEncoding(src)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}
