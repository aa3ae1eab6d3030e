package unival

import "strings"

// Encoding labels a Unicode encoding form. Values are bit flags so a set of
// candidates fits in one Encoding, see Candidates.
type Encoding uint8

const (
	Unspecified Encoding = 0
	UTF8        Encoding = 1 << (iota - 1)
	UTF16LE
	UTF16BE
	UTF32LE
	UTF32BE
)

var encodingNames = [...]struct {
	e    Encoding
	name string
}{
	{UTF8, "UTF-8"},
	{UTF16LE, "UTF-16LE"},
	{UTF16BE, "UTF-16BE"},
	{UTF32LE, "UTF-32LE"},
	{UTF32BE, "UTF-32BE"},
}

// String returns the label name, or the names joined by "|" for a set.
func (e Encoding) String() string {
	if e == Unspecified {
		return "unspecified"
	}

	var names []string
	for _, v := range encodingNames {
		if e&v.e != 0 {
			names = append(names, v.name)
		}
	}

	return strings.Join(names, "|")
}

// DetectBOM returns the encoding announced by a leading byte-order mark, or
// Unspecified when b does not start with one.
//
// FF FE 00 00 is taken as UTF-32LE rather than UTF-16LE followed by U+0000.
func DetectBOM(b []byte) Encoding {
	n := len(b)

	switch {
	case n >= 2 && b[0] == 0xFF && b[1] == 0xFE:
		if n >= 4 && b[2] == 0x00 && b[3] == 0x00 {
			return UTF32LE
		}
		return UTF16LE
	case n >= 2 && b[0] == 0xFE && b[1] == 0xFF:
		return UTF16BE
	case n >= 4 && b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF:
		return UTF32BE
	case n >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF:
		return UTF8
	}

	return Unspecified
}

// BOMLen returns the length in bytes of the byte-order mark of e, or zero
// when e is not a single encoding.
func BOMLen(e Encoding) int {
	switch e {
	case UTF8:
		return 3
	case UTF16LE, UTF16BE:
		return 2
	case UTF32LE, UTF32BE:
		return 4
	}

	return 0
}

// Detect returns the best-guess encoding of b.
//
// A byte-order mark wins. Without one, b is UTF-8 when it validates as UTF-8,
// which includes the empty buffer. Anything else is Unspecified: UTF-16 and
// UTF-32 are never inferred from content alone.
func Detect(b []byte) Encoding {
	if e := DetectBOM(b); e != Unspecified {
		return e
	}

	if ValidUTF8(b) {
		return UTF8
	}

	return Unspecified
}

// Candidates returns every encoding b is valid in when read without a
// byte-order mark: UTF8, UTF16LE when the length is even, UTF32LE when the
// length is a multiple of four. Big-endian forms are not probed.
func Candidates(b []byte) Encoding {
	var set Encoding

	if ValidUTF8(b) {
		set |= UTF8
	}

	if len(b)%2 == 0 && validateUTF16(leBytes16(b)).kind == Success {
		set |= UTF16LE
	}

	if len(b)%4 == 0 && validateUTF32(leBytes32(b)).kind == Success {
		set |= UTF32LE
	}

	return set
}
