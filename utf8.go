package unival

import (
	"encoding/binary"
	"unsafe"
)

const asciiMask8 = 0x8080808080808080

// validateUTF8 walks b one sequence at a time and stops at the first byte
// that cannot start or continue a shortest-form scalar value.
//
// On success the count is len(b).
func validateUTF8(b []byte) result {
	n := len(b)
	pos := 0

	for pos < n {
		// ascii runs, eight bytes at a time
		for pos+8 <= n && binary.LittleEndian.Uint64(b[pos:])&asciiMask8 == 0 {
			pos += 8
		}
		if pos == n {
			break
		}

		c := b[pos]
		if c < 0x80 {
			pos++
			continue
		}

		var next int
		switch {
		case c&0xE0 == 0xC0:
			next = pos + 2
			if next > n || b[pos+1]&0xC0 != 0x80 {
				return result{TooShort, pos}
			}

			cp := uint32(c&0x1F)<<6 | uint32(b[pos+1]&0x3F)
			if cp < 0x80 {
				return result{Overlong, pos}
			}
		case c&0xF0 == 0xE0:
			next = pos + 3
			if next > n || b[pos+1]&0xC0 != 0x80 || b[pos+2]&0xC0 != 0x80 {
				return result{TooShort, pos}
			}

			cp := uint32(c&0x0F)<<12 | uint32(b[pos+1]&0x3F)<<6 | uint32(b[pos+2]&0x3F)
			if cp < 0x800 {
				return result{Overlong, pos}
			}
			if cp >= surrogateMin && cp <= surrogateMax {
				return result{Surrogate, pos}
			}
		case c&0xF8 == 0xF0:
			next = pos + 4
			if next > n || b[pos+1]&0xC0 != 0x80 || b[pos+2]&0xC0 != 0x80 || b[pos+3]&0xC0 != 0x80 {
				return result{TooShort, pos}
			}

			cp := uint32(c&0x07)<<18 | uint32(b[pos+1]&0x3F)<<12 | uint32(b[pos+2]&0x3F)<<6 | uint32(b[pos+3]&0x3F)
			if cp <= 0xFFFF {
				return result{Overlong, pos}
			}
			if cp > maxRune {
				return result{TooLarge, pos}
			}
		case c&0xC0 == 0x80:
			// continuation byte with no leading byte
			return result{TooLong, pos}
		default:
			return result{HeaderBits, pos}
		}

		pos = next
	}

	return result{Success, n}
}

// ValidUTF8 reports whether b is entirely well-formed UTF-8: shortest forms
// only, no surrogates, nothing above U+10FFFF, no truncated sequences.
func ValidUTF8(b []byte) bool {
	return validateUTF8(b).kind == Success
}

// ValidateUTF8 returns len(b) when b is well-formed UTF-8. Otherwise it
// returns an *Error positioned at the first byte of the offending sequence.
func ValidateUTF8(b []byte) (int, error) {
	return convError(validateUTF8(b))
}

// ValidString is ValidUTF8 for a string, without copying it.
func ValidString(s string) bool {
	return validateUTF8(stringBytes(s)).kind == Success
}

// ValidateString is ValidateUTF8 for a string, without copying it.
func ValidateString(s string) (int, error) {
	return convError(validateUTF8(stringBytes(s)))
}

// CountUTF8 returns the number of code points in b, which must already be
// valid UTF-8. The result for invalid input is meaningless but the call is
// still memory safe.
func CountUTF8(b []byte) int {
	n := 0
	for _, c := range b {
		// every byte except a continuation byte (0b10xxxxxx) starts a code point
		if int8(c) > -65 {
			n++
		}
	}

	return n
}

// CountString is CountUTF8 for a string.
func CountString(s string) int {
	return CountUTF8(stringBytes(s))
}

func stringBytes(s string) []byte {
	if len(s) == 0 {
		return nil
	}

	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// Text is a string view of bytes that have been validated as UTF-8.
//
// A Text can only be obtained from AsText, so holding one means the
// validation succeeded. It aliases the validated bytes: the caller must not
// modify them while the Text or any string taken from it is in use.
type Text struct {
	s string
}

// AsText validates b and, on success, reinterprets the same memory as text
// without copying.
func AsText(b []byte) (Text, error) {
	if _, err := ValidateUTF8(b); err != nil {
		return Text{}, err
	}

	if len(b) == 0 {
		return Text{}, nil
	}

	return Text{unsafe.String(unsafe.SliceData(b), len(b))}, nil
}

func (t Text) String() string {
	return t.s
}

// Len returns the length in bytes.
func (t Text) Len() int {
	return len(t.s)
}

// Bytes returns the validated bytes the view was created from.
func (t Text) Bytes() []byte {
	return stringBytes(t.s)
}
