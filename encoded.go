package unival

// unitWidth returns the code unit size in bytes of a single encoding.
func unitWidth(e Encoding) int {
	switch e {
	case UTF8:
		return 1
	case UTF16LE, UTF16BE:
		return 2
	case UTF32LE, UTF32BE:
		return 4
	}

	return 0
}

func validateEncoded(b []byte, e Encoding) result {
	var r result

	switch e {
	case UTF8:
		return validateUTF8(b)
	case UTF16LE:
		r = validateUTF16(leBytes16(b))
	case UTF16BE:
		r = validateUTF16(beBytes16(b))
	case UTF32LE:
		r = validateUTF32(leBytes32(b))
	case UTF32BE:
		r = validateUTF32(beBytes32(b))
	}

	// whole units passed; a trailing partial unit is a truncated sequence
	if r.kind == Success && len(b)%unitWidth(e) != 0 {
		return result{TooShort, r.count}
	}

	return r
}

// ValidateEncoded validates raw bytes laid out in encoding e and returns the
// number of code units on success.
//
// Error positions are code unit indexes, so multiply by the unit width for a
// byte offset. Trailing bytes that do not fill a whole unit are TooShort at
// that unit's index. A leading byte-order mark is checked like any other
// code point. Unspecified, or a set of several encodings, returns
// ErrUnspecifiedEncoding.
func ValidateEncoded(b []byte, e Encoding) (int, error) {
	if unitWidth(e) == 0 {
		return 0, ErrUnspecifiedEncoding
	}

	return convError(validateEncoded(b, e))
}
