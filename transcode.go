package unival

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// xEncoding returns the x/text encoding for a non-UTF-8 label. BOM handling
// is left to the caller so the codecs never add or strip one on their own.
func xEncoding(e Encoding) encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	case UTF32LE:
		return utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM)
	case UTF32BE:
		return utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM)
	}

	return nil
}

var boms = map[Encoding]string{
	UTF8:    "\xEF\xBB\xBF",
	UTF16LE: "\xFF\xFE",
	UTF16BE: "\xFE\xFF",
	UTF32LE: "\xFF\xFE\x00\x00",
	UTF32BE: "\x00\x00\xFE\xFF",
}

func hasBOM(b []byte, e Encoding) bool {
	bom := boms[e]
	return bom != "" && len(b) >= len(bom) && string(b[:len(bom)]) == bom
}

// AppendUTF8 validates src as encoding e and appends its UTF-8 form to dst.
// A leading byte-order mark of e is dropped.
//
// The bytes of dst are never modified. On error dst is returned as-is and
// the error positions the first invalid code unit of src.
func AppendUTF8(dst, src []byte, e Encoding) ([]byte, error) {
	if _, err := ValidateEncoded(src, e); err != nil {
		return dst, err
	}

	if hasBOM(src, e) {
		src = src[len(boms[e]):]
	}

	if e == UTF8 {
		return append(dst, src...), nil
	}

	out, err := xEncoding(e).NewDecoder().Bytes(src)
	if err != nil {
		return dst, err
	}

	return append(dst, out...), nil
}

// AppendEncoded validates src as UTF-8 and appends it to dst transcoded to
// encoding e, preceded by e's byte-order mark when bom is true.
//
// The bytes of dst are never modified. On error dst is returned as-is.
func AppendEncoded(dst, src []byte, e Encoding, bom bool) ([]byte, error) {
	if unitWidth(e) == 0 {
		return dst, ErrUnspecifiedEncoding
	}

	if _, err := ValidateUTF8(src); err != nil {
		return dst, err
	}

	orig := len(dst)
	if bom {
		dst = append(dst, boms[e]...)
	}

	if e == UTF8 {
		return append(dst, src...), nil
	}

	out, err := xEncoding(e).NewEncoder().Bytes(src)
	if err != nil {
		return dst[:orig], err
	}

	return append(dst, out...), nil
}
