// This base64 decoder never skips characters. Whitespace, line breaks and
// bytes from the other alphabet are all reported as invalid characters at
// their index. Padding is only accepted as one or two trailing '=' that
// complete the final four character group.

package base64

import (
	"slices"
	"unsafe"

	"github.com/josephcopenhaver/unival"
)

// DecodedLength returns an upper bound on the number of bytes decoded from
// n base64 characters. It looks at the count only, so it is safe for any
// input of that length whatever its padding or validity.
//
// It returns -1 if n is negative.
func DecodedLength(n int) int {
	if n < 0 {
		return -1
	}

	return (n/4)*3 + ((n%4)*3)/4
}

// layout is the shape of an input as seen from its length and trailing
// padding, before any character is looked up.
type layout struct {
	// body is the number of characters before trailing padding
	body int
	pad  int
	// tail is the number of characters of the final partial group that
	// will be decoded: 0, 2 or 3
	tail     int
	consumed int
	// size is the exact decoded length when decoding succeeds
	size int
}

func scan(src []byte, p LastChunk) layout {
	n := len(src)

	pad := 0
	for pad < n && src[n-1-pad] == b64Pad {
		pad++
	}

	body := n - pad
	rem := body % 4

	l := layout{body: body, pad: pad, consumed: n}

	switch {
	case pad > 0 || p == Loose:
		if rem > 1 {
			l.tail = rem
		}
	case p == StopBeforePartial:
		l.consumed = body - rem
	}

	l.size = (body / 4) * 3
	if l.tail > 0 {
		l.size += l.tail - 1
	}

	return l
}

func firstInvalid(src []byte, start int, decodeTab *[256]byte) int {
	for i := start; i < len(src); i++ {
		if decodeTab[src[i]] == b64Invalid {
			return i
		}
	}

	return len(src)
}

func decode(dst, src []byte, l layout, o Options, p LastChunk) error {
	_, decodeTab := tables(o)

	groups := l.body / 4
	if groups > 0 {
		srcPtr := unsafe.Pointer(&src[0])
		dstPtr := unsafe.Pointer(&dst[0])

		for g := range groups {
			c0 := decodeTab[*(*byte)(srcPtr)]
			c1 := decodeTab[*(*byte)(unsafe.Add(srcPtr, 1))]
			c2 := decodeTab[*(*byte)(unsafe.Add(srcPtr, 2))]
			c3 := decodeTab[*(*byte)(unsafe.Add(srcPtr, 3))]

			if (c0 | c1 | c2 | c3) == b64Invalid {
				return unival.ResultError(unival.InvalidBase64Character, firstInvalid(src, g*4, decodeTab))
			}

			*(*byte)(dstPtr) = (c0<<2 | c1>>4)
			*(*byte)(unsafe.Add(dstPtr, 1)) = (c1<<4 | c2>>2)
			*(*byte)(unsafe.Add(dstPtr, 2)) = (c2<<6 | c3)

			srcPtr = unsafe.Add(srcPtr, 4)
			dstPtr = unsafe.Add(dstPtr, 3)
		}
	}

	// Tail.
	start := groups * 4
	rem := l.body - start

	// characters of a dropped partial group must still be in the alphabet
	if i := firstInvalid(src[:l.body], start, decodeTab); i < l.body {
		return unival.ResultError(unival.InvalidBase64Character, i)
	}

	if l.pad > 0 && (l.pad > 2 || (l.body+l.pad)%4 != 0) {
		return unival.ResultError(unival.InvalidBase64Character, l.body)
	}

	if rem == 0 || l.consumed == start {
		return nil
	}

	if l.tail == 0 {
		return unival.ResultError(unival.Base64InputRemainder, start)
	}

	c0 := decodeTab[src[start]]
	c1 := decodeTab[src[start+1]]
	d := dst[groups*3:]

	if rem == 2 {
		// last 4 LSBs of the second value are unused for remainder=2
		if p == Strict && (c1&0x0F) != 0 {
			return unival.ResultError(unival.Base64InputRemainder, start)
		}

		d[0] = c0<<2 | c1>>4
		return nil
	}

	c2 := decodeTab[src[start+2]]

	// last 2 LSBs of the third value are unused for remainder=3
	if p == Strict && (c2&0x03) != 0 {
		return unival.ResultError(unival.Base64InputRemainder, start)
	}

	d[0] = c0<<2 | c1>>4
	d[1] = c1<<4 | c2>>2

	return nil
}

// UnsafeDecode decodes src into the start of dst and returns how many bytes
// were written and how many characters were consumed.
//
// It should generally only be used when dst was sized up front, for example
// with DecodedLength(len(src)).
//
// This function panics if the destination does not have enough space in
// the slice for the decoded form of src.
//
// It is the parent context's responsibility to clear the dst slice
// should an error be returned and that be the ideal rollback state.
//
// invariants:
//
// - len(dst) >= DecodedLength(len(src))
func UnsafeDecode(dst, src []byte, o Options, p LastChunk) (Result, error) {
	// guard statements forcing panics rather than letting next call
	// lead to undefined behaviors

	l := scan(src, p)
	if len(dst) < l.size {
		panic("base64: decode destination too short")
	}

	if err := decode(dst, src, l, o, p); err != nil {
		return Result{}, err
	}

	return Result{Written: l.size, Consumed: l.consumed}, nil
}

// DecodeInto is UnsafeDecode for destinations of arbitrary size: when dst
// cannot hold the decoded form of src it returns an OutputBufferTooSmall
// error at position zero and writes nothing.
func DecodeInto(dst, src []byte, o Options, p LastChunk) (Result, error) {
	l := scan(src, p)
	if len(dst) < l.size {
		return Result{}, unival.ResultError(unival.OutputBufferTooSmall, 0)
	}

	if err := decode(dst, src, l, o, p); err != nil {
		return Result{}, err
	}

	return Result{Written: l.size, Consumed: l.consumed}, nil
}

// Decode returns the decoded form of src if src is not empty. If src is
// empty nil is returned.
//
// If an error occurs during decoding then a nil slice and the error are
// returned.
func Decode(src []byte, o Options, p LastChunk) ([]byte, error) {
	if len(src) == 0 {
		return nil, nil
	}

	l := scan(src, p)
	dst := make([]byte, l.size)

	if err := decode(dst, src, l, o, p); err != nil {
		return nil, err
	}

	return dst, nil
}

// AppendDecode returns the decoded form of src appended to dst
// if src is not empty. If src is empty dst is returned as-is.
//
// If an error occurs during decoding then dst is returned with its original
// length and contents; the spare capacity past it may have been written.
func AppendDecode(dst, src []byte, o Options, p LastChunk) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	l := scan(src, p)
	orig := len(dst)

	dst = slices.Grow(dst, l.size)
	dst = dst[:orig+l.size]

	if err := decode(dst[orig:], src, l, o, p); err != nil {
		return dst[:orig], err
	}

	return dst, nil
}

// AppendDecodeString is AppendDecode for a string source.
func AppendDecodeString(dst []byte, src string, o Options, p LastChunk) ([]byte, error) {
	if len(src) == 0 {
		return dst, nil
	}

	return AppendDecode(dst, unsafe.Slice(unsafe.StringData(src), len(src)), o, p)
}
