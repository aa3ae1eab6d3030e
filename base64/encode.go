package base64

import (
	"math"
	"slices"
	"unsafe"
)

// maxEncodeSrcLen is the longest source whose encoded length fits in an int.
const maxEncodeSrcLen = math.MaxInt / 4 * 3

// EncodedLength returns the exact number of characters the encoding of n
// bytes occupies under options o. It returns -1 if n is negative or its
// encoded form cannot be addressed.
//
// The alphabet never changes the length; padding adds up to two '='.
func EncodedLength(n int, o Options) int {
	if n < 0 || n > maxEncodeSrcLen {
		return -1
	}

	return encodedLenExpression(n, o.Padded())
}

func encodedLenExpression(n int, padded bool) int {
	if padded {
		return (n + 2) / 3 * 4
	}

	return (n/3)*4 + ((n%3)*4+2)/3
}

func encodedLen(n int, o Options) int {
	if n > maxEncodeSrcLen {
		panic("base64: invalid encode source length")
	}

	return encodedLenExpression(n, o.Padded())
}

func encode(dstPtr, srcPtr unsafe.Pointer, n int, o Options) {
	encodeTab, _ := tables(o)

	for range n / 3 {
		b0 := *(*byte)(srcPtr)
		b1 := *(*byte)(unsafe.Add(srcPtr, 1))
		b2 := *(*byte)(unsafe.Add(srcPtr, 2))

		*(*byte)(dstPtr) = encodeTab[b0>>2]
		*(*byte)(unsafe.Add(dstPtr, 1)) = encodeTab[((b0<<4)|(b1>>4))&63]
		*(*byte)(unsafe.Add(dstPtr, 2)) = encodeTab[((b1<<2)|(b2>>6))&63]
		*(*byte)(unsafe.Add(dstPtr, 3)) = encodeTab[b2&63]

		srcPtr = unsafe.Add(srcPtr, 3)
		dstPtr = unsafe.Add(dstPtr, 4)
	}

	// Tail.
	switch n % 3 {
	case 1:
		b0 := *(*byte)(srcPtr)

		*(*byte)(dstPtr) = encodeTab[b0>>2]
		*(*byte)(unsafe.Add(dstPtr, 1)) = encodeTab[(b0<<4)&63]

		if o.Padded() {
			*(*byte)(unsafe.Add(dstPtr, 2)) = b64Pad
			*(*byte)(unsafe.Add(dstPtr, 3)) = b64Pad
		}
	case 2:
		b0 := *(*byte)(srcPtr)
		b1 := *(*byte)(unsafe.Add(srcPtr, 1))

		*(*byte)(dstPtr) = encodeTab[b0>>2]
		*(*byte)(unsafe.Add(dstPtr, 1)) = encodeTab[((b0<<4)|(b1>>4))&63]
		*(*byte)(unsafe.Add(dstPtr, 2)) = encodeTab[(b1<<2)&63]

		if o.Padded() {
			*(*byte)(unsafe.Add(dstPtr, 3)) = b64Pad
		}
	}
}

// UnsafeEncode fills the start of dst with the encoded form of src and
// returns the number of characters written.
//
// It should generally only be used when dst was sized up front with
// EncodedLength, for example a reused scratch buffer.
//
// This function panics if the destination does not have enough space in
// the slice for the encoded form of src. Bytes of dst past the returned
// count are left untouched.
//
// invariants:
//
// - len(dst) >= EncodedLength(len(src), o)
func UnsafeEncode(dst, src []byte, o Options) int {
	// guard statements forcing panics rather than letting next call
	// lead to undefined behaviors

	n := encodedLen(len(src), o)
	if len(dst) < n {
		panic("base64: encode destination too short")
	}

	if n == 0 {
		return 0
	}

	encode(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), len(src), o)

	return n
}

// Encode returns nil if src is empty, otherwise it returns the
// encoded form of src.
func Encode(src []byte, o Options) []byte {
	n := len(src)
	if n == 0 {
		return nil
	}

	n = encodedLen(n, o)
	dst := make([]byte, n)

	encode(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), len(src), o)

	return dst
}

// EncodeString returns "" if src is empty, otherwise it returns the
// encoded form of src.
func EncodeString(src string, o Options) string {
	n := len(src)
	if n == 0 {
		return ""
	}

	n = encodedLen(n, o)
	dst := make([]byte, n)

	encode(unsafe.Pointer(&dst[0]), unsafe.Pointer(unsafe.StringData(src)), len(src), o)

	return unsafe.String(&dst[0], n)
}

// AppendEncode returns the encoded form of src appended to dst
// if src is not empty. If src is empty dst is returned as-is.
//
// Bytes already in dst are never read or rewritten.
func AppendEncode(dst, src []byte, o Options) []byte {
	n := len(src)
	if n == 0 {
		return dst
	}

	n = encodedLen(n, o)
	orig := len(dst)

	dst = slices.Grow(dst, n)
	dst = dst[:orig+n]

	encode(unsafe.Pointer(&dst[orig]), unsafe.Pointer(&src[0]), len(src), o)

	return dst
}

// AppendEncodeString returns the encoded form of src appended to dst
// if src is not empty. If src is empty dst is returned as-is.
func AppendEncodeString(dst []byte, src string, o Options) []byte {
	n := len(src)
	if n == 0 {
		return dst
	}

	n = encodedLen(n, o)
	orig := len(dst)

	dst = slices.Grow(dst, n)
	dst = dst[:orig+n]

	encode(unsafe.Pointer(&dst[orig]), unsafe.Pointer(unsafe.StringData(src)), len(src), o)

	return dst
}
