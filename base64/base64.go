// Package base64 implements the RFC 4648 standard and URL-safe base64
// alphabets with append-only output and an explicit policy for the final,
// possibly incomplete, character group.
//
// Decoding is strict about the alphabet: whitespace and every other byte
// outside the selected alphabet are errors, never skipped. Errors are
// *unival.Error values positioned at a character index of the input.
package base64

// Options selects the alphabet and the padding behavior of the encoder.
//
// The zero value is the standard alphabet with padding. URL switches to the
// URL-safe alphabet, which is unpadded by default; ReversePadding flips the
// padding default of either alphabet. Decoding only looks at the alphabet:
// padding is accepted whenever it is well placed.
type Options uint8

const (
	Default        Options = 0
	URL            Options = 1 << 0
	ReversePadding Options = 1 << 1

	DefaultNoPadding = Default | ReversePadding
	URLWithPadding   = URL | ReversePadding
)

// IsURL reports whether the URL-safe alphabet is selected.
func (o Options) IsURL() bool {
	return o&URL != 0
}

// Padded reports whether the encoder emits trailing '=' characters.
func (o Options) Padded() bool {
	return o.IsURL() == (o&ReversePadding != 0)
}

func (o Options) String() string {
	switch o & (URL | ReversePadding) {
	case Default:
		return "default"
	case URL:
		return "url"
	case DefaultNoPadding:
		return "default-no-padding"
	default:
		return "url-with-padding"
	}
}

// LastChunk governs how the decoder treats a trailing group of fewer than
// four characters.
type LastChunk uint8

const (
	// Loose decodes a final group of two or three characters with or
	// without padding and ignores its unused low bits.
	Loose LastChunk = iota
	// Strict requires the final group to be padded to four characters and
	// its unused low bits to be zero.
	Strict
	// StopBeforePartial decodes complete groups only and stops, without an
	// error, before an unpadded incomplete final group. Result.Consumed
	// tells how far decoding got.
	StopBeforePartial
)

func (p LastChunk) String() string {
	switch p {
	case Loose:
		return "loose"
	case Strict:
		return "strict"
	case StopBeforePartial:
		return "stop-before-partial"
	}

	return "unknown"
}

// Result is the write cursor returned by the destination-filling decoders.
type Result struct {
	// Written is the number of bytes stored at the start of dst.
	Written int
	// Consumed is the number of input characters decoded, padding included.
	// It is below len(src) only under StopBeforePartial.
	Consumed int
}
