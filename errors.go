package unival

import (
	"errors"
	"strconv"
)

// ErrorKind describes why a validation or decode stopped at a position.
type ErrorKind uint8

const (
	// Success is the zero kind. It never appears inside a returned *Error.
	Success ErrorKind = iota
	// HeaderBits means a leading byte has a header pattern no sequence can start with.
	HeaderBits
	// TooShort means a multi-unit sequence is cut off by a non-continuation
	// unit or by the end of input.
	TooShort
	// TooLong means a continuation byte appeared where a leading byte was expected.
	TooLong
	// Overlong means the value has a shorter valid encoding.
	Overlong
	// TooLarge means the decoded value exceeds 0x10FFFF.
	TooLarge
	// Surrogate means an encoded surrogate (UTF-8, UTF-32) or an unpaired or
	// misordered surrogate (UTF-16).
	Surrogate
	// InvalidBase64Character means a character outside the selected alphabet
	// that is not structural padding.
	InvalidBase64Character
	// Base64InputRemainder means the final character group violates the
	// active last-chunk policy.
	Base64InputRemainder
	// OutputBufferTooSmall means a caller-provided destination cannot hold the output.
	OutputBufferTooSmall
)

var (
	ErrHeaderBits             = errors.New("header bits")
	ErrTooShort               = errors.New("too short")
	ErrTooLong                = errors.New("too long")
	ErrOverlong               = errors.New("overlong")
	ErrTooLarge               = errors.New("too large")
	ErrSurrogate              = errors.New("surrogate")
	ErrInvalidBase64Character = errors.New("invalid base64 character")
	ErrBase64InputRemainder   = errors.New("base64 input remainder")
	ErrOutputBufferTooSmall   = errors.New("output buffer too small")

	ErrUnspecifiedEncoding = errors.New("unspecified encoding")
)

var kindSentinels = [...]error{
	HeaderBits:             ErrHeaderBits,
	TooShort:               ErrTooShort,
	TooLong:                ErrTooLong,
	Overlong:               ErrOverlong,
	TooLarge:               ErrTooLarge,
	Surrogate:              ErrSurrogate,
	InvalidBase64Character: ErrInvalidBase64Character,
	Base64InputRemainder:   ErrBase64InputRemainder,
	OutputBufferTooSmall:   ErrOutputBufferTooSmall,
}

var kindNames = [...]string{
	Success:                "success",
	HeaderBits:             "header_bits",
	TooShort:               "too_short",
	TooLong:                "too_long",
	Overlong:               "overlong",
	TooLarge:               "too_large",
	Surrogate:              "surrogate",
	InvalidBase64Character: "invalid_base64_character",
	Base64InputRemainder:   "base64_input_remainder",
	OutputBufferTooSmall:   "output_buffer_too_small",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}

	return "error_kind(" + strconv.Itoa(int(k)) + ")"
}

// Error reports the first position at which an input stopped being valid.
//
// Position is counted in the input's own unit: bytes for UTF-8, code units
// for UTF-16 and UTF-32, characters for base64. Every unit before Position
// belongs to a valid prefix.
type Error struct {
	Kind     ErrorKind
	Position int
}

func (e *Error) Error() string {
	return "unival: " + e.Kind.String() + " at position " + strconv.Itoa(e.Position)
}

// Unwrap returns the sentinel error of the kind so errors.Is(err, ErrTooShort)
// holds for any TooShort position.
func (e *Error) Unwrap() error {
	if int(e.Kind) < len(kindSentinels) {
		return kindSentinels[e.Kind]
	}

	return nil
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}

	return false
}

// result is the raw outcome of a check: a kind plus the number of units
// processed, which is the full length on success.
type result struct {
	kind  ErrorKind
	count int
}

func convError(r result) (int, error) {
	if r.kind == Success {
		return r.count, nil
	}

	return 0, &Error{Kind: r.kind, Position: r.count}
}

// ResultError maps a raw (kind, count) outcome onto the package error model:
// nil for Success, an *Error carrying count as its position otherwise.
func ResultError(kind ErrorKind, count int) error {
	_, err := convError(result{kind, count})
	return err
}
