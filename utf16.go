package unival

import (
	"encoding/binary"
	"math/bits"
)

const (
	surrogateMin     = 0xD800
	surrogateMax     = 0xDFFF
	highSurrogateMin = 0xD800
	lowSurrogateMin  = 0xDC00
	maxRune          = 0x10FFFF
)

// ByteOrder names the in-memory layout of 16-bit code units.
type ByteOrder uint8

const (
	// NativeEndian units are read as the host stores them.
	NativeEndian ByteOrder = iota
	// LittleEndian units are byte-swapped first on big-endian hosts.
	LittleEndian
	// BigEndian units are byte-swapped first on little-endian hosts.
	BigEndian
)

func (bo ByteOrder) String() string {
	switch bo {
	case NativeEndian:
		return "native"
	case LittleEndian:
		return "little-endian"
	case BigEndian:
		return "big-endian"
	}

	return "unknown"
}

var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// swapped reports whether units laid out in bo differ from the host order.
func (bo ByteOrder) swapped() bool {
	switch bo {
	case LittleEndian:
		return !hostLittleEndian
	case BigEndian:
		return hostLittleEndian
	}

	return false
}

// units16 is a read-only view of a run of UTF-16 code units already in host
// order, however they are stored.
type units16 interface {
	len() int
	at(i int) uint16
}

type hostUnits16 []uint16

func (u hostUnits16) len() int        { return len(u) }
func (u hostUnits16) at(i int) uint16 { return u[i] }

type swappedUnits16 []uint16

func (u swappedUnits16) len() int        { return len(u) }
func (u swappedUnits16) at(i int) uint16 { return bits.ReverseBytes16(u[i]) }

type leBytes16 []byte

func (b leBytes16) len() int        { return len(b) / 2 }
func (b leBytes16) at(i int) uint16 { return binary.LittleEndian.Uint16(b[2*i:]) }

type beBytes16 []byte

func (b beBytes16) len() int        { return len(b) / 2 }
func (b beBytes16) at(i int) uint16 { return binary.BigEndian.Uint16(b[2*i:]) }

func validateUTF16[U units16](u U) result {
	n := u.len()
	pos := 0

	for pos < n {
		w := u.at(pos)
		if w&0xF800 != surrogateMin {
			pos++
			continue
		}

		// high surrogate must be followed by a low one
		if w-highSurrogateMin > 0x3FF || pos+1 >= n || u.at(pos+1)-lowSurrogateMin > 0x3FF {
			return result{Surrogate, pos}
		}

		pos += 2
	}

	return result{Success, n}
}

func asciiUTF16[U units16](u U) bool {
	var acc uint16
	for i, n := 0, u.len(); i < n; i++ {
		acc |= u.at(i)
	}

	return acc < 0x80
}

func countUTF16[U units16](u U) int {
	c := 0
	for i, n := 0, u.len(); i < n; i++ {
		if u.at(i)&0xFC00 != lowSurrogateMin {
			c++
		}
	}

	return c
}

// ValidUTF16 reports whether u holds only non-surrogate units and correctly
// ordered surrogate pairs, with no pair split by the end of input.
func ValidUTF16(u []uint16, bo ByteOrder) bool {
	if bo.swapped() {
		return validateUTF16(swappedUnits16(u)).kind == Success
	}

	return validateUTF16(hostUnits16(u)).kind == Success
}

// ValidateUTF16 returns len(u) when u is valid UTF-16 in byte order bo.
// Otherwise it returns a Surrogate *Error positioned at the unit that begins
// the bad sequence.
func ValidateUTF16(u []uint16, bo ByteOrder) (int, error) {
	if bo.swapped() {
		return convError(validateUTF16(swappedUnits16(u)))
	}

	return convError(validateUTF16(hostUnits16(u)))
}

// ASCIIUTF16 reports whether every unit of u is below 0x80. It says nothing
// about validity beyond that range.
func ASCIIUTF16(u []uint16, bo ByteOrder) bool {
	if bo.swapped() {
		return asciiUTF16(swappedUnits16(u))
	}

	return asciiUTF16(hostUnits16(u))
}

// CountUTF16 returns the number of units in u that are not low surrogates,
// which is the code point count when u is valid. It does not validate.
func CountUTF16(u []uint16, bo ByteOrder) int {
	if bo.swapped() {
		return countUTF16(swappedUnits16(u))
	}

	return countUTF16(hostUnits16(u))
}
