package unival

import "encoding/binary"

type units32 interface {
	len() int
	at(i int) uint32
}

type hostUnits32 []uint32

func (u hostUnits32) len() int        { return len(u) }
func (u hostUnits32) at(i int) uint32 { return u[i] }

type leBytes32 []byte

func (b leBytes32) len() int        { return len(b) / 4 }
func (b leBytes32) at(i int) uint32 { return binary.LittleEndian.Uint32(b[4*i:]) }

type beBytes32 []byte

func (b beBytes32) len() int        { return len(b) / 4 }
func (b beBytes32) at(i int) uint32 { return binary.BigEndian.Uint32(b[4*i:]) }

func validateUTF32[U units32](u U) result {
	n := u.len()
	for i := 0; i < n; i++ {
		v := u.at(i)
		if v > maxRune {
			return result{TooLarge, i}
		}
		if v-surrogateMin <= surrogateMax-surrogateMin {
			return result{Surrogate, i}
		}
	}

	return result{Success, n}
}

// ValidUTF32 reports whether every value is a Unicode scalar value: at most
// 0x10FFFF and outside the surrogate range.
func ValidUTF32(v []uint32) bool {
	return validateUTF32(hostUnits32(v)).kind == Success
}

// ValidateUTF32 returns len(v) when every value is a scalar value, otherwise
// an *Error positioned at the first offending index.
func ValidateUTF32(v []uint32) (int, error) {
	return convError(validateUTF32(hostUnits32(v)))
}
