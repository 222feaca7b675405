// Package probe reads a payload under several numeric and textual guesses
// at once, for working out message layouts by eye. Nothing here fails:
// bytes that do not fit a guess are left out of it.
package probe

import (
	"bytes"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// ASCII maps printable bytes to themselves and everything else to '.'.
func ASCII(b []byte) string {
	ret := make([]byte, len(b))
	for i, v := range b {
		if v >= 0x20 && v < 0x7F {
			ret[i] = v
		} else {
			ret[i] = '.'
		}
	}
	return string(ret)
}

// Int32s decodes every complete little-endian int32, dropping a short tail.
func Int32s(b []byte) []int32 {
	ret := make([]int32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		ret = append(ret, int32(binary.LittleEndian.Uint32(b[i:])))
	}
	return ret
}

func Int16s(b []byte) []int16 {
	ret := make([]int16, 0, len(b)/2)
	for i := 0; i+2 <= len(b); i += 2 {
		ret = append(ret, int16(binary.LittleEndian.Uint16(b[i:])))
	}
	return ret
}

// Uint32sAt is the uint32 run starting shift bytes in, for fields that do not
// start on a 4 byte boundary.
func Uint32sAt(b []byte, shift int) []uint32 {
	if shift < 0 || shift > len(b) {
		return []uint32{}
	}
	b = b[shift:]
	ret := make([]uint32, 0, len(b)/4)
	for i := 0; i+4 <= len(b); i += 4 {
		ret = append(ret, binary.LittleEndian.Uint32(b[i:]))
	}
	return ret
}

// Find returns every offset where pattern occurs, overlapping matches included.
func Find(b, pattern []byte) []int {
	ret := []int{}
	if len(pattern) == 0 {
		return ret
	}
	for off := 0; off+len(pattern) <= len(b); {
		i := bytes.Index(b[off:], pattern)
		if i < 0 {
			break
		}
		ret = append(ret, off+i)
		off += i + 1
	}
	return ret
}

// FindUint32 looks for a little-endian encoded marker value.
func FindUint32(b []byte, v uint32) []int {
	return Find(b, binary.LittleEndian.AppendUint32(nil, v))
}

// Fingerprint groups identical payloads.
func Fingerprint(b []byte) uint64 {
	return xxhash.Sum64(b)
}

type Hypotheses struct {
	Length      int
	ASCII       string
	Int32       []int32
	Int16       []int16
	Shifted     [4][]uint32
	Fingerprint uint64
}

func Describe(b []byte) Hypotheses {
	ret := Hypotheses{
		Length:      len(b),
		ASCII:       ASCII(b),
		Int32:       Int32s(b),
		Int16:       Int16s(b),
		Fingerprint: Fingerprint(b),
	}
	for shift := range ret.Shifted {
		ret.Shifted[shift] = Uint32sAt(b, shift)
	}
	return ret
}
