package yrpl

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/ulikunitz/xz/lzma"
)

// Decompressor turns one complete compressed stream into its output.
// Implementations must be safe for concurrent use.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// DecompressorFunc adapts a function to Decompressor.
type DecompressorFunc func(data []byte) ([]byte, error)

func (f DecompressorFunc) Decompress(data []byte) ([]byte, error) {
	return f(data)
}

// LZMADecompressor reads classic .lzma streams: 13 byte header
// (5 property bytes, 8 byte size) followed by the range coded body.
type LZMADecompressor struct{}

func (LZMADecompressor) Decompress(data []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening lzma stream: %w", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading lzma stream: %w", err)
	}
	return out, nil
}

// RawDeflateDecompressor inflates headerless deflate data.
type RawDeflateDecompressor struct{}

func (RawDeflateDecompressor) Decompress(data []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(data))
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("inflating raw deflate stream: %w", err)
	}
	return out, nil
}

type SizePolicy int

const (
	// SizePolicyNone means the payload was stored uncompressed.
	SizePolicyNone SizePolicy = iota
	// SizePolicyDeclared writes the header's declared size into the stream header.
	SizePolicyDeclared
	// SizePolicyUnknown writes the all-ones sentinel and relies on the end marker.
	SizePolicyUnknown
)

func (p SizePolicy) String() string {
	switch p {
	case SizePolicyNone:
		return "none"
	case SizePolicyDeclared:
		return "declared"
	case SizePolicyUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("SizePolicy(%d)", int(p))
	}
}

func (p SizePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *SizePolicy) UnmarshalText(text []byte) (err error) {
	if string(text) == "none" {
		*p = SizePolicyNone
		return nil
	}
	*p, err = ParseSizePolicy(string(text))
	return
}

func ParseSizePolicy(s string) (SizePolicy, error) {
	switch s {
	case "declared":
		return SizePolicyDeclared, nil
	case "unknown":
		return SizePolicyUnknown, nil
	default:
		return SizePolicyNone, fmt.Errorf("unknown size policy %q", s)
	}
}

const (
	LZMAPropsSize        = 5
	LZMAStreamHeaderSize = LZMAPropsSize + 8
	// smallest range coded body: one zero byte plus the 4 byte initial code
	lzmaMinBodySize = 5
)

// LZMAStreamHeader rebuilds the header a standalone .lzma decoder expects
// from properties and size stored separately in a replay header.
func LZMAStreamHeader(props [LZMAPropsSize]byte, declaredSize uint32, policy SizePolicy) (ret [LZMAStreamHeaderSize]byte) {
	copy(ret[:LZMAPropsSize], props[:])
	lo, hi := declaredSize, uint32(0)
	if policy == SizePolicyUnknown {
		lo, hi = 0xFFFFFFFF, 0xFFFFFFFF
	}
	binary.LittleEndian.PutUint32(ret[LZMAPropsSize:], lo)
	binary.LittleEndian.PutUint32(ret[LZMAPropsSize+4:], hi)
	return
}
