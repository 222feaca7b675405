package yrpl

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

const (
	MagicYRP1 uint32 = 0x31707279 // "yrp1"
	MagicYRPX uint32 = 0x58707279 // "yrpX"
)

const (
	FlagCompressed     uint32 = 0x1
	FlagTag            uint32 = 0x2
	FlagDecoded        uint32 = 0x4
	FlagSingleMode     uint32 = 0x8
	FlagLua64          uint32 = 0x10
	FlagNewReplay      uint32 = 0x20
	FlagHandTest       uint32 = 0x40
	FlagDirectSeed     uint32 = 0x80
	Flag64BitDuelFlag  uint32 = 0x100
	FlagExtendedHeader uint32 = 0x200
)

const (
	LegacyHeaderSize         = 32
	LegacyExtendedHeaderSize = 40
)

type LegacyHeader struct {
	ID       uint32
	Version  uint32
	Flags    uint32
	Seed     uint32
	DataSize uint32
	Hash     uint32
	Props    [8]byte
}

type LegacyExtendedHeader struct {
	HeaderVersion uint64
	Seed          [4]uint64
}

func (h *LegacyHeader) Compressed() bool {
	return h.Flags&FlagCompressed != 0
}

func (h *LegacyHeader) Extended() bool {
	return h.Flags&FlagExtendedHeader != 0
}

func (h *LegacyHeader) CompressionProps() (ret [LZMAPropsSize]byte) {
	copy(ret[:], h.Props[:LZMAPropsSize])
	return
}

// Size of the fixed header region preceding the payload.
func (h *LegacyHeader) Size() int {
	if h.Extended() {
		return LegacyHeaderSize + LegacyExtendedHeaderSize
	}
	return LegacyHeaderSize
}

// Fingerprint identifies a replay by its header bytes.
func (h *LegacyHeader) Fingerprint() string {
	buf := &bytes.Buffer{}
	err := binary.Write(buf, binary.LittleEndian, h)
	if err != nil {
		panic(err)
	}
	s := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(s[:])
}

type PolicyAttempt struct {
	Policy SizePolicy
	Err    error
}

type LegacyContainer struct {
	Header   LegacyHeader
	Extended *LegacyExtendedHeader
	Policy   SizePolicy
	Attempts []PolicyAttempt
	Payload  []byte
	// Preamble is filled by ReadPreamble.
	Preamble *LegacyPreamble
}

// ReadPreamble reads the duel setup at the start of the payload and returns
// the message stream following it.
func (lc *LegacyContainer) ReadPreamble() ([]byte, error) {
	p, err := ReadLegacyPreamble(lc.Payload, lc.Header.Flags)
	if err != nil {
		return nil, err
	}
	lc.Preamble = p
	return lc.Payload[p.Size:], nil
}

func ReadLegacyHeader(buf []byte) (*LegacyHeader, error) {
	if len(buf) < LegacyHeaderSize {
		return nil, newDecodeError(ErrTruncatedHeader, "reading legacy header", 0, LegacyHeaderSize, len(buf), nil)
	}
	h := &LegacyHeader{}
	err := binary.Read(bytes.NewReader(buf[:LegacyHeaderSize]), binary.LittleEndian, h)
	if err != nil {
		return nil, newDecodeError(ErrTruncatedHeader, "reading legacy header", 0, LegacyHeaderSize, len(buf), err)
	}
	return h, nil
}

// DefaultMaxDictCap bounds the lzma dictionary a header may ask for. Decoders
// allocate the whole dictionary before reading the body.
const DefaultMaxDictCap uint32 = 64 << 20

// offset of the dictionary capacity inside the legacy header
const dictCapOffset = 25

// DictCap is the lzma dictionary capacity from the property bytes.
func (h *LegacyHeader) DictCap() uint32 {
	return binary.LittleEndian.Uint32(h.Props[1:LZMAPropsSize])
}

// DecodeLegacy parses the fixed header and yields the payload, decompressing it
// when the compressed flag is set. Policies are tried in order, at most two.
// When both fail the container is still returned so Attempts can be inspected.
// maxDictCap of 0 means DefaultMaxDictCap.
func DecodeLegacy(buf []byte, lz Decompressor, policies []SizePolicy, maxDictCap uint32) (ret *LegacyContainer, err error) {
	h, err := ReadLegacyHeader(buf)
	if err != nil {
		return nil, err
	}
	ret = &LegacyContainer{Header: *h}
	if len(buf) < h.Size() {
		return nil, newDecodeError(ErrTruncatedHeader, "reading extended legacy header", LegacyHeaderSize, h.Size(), len(buf), nil)
	}
	if h.Extended() {
		ret.Extended = &LegacyExtendedHeader{}
		err = binary.Read(bytes.NewReader(buf[LegacyHeaderSize:h.Size()]), binary.LittleEndian, ret.Extended)
		if err != nil {
			return nil, newDecodeError(ErrTruncatedHeader, "reading extended legacy header", LegacyHeaderSize, LegacyExtendedHeaderSize, len(buf)-LegacyHeaderSize, err)
		}
	}
	body := buf[h.Size():]

	if !h.Compressed() {
		ret.Policy = SizePolicyNone
		ret.Payload = body
		return ret, nil
	}
	if len(body) < lzmaMinBodySize {
		return nil, newDecodeError(ErrTruncatedPayload, "reading compressed legacy body", h.Size(), lzmaMinBodySize, len(body), nil)
	}

	if maxDictCap == 0 {
		maxDictCap = DefaultMaxDictCap
	}
	if dictCap := h.DictCap(); dictCap > maxDictCap {
		return ret, newDecodeError(ErrDecompressionFailed, "checking lzma dictionary", dictCapOffset, -1, -1,
			fmt.Errorf("dictionary capacity %d exceeds limit %d", dictCap, maxDictCap))
	}

	policies = normalizePolicies(policies)
	props := h.CompressionProps()
	errs := []error{}
	for _, policy := range policies {
		streamHeader := LZMAStreamHeader(props, h.DataSize, policy)
		stream := make([]byte, 0, len(streamHeader)+len(body))
		stream = append(stream, streamHeader[:]...)
		stream = append(stream, body...)
		out, derr := lz.Decompress(stream)
		ret.Attempts = append(ret.Attempts, PolicyAttempt{Policy: policy, Err: derr})
		if derr == nil {
			ret.Policy = policy
			ret.Payload = out
			log.Debug().
				Stringer("policy", policy).
				Uint32("declaredSize", h.DataSize).
				Int("decompressedSize", len(out)).
				Msg("legacy payload decompressed")
			return ret, nil
		}
		log.Warn().Err(derr).Stringer("policy", policy).Uint32("declaredSize", h.DataSize).Msg("lzma size policy failed")
		errs = append(errs, derr)
	}
	return ret, newDecodeError(ErrDecompressionFailed, "decompressing legacy body", h.Size(), -1, len(body), errors.Join(errs...))
}

var defaultPolicyOrder = []SizePolicy{SizePolicyDeclared, SizePolicyUnknown}

// normalizePolicies drops duplicates and non-lzma policies, keeps at most two,
// and appends whichever of the two is missing so both are always tried.
func normalizePolicies(policies []SizePolicy) []SizePolicy {
	ret := make([]SizePolicy, 0, 2)
	for _, p := range append(append([]SizePolicy{}, policies...), defaultPolicyOrder...) {
		if p != SizePolicyDeclared && p != SizePolicyUnknown {
			continue
		}
		dup := false
		for _, have := range ret {
			if have == p {
				dup = true
			}
		}
		if !dup {
			ret = append(ret, p)
		}
		if len(ret) == 2 {
			break
		}
	}
	return ret
}
