package yrpl

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type Dialect int

const (
	// DialectAuto picks the dialect from the leading bytes.
	DialectAuto Dialect = iota
	DialectLegacy
	// DialectKeyed is base64 text wrapping a raw deflate stream.
	DialectKeyed
	// DialectKeyedRaw is the raw deflate stream without the base64 envelope.
	DialectKeyedRaw
)

func (d Dialect) String() string {
	switch d {
	case DialectAuto:
		return "auto"
	case DialectLegacy:
		return "legacy"
	case DialectKeyed:
		return "keyed"
	case DialectKeyedRaw:
		return "keyed-raw"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

func ParseDialect(s string) (Dialect, error) {
	for _, d := range []Dialect{DialectAuto, DialectLegacy, DialectKeyed, DialectKeyedRaw} {
		if d.String() == s {
			return d, nil
		}
	}
	return DialectAuto, fmt.Errorf("unknown dialect %q", s)
}

type Replay struct {
	Legacy      *LegacyContainer
	Keyed       *KeyedContainer
	Messages    []byte
	Packets     []*Packet
	Diagnostics Diagnostics
}

type Diagnostics struct {
	Dialect          Dialect
	SizePolicy       SizePolicy
	Attempts         []PolicyAttempt
	DecompressedSize int
	Framing          Framing
	// PacketError is set when framing stopped on a truncated packet.
	PacketError error
}

// DetectDialect inspects the leading bytes: a legacy magic selects the
// legacy dialect, printable base64 text selects the keyed dialect.
func DetectDialect(b []byte) (Dialect, error) {
	if len(b) >= 4 {
		magic := binary.LittleEndian.Uint32(b)
		if magic == MagicYRP1 || magic == MagicYRPX {
			return DialectLegacy, nil
		}
	}
	if looksBase64(b) {
		return DialectKeyed, nil
	}
	head := b[:min(len(b), 4)]
	return DialectAuto, newDecodeError(ErrUnknownDialect, fmt.Sprintf("detecting dialect (leading bytes % x)", head), 0, -1, len(b), nil)
}

func looksBase64(b []byte) bool {
	b = bytes.TrimSpace(b)
	if len(b) < 4 {
		return false
	}
	for _, c := range b {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '+', c == '/', c == '=':
		case c == '\n', c == '\r', c == ' ', c == '\t':
		default:
			return false
		}
	}
	return true
}
