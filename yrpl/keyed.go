package yrpl

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"

	"github.com/rs/zerolog/log"

	"github.com/maxsupermanhd/yrpl-inspector/danet"
)

const (
	SectionGameMessages = "GameMessages"
	DefaultKeyWindow    = 20
	// NUL terminator, reserved byte, u32 length
	sectionHeaderTail = 1 + 1 + 4
)

// Section is a named view into the decompressed container buffer.
type Section struct {
	Key       string
	KeyOffset int
	Offset    int
	// Type is the byte between the key terminator and the length, meaning unknown.
	Type   byte
	Length uint32
	Bytes  []byte
}

type KeyedContainer struct {
	Raw      []byte
	Sections []*Section
	byKey    map[string]*Section
}

// Section returns the first section found under key.
func (kc *KeyedContainer) Section(key string) (*Section, error) {
	s, ok := kc.byKey[key]
	if !ok {
		return nil, newDecodeError(ErrSectionNotFound, "looking up section "+key, -1, -1, -1, nil)
	}
	return s, nil
}

func (kc *KeyedContainer) Keys() []string {
	ret := []string{}
	for _, s := range kc.Sections {
		ret = append(ret, s.Key)
	}
	return ret
}

// FieldInt32 reads a scalar setting stored as key, NUL, int32le. The first
// occurrence of the key anywhere in the buffer is used.
func (kc *KeyedContainer) FieldInt32(key string) (int32, error) {
	b, err := kc.fieldValue(key, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

// FieldByte reads a flag stored as key, NUL, one byte.
func (kc *KeyedContainer) FieldByte(key string) (byte, error) {
	b, err := kc.fieldValue(key, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (kc *KeyedContainer) fieldValue(key string, n int) ([]byte, error) {
	op := "reading field " + key
	at := bytes.Index(kc.Raw, append([]byte(key), 0))
	if key == "" || at < 0 {
		return nil, newDecodeError(ErrSectionNotFound, op, -1, -1, -1, nil)
	}
	c := danet.NewCursor(kc.Raw)
	_ = c.Seek(at + len(key) + 1)
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, newDecodeError(ErrTruncatedHeader, op, c.Pos(), n, c.Remaining(), err)
	}
	return b, nil
}

// DecodeBase64 accepts standard alphabet text with or without padding,
// ignoring ASCII whitespace.
func DecodeBase64(text []byte) ([]byte, error) {
	clean := bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			return -1
		}
		return r
	}, text)
	out, err := base64.StdEncoding.DecodeString(string(clean))
	if err == nil {
		return out, nil
	}
	out, rerr := base64.RawStdEncoding.DecodeString(string(bytes.TrimRight(clean, "=")))
	if rerr == nil {
		return out, nil
	}
	return nil, newDecodeError(ErrInvalidEncoding, "decoding base64", -1, -1, -1, err)
}

func DecodeKeyedBase64(text []byte, deflate Decompressor, keys []string, window int) (*KeyedContainer, error) {
	raw, err := DecodeBase64(text)
	if err != nil {
		return nil, err
	}
	return DecodeKeyed(raw, deflate, keys, window)
}

// DecodeKeyed inflates raw deflate bytes and scans them for sections. When a
// section is malformed the container holds the sections before it and is
// returned together with the error.
func DecodeKeyed(raw []byte, deflate Decompressor, keys []string, window int) (*KeyedContainer, error) {
	buf, err := deflate.Decompress(raw)
	if err != nil {
		return nil, newDecodeError(ErrDecompressionFailed, "inflating keyed container", 0, -1, len(raw), err)
	}
	log.Debug().Int("compressed", len(raw)).Int("decompressed", len(buf)).Msg("keyed container inflated")
	sections, err := ScanSections(buf, keys, window)
	ret := &KeyedContainer{
		Raw:      buf,
		Sections: sections,
		byKey:    map[string]*Section{},
	}
	for _, s := range sections {
		if _, ok := ret.byKey[s.Key]; !ok {
			ret.byKey[s.Key] = s
		}
	}
	return ret, err
}

// ScanSections walks buf one byte at a time looking for a NUL terminated
// known key inside a window of the given size. A match commits to
// key, NUL, reserved byte, u32 length, body; the scan resumes after the body.
func ScanSections(buf []byte, keys []string, window int) ([]*Section, error) {
	if window <= 0 {
		window = DefaultKeyWindow
	}
	known := map[string]bool{}
	for _, k := range keys {
		if k != "" && len(k) < window {
			known[k] = true
		}
	}
	ret := []*Section{}
	c := danet.NewCursor(buf)
	for c.Remaining() > 0 {
		w, _ := c.PeekBytes(min(window, c.Remaining()))
		nul := bytes.IndexByte(w, 0)
		if nul <= 0 || !known[string(w[:nul])] {
			_ = c.Skip(1)
			continue
		}
		s, err := readSection(c, string(w[:nul]))
		if err != nil {
			return ret, err
		}
		log.Debug().Str("key", s.Key).Int("offset", s.Offset).Uint32("length", s.Length).Msg("section found")
		ret = append(ret, s)
	}
	return ret, nil
}

func readSection(c *danet.Cursor, key string) (*Section, error) {
	s := &Section{Key: key, KeyOffset: c.Pos()}
	op := "reading section " + key
	if c.Remaining() < len(key)+sectionHeaderTail {
		return nil, newDecodeError(ErrTruncatedHeader, op, s.KeyOffset, len(key)+sectionHeaderTail, c.Remaining(), nil)
	}
	_ = c.Skip(len(key) + 1)
	s.Type, _ = c.ReadU8()
	s.Length, _ = c.ReadU32LE()
	s.Offset = c.Pos()
	if uint64(s.Length) > uint64(c.Remaining()) {
		return nil, newDecodeError(ErrSectionLengthOverflow, op, s.Offset, int(s.Length), c.Remaining(), nil)
	}
	s.Bytes, _ = c.ReadBytes(int(s.Length))
	return s, nil
}
