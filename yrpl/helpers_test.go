package yrpl

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"testing"
	"unicode/utf16"

	"github.com/klauspost/compress/flate"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz/lzma"
)

type testPacket struct {
	id      byte
	payload []byte
}

// alignedStream frames packets the way the keyed dialect stores them.
func alignedStream(packets ...testPacket) []byte {
	buf := []byte{}
	for _, p := range packets {
		buf = append(buf, byte(len(p.payload)), p.id)
		buf = append(buf, p.payload...)
		for len(buf)%4 != 0 {
			buf = append(buf, 0)
		}
	}
	return buf
}

func sectionBytes(key string, typ byte, body []byte) []byte {
	buf := []byte(key)
	buf = append(buf, 0, typ)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(body)))
	return append(buf, body...)
}

func rawDeflate(t *testing.T, data []byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := flate.NewWriter(buf, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func keyedText(t *testing.T, decompressed []byte) []byte {
	t.Helper()
	return []byte(base64.StdEncoding.EncodeToString(rawDeflate(t, decompressed)))
}

// lzmaBody compresses data and splits the .lzma output into the 5 property
// bytes and the body, dropping the stream header like replay files do.
func lzmaBody(t *testing.T, data []byte, withEndMarker bool) (props [LZMAPropsSize]byte, body []byte) {
	t.Helper()
	buf := &bytes.Buffer{}
	cfg := lzma.WriterConfig{
		SizeInHeader: !withEndMarker,
		Size:         int64(len(data)),
		EOSMarker:    withEndMarker,
	}
	w, err := cfg.NewWriter(buf)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	out := buf.Bytes()
	require.Greater(t, len(out), LZMAStreamHeaderSize)
	copy(props[:], out[:LZMAPropsSize])
	return props, out[LZMAStreamHeaderSize:]
}

func legacyReplay(magic, flags, declaredSize uint32, props [LZMAPropsSize]byte, body []byte) []byte {
	h := LegacyHeader{
		ID:       magic,
		Version:  0x1000,
		Flags:    flags,
		Seed:     1234,
		DataSize: declaredSize,
		Hash:     0xdeadbeef,
	}
	copy(h.Props[:], props[:])
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, h); err != nil {
		panic(err)
	}
	if flags&FlagExtendedHeader != 0 {
		ext := LegacyExtendedHeader{HeaderVersion: 1, Seed: [4]uint64{1, 2, 3, 4}}
		if err := binary.Write(buf, binary.LittleEndian, ext); err != nil {
			panic(err)
		}
	}
	buf.Write(body)
	return buf.Bytes()
}

// countingDecompressor records how many times it was asked to decompress.
type countingDecompressor struct {
	inner Decompressor
	calls int
}

func (c *countingDecompressor) Decompress(data []byte) ([]byte, error) {
	c.calls++
	return c.inner.Decompress(data)
}

func nameBytes(name string) []byte {
	b := make([]byte, PlayerNameSize)
	for i, u := range utf16.Encode([]rune(name)) {
		binary.LittleEndian.PutUint16(b[2*i:], u)
	}
	return b
}

func deckBytes(buf []byte, cards []uint32) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(cards)))
	for _, c := range cards {
		buf = binary.LittleEndian.AppendUint32(buf, c)
	}
	return buf
}

// preambleBytes lays out names split evenly between the two sides, params
// 8000/5/1, duel flags 0x1234 and the given decks. Counts are written only
// for FlagNewReplay.
func preambleBytes(flags uint32, names []string, decks []Deck) []byte {
	buf := []byte{}
	sides := [][]string{names[:len(names)/2], names[len(names)/2:]}
	if flags&FlagSingleMode != 0 {
		sides = [][]string{names}
	}
	for _, side := range sides {
		if flags&FlagNewReplay != 0 && flags&FlagSingleMode == 0 {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(len(side)))
		}
		for _, n := range side {
			buf = append(buf, nameBytes(n)...)
		}
	}
	buf = binary.LittleEndian.AppendUint32(buf, 8000)
	buf = binary.LittleEndian.AppendUint32(buf, 5)
	buf = binary.LittleEndian.AppendUint32(buf, 1)
	if flags&Flag64BitDuelFlag != 0 {
		buf = binary.LittleEndian.AppendUint64(buf, 0x1234)
	} else {
		buf = binary.LittleEndian.AppendUint32(buf, 0x1234)
	}
	for _, d := range decks {
		buf = deckBytes(buf, d.Main)
		buf = deckBytes(buf, d.Extra)
	}
	return buf
}

var testDecks = []Deck{
	{Main: []uint32{89631139, 46986414}, Extra: []uint32{44508094}},
	{Main: []uint32{14558127}, Extra: []uint32{}},
}

// legacyPayload puts a two player preamble in front of stream.
func legacyPayload(stream []byte) []byte {
	return append(preambleBytes(0, []string{"Alice", "Bob"}, testDecks), stream...)
}
