package probe

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestASCII(t *testing.T) {
	require.Equal(t, "Hi.~.", ASCII([]byte{'H', 'i', 0x00, '~', 0x7f}))
	require.Equal(t, "", ASCII(nil))
}

func TestInt32s_DropsShortTail(t *testing.T) {
	b := []byte{0x01, 0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0xff, 0x40, 0x1f, 0x00}
	require.Equal(t, []int32{1, -1}, Int32s(b))
	require.Empty(t, Int32s([]byte{1, 2, 3}))
}

func TestInt16s(t *testing.T) {
	require.Equal(t, []int16{0x1f40, -2}, Int16s([]byte{0x40, 0x1f, 0xfe, 0xff, 0x01}))
}

func TestUint32sAt(t *testing.T) {
	b := []byte{0xaa, 0x40, 0x1f, 0x00, 0x00, 0xbb}
	require.Equal(t, []uint32{8000}, Uint32sAt(b, 1))
	require.Equal(t, []uint32{0x001f40aa}, Uint32sAt(b, 0))
	require.Empty(t, Uint32sAt(b, 3))
	require.Empty(t, Uint32sAt(b, 7))
	require.Empty(t, Uint32sAt(b, -1))
}

func TestFind(t *testing.T) {
	b := []byte{0xaa, 0xaa, 0xaa, 0x01, 0xaa, 0xaa}

	require.Equal(t, []int{0, 1, 4}, Find(b, []byte{0xaa, 0xaa}))
	require.Equal(t, []int{3}, Find(b, []byte{0x01}))
	require.Empty(t, Find(b, []byte{0x02}))
	require.Empty(t, Find(b, nil))
	require.Empty(t, Find(nil, []byte{0x01}))
}

func TestFindUint32(t *testing.T) {
	b := []byte{0x00, 0x40, 0x1f, 0x00, 0x00, 0x40, 0x1f, 0x00, 0x00}
	require.Equal(t, []int{1, 5}, FindUint32(b, 8000))
}

func TestDescribe(t *testing.T) {
	b := []byte{'a', 'b', 0x00, 0x00, 0x05}
	h := Describe(b)

	require.Equal(t, 5, h.Length)
	require.Equal(t, "ab...", h.ASCII)
	require.Equal(t, []int32{0x6261}, h.Int32)
	require.Equal(t, []int16{0x6261, 0}, h.Int16)
	require.Equal(t, []uint32{0x05000000 | 0x62}, h.Shifted[1])
	require.Empty(t, h.Shifted[2])
	require.Equal(t, Fingerprint([]byte{'a', 'b', 0x00, 0x00, 0x05}), h.Fingerprint)
	require.NotEqual(t, Fingerprint([]byte{'a'}), h.Fingerprint)
}
