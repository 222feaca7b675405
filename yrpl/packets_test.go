package yrpl

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePackets() []testPacket {
	ret := []testPacket{}
	for i, l := range []int{1, 2, 3, 4, 5, 7, 255, 6} {
		payload := bytes.Repeat([]byte{byte(0xa0 + i)}, l)
		ret = append(ret, testPacket{id: byte(90 + i), payload: payload})
	}
	return ret
}

func TestFramer_RoundTrip(t *testing.T) {
	want := samplePackets()
	stream := alignedStream(want...)

	got, err := NewFramer(stream, FramingAligned).Collect()
	require.NoError(t, err)
	require.Len(t, got, len(want))

	rebuilt := []byte{}
	for i, pk := range got {
		require.Equal(t, MessageID(want[i].id), pk.ID)
		require.Equal(t, uint32(len(want[i].payload)), pk.Length)
		require.Equal(t, want[i].payload, pk.Payload)
		require.Equal(t, len(rebuilt), pk.Offset)
		require.Zero(t, pk.Offset%4)

		rebuilt = append(rebuilt, byte(pk.Length), byte(pk.ID))
		rebuilt = append(rebuilt, pk.Payload...)
		for len(rebuilt)%4 != 0 {
			rebuilt = append(rebuilt, 0)
		}
	}
	require.Equal(t, stream, rebuilt)
}

func TestFramer_PayloadIsSubslice(t *testing.T) {
	stream := alignedStream(testPacket{id: 1, payload: []byte{1, 2, 3}})
	got, err := NewFramer(stream, FramingAligned).Collect()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Same(t, &stream[2], &got[0].Payload[0])
}

func TestFramer_ZeroRunIsSkipped(t *testing.T) {
	stream := []byte{
		0x02, 0x05, 0x11, 0x22, // aligned packet ending at 4
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // padding run
		0x01, 0x07, 0x33, // unaligned packet at 10
		0x00, 0x00, 0x00,
	}

	got, err := NewFramer(stream, FramingAligned).Collect()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, MessageID(5), got[0].ID)
	require.Equal(t, []byte{0x11, 0x22}, got[0].Payload)
	require.Equal(t, 10, got[1].Offset)
	require.Equal(t, MessageID(7), got[1].ID)
	require.Equal(t, []byte{0x33}, got[1].Payload)
}

func TestFramer_OnlyZeros(t *testing.T) {
	got, err := NewFramer(make([]byte, 17), FramingAligned).Collect()
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFramer_ShortStreamsEndCleanly(t *testing.T) {
	for _, stream := range [][]byte{nil, {}, {0x03}} {
		got, err := NewFramer(stream, FramingAligned).Collect()
		require.NoError(t, err)
		require.Empty(t, got)
	}
}

func TestFramer_TruncatedInsidePayload(t *testing.T) {
	want := samplePackets()
	stream := alignedStream(want...)
	full, err := NewFramer(stream, FramingAligned).Collect()
	require.NoError(t, err)

	for i, pk := range full {
		payloadStart := pk.Offset + 2
		for cut := payloadStart; cut < payloadStart+int(pk.Length); cut++ {
			got, err := NewFramer(stream[:cut], FramingAligned).Collect()
			require.ErrorIs(t, err, ErrTruncatedPacket, "cut at %d", cut)
			require.Len(t, got, i, "cut at %d", cut)
			for j := range got {
				require.Equal(t, full[j], got[j])
			}

			var de *DecodeError
			require.True(t, errors.As(err, &de))
			require.Equal(t, pk.Offset, de.Offset)
			require.Equal(t, int(pk.Length), de.Want)
			require.Equal(t, cut-payloadStart, de.Have)
		}
	}
}

func TestFramer_Restartable(t *testing.T) {
	stream := alignedStream(samplePackets()...)
	f := NewFramer(stream, FramingAligned)

	first, err := f.Collect()
	require.NoError(t, err)

	n := 0
	for pk, err := range f.All() {
		require.NoError(t, err)
		require.Equal(t, first[n], pk)
		n++
		if n == 3 {
			break
		}
	}
	require.Equal(t, 3, n)

	second, err := f.Collect()
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestFramer_Wide(t *testing.T) {
	stream := []byte{byte(MsgDraw)}
	stream = binary.LittleEndian.AppendUint32(stream, 3)
	stream = append(stream, 0x01, 0x02, 0x03)
	stream = append(stream, byte(MsgNewTurn))
	stream = binary.LittleEndian.AppendUint32(stream, 0)

	got, err := NewFramer(stream, FramingWide).Collect()
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, MsgDraw, got[0].ID)
	require.Equal(t, []byte{1, 2, 3}, got[0].Payload)
	require.Equal(t, 8, got[1].Offset)
	require.Equal(t, MsgNewTurn, got[1].ID)
	require.Empty(t, got[1].Payload)

	got, err = NewFramer(stream[:6], FramingWide).Collect()
	require.ErrorIs(t, err, ErrTruncatedPacket)
	require.Empty(t, got)
}

func TestMessageID_String(t *testing.T) {
	require.Equal(t, "MSG_DRAW", MsgDraw.String())
	require.True(t, MsgMove.Known())
	require.True(t, MsgConfirmExtratop.Known())
	require.False(t, MessageID(0xfe).Known())
	require.Equal(t, "unknown(0xfe)", MessageID(0xfe).String())
}
