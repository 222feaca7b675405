/*
	yrpl: duel replay parsing library (golang)
	Copyright (C) 2025 flexcoral

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package yrpl

import (
	"fmt"
	"iter"

	"github.com/maxsupermanhd/yrpl-inspector/danet"
)

type Framing int

const (
	// FramingAligned is [len:1][id:1][payload:len] padded to 4 bytes.
	FramingAligned Framing = iota
	// FramingWide is [id:1][len:u32le][payload:len] without padding.
	FramingWide
)

func (f Framing) String() string {
	switch f {
	case FramingAligned:
		return "aligned"
	case FramingWide:
		return "wide"
	default:
		return "unknown"
	}
}

func ParseFraming(s string) (Framing, error) {
	switch s {
	case "aligned":
		return FramingAligned, nil
	case "wide":
		return FramingWide, nil
	default:
		return FramingAligned, fmt.Errorf("unknown framing %q", s)
	}
}

const packetAlignment = 4

type Packet struct {
	// Offset of the first framing byte, relative to the stream start.
	Offset  int
	ID      MessageID
	Length  uint32
	Payload []byte
}

// Framer splits a message stream into packets. It holds no position, every
// iteration starts from the beginning of the stream.
type Framer struct {
	stream  []byte
	framing Framing
}

func NewFramer(stream []byte, framing Framing) *Framer {
	return &Framer{stream: stream, framing: framing}
}

// All yields packets in stream order. A truncated packet is yielded as a
// single error and ends the sequence.
func (f *Framer) All() iter.Seq2[*Packet, error] {
	if f.framing == FramingWide {
		return f.wide
	}
	return f.aligned
}

// Collect returns every packet read before the first error, and that error.
func (f *Framer) Collect() (ret []*Packet, err error) {
	ret = []*Packet{}
	for pk, err := range f.All() {
		if err != nil {
			return ret, err
		}
		ret = append(ret, pk)
	}
	return ret, nil
}

func (f *Framer) aligned(yield func(*Packet, error) bool) {
	c := danet.NewCursor(f.stream)
	for c.Remaining() >= 2 {
		start := c.Pos()
		l, _ := c.ReadU8()
		if l == 0 {
			for {
				b, err := c.PeekU8()
				if err != nil || b != 0 {
					break
				}
				_ = c.Skip(1)
			}
			continue
		}
		id, _ := c.ReadU8()
		payload, err := c.ReadBytes(int(l))
		if err != nil {
			yield(nil, newDecodeError(ErrTruncatedPacket, "framing packet "+MessageID(id).String(), start, int(l), c.Remaining(), nil))
			return
		}
		if !yield(&Packet{
			Offset:  start,
			ID:      MessageID(id),
			Length:  uint32(l),
			Payload: payload,
		}, nil) {
			return
		}
		c.Align(packetAlignment)
	}
}

func (f *Framer) wide(yield func(*Packet, error) bool) {
	c := danet.NewCursor(f.stream)
	for c.Remaining() >= 5 {
		start := c.Pos()
		id, _ := c.ReadU8()
		l, _ := c.ReadU32LE()
		if uint64(l) > uint64(c.Remaining()) {
			yield(nil, newDecodeError(ErrTruncatedPacket, "framing packet "+MessageID(id).String(), start, int(l), c.Remaining(), nil))
			return
		}
		payload, _ := c.ReadBytes(int(l))
		if !yield(&Packet{
			Offset:  start,
			ID:      MessageID(id),
			Length:  l,
			Payload: payload,
		}, nil) {
			return
		}
	}
}
