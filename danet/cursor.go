package danet

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrInvalidOffset = errors.New("invalid offset")
)

// Cursor is a bounds-checked little-endian reader over an immutable byte slice.
// Failed reads never move the position.
type Cursor struct {
	Data []byte
	pos  int
}

func NewCursor(data []byte) *Cursor {
	return &Cursor{Data: data}
}

func (c *Cursor) Pos() int {
	return c.pos
}

func (c *Cursor) Len() int {
	return len(c.Data)
}

func (c *Cursor) Remaining() int {
	return len(c.Data) - c.pos
}

func (c *Cursor) check(n int) error {
	if n < 0 || n > c.Remaining() {
		return fmt.Errorf("%w: want %d bytes at offset %d, have %d", ErrOutOfBounds, n, c.pos, c.Remaining())
	}
	return nil
}

func (c *Cursor) ReadU8() (byte, error) {
	if err := c.check(1); err != nil {
		return 0, err
	}
	b := c.Data[c.pos]
	c.pos++
	return b, nil
}

func (c *Cursor) PeekU8() (byte, error) {
	if err := c.check(1); err != nil {
		return 0, err
	}
	return c.Data[c.pos], nil
}

func (c *Cursor) ReadU16LE() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadU32LE() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadI32LE() (int32, error) {
	v, err := c.ReadU32LE()
	return int32(v), err
}

func (c *Cursor) ReadU64LE() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadBytes returns the next n bytes as a subslice of Data, not a copy.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.PeekBytes(n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return b, nil
}

func (c *Cursor) PeekBytes(n int) ([]byte, error) {
	if err := c.check(n); err != nil {
		return nil, err
	}
	return c.Data[c.pos : c.pos+n : c.pos+n], nil
}

func (c *Cursor) Skip(n int) error {
	if err := c.check(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.Data) {
		return fmt.Errorf("%w: %d (length %d)", ErrInvalidOffset, offset, len(c.Data))
	}
	c.pos = offset
	return nil
}

// Align moves to the next multiple of n relative to the start of Data,
// stopping at the end if the padding is cut short. Returns bytes skipped.
func (c *Cursor) Align(n int) int {
	if n <= 1 {
		return 0
	}
	rem := c.pos % n
	if rem == 0 {
		return 0
	}
	pad := min(n-rem, c.Remaining())
	c.pos += pad
	return pad
}
