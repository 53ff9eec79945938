package utils

import (
	"fmt"

	"github.com/pkg/errors"
)

// Cursor is a read position over an immutable byte slice.
// Several cursors may share one slice, each advanced independently.
type Cursor struct {
	buf  []byte
	pos  int
	kind string
	err  error
}

func NewCursor(kind string, b []byte) *Cursor {
	return &Cursor{buf: b, kind: kind}
}

// At returns independent cursor over same bytes positioned at absolute offset pos
func (c *Cursor) At(kind string, pos int) *Cursor {
	nc := &Cursor{buf: c.buf, pos: pos, kind: kind}
	if pos < 0 || pos > len(c.buf) {
		nc.fail(0)
	}
	return nc
}

func (c *Cursor) fail(need int) {
	if c.err == nil {
		c.err = errors.Errorf("%v: need %d bytes", c, need)
	}
	c.pos = len(c.buf)
}

func (c *Cursor) ensure(n int) bool {
	if c.err != nil {
		return false
	}
	if c.pos < 0 || c.pos+n > len(c.buf) {
		c.fail(n)
		return false
	}
	return true
}

func (c *Cursor) Err() error   { return c.err }
func (c *Cursor) Pos() int     { return c.pos }
func (c *Cursor) Len() int     { return len(c.buf) }
func (c *Cursor) Kind() string { return c.kind }

func (c *Cursor) Peek() uint8 {
	if !c.ensure(1) {
		return 0
	}
	return c.buf[c.pos]
}

func (c *Cursor) U8() uint8 {
	if !c.ensure(1) {
		return 0
	}
	v := c.buf[c.pos]
	c.pos++
	return v
}

func (c *Cursor) I8() int8 {
	return int8(c.U8())
}

// U16 reads big endian unsigned short
func (c *Cursor) U16() uint16 {
	if !c.ensure(2) {
		return 0
	}
	v := uint16(c.buf[c.pos])<<8 | uint16(c.buf[c.pos+1])
	c.pos += 2
	return v
}

// SmallSmart reads signed value packed into one byte ([-64, 63])
// or into two bytes with high bit of first byte set ([-16384, 16383])
func (c *Cursor) SmallSmart() int32 {
	if c.Peek() < 0x80 {
		return int32(c.U8()) - 0x40
	}
	return int32(c.U16()) - 0xC000
}

func (c *Cursor) Skip(n int) {
	if n < 0 {
		c.fail(n)
		return
	}
	if c.ensure(n) {
		c.pos += n
	}
}

func (c *Cursor) String() string {
	return fmt.Sprintf("cursor<%v>[p:0x%x,s:0x%x]", c.kind, c.pos, len(c.buf))
}

func AppendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

// AppendSmallSmart encodes v the way Cursor.SmallSmart decodes it
func AppendSmallSmart(b []byte, v int) []byte {
	if v >= -0x40 && v < 0x40 {
		return append(b, byte(v+0x40))
	}
	if v < -0x4000 || v >= 0x4000 {
		panic(fmt.Sprintf("smallsmart value %d out of range", v))
	}
	return AppendU16(b, uint16(v+0xC000))
}
