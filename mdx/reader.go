package mdx

import (
	"bytes"

	"github.com/anaminus/parse"
	"github.com/warcodec/mdlx"
)

// cursor reads little-endian values from an in-memory chunk body. Every read
// is checked against the number of bytes remaining before it is performed.
//
// Errors are sticky: after the first failure, further reads return zero values
// and the error is reported by Err.
type cursor struct {
	data []byte
	fr   *parse.BinaryReader
	err  error
}

func newCursor(b []byte) *cursor {
	return &cursor{
		data: b,
		fr:   parse.NewBinaryReader(bytes.NewReader(b)),
	}
}

// Err returns the first error that occurred.
func (c *cursor) Err() error {
	return c.err
}

// fail records err, unless an error has already occurred.
func (c *cursor) fail(err error) {
	if c.err == nil && err != nil {
		c.err = err
	}
}

// offset returns the number of bytes consumed.
func (c *cursor) offset() int64 {
	return c.fr.N()
}

// left returns the number of bytes remaining.
func (c *cursor) left() int {
	return len(c.data) - int(c.fr.N())
}

// need fails with a ShortDataError if fewer than n bytes remain.
func (c *cursor) need(what string, n int64) bool {
	if c.err != nil {
		return false
	}
	if left := c.left(); int64(left) < n {
		c.err = ShortDataError{What: what, Have: left, Need: int(n)}
		return false
	}
	return true
}

func (c *cursor) number(n int64, v interface{}) {
	if !c.need("", n) {
		return
	}
	if c.fr.Number(v) {
		c.fail(c.fr.Err())
	}
}

func (c *cursor) i32() (v int32) {
	c.number(4, &v)
	return v
}

func (c *cursor) u32() (v uint32) {
	c.number(4, &v)
	return v
}

func (c *cursor) u16() (v uint16) {
	c.number(2, &v)
	return v
}

func (c *cursor) u8() (v uint8) {
	c.number(1, &v)
	return v
}

func (c *cursor) f32() (v float32) {
	c.number(4, &v)
	return v
}

func (c *cursor) vec2() mdlx.Vec2 {
	return mdlx.Vec2{X: c.f32(), Y: c.f32()}
}

func (c *cursor) vec3() mdlx.Vec3 {
	return mdlx.Vec3{X: c.f32(), Y: c.f32(), Z: c.f32()}
}

func (c *cursor) vec4() mdlx.Vec4 {
	return mdlx.Vec4{X: c.f32(), Y: c.f32(), Z: c.f32(), W: c.f32()}
}

func (c *cursor) extent() mdlx.Extent {
	return mdlx.Extent{BoundsRadius: c.f32(), Min: c.vec3(), Max: c.vec3()}
}

// tag reads a four-byte tag.
func (c *cursor) tag() (t Tag) {
	copy(t[:], c.bytes("", 4))
	return t
}

// peekTag returns the next four bytes without consuming them.
func (c *cursor) peekTag() (t Tag) {
	if c.err == nil && c.left() >= 4 {
		copy(t[:], c.data[c.offset():])
	}
	return t
}

// bytes reads exactly n bytes.
func (c *cursor) bytes(what string, n int64) []byte {
	if !c.need(what, n) {
		return nil
	}
	b := make([]byte, n)
	if c.fr.Bytes(b) {
		c.fail(c.fr.Err())
		return nil
	}
	return b
}

// str reads a fixed-width string, which ends at the first NUL byte.
func (c *cursor) str(width int) string {
	b := c.bytes("", int64(width))
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

// record reads a size that counts its own four bytes, followed by the body it
// describes, and returns a cursor over the body.
func (c *cursor) record() *cursor {
	if !c.need("size", 4) {
		return newCursor(nil)
	}
	size := c.u32()
	if size < 4 {
		c.fail(ErrRecordSize)
		return newCursor(nil)
	}
	return newCursor(c.bytes("body", int64(size)-4))
}

// count reads a uint32 element count and checks that enough bytes remain for
// that many elements of the given size.
func (c *cursor) count(size int64) int {
	n := c.u32()
	if !c.need("", int64(n)*size) {
		return 0
	}
	return int(n)
}

func (c *cursor) vec2s(n int) []mdlx.Vec2 {
	if !c.need("", int64(n)*8) {
		return nil
	}
	a := make([]mdlx.Vec2, n)
	for i := range a {
		a[i] = c.vec2()
	}
	return a
}

func (c *cursor) vec3s(n int) []mdlx.Vec3 {
	if !c.need("", int64(n)*12) {
		return nil
	}
	a := make([]mdlx.Vec3, n)
	for i := range a {
		a[i] = c.vec3()
	}
	return a
}

func (c *cursor) i32s(n int) []int32 {
	if !c.need("", int64(n)*4) {
		return nil
	}
	a := make([]int32, n)
	for i := range a {
		a[i] = c.i32()
	}
	return a
}

func (c *cursor) u16s(n int) []uint16 {
	if !c.need("", int64(n)*2) {
		return nil
	}
	a := make([]uint16, n)
	for i := range a {
		a[i] = c.u16()
	}
	return a
}

func (c *cursor) u8s(n int) []uint8 {
	return c.bytes("", int64(n))
}

// tracks reads animation tracks while at least 16 bytes remain. For each tag,
// read consumes the track and returns true, or returns false if the tag is not
// expected within entity.
func (c *cursor) tracks(entity string, read func(t Tag) bool) {
	for c.err == nil && c.left() >= 16 {
		t := c.tag()
		if !read(t) {
			c.fail(TrackError{Entity: entity, Tag: t})
		}
	}
}

// enum reads an int32 and converts it to E.
func enum[E mdlx.Enum](c *cursor) E {
	v := c.i32()
	if c.err != nil {
		return 0
	}
	e, err := mdlx.CheckEnum[E](v)
	c.fail(err)
	return e
}
