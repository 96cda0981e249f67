package mdx

import (
	"bytes"

	"github.com/anaminus/parse"
	"github.com/warcodec/mdlx"
)

// writer accumulates little-endian values in memory, so that the size of a
// chunk or record is known before it is written to its parent.
type writer struct {
	buf bytes.Buffer
	fw  *parse.BinaryWriter
}

func newWriter() *writer {
	w := new(writer)
	w.fw = parse.NewBinaryWriter(&w.buf)
	return w
}

// Err returns the first error that occurred.
func (w *writer) Err() error {
	return w.fw.Err()
}

// Len returns the number of bytes written.
func (w *writer) Len() int {
	return w.buf.Len()
}

// Bytes returns the bytes written.
func (w *writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *writer) i32(v int32) { w.fw.Number(v) }
func (w *writer) u32(v uint32) { w.fw.Number(v) }
func (w *writer) u16(v uint16) { w.fw.Number(v) }
func (w *writer) u8(v uint8) { w.fw.Number(v) }
func (w *writer) f32(v float32) { w.fw.Number(v) }

func (w *writer) vec2(v mdlx.Vec2) {
	w.f32(v.X)
	w.f32(v.Y)
}

func (w *writer) vec3(v mdlx.Vec3) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
}

func (w *writer) vec4(v mdlx.Vec4) {
	w.f32(v.X)
	w.f32(v.Y)
	w.f32(v.Z)
	w.f32(v.W)
}

func (w *writer) extent(e mdlx.Extent) {
	w.f32(e.BoundsRadius)
	w.vec3(e.Min)
	w.vec3(e.Max)
}

func (w *writer) tag(t Tag) {
	w.fw.Bytes(t[:])
}

func (w *writer) raw(b []byte) {
	w.fw.Bytes(b)
}

// str writes s as a fixed-width string, padded with NUL bytes. Strings longer
// than width are truncated.
func (w *writer) str(s string, width int) {
	b := make([]byte, width)
	copy(b, s)
	w.fw.Bytes(b)
}

func (w *writer) bool32(b bool) {
	if b {
		w.u32(1)
	} else {
		w.u32(0)
	}
}

// record writes the output of body prefixed with its size, which counts the
// four bytes of the size itself.
func (w *writer) record(body func(w *writer)) {
	sub := newWriter()
	body(sub)
	w.fw.Add(0, sub.Err())
	w.u32(uint32(sub.Len() + 4))
	w.raw(sub.Bytes())
}

// chunk writes a tag and the output of body prefixed with its size.
func (w *writer) chunk(t Tag, body func(w *writer)) {
	sub := newWriter()
	body(sub)
	w.fw.Add(0, sub.Err())
	w.tag(t)
	w.u32(uint32(sub.Len()))
	w.raw(sub.Bytes())
}

// section writes a tag, an element count, and the elements written by body.
func (w *writer) section(t Tag, n int, body func(w *writer)) {
	w.tag(t)
	w.u32(uint32(n))
	body(w)
}
