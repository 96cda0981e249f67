package mdx

import (
	"github.com/warcodec/mdlx"
)

// sampleSize returns the encoded size of T.
func sampleSize[T mdlx.Sample]() int64 {
	var v T
	switch any(v).(type) {
	case mdlx.Vec3:
		return 12
	case mdlx.Vec4:
		return 16
	default:
		return 4
	}
}

func readSample[T mdlx.Sample](c *cursor) T {
	var v T
	switch p := any(&v).(type) {
	case *float32:
		*p = c.f32()
	case *int32:
		*p = c.i32()
	case *mdlx.Vec3:
		*p = c.vec3()
	case *mdlx.Vec4:
		*p = c.vec4()
	}
	return v
}

func writeSample[T mdlx.Sample](w *writer, v T) {
	switch v := any(v).(type) {
	case float32:
		w.f32(v)
	case int32:
		w.i32(v)
	case mdlx.Vec3:
		w.vec3(v)
	case mdlx.Vec4:
		w.vec4(v)
	}
}

// readAnim reads the body of an animation track, after its tag.
//
//	count  uint32
//	interp int32
//	gseq   int32
//	count * { frame int32, value T, [intan T, outtan T] }
func readAnim[T mdlx.Sample](c *cursor) *mdlx.Animation[T] {
	n := c.u32()
	interp := enum[mdlx.Interpolation](c)
	a := mdlx.NewAnimation[T](interp)
	a.GlobalSeqID = c.i32()
	if c.err != nil {
		return nil
	}

	keySize := 4 + sampleSize[T]()
	if interp.HasTangents() {
		keySize += 2 * sampleSize[T]()
	}
	if !c.need("keyframes", int64(n)*keySize) {
		return nil
	}

	a.Keys = make([]mdlx.KeyFrame[T], n)
	for i := range a.Keys {
		k := &a.Keys[i]
		k.Frame = c.i32()
		k.Value = readSample[T](c)
		if interp.HasTangents() {
			k.InTan = readSample[T](c)
			k.OutTan = readSample[T](c)
		}
	}
	return a
}

// writeAnim writes a track with its tag. Nothing is written for a nil track.
func writeAnim[T mdlx.Sample](w *writer, t Tag, a *mdlx.Animation[T]) {
	if a == nil {
		return
	}
	w.tag(t)
	w.u32(uint32(len(a.Keys)))
	w.i32(int32(a.Interpolation))
	w.i32(a.GlobalSeqID)
	tans := a.HasTangents()
	for _, k := range a.Keys {
		w.i32(k.Frame)
		writeSample(w, k.Value)
		if tans {
			writeSample(w, k.InTan)
			writeSample(w, k.OutTan)
		}
	}
}

// animSize returns the number of bytes writeAnim produces for a.
func animSize[T mdlx.Sample](a *mdlx.Animation[T]) int64 {
	if a == nil {
		return 0
	}
	key := 4 + sampleSize[T]()
	if a.HasTangents() {
		key += 2 * sampleSize[T]()
	}
	return 16 + int64(len(a.Keys))*key
}
