package mdx

import (
	"github.com/warcodec/mdlx"
)

func readBone(c *cursor) mdlx.Bone {
	return mdlx.Bone{
		Node:         readNode(c, "Bone"),
		GeosetID:     c.i32(),
		GeosetAnimID: c.i32(),
	}
}

func writeBone(w *writer, b *mdlx.Bone) {
	writeNode(w, &b.Node)
	w.i32(b.GeosetID)
	w.i32(b.GeosetAnimID)
}

func readHelper(c *cursor) mdlx.Helper {
	return mdlx.Helper{Node: readNode(c, "Helper")}
}

func writeHelper(w *writer, h *mdlx.Helper) {
	writeNode(w, &h.Node)
}

////////////////////////////////////////////////////////////////

func readAttachment(c *cursor) mdlx.Attachment {
	var a mdlx.Attachment
	a.Node = readNode(c, "Attachment")
	a.Path = c.str(pathSize)
	a.Unknown = c.i32()
	a.AttachmentID = c.i32()
	c.tracks("Attachment", func(t Tag) bool {
		if t != tagKATV {
			return false
		}
		a.Visibility = readAnim[float32](c)
		return true
	})
	return a
}

func writeAttachment(w *writer, a *mdlx.Attachment) {
	writeNode(w, &a.Node)
	w.str(a.Path, pathSize)
	w.i32(a.Unknown)
	id := a.AttachmentID
	if id < 0 {
		id = a.AIndex
	}
	w.i32(id)
	writeAnim(w, tagKATV, a.Visibility)
}

////////////////////////////////////////////////////////////////

// readEventObject reads an event object. Records are not size-prefixed, so
// the optional event track is recognized by its tag.
func readEventObject(c *cursor) mdlx.EventObject {
	var e mdlx.EventObject
	e.Node = readNode(c, "EventObject")
	if c.err != nil || c.left() < 8 || c.peekTag() != tagKEVT {
		return e
	}
	c.tag()
	n := c.u32()
	track := &mdlx.EventTrack{GlobalSeqID: c.i32()}
	track.Frames = c.i32s(int(n))
	if track.Frames == nil {
		track.Frames = []int32{}
	}
	e.Track = track
	return e
}

func writeEventObject(w *writer, e *mdlx.EventObject) {
	writeNode(w, &e.Node)
	if e.Track == nil {
		return
	}
	w.section(tagKEVT, len(e.Track.Frames), func(w *writer) {
		w.i32(e.Track.GlobalSeqID)
		for _, f := range e.Track.Frames {
			w.i32(f)
		}
	})
}

////////////////////////////////////////////////////////////////

func readCollisionShape(c *cursor) mdlx.CollisionShape {
	var s mdlx.CollisionShape
	s.Node = readNode(c, "CollisionShape")
	s.Shape = enum[mdlx.ShapeType](c)
	if c.err != nil {
		return s
	}
	s.Vertices = c.vec3s(s.Shape.VertexCount())
	if s.Shape.HasRadius() {
		s.BoundsRadius = c.f32()
	}
	return s
}

func writeCollisionShape(w *writer, s *mdlx.CollisionShape) {
	writeNode(w, &s.Node)
	w.i32(int32(s.Shape))
	for i := 0; i < s.Shape.VertexCount(); i++ {
		var v mdlx.Vec3
		if i < len(s.Vertices) {
			v = s.Vertices[i]
		}
		w.vec3(v)
	}
	if s.Shape.HasRadius() {
		w.f32(s.BoundsRadius)
	}
}

////////////////////////////////////////////////////////////////

// Light colors are stored in BGR order.
func readLight(c *cursor) mdlx.Light {
	var l mdlx.Light
	l.Node = readNode(c, "Light")
	l.Type = enum[mdlx.LightType](c)
	l.AttenuationStart = c.f32()
	l.AttenuationEnd = c.f32()
	l.Color = c.vec3().Swap()
	l.Intensity = c.f32()
	l.AmbientColor = c.vec3().Swap()
	l.AmbientIntensity = c.f32()
	c.tracks("Light", func(t Tag) bool {
		switch t {
		case tagKLAS:
			l.AttenuationStartAnim = readAnim[float32](c)
		case tagKLAE:
			l.AttenuationEndAnim = readAnim[float32](c)
		case tagKLAC:
			l.ColorAnim = mdlx.SwapColors(readAnim[mdlx.Vec3](c))
		case tagKLAI:
			l.IntensityAnim = readAnim[float32](c)
		case tagKLBC:
			l.AmbientColorAnim = mdlx.SwapColors(readAnim[mdlx.Vec3](c))
		case tagKLBI:
			l.AmbientIntensityAnim = readAnim[float32](c)
		case tagKLAV:
			l.Visibility = readAnim[float32](c)
		default:
			return false
		}
		return true
	})
	return l
}

func writeLight(w *writer, l *mdlx.Light) {
	writeNode(w, &l.Node)
	w.i32(int32(l.Type))
	w.f32(l.AttenuationStart)
	w.f32(l.AttenuationEnd)
	w.vec3(l.Color.Swap())
	w.f32(l.Intensity)
	w.vec3(l.AmbientColor.Swap())
	w.f32(l.AmbientIntensity)
	writeAnim(w, tagKLAS, l.AttenuationStartAnim)
	writeAnim(w, tagKLAE, l.AttenuationEndAnim)
	writeAnim(w, tagKLAC, mdlx.SwapColors(l.ColorAnim))
	writeAnim(w, tagKLAI, l.IntensityAnim)
	writeAnim(w, tagKLBC, mdlx.SwapColors(l.AmbientColorAnim))
	writeAnim(w, tagKLBI, l.AmbientIntensityAnim)
	writeAnim(w, tagKLAV, l.Visibility)
}
