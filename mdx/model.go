package mdx

import (
	"github.com/warcodec/mdlx"
)

////////////////////////////////////////////////////////////////

func readModelInfo(c *cursor) mdlx.ModelInfo {
	return mdlx.ModelInfo{
		Name:      c.str(modelNameSize),
		Unknown:   c.i32(),
		Extent:    c.extent(),
		BlendTime: c.u32(),
	}
}

func writeModelInfo(w *writer, m *mdlx.ModelInfo) {
	w.str(m.Name, modelNameSize)
	w.i32(m.Unknown)
	w.extent(m.Extent)
	w.u32(m.BlendTime)
}

////////////////////////////////////////////////////////////////

func readSequence(c *cursor) mdlx.Sequence {
	var s mdlx.Sequence
	s.Name = c.str(nameSize)
	s.Start = c.i32()
	s.End = c.i32()
	s.MoveSpeed = c.f32()
	s.NonLooping = c.u32() != 0
	s.Rarity = c.f32()
	s.Unknown = c.i32()
	s.Extent = c.extent()
	return s
}

func writeSequence(w *writer, s *mdlx.Sequence) {
	w.str(s.Name, nameSize)
	w.i32(s.Start)
	w.i32(s.End)
	w.f32(s.MoveSpeed)
	w.bool32(s.NonLooping)
	w.f32(s.Rarity)
	w.i32(s.Unknown)
	w.extent(s.Extent)
}

func readGlobalSequence(c *cursor) mdlx.GlobalSequence {
	return mdlx.GlobalSequence{Duration: c.u32()}
}

func writeGlobalSequence(w *writer, g *mdlx.GlobalSequence) {
	w.u32(g.Duration)
}

////////////////////////////////////////////////////////////////

func readTexture(c *cursor) mdlx.Texture {
	return mdlx.Texture{
		ReplaceableID: c.i32(),
		Path:          c.str(pathSize),
		Unknown:       c.i32(),
		Flags:         mdlx.TextureFlags(c.u32()),
	}
}

func writeTexture(w *writer, t *mdlx.Texture) {
	w.i32(t.ReplaceableID)
	w.str(t.Path, pathSize)
	w.i32(t.Unknown)
	w.u32(uint32(t.Flags))
}

func readTextureAnim(c *cursor) mdlx.TextureAnim {
	var t mdlx.TextureAnim
	c.tracks("TextureAnim", func(tag Tag) bool {
		switch tag {
		case tagKTAT:
			t.Translation = readAnim[mdlx.Vec3](c)
		case tagKTAR:
			t.Rotation = readAnim[mdlx.Vec4](c)
		case tagKTAS:
			t.Scaling = readAnim[mdlx.Vec3](c)
		default:
			return false
		}
		return true
	})
	return t
}

func writeTextureAnim(w *writer, t *mdlx.TextureAnim) {
	writeAnim(w, tagKTAT, t.Translation)
	writeAnim(w, tagKTAR, t.Rotation)
	writeAnim(w, tagKTAS, t.Scaling)
}

func readPivot(c *cursor) mdlx.Vec3 {
	return c.vec3()
}

func writePivot(w *writer, p *mdlx.Vec3) {
	w.vec3(*p)
}

////////////////////////////////////////////////////////////////

func readMaterial(c *cursor) mdlx.Material {
	var m mdlx.Material
	m.PriorityPlane = c.i32()
	m.Flags = mdlx.MaterialFlags(c.u32())
	if c.err != nil || c.left() <= 8 {
		return m
	}
	if t := c.tag(); t != tagLAYS {
		c.fail(TrackError{Entity: "Material", Tag: t})
		return m
	}
	n := c.i32()
	for i := int32(0); i < n && c.err == nil; i++ {
		lc := c.record()
		if c.err != nil {
			break
		}
		l := readLayer(lc)
		if lc.err != nil {
			c.fail(EntityError{Entity: "Layer", Index: int(i), Cause: lc.err})
			break
		}
		m.Layers = append(m.Layers, l)
	}
	return m
}

func writeMaterial(w *writer, m *mdlx.Material) {
	w.i32(m.PriorityPlane)
	w.u32(uint32(m.Flags))
	w.tag(tagLAYS)
	w.i32(int32(len(m.Layers)))
	for i := range m.Layers {
		w.record(func(w *writer) { writeLayer(w, &m.Layers[i]) })
	}
}

func readLayer(c *cursor) mdlx.Layer {
	var l mdlx.Layer
	l.FilterMode = enum[mdlx.FilterMode](c)
	l.Flags = mdlx.LayerFlags(c.u32())
	l.TextureID = c.i32()
	l.TVertexAnimID = c.i32()
	l.CoordID = c.i32()
	l.Alpha = c.f32()
	c.tracks("Layer", func(t Tag) bool {
		switch t {
		case tagKMTA:
			l.AlphaAnim = readAnim[float32](c)
		case tagKMTF:
			l.TextureIDAnim = readAnim[int32](c)
		default:
			return false
		}
		return true
	})
	return l
}

func writeLayer(w *writer, l *mdlx.Layer) {
	w.i32(int32(l.FilterMode))
	w.u32(uint32(l.Flags))
	w.i32(l.TextureID)
	w.i32(l.TVertexAnimID)
	w.i32(l.CoordID)
	w.f32(l.Alpha)
	writeAnim(w, tagKMTA, l.AlphaAnim)
	writeAnim(w, tagKMTF, l.TextureIDAnim)
}

////////////////////////////////////////////////////////////////

func readCamera(c *cursor) mdlx.Camera {
	var cam mdlx.Camera
	cam.Name = c.str(nameSize)
	cam.Position = c.vec3()
	cam.FieldOfView = c.f32()
	cam.FarClip = c.f32()
	cam.NearClip = c.f32()
	cam.TargetPosition = c.vec3()
	c.tracks("Camera", func(t Tag) bool {
		switch t {
		case tagKCTR:
			cam.Translation = readAnim[mdlx.Vec3](c)
		case tagKCRL:
			cam.Rotation = readAnim[float32](c)
		case tagKTTR:
			cam.TargetTranslation = readAnim[mdlx.Vec3](c)
		default:
			return false
		}
		return true
	})
	return cam
}

func writeCamera(w *writer, cam *mdlx.Camera) {
	w.str(cam.Name, nameSize)
	w.vec3(cam.Position)
	w.f32(cam.FieldOfView)
	w.f32(cam.FarClip)
	w.f32(cam.NearClip)
	w.vec3(cam.TargetPosition)
	writeAnim(w, tagKCTR, cam.Translation)
	writeAnim(w, tagKCRL, cam.Rotation)
	writeAnim(w, tagKTTR, cam.TargetTranslation)
}
