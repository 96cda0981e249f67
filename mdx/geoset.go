package mdx

import (
	"encoding/binary"
	"fmt"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
)

// readGeoset reads the sections of a geoset. The sections carry no fixed
// order; the first tag that is not a known section begins the trailing fields,
// and its four bytes are the material id.
func readGeoset(c *cursor) (g mdlx.Geoset, warn errors.Errors) {
	uvCount := 0
	for c.err == nil && c.left() >= 8 {
		t := c.tag()
		n := int(c.u32())
		switch t {
		case tagVRTX:
			g.Vertices = c.vec3s(n)
		case tagNRMS:
			g.Normals = c.vec3s(n)
		case tagPTYP:
			types := c.i32s(n)
			g.FaceTypes = make([]mdlx.FaceType, 0, len(types))
			for _, v := range types {
				ft, err := mdlx.CheckEnum[mdlx.FaceType](v)
				if err != nil {
					c.fail(err)
					break
				}
				g.FaceTypes = append(g.FaceTypes, ft)
			}
		case tagPCNT:
			g.FaceCounts = c.i32s(n)
		case tagPVTX:
			g.Faces = c.u16s(n)
		case tagGNDX:
			g.VertexGroups = c.u8s(n)
		case tagMTGC:
			g.MatrixGroupCounts = c.i32s(n)
		case tagMATS:
			g.MatrixIndices = c.i32s(n)
		case tagUVAS:
			uvCount = n
		case tagUVBS:
			g.UVs = append(g.UVs, c.vec2s(n))
		default:
			g.MaterialID = int32(binary.LittleEndian.Uint32(t[:]))
			g.SelectionGroup = int32(n)
			g.SelectionFlags = c.i32()
			g.Extent = c.extent()
			count := c.count(28)
			for i := 0; i < count; i++ {
				g.AnimExtents = append(g.AnimExtents, c.extent())
			}
		}
	}
	if c.err != nil {
		return g, nil
	}
	if uvCount != len(g.UVs) {
		warn = append(warn, fmt.Errorf("UV channel count %d does not match %d channels present", uvCount, len(g.UVs)))
	}
	warn = warn.Append(g.Check()...)
	return g, warn
}

func writeGeoset(w *writer, g *mdlx.Geoset) {
	w.section(tagVRTX, len(g.Vertices), func(w *writer) {
		for _, v := range g.Vertices {
			w.vec3(v)
		}
	})
	w.section(tagNRMS, len(g.Normals), func(w *writer) {
		for _, v := range g.Normals {
			w.vec3(v)
		}
	})
	w.section(tagPTYP, len(g.FaceTypes), func(w *writer) {
		for _, v := range g.FaceTypes {
			w.i32(int32(v))
		}
	})
	w.section(tagPCNT, len(g.FaceCounts), func(w *writer) {
		for _, v := range g.FaceCounts {
			w.i32(v)
		}
	})
	w.section(tagPVTX, len(g.Faces), func(w *writer) {
		for _, v := range g.Faces {
			w.u16(v)
		}
	})
	w.section(tagGNDX, len(g.VertexGroups), func(w *writer) {
		w.raw(g.VertexGroups)
	})
	w.section(tagMTGC, len(g.MatrixGroupCounts), func(w *writer) {
		for _, v := range g.MatrixGroupCounts {
			w.i32(v)
		}
	})
	w.section(tagMATS, len(g.MatrixIndices), func(w *writer) {
		for _, v := range g.MatrixIndices {
			w.i32(v)
		}
	})

	w.i32(g.MaterialID)
	w.i32(g.SelectionGroup)
	w.i32(g.SelectionFlags)
	w.extent(g.Extent)
	w.u32(uint32(len(g.AnimExtents)))
	for _, e := range g.AnimExtents {
		w.extent(e)
	}

	w.section(tagUVAS, len(g.UVs), func(w *writer) {})
	for _, uvs := range g.UVs {
		w.section(tagUVBS, len(uvs), func(w *writer) {
			for _, v := range uvs {
				w.vec2(v)
			}
		})
	}
}

////////////////////////////////////////////////////////////////

func readGeosetAnim(c *cursor) mdlx.GeosetAnim {
	var a mdlx.GeosetAnim
	a.Alpha = c.f32()
	a.Flags = mdlx.GeosetAnimFlags(c.u32())
	a.Color = c.vec3()
	a.GeosetID = c.i32()
	c.tracks("GeosetAnim", func(t Tag) bool {
		switch t {
		case tagKGAO:
			a.AlphaAnim = readAnim[float32](c)
		case tagKGAC:
			a.ColorAnim = readAnim[mdlx.Vec3](c)
		default:
			return false
		}
		return true
	})
	return a
}

func writeGeosetAnim(w *writer, a *mdlx.GeosetAnim) {
	w.f32(a.Alpha)
	w.u32(uint32(a.Flags))
	w.vec3(a.Color)
	w.i32(a.GeosetID)
	writeAnim(w, tagKGAO, a.AlphaAnim)
	writeAnim(w, tagKGAC, a.ColorAnim)
}
