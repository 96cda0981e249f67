package mdl

import (
	"math"

	"github.com/warcodec/mdlx"
)

func decodeGeoset(b *Block) (mdlx.Geoset, error) {
	g := mdlx.NewGeoset()
	g.Vertices = []mdlx.Vec3{}
	g.Normals = []mdlx.Vec3{}
	g.UVs = [][]mdlx.Vec2{}
	g.FaceTypes = []mdlx.FaceType{}
	g.FaceCounts = []int32{}
	g.Faces = []uint16{}
	g.VertexGroups = []uint8{}
	g.MatrixGroupCounts = []int32{}
	g.MatrixIndices = []int32{}
	g.AnimExtents = []mdlx.Extent{}

	for _, s := range b.Body {
		var err error
		switch s := s.(type) {
		case *Field:
			if ok, err := decodeExtentField(&g.Extent, s); ok {
				if err != nil {
					return g, err
				}
				continue
			}
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "MaterialID"):
				g.MaterialID, err = c.id(&s.Value)
			case is(s.Name, "SelectionGroup"):
				g.SelectionGroup, err = c.id(&s.Value)
			case is(s.Name, "Unselectable") && s.Value.Kind == None:
				g.SelectionFlags |= mdlx.Unselectable
			case is(s.Name, "VertexGroup"):
				var a []int64
				if a, err = c.ints(&s.Value, 0, math.MaxUint8); err == nil {
					g.VertexGroups = appendBytes(g.VertexGroups, a)
				}
			default:
				err = unknownField(b, s)
			}
		case *Block:
			switch {
			case is(s.Type, "Vertices"):
				g.Vertices, err = decodeItems(s, coerce.vec3)
			case is(s.Type, "Normals"):
				g.Normals, err = decodeItems(s, coerce.vec3)
			case is(s.Type, "TVertices"):
				var uvs []mdlx.Vec2
				if uvs, err = decodeItems(s, coerce.vec2); err == nil {
					g.UVs = append(g.UVs, uvs)
				}
			case is(s.Type, "VertexGroup"):
				var a []int64
				a, err = decodeItems(s, func(c coerce, v *Value) (int64, error) {
					return c.intRange(v, 0, math.MaxUint8)
				})
				g.VertexGroups = appendBytes(g.VertexGroups, a)
			case is(s.Type, "Faces"):
				err = decodeFaces(&g, s)
			case is(s.Type, "Groups"):
				err = decodeGroups(&g, s)
			case is(s.Type, "Anim"):
				var e mdlx.Extent
				if e, err = decodeAnimExtent(s); err == nil {
					g.AnimExtents = append(g.AnimExtents, e)
				}
			default:
				err = unknownBlock(b, s)
			}
		default:
			err = unknownStmt(b, s)
		}
		if err != nil {
			return g, err
		}
	}
	return g, nil
}

func appendBytes(dst []uint8, a []int64) []uint8 {
	for _, n := range a {
		dst = append(dst, uint8(n))
	}
	return dst
}

// decodeFaces decodes a block of face groups, each a block named by its face
// type that holds index lists.
func decodeFaces(g *mdlx.Geoset, b *Block) error {
	for _, s := range b.Body {
		group, ok := s.(*Block)
		if !ok {
			return unknownStmt(b, s)
		}
		t, ok := mdlx.ParseEnum[mdlx.FaceType](group.Type)
		if !ok {
			return FieldError{Block: b.Type, Field: group.Type, Line: group.Line, Cause: ErrUnknownBlock}
		}
		for _, s := range group.Body {
			f, ok := s.(*Field)
			if !ok || f.Name != "" {
				return unknownStmt(group, s)
			}
			a, err := coerce{group.Type, f.Line}.ints(&f.Value, 0, math.MaxUint16)
			if err != nil {
				return err
			}
			g.FaceTypes = append(g.FaceTypes, t)
			g.FaceCounts = append(g.FaceCounts, int32(len(a)))
			for _, n := range a {
				g.Faces = append(g.Faces, uint16(n))
			}
		}
	}
	return nil
}

// decodeGroups decodes a block of matrix groups.
func decodeGroups(g *mdlx.Geoset, b *Block) error {
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok || !is(f.Name, "Matrices") {
			return unknownStmt(b, s)
		}
		a, err := coerce{f.Name, f.Line}.ints(&f.Value, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		g.MatrixGroupCounts = append(g.MatrixGroupCounts, int32(len(a)))
		for _, n := range a {
			g.MatrixIndices = append(g.MatrixIndices, int32(n))
		}
	}
	return nil
}

func decodeAnimExtent(b *Block) (mdlx.Extent, error) {
	var e mdlx.Extent
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok {
			return e, unknownStmt(b, s)
		}
		ok, err := decodeExtentField(&e, f)
		if err != nil {
			return e, err
		}
		if !ok {
			return e, unknownField(b, f)
		}
	}
	return e, nil
}

func encodeGeoset(g *mdlx.Geoset) *Block {
	b := NewBlock("Geoset")
	b.Add(encodeItems("Vertices", g.Vertices, Vec3Value))
	b.Add(encodeItems("Normals", g.Normals, Vec3Value))
	for _, uvs := range g.UVs {
		b.Add(encodeItems("TVertices", uvs, Vec2Value))
	}
	vg := NewBlock("VertexGroup")
	for _, n := range g.VertexGroups {
		vg.Item(IntValue(int64(n)))
	}
	b.Add(vg)

	faces := &Block{Type: "Faces", Counts: []int64{int64(len(g.FaceTypes)), int64(len(g.Faces))}}
	i := 0
	for j, t := range g.FaceTypes {
		n := 0
		if j < len(g.FaceCounts) {
			n = int(g.FaceCounts[j])
		}
		if i+n > len(g.Faces) {
			n = len(g.Faces) - i
		}
		group := NewBlock(t.String())
		group.Item(IntsValue(g.Faces[i : i+n]...))
		faces.Add(group)
		i += n
	}
	b.Add(faces)

	groups := &Block{Type: "Groups", Counts: []int64{int64(len(g.MatrixGroupCounts)), int64(len(g.MatrixIndices))}}
	i = 0
	for _, n := range g.MatrixGroupCounts {
		end := i + int(n)
		if end > len(g.MatrixIndices) {
			end = len(g.MatrixIndices)
		}
		groups.Field("Matrices", IntsValue(g.MatrixIndices[i:end]...))
		i = end
	}
	b.Add(groups)

	extentFields(b, g.Extent, true)
	for _, e := range g.AnimExtents {
		a := NewBlock("Anim")
		extentFields(a, e, true)
		b.Add(a)
	}
	addField(b, "MaterialID", IntValue(int64(g.MaterialID)), g.MaterialID != -1)
	addField(b, "SelectionGroup", IntValue(int64(g.SelectionGroup)), g.SelectionGroup != -1)
	addFlag(b, "Unselectable", g.SelectionFlags&mdlx.Unselectable != 0)
	return b
}

////////////////////////////////////////////////////////////////

// GeosetAnim colors are kept in wire order. If rgb is true, they are swapped
// when read and written.
func decodeGeosetAnim(b *Block, rgb bool) (mdlx.GeosetAnim, error) {
	a := mdlx.NewGeosetAnim()
	for _, s := range b.Body {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "Alpha"):
				a.Alpha, err = c.f32(&s.Value)
			case is(s.Name, "UseColor"):
				a.Flags |= mdlx.GeosetAnimUseColor
			case is(s.Name, "DropShadow"):
				a.Flags |= mdlx.GeosetAnimDropShadow
			case is(s.Name, "Color"):
				a.Color, err = c.vec3(&s.Value)
				if rgb {
					a.Color = a.Color.Swap()
				}
				a.Flags |= mdlx.GeosetAnimUseColor
			case is(s.Name, "GeosetId"):
				a.GeosetID, err = c.id(&s.Value)
			}
		case *Block:
			switch {
			case is(s.Type, "Alpha"):
				a.AlphaAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Color"):
				a.ColorAnim, err = decodeAnim[mdlx.Vec3](s)
				if rgb {
					a.ColorAnim = mdlx.SwapColors(a.ColorAnim)
				}
				a.Flags |= mdlx.GeosetAnimUseColor
			}
		}
		if err != nil {
			return a, err
		}
	}
	return a, nil
}

func encodeGeosetAnim(a *mdlx.GeosetAnim, rgb bool) *Block {
	b := NewBlock("GeosetAnim")
	addField(b, "GeosetId", IntValue(int64(a.GeosetID)), a.GeosetID != -1)
	addFlag(b, "DropShadow", a.Flags&mdlx.GeosetAnimDropShadow != 0)
	addBoth(b, "Alpha", a.Alpha, 1, a.AlphaAnim)
	if a.Flags&mdlx.GeosetAnimUseColor != 0 {
		color, anim := a.Color, a.ColorAnim
		if rgb {
			color, anim = color.Swap(), mdlx.SwapColors(anim)
		}
		if anim == nil {
			b.Add(&Field{Name: "Color", Static: true, Value: Vec3Value(color)})
		} else {
			addBoth(b, "Color", color, mdlx.Vec3{X: 1, Y: 1, Z: 1}, anim)
		}
	}
	return b
}
