package mdl

import (
	"math"

	"github.com/warcodec/mdlx"
)

// decodeItems decodes a block of nameless values, such as a list of
// vertices.
func decodeItems[T any](b *Block, conv func(coerce, *Value) (T, error)) ([]T, error) {
	a := []T{}
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok || f.Name != "" {
			return nil, unknownStmt(b, s)
		}
		v, err := conv(coerce{b.Type, f.Line}, &f.Value)
		if err != nil {
			return nil, err
		}
		a = append(a, v)
	}
	return a, nil
}

// encodeItems returns a block of nameless values, with the number of values
// as its count.
func encodeItems[T any](name string, a []T, conv func(T) Value) *Block {
	b := &Block{Type: name, Counts: []int64{int64(len(a))}}
	for _, v := range a {
		b.Item(conv(v))
	}
	return b
}

func decodeVersion(b *Block) (int32, error) {
	var version int32
	for _, s := range b.Body {
		if f, ok := s.(*Field); ok && is(f.Name, "FormatVersion") {
			return coerce{f.Name, f.Line}.i32(&f.Value)
		}
	}
	return version, nil
}

func encodeVersion(version int32) *Block {
	b := NewBlock("Version")
	b.Field("FormatVersion", IntValue(int64(version)))
	return b
}

func decodeModelInfo(b *Block) (mdlx.ModelInfo, error) {
	info := mdlx.ModelInfo{Name: b.Name}
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok {
			continue
		}
		if ok, err := decodeExtentField(&info.Extent, f); ok {
			if err != nil {
				return info, err
			}
			continue
		}
		if is(f.Name, "BlendTime") {
			var err error
			if info.BlendTime, err = (coerce{f.Name, f.Line}).u32(&f.Value); err != nil {
				return info, err
			}
		}
	}
	return info, nil
}

func encodeModelInfo(info *mdlx.ModelInfo) *Block {
	b := NewNamedBlock("Model", info.Name)
	extentFields(b, info.Extent, false)
	b.Field("BlendTime", IntValue(int64(info.BlendTime)))
	return b
}

////////////////////////////////////////////////////////////////

func decodeSequence(b *Block) (mdlx.Sequence, error) {
	seq := mdlx.Sequence{Name: b.Name}
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok {
			continue
		}
		if ok, err := decodeExtentField(&seq.Extent, f); ok {
			if err != nil {
				return seq, err
			}
			continue
		}
		c := coerce{f.Name, f.Line}
		var err error
		switch {
		case is(f.Name, "Interval"):
			var a []int64
			if a, err = c.ints(&f.Value, math.MinInt32, math.MaxInt32); err == nil && len(a) != 2 {
				err = c.fail("integer array of 2 elements")
			}
			if err == nil {
				seq.Start, seq.End = int32(a[0]), int32(a[1])
			}
		case is(f.Name, "MoveSpeed"):
			seq.MoveSpeed, err = c.f32(&f.Value)
		case is(f.Name, "NonLooping"):
			seq.NonLooping = true
		case is(f.Name, "Rarity"):
			seq.Rarity, err = c.f32(&f.Value)
		}
		if err != nil {
			return seq, err
		}
	}
	return seq, nil
}

func encodeSequence(seq *mdlx.Sequence) *Block {
	b := NewNamedBlock("Anim", seq.Name)
	b.Field("Interval", IntsValue(seq.Start, seq.End))
	addField(b, "MoveSpeed", FloatValue(seq.MoveSpeed), seq.MoveSpeed != 0)
	addFlag(b, "NonLooping", seq.NonLooping)
	addField(b, "Rarity", FloatValue(seq.Rarity), seq.Rarity != 0)
	extentFields(b, seq.Extent, false)
	return b
}

// decodeGlobalSequences accepts both "Duration n," and bare integers.
func decodeGlobalSequences(b *Block) ([]mdlx.GlobalSequence, error) {
	var list []mdlx.GlobalSequence
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok || f.Name != "" && !is(f.Name, "Duration") {
			continue
		}
		d, err := coerce{"Duration", f.Line}.u32(&f.Value)
		if err != nil {
			return nil, err
		}
		list = append(list, mdlx.GlobalSequence{Duration: d})
	}
	return list, nil
}

func encodeGlobalSequences(list []mdlx.GlobalSequence) *Block {
	b := &Block{Type: "GlobalSequences", Counts: []int64{int64(len(list))}}
	for _, g := range list {
		b.Field("Duration", IntValue(int64(g.Duration)))
	}
	return b
}

func decodeTexture(b *Block) (mdlx.Texture, error) {
	var t mdlx.Texture
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok {
			continue
		}
		c := coerce{f.Name, f.Line}
		var err error
		switch {
		case is(f.Name, "Image"):
			t.Path, err = c.str(&f.Value)
		case is(f.Name, "ReplaceableId"):
			t.ReplaceableID, err = c.i32(&f.Value)
		case is(f.Name, "WrapWidth"):
			t.Flags |= mdlx.TextureWrapWidth
		case is(f.Name, "WrapHeight"):
			t.Flags |= mdlx.TextureWrapHeight
		}
		if err != nil {
			return t, err
		}
	}
	return t, nil
}

func encodeTexture(t *mdlx.Texture) *Block {
	b := NewBlock("Bitmap")
	b.Field("Image", StringValue(t.Path))
	addField(b, "ReplaceableId", IntValue(int64(t.ReplaceableID)), t.ReplaceableID != 0)
	addFlag(b, "WrapWidth", t.Flags&mdlx.TextureWrapWidth != 0)
	addFlag(b, "WrapHeight", t.Flags&mdlx.TextureWrapHeight != 0)
	return b
}

////////////////////////////////////////////////////////////////

var materialFlagNames = []struct {
	name string
	flag mdlx.MaterialFlags
}{
	{"ConstantColor", mdlx.MaterialConstantColor},
	{"SortPrimsFarZ", mdlx.MaterialSortPrimsFarZ},
	{"FullResolution", mdlx.MaterialFullResolution},
}

var layerFlagNames = []struct {
	name string
	flag mdlx.LayerFlags
}{
	{"Unshaded", mdlx.LayerUnshaded},
	{"SphereEnvMap", mdlx.LayerSphereEnvMap},
	{"TwoSided", mdlx.LayerTwoSided},
	{"Unfogged", mdlx.LayerUnfogged},
	{"NoDepthTest", mdlx.LayerNoDepthTest},
	{"NoDepthSet", mdlx.LayerNoDepthSet},
}

func decodeMaterial(b *Block) (mdlx.Material, error) {
	m := mdlx.Material{Layers: []mdlx.Layer{}}
	for _, s := range b.Body {
		switch s := s.(type) {
		case *Field:
			if is(s.Name, "PriorityPlane") {
				var err error
				if m.PriorityPlane, err = (coerce{s.Name, s.Line}).i32(&s.Value); err != nil {
					return m, err
				}
				continue
			}
			for _, f := range materialFlagNames {
				if is(s.Name, f.name) {
					m.Flags |= f.flag
				}
			}
		case *Block:
			if !is(s.Type, "Layer") {
				continue
			}
			l, err := decodeLayer(s)
			if err != nil {
				return m, err
			}
			m.Layers = append(m.Layers, l)
		}
	}
	return m, nil
}

func encodeMaterial(m *mdlx.Material) *Block {
	b := NewBlock("Material")
	addField(b, "PriorityPlane", IntValue(int64(m.PriorityPlane)), m.PriorityPlane != 0)
	for _, f := range materialFlagNames {
		addFlag(b, f.name, m.Flags&f.flag != 0)
	}
	for i := range m.Layers {
		b.Add(encodeLayer(&m.Layers[i]))
	}
	return b
}

func decodeLayer(b *Block) (mdlx.Layer, error) {
	l := mdlx.NewLayer()
	for _, s := range b.Body {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "FilterMode"):
				l.FilterMode, err = enumValue[mdlx.FilterMode](c, &s.Value)
			case is(s.Name, "TextureID"):
				l.TextureID, err = c.id(&s.Value)
			case is(s.Name, "TVertexAnimId"):
				l.TVertexAnimID, err = c.id(&s.Value)
			case is(s.Name, "CoordId"):
				l.CoordID, err = c.i32(&s.Value)
			case is(s.Name, "Alpha"):
				l.Alpha, err = c.f32(&s.Value)
			default:
				for _, f := range layerFlagNames {
					if is(s.Name, f.name) {
						l.Flags |= f.flag
					}
				}
			}
		case *Block:
			switch {
			case is(s.Type, "Alpha"):
				l.AlphaAnim, err = decodeAnim[float32](s)
			case is(s.Type, "TextureID"):
				l.TextureIDAnim, err = decodeAnim[int32](s)
			}
		}
		if err != nil {
			return l, err
		}
	}
	return l, nil
}

func encodeLayer(l *mdlx.Layer) *Block {
	b := NewBlock("Layer")
	b.Field("FilterMode", IdentValue(l.FilterMode.String()))
	for _, f := range layerFlagNames {
		addFlag(b, f.name, l.Flags&f.flag != 0)
	}
	addField(b, "TVertexAnimId", IntValue(int64(l.TVertexAnimID)), l.TVertexAnimID != -1)
	addField(b, "CoordId", IntValue(int64(l.CoordID)), l.CoordID != 0)
	addBoth(b, "TextureID", l.TextureID, -1, l.TextureIDAnim)
	addBoth(b, "Alpha", l.Alpha, 1, l.AlphaAnim)
	return b
}

func decodeTextureAnim(b *Block) (mdlx.TextureAnim, error) {
	var t mdlx.TextureAnim
	for _, s := range b.Body {
		sub, ok := s.(*Block)
		if !ok {
			continue
		}
		var err error
		switch {
		case is(sub.Type, "Translation"):
			t.Translation, err = decodeAnim[mdlx.Vec3](sub)
		case is(sub.Type, "Rotation"):
			t.Rotation, err = decodeAnim[mdlx.Vec4](sub)
		case is(sub.Type, "Scaling"):
			t.Scaling, err = decodeAnim[mdlx.Vec3](sub)
		}
		if err != nil {
			return t, err
		}
	}
	return t, nil
}

func encodeTextureAnim(t *mdlx.TextureAnim) *Block {
	b := NewBlock("TVertexAnim")
	addTrack(b, "Translation", t.Translation)
	addTrack(b, "Rotation", t.Rotation)
	addTrack(b, "Scaling", t.Scaling)
	return b
}

////////////////////////////////////////////////////////////////

func decodeCamera(b *Block) (mdlx.Camera, error) {
	cam := mdlx.Camera{Name: b.Name}
	for _, s := range b.Body {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "Position"):
				cam.Position, err = c.vec3(&s.Value)
			case is(s.Name, "FieldOfView"):
				cam.FieldOfView, err = c.f32(&s.Value)
			case is(s.Name, "FarClip"):
				cam.FarClip, err = c.f32(&s.Value)
			case is(s.Name, "NearClip"):
				cam.NearClip, err = c.f32(&s.Value)
			default:
				err = unknownField(b, s)
			}
		case *Block:
			switch {
			case is(s.Type, "Target"):
				err = decodeCameraTarget(&cam, s)
			case is(s.Type, "Translation"):
				cam.Translation, err = decodeAnim[mdlx.Vec3](s)
			case is(s.Type, "Rotation"):
				cam.Rotation, err = decodeAnim[float32](s)
			default:
				err = unknownBlock(b, s)
			}
		default:
			err = unknownStmt(b, s)
		}
		if err != nil {
			return cam, err
		}
	}
	return cam, nil
}

func decodeCameraTarget(cam *mdlx.Camera, b *Block) error {
	for _, s := range b.Body {
		var err error
		switch s := s.(type) {
		case *Field:
			if !is(s.Name, "Position") {
				return unknownField(b, s)
			}
			cam.TargetPosition, err = coerce{s.Name, s.Line}.vec3(&s.Value)
		case *Block:
			if !is(s.Type, "Translation") {
				return unknownBlock(b, s)
			}
			cam.TargetTranslation, err = decodeAnim[mdlx.Vec3](s)
		default:
			err = unknownStmt(b, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeCamera(cam *mdlx.Camera) *Block {
	b := NewNamedBlock("Camera", cam.Name)
	addField(b, "Position", Vec3Value(cam.Position), cam.Position != mdlx.Vec3{})
	addField(b, "FieldOfView", FloatValue(cam.FieldOfView), cam.FieldOfView != 0)
	addField(b, "FarClip", FloatValue(cam.FarClip), cam.FarClip != 0)
	addField(b, "NearClip", FloatValue(cam.NearClip), cam.NearClip != 0)
	addTrack(b, "Translation", cam.Translation)
	addTrack(b, "Rotation", cam.Rotation)

	t := NewBlock("Target")
	addField(t, "Position", Vec3Value(cam.TargetPosition), cam.TargetPosition != mdlx.Vec3{})
	addTrack(t, "Translation", cam.TargetTranslation)
	if len(t.Body) > 0 {
		b.Add(t)
	}
	return b
}
