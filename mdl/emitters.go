package mdl

import (
	"math"

	"github.com/warcodec/mdlx"
)

func decodeParticleEmitter(b *Block) (mdlx.ParticleEmitter, error) {
	v := mdlx.ParticleEmitter{Node: mdlx.NewNode(mdlx.NodeParticleEmitter)}
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "EmitterUsesMDL"):
				v.Flags |= mdlx.NodeEmitterUsesMDL
			case is(s.Name, "EmitterUsesTGA"):
				v.Flags |= mdlx.NodeEmitterUsesTGA
			case is(s.Name, "EmissionRate"):
				v.EmissionRate, err = c.f32(&s.Value)
			case is(s.Name, "Gravity"):
				v.Gravity, err = c.f32(&s.Value)
			case is(s.Name, "Longitude"):
				v.Longitude, err = c.f32(&s.Value)
			case is(s.Name, "Latitude"):
				v.Latitude, err = c.f32(&s.Value)
			default:
				return false, nil
			}
		case *Block:
			switch {
			case is(s.Type, "Particle"):
				err = decodeParticle(&v, s)
			case is(s.Type, "EmissionRate"):
				v.EmissionRateAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Gravity"):
				v.GravityAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Longitude"):
				v.LongitudeAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Latitude"):
				v.LatitudeAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Visibility"):
				v.Visibility, err = decodeAnim[float32](s)
			default:
				return false, nil
			}
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

func decodeParticle(v *mdlx.ParticleEmitter, b *Block) error {
	for _, s := range b.Body {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "LifeSpan"):
				v.LifeSpan, err = c.f32(&s.Value)
			case is(s.Name, "InitVelocity"):
				v.Speed, err = c.f32(&s.Value)
			case is(s.Name, "Path"):
				v.Path, err = c.str(&s.Value)
			default:
				err = unknownField(b, s)
			}
		case *Block:
			switch {
			case is(s.Type, "LifeSpan"):
				v.LifeSpanAnim, err = decodeAnim[float32](s)
			case is(s.Type, "InitVelocity"):
				v.SpeedAnim, err = decodeAnim[float32](s)
			default:
				err = unknownBlock(b, s)
			}
		default:
			err = unknownStmt(b, s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func encodeParticleEmitter(v *mdlx.ParticleEmitter) *Block {
	b := encodeNode("ParticleEmitter", &v.Node)
	addFlag(b, "EmitterUsesMDL", v.Flags.Has(mdlx.NodeEmitterUsesMDL))
	addFlag(b, "EmitterUsesTGA", v.Flags.Has(mdlx.NodeEmitterUsesTGA))
	addBoth(b, "EmissionRate", v.EmissionRate, 0, v.EmissionRateAnim)
	addBoth(b, "Gravity", v.Gravity, 0, v.GravityAnim)
	addBoth(b, "Longitude", v.Longitude, 0, v.LongitudeAnim)
	addBoth(b, "Latitude", v.Latitude, 0, v.LatitudeAnim)
	addTrack(b, "Visibility", v.Visibility)

	p := NewBlock("Particle")
	addBoth(p, "LifeSpan", v.LifeSpan, 0, v.LifeSpanAnim)
	addBoth(p, "InitVelocity", v.Speed, 0, v.SpeedAnim)
	addField(p, "Path", StringValue(v.Path), v.Path != "")
	if len(p.Body) > 0 {
		b.Add(p)
	}
	return b
}

////////////////////////////////////////////////////////////////

// Flags of a particle emitter 2 that are written as bare fields.
var emitter2FlagNames = []struct {
	name string
	flag mdlx.NodeFlags
}{
	{"SortPrimsFarZ", mdlx.NodeSortPrimsFarZ},
	{"LineEmitter", mdlx.NodeLineEmitter},
	{"ModelSpace", mdlx.NodeModelSpace},
	{"Unshaded", mdlx.NodeUnshaded},
	{"Unfogged", mdlx.NodeUnfogged},
	{"XYQuad", mdlx.NodeXYQuad},
}

// decodeUVAnim decodes up to three integers. A missing repeat count is 1.
func decodeUVAnim(c coerce, v *Value) (mdlx.UVAnim, error) {
	a, err := c.ints(v, math.MinInt32, math.MaxInt32)
	if err != nil || len(a) > 3 {
		return mdlx.UVAnim{}, c.fail("integer array of up to 3 elements")
	}
	u := mdlx.UVAnim{Repeat: 1}
	for i, p := range []*int32{&u.Start, &u.End, &u.Repeat} {
		if i < len(a) {
			*p = int32(a[i])
		}
	}
	return u, nil
}

func uvAnimValue(u mdlx.UVAnim) Value {
	return IntsValue(u.Start, u.End, u.Repeat)
}

func decodeParticleEmitter2(b *Block) (mdlx.ParticleEmitter2, error) {
	v := mdlx.NewParticleEmitter2()
	var head, tail bool
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "Speed"):
				v.Speed, err = c.f32(&s.Value)
			case is(s.Name, "Variation"):
				v.Variation, err = c.f32(&s.Value)
			case is(s.Name, "Latitude"):
				v.Latitude, err = c.f32(&s.Value)
			case is(s.Name, "Gravity"):
				v.Gravity, err = c.f32(&s.Value)
			case is(s.Name, "LifeSpan"):
				v.LifeSpan, err = c.f32(&s.Value)
			case is(s.Name, "EmissionRate"):
				v.EmissionRate, err = c.f32(&s.Value)
			case is(s.Name, "Length"):
				v.Length, err = c.f32(&s.Value)
			case is(s.Name, "Width"):
				v.Width, err = c.f32(&s.Value)
			case is(s.Name, "Alpha"):
				var a []int64
				if a, err = c.ints(&s.Value, 0, math.MaxUint8); err == nil && len(a) != 3 {
					err = c.fail("integer array of 3 elements")
				}
				if err == nil {
					for i := range a {
						v.SegmentAlpha[i] = uint8(a[i])
					}
				}
			case is(s.Name, "ParticleScaling"):
				var a []float32
				a, err = c.floats(&s.Value, 3, "float array of 3 elements")
				copy(v.SegmentScaling[:], a)
			case is(s.Name, "LifeSpanUVAnim"):
				v.HeadLife, err = decodeUVAnim(c, &s.Value)
			case is(s.Name, "DecayUVAnim"):
				v.HeadDecay, err = decodeUVAnim(c, &s.Value)
			case is(s.Name, "TailUVAnim"):
				v.TailLife, err = decodeUVAnim(c, &s.Value)
			case is(s.Name, "TailDecayUVAnim"):
				v.TailDecay, err = decodeUVAnim(c, &s.Value)
			case is(s.Name, "Rows"):
				v.Rows, err = c.i32(&s.Value)
			case is(s.Name, "Columns"):
				v.Columns, err = c.i32(&s.Value)
			case is(s.Name, "TailLength"):
				v.TailLength, err = c.f32(&s.Value)
			case is(s.Name, "Time"):
				v.Time, err = c.f32(&s.Value)
			case is(s.Name, "TextureID"):
				v.TextureID, err = c.id(&s.Value)
			case is(s.Name, "PriorityPlane"):
				v.PriorityPlane, err = c.i32(&s.Value)
			case is(s.Name, "ReplaceableId"):
				v.ReplaceableID, err = c.i32(&s.Value)
			case is(s.Name, "Squirt"):
				v.Squirt = true
			default:
				if s.Value.Kind != None {
					return false, nil
				}
				for _, f := range emitter2FlagNames {
					if is(s.Name, f.name) {
						v.Flags |= f.flag
						return true, nil
					}
				}
				if h, ok := keyword[mdlx.HeadOrTail](s); ok {
					head = head || h != mdlx.Tail
					tail = tail || h != mdlx.Head
					return true, nil
				}
				m, ok := keyword[mdlx.ParticleFilterMode](s)
				if !ok {
					return false, nil
				}
				v.FilterMode = m
			}
		case *Block:
			switch {
			case is(s.Type, "SegmentColor"):
				err = decodeSegmentColor(&v, s)
			case is(s.Type, "Speed"):
				v.SpeedAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Variation"):
				v.VariationAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Latitude"):
				v.LatitudeAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Gravity"):
				v.GravityAnim, err = decodeAnim[float32](s)
			case is(s.Type, "EmissionRate"):
				v.EmissionRateAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Length"):
				v.LengthAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Width"):
				v.WidthAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Visibility"):
				v.Visibility, err = decodeAnim[float32](s)
			default:
				return false, nil
			}
		default:
			return false, nil
		}
		return true, err
	})
	switch {
	case head && tail:
		v.HeadOrTail = mdlx.Both
	case tail:
		v.HeadOrTail = mdlx.Tail
	default:
		v.HeadOrTail = mdlx.Head
	}
	return v, err
}

func decodeSegmentColor(v *mdlx.ParticleEmitter2, b *Block) error {
	i := 0
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok || !is(f.Name, "Color") {
			return unknownStmt(b, s)
		}
		if i >= len(v.SegmentColor) {
			return CoerceError{Want: "3 colors", Field: b.Type, Line: f.Line}
		}
		c, err := coerce{f.Name, f.Line}.vec3(&f.Value)
		if err != nil {
			return err
		}
		v.SegmentColor[i] = c
		i++
	}
	return nil
}

func encodeParticleEmitter2(v *mdlx.ParticleEmitter2) *Block {
	b := encodeNode("ParticleEmitter2", &v.Node)
	b.Flag(v.FilterMode.String())
	colors := NewBlock("SegmentColor")
	for _, c := range v.SegmentColor {
		colors.Field("Color", Vec3Value(c))
	}
	b.Add(colors)
	b.Field("Alpha", IntsValue(v.SegmentAlpha[:]...))
	b.Field("ParticleScaling", FloatsValue(v.SegmentScaling[:]...))
	for _, u := range []struct {
		name string
		v    mdlx.UVAnim
	}{
		{"LifeSpanUVAnim", v.HeadLife},
		{"DecayUVAnim", v.HeadDecay},
		{"TailUVAnim", v.TailLife},
		{"TailDecayUVAnim", v.TailDecay},
	} {
		addField(b, u.name, uvAnimValue(u.v), u.v != mdlx.UVAnim{})
	}
	addField(b, "Rows", IntValue(int64(v.Rows)), v.Rows != 0)
	addField(b, "Columns", IntValue(int64(v.Columns)), v.Columns != 0)
	addField(b, "Time", FloatValue(v.Time), v.Time != 0)
	addField(b, "LifeSpan", FloatValue(v.LifeSpan), v.LifeSpan != 0)
	addField(b, "TailLength", FloatValue(v.TailLength), v.TailLength != 0)
	addField(b, "TextureID", IntValue(int64(v.TextureID)), v.TextureID != -1)
	addField(b, "ReplaceableId", IntValue(int64(v.ReplaceableID)), v.ReplaceableID != 0)
	addField(b, "PriorityPlane", IntValue(int64(v.PriorityPlane)), v.PriorityPlane != 0)
	for _, f := range emitter2FlagNames {
		addFlag(b, f.name, v.Flags.Has(f.flag))
	}
	addFlag(b, "Squirt", v.Squirt)
	b.Flag(v.HeadOrTail.String())
	addBoth(b, "Speed", v.Speed, 0, v.SpeedAnim)
	addBoth(b, "Variation", v.Variation, 0, v.VariationAnim)
	addBoth(b, "Latitude", v.Latitude, 0, v.LatitudeAnim)
	addBoth(b, "Gravity", v.Gravity, 0, v.GravityAnim)
	addBoth(b, "EmissionRate", v.EmissionRate, 0, v.EmissionRateAnim)
	addBoth(b, "Length", v.Length, 0, v.LengthAnim)
	addBoth(b, "Width", v.Width, 0, v.WidthAnim)
	addTrack(b, "Visibility", v.Visibility)
	return b
}

////////////////////////////////////////////////////////////////

func decodeRibbonEmitter(b *Block) (mdlx.RibbonEmitter, error) {
	v := mdlx.NewRibbonEmitter()
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "HeightAbove"):
				v.HeightAbove, err = c.f32(&s.Value)
			case is(s.Name, "HeightBelow"):
				v.HeightBelow, err = c.f32(&s.Value)
			case is(s.Name, "Alpha"):
				v.Alpha, err = c.f32(&s.Value)
			case is(s.Name, "Color"):
				v.Color, err = c.vec3(&s.Value)
			case is(s.Name, "EmissionRate"):
				v.EmissionRate, err = c.i32(&s.Value)
			case is(s.Name, "LifeSpan"):
				v.LifeSpan, err = c.f32(&s.Value)
			case is(s.Name, "Gravity"):
				v.Gravity, err = c.f32(&s.Value)
			case is(s.Name, "Rows"):
				v.Rows, err = c.i32(&s.Value)
			case is(s.Name, "Columns"):
				v.Columns, err = c.i32(&s.Value)
			case is(s.Name, "MaterialID"):
				v.MaterialID, err = c.id(&s.Value)
			default:
				return false, nil
			}
		case *Block:
			switch {
			case is(s.Type, "HeightAbove"):
				v.HeightAboveAnim, err = decodeAnim[float32](s)
			case is(s.Type, "HeightBelow"):
				v.HeightBelowAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Alpha"):
				v.AlphaAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Color"):
				v.ColorAnim, err = decodeAnim[mdlx.Vec3](s)
			case is(s.Type, "TextureSlot"):
				v.TextureSlotAnim, err = decodeAnim[int32](s)
			case is(s.Type, "Visibility"):
				v.Visibility, err = decodeAnim[float32](s)
			default:
				return false, nil
			}
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

func encodeRibbonEmitter(v *mdlx.RibbonEmitter) *Block {
	b := encodeNode("RibbonEmitter", &v.Node)
	addField(b, "EmissionRate", IntValue(int64(v.EmissionRate)), v.EmissionRate != 0)
	addField(b, "LifeSpan", FloatValue(v.LifeSpan), v.LifeSpan != 0)
	addField(b, "Gravity", FloatValue(v.Gravity), v.Gravity != 0)
	addField(b, "Rows", IntValue(int64(v.Rows)), v.Rows != 0)
	addField(b, "Columns", IntValue(int64(v.Columns)), v.Columns != 0)
	addField(b, "MaterialID", IntValue(int64(v.MaterialID)), v.MaterialID != -1)
	addBoth(b, "HeightAbove", v.HeightAbove, 0, v.HeightAboveAnim)
	addBoth(b, "HeightBelow", v.HeightBelow, 0, v.HeightBelowAnim)
	addBoth(b, "Alpha", v.Alpha, 1, v.AlphaAnim)
	addBoth(b, "Color", v.Color, mdlx.Vec3{X: 1, Y: 1, Z: 1}, v.ColorAnim)
	addTrack(b, "TextureSlot", v.TextureSlotAnim)
	addTrack(b, "Visibility", v.Visibility)
	return b
}
