package mdx

import (
	"github.com/warcodec/mdlx"
)

func readParticleEmitter(c *cursor) mdlx.ParticleEmitter {
	var p mdlx.ParticleEmitter
	p.Node = readNode(c, "ParticleEmitter")
	p.EmissionRate = c.f32()
	p.Gravity = c.f32()
	p.Longitude = c.f32()
	p.Latitude = c.f32()
	p.Path = c.str(pathSize)
	p.Unknown = c.i32()
	p.LifeSpan = c.f32()
	p.Speed = c.f32()
	c.tracks("ParticleEmitter", func(t Tag) bool {
		switch t {
		case tagKPEV:
			p.Visibility = readAnim[float32](c)
		case tagKPEE:
			p.EmissionRateAnim = readAnim[float32](c)
		case tagKPEG:
			p.GravityAnim = readAnim[float32](c)
		case tagKPLN:
			p.LongitudeAnim = readAnim[float32](c)
		case tagKPLT:
			p.LatitudeAnim = readAnim[float32](c)
		case tagKPEL:
			p.LifeSpanAnim = readAnim[float32](c)
		case tagKPES:
			p.SpeedAnim = readAnim[float32](c)
		default:
			return false
		}
		return true
	})
	return p
}

func writeParticleEmitter(w *writer, p *mdlx.ParticleEmitter) {
	writeNode(w, &p.Node)
	w.f32(p.EmissionRate)
	w.f32(p.Gravity)
	w.f32(p.Longitude)
	w.f32(p.Latitude)
	w.str(p.Path, pathSize)
	w.i32(p.Unknown)
	w.f32(p.LifeSpan)
	w.f32(p.Speed)
	writeAnim(w, tagKPEV, p.Visibility)
	writeAnim(w, tagKPEE, p.EmissionRateAnim)
	writeAnim(w, tagKPEG, p.GravityAnim)
	writeAnim(w, tagKPLN, p.LongitudeAnim)
	writeAnim(w, tagKPLT, p.LatitudeAnim)
	writeAnim(w, tagKPEL, p.LifeSpanAnim)
	writeAnim(w, tagKPES, p.SpeedAnim)
}

////////////////////////////////////////////////////////////////

func readUVAnim(c *cursor) mdlx.UVAnim {
	return mdlx.UVAnim{Start: c.i32(), End: c.i32(), Repeat: c.i32()}
}

func writeUVAnim(w *writer, u mdlx.UVAnim) {
	w.i32(u.Start)
	w.i32(u.End)
	w.i32(u.Repeat)
}

// Segment colors are stored in BGR order.
func readParticleEmitter2(c *cursor) mdlx.ParticleEmitter2 {
	var p mdlx.ParticleEmitter2
	p.Node = readNode(c, "ParticleEmitter2")
	p.Speed = c.f32()
	p.Variation = c.f32()
	p.Latitude = c.f32()
	p.Gravity = c.f32()
	p.LifeSpan = c.f32()
	p.EmissionRate = c.f32()
	p.Length = c.f32()
	p.Width = c.f32()
	p.FilterMode = enum[mdlx.ParticleFilterMode](c)
	p.Rows = c.i32()
	p.Columns = c.i32()
	p.HeadOrTail = enum[mdlx.HeadOrTail](c)
	p.TailLength = c.f32()
	p.Time = c.f32()
	for i := range p.SegmentColor {
		p.SegmentColor[i] = c.vec3().Swap()
	}
	for i := range p.SegmentAlpha {
		p.SegmentAlpha[i] = c.u8()
	}
	for i := range p.SegmentScaling {
		p.SegmentScaling[i] = c.f32()
	}
	p.HeadLife = readUVAnim(c)
	p.HeadDecay = readUVAnim(c)
	p.TailLife = readUVAnim(c)
	p.TailDecay = readUVAnim(c)
	p.TextureID = c.i32()
	p.Squirt = c.i32() != 0
	p.PriorityPlane = c.i32()
	p.ReplaceableID = c.i32()
	c.tracks("ParticleEmitter2", func(t Tag) bool {
		switch t {
		case tagKP2V:
			p.Visibility = readAnim[float32](c)
		case tagKP2E:
			p.EmissionRateAnim = readAnim[float32](c)
		case tagKP2W:
			p.WidthAnim = readAnim[float32](c)
		case tagKP2N:
			p.LengthAnim = readAnim[float32](c)
		case tagKP2S:
			p.SpeedAnim = readAnim[float32](c)
		case tagKP2L:
			p.LatitudeAnim = readAnim[float32](c)
		case tagKP2R:
			p.VariationAnim = readAnim[float32](c)
		case tagKP2G:
			p.GravityAnim = readAnim[float32](c)
		default:
			return false
		}
		return true
	})
	return p
}

func writeParticleEmitter2(w *writer, p *mdlx.ParticleEmitter2) {
	writeNode(w, &p.Node)
	w.f32(p.Speed)
	w.f32(p.Variation)
	w.f32(p.Latitude)
	w.f32(p.Gravity)
	w.f32(p.LifeSpan)
	w.f32(p.EmissionRate)
	w.f32(p.Length)
	w.f32(p.Width)
	w.i32(int32(p.FilterMode))
	w.i32(p.Rows)
	w.i32(p.Columns)
	w.i32(int32(p.HeadOrTail))
	w.f32(p.TailLength)
	w.f32(p.Time)
	for _, v := range p.SegmentColor {
		w.vec3(v.Swap())
	}
	for _, v := range p.SegmentAlpha {
		w.u8(v)
	}
	for _, v := range p.SegmentScaling {
		w.f32(v)
	}
	writeUVAnim(w, p.HeadLife)
	writeUVAnim(w, p.HeadDecay)
	writeUVAnim(w, p.TailLife)
	writeUVAnim(w, p.TailDecay)
	w.i32(p.TextureID)
	w.bool32(p.Squirt)
	w.i32(p.PriorityPlane)
	w.i32(p.ReplaceableID)
	writeAnim(w, tagKP2V, p.Visibility)
	writeAnim(w, tagKP2E, p.EmissionRateAnim)
	writeAnim(w, tagKP2W, p.WidthAnim)
	writeAnim(w, tagKP2N, p.LengthAnim)
	writeAnim(w, tagKP2S, p.SpeedAnim)
	writeAnim(w, tagKP2L, p.LatitudeAnim)
	writeAnim(w, tagKP2R, p.VariationAnim)
	writeAnim(w, tagKP2G, p.GravityAnim)
}

////////////////////////////////////////////////////////////////

// Ribbon colors are stored in BGR order.
func readRibbonEmitter(c *cursor) mdlx.RibbonEmitter {
	var r mdlx.RibbonEmitter
	r.Node = readNode(c, "RibbonEmitter")
	r.HeightAbove = c.f32()
	r.HeightBelow = c.f32()
	r.Alpha = c.f32()
	r.Color = c.vec3().Swap()
	r.LifeSpan = c.f32()
	r.Unknown = c.i32()
	r.EmissionRate = c.i32()
	r.Rows = c.i32()
	r.Columns = c.i32()
	r.MaterialID = c.i32()
	r.Gravity = c.f32()
	c.tracks("RibbonEmitter", func(t Tag) bool {
		switch t {
		case tagKRVS:
			r.Visibility = readAnim[float32](c)
		case tagKRHA:
			r.HeightAboveAnim = readAnim[float32](c)
		case tagKRHB:
			r.HeightBelowAnim = readAnim[float32](c)
		case tagKRAL:
			r.AlphaAnim = readAnim[float32](c)
		case tagKRCO:
			r.ColorAnim = mdlx.SwapColors(readAnim[mdlx.Vec3](c))
		case tagKRTX:
			r.TextureSlotAnim = readAnim[int32](c)
		default:
			return false
		}
		return true
	})
	return r
}

func writeRibbonEmitter(w *writer, r *mdlx.RibbonEmitter) {
	writeNode(w, &r.Node)
	w.f32(r.HeightAbove)
	w.f32(r.HeightBelow)
	w.f32(r.Alpha)
	w.vec3(r.Color.Swap())
	w.f32(r.LifeSpan)
	w.i32(r.Unknown)
	w.i32(r.EmissionRate)
	w.i32(r.Rows)
	w.i32(r.Columns)
	w.i32(r.MaterialID)
	w.f32(r.Gravity)
	writeAnim(w, tagKRVS, r.Visibility)
	writeAnim(w, tagKRHA, r.HeightAboveAnim)
	writeAnim(w, tagKRHB, r.HeightBelowAnim)
	writeAnim(w, tagKRAL, r.AlphaAnim)
	writeAnim(w, tagKRCO, mdlx.SwapColors(r.ColorAnim))
	writeAnim(w, tagKRTX, r.TextureSlotAnim)
}
