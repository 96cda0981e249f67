package mdl

import (
	"strconv"
	"strings"

	"github.com/warcodec/mdlx"
)

func unknownField(b *Block, f *Field) error {
	name := f.Name
	if name == "" {
		name = "value"
	}
	return FieldError{Block: b.Type, Field: name, Line: f.Line, Cause: ErrUnknownField}
}

func unknownBlock(b *Block, sub *Block) error {
	return FieldError{Block: b.Type, Field: sub.Type, Line: sub.Line, Cause: ErrUnknownBlock}
}

func unexpectedFrame(b *Block, f *Frame) error {
	return FieldError{Block: b.Type, Field: strconv.FormatInt(f.Frame, 10), Line: f.Line, Cause: ErrUnexpectedFrame}
}

// unknownStmt returns the error for a statement not understood within b.
func unknownStmt(b *Block, s Stmt) error {
	switch s := s.(type) {
	case *Field:
		return unknownField(b, s)
	case *Block:
		return unknownBlock(b, s)
	case *Frame:
		return unexpectedFrame(b, s)
	}
	return nil
}

// is reports whether name matches keyword, ignoring case.
func is(name, keyword string) bool {
	return strings.EqualFold(name, keyword)
}

// enumValue converts an identifier value to a member of E.
func enumValue[E mdlx.Enum](c coerce, v *Value) (E, error) {
	var zero E
	s, err := c.ident(v)
	if err != nil {
		return zero, c.fail(zero.EnumName())
	}
	e, ok := mdlx.ParseEnum[E](s)
	if !ok {
		return zero, c.fail(zero.EnumName())
	}
	return e, nil
}

// keyword returns the member of E named by a flag field, if any.
func keyword[E mdlx.Enum](f *Field) (E, bool) {
	if f.Value.Kind != None {
		var zero E
		return zero, false
	}
	return mdlx.ParseEnum[E](f.Name)
}

// decodeAnim decodes an animation track block, such as
//
//	Alpha 2 {
//		Linear,
//		GlobalSeqId 0,
//		0: 1,
//		100: 0,
//	}
func decodeAnim[T mdlx.Sample](b *Block) (*mdlx.Animation[T], error) {
	a := mdlx.NewAnimation[T](mdlx.DontInterp)
	a.Keys = []mdlx.KeyFrame[T]{}
	for _, s := range b.Body {
		switch s := s.(type) {
		case *Field:
			if is(s.Name, "GlobalSeqId") {
				id, err := coerce{s.Name, s.Line}.id(&s.Value)
				if err != nil {
					return nil, err
				}
				a.GlobalSeqID = id
				continue
			}
			interp, ok := keyword[mdlx.Interpolation](s)
			if !ok {
				return nil, unknownField(b, s)
			}
			a.Interpolation = interp
		case *Block:
			return nil, unknownBlock(b, s)
		}
	}

	tans := a.HasTangents()
	for _, s := range b.Body {
		f, ok := s.(*Frame)
		if !ok {
			continue
		}
		if f.Frame < -1<<31 || f.Frame > 1<<31-1 {
			return nil, CoerceError{Want: "frame number", Field: b.Type, Line: f.Line}
		}
		c := coerce{b.Type, f.Line}
		k := mdlx.KeyFrame[T]{Frame: int32(f.Frame)}
		var err error
		if k.Value, err = sample[T](c, &f.Value); err != nil {
			return nil, err
		}
		for _, t := range []struct {
			name string
			v    *Value
			dst  *T
		}{{"InTan", f.InTan, &k.InTan}, {"OutTan", f.OutTan, &k.OutTan}} {
			switch {
			case tans && t.v == nil:
				return nil, FieldError{Block: b.Type, Field: t.name, Line: f.Line, Cause: ErrMissingTangent}
			case !tans && t.v != nil:
				return nil, FieldError{Block: b.Type, Field: t.name, Line: f.Line, Cause: ErrUnexpectedTangent}
			case tans:
				if *t.dst, err = sample[T](coerce{t.name, f.Line}, t.v); err != nil {
					return nil, err
				}
			}
		}
		a.Keys = append(a.Keys, k)
	}
	return a, nil
}

// encodeAnim returns the block of a track.
func encodeAnim[T mdlx.Sample](name string, a *mdlx.Animation[T]) *Block {
	b := &Block{Type: name, Counts: []int64{int64(len(a.Keys))}}
	b.Flag(a.Interpolation.String())
	if a.GlobalSeqID != -1 {
		b.Field("GlobalSeqId", IntValue(int64(a.GlobalSeqID)))
	}
	tans := a.HasTangents()
	for _, k := range a.Keys {
		f := &Frame{Frame: int64(k.Frame), Value: sampleValue(k.Value)}
		if tans {
			in, out := sampleValue(k.InTan), sampleValue(k.OutTan)
			f.InTan, f.OutTan = &in, &out
		}
		b.Add(f)
	}
	return b
}

// addTrack appends the block of a track if the track exists.
func addTrack[T mdlx.Sample](b *Block, name string, a *mdlx.Animation[T]) {
	if a != nil {
		b.Add(encodeAnim(name, a))
	}
}

// addStatic appends the static form of a value if it differs from the
// default.
func addStatic[T mdlx.Sample](b *Block, name string, v, def T) {
	if v != def {
		b.Add(&Field{Name: name, Static: true, Value: sampleValue(v)})
	}
}

// addBoth appends the static form of a value and its track.
func addBoth[T mdlx.Sample](b *Block, name string, v, def T, a *mdlx.Animation[T]) {
	addStatic(b, name, v, def)
	addTrack(b, name, a)
}

// addField appends a field if ok is true.
func addField(b *Block, name string, v Value, ok bool) {
	if ok {
		b.Field(name, v)
	}
}

// addFlag appends a flag if ok is true.
func addFlag(b *Block, name string, ok bool) {
	if ok {
		b.Flag(name)
	}
}

// extentFields appends the fields of an extent. If always is false, nothing
// is appended for a zero extent.
func extentFields(b *Block, e mdlx.Extent, always bool) {
	if !always && e.IsZero() {
		return
	}
	b.Field("BoundsRadius", FloatValue(e.BoundsRadius))
	b.Field("MinimumExtent", Vec3Value(e.Min))
	b.Field("MaximumExtent", Vec3Value(e.Max))
}

// decodeExtentField applies f to e if f is an extent field, and reports
// whether it did.
func decodeExtentField(e *mdlx.Extent, f *Field) (bool, error) {
	c := coerce{f.Name, f.Line}
	var err error
	switch {
	case is(f.Name, "BoundsRadius"):
		e.BoundsRadius, err = c.f32(&f.Value)
	case is(f.Name, "MinimumExtent"):
		e.Min, err = c.vec3(&f.Value)
	case is(f.Name, "MaximumExtent"):
		e.Max, err = c.vec3(&f.Value)
	default:
		return false, nil
	}
	return true, err
}
