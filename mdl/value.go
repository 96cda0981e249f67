package mdl

import (
	"math"
	"strconv"
	"strings"

	"github.com/warcodec/mdlx"
)

// Kind is the syntactic type of a value.
type Kind uint8

const (
	None       Kind = iota // No value, as in a flag.
	Integer                // 12
	Float                  // 1.5
	String                 // "text"
	Ident                  // Linear
	IntArray               // { 1, 2, 3 }
	FloatArray             // { 1, 2.5, 3 }
	IdentArray             // { Translation, Rotation }
)

var kindNames = [...]string{"none", "integer", "float", "string", "identifier", "integer array", "float array", "identifier array"}

func (k Kind) String() string {
	if int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// Value is a parsed field or frame value. Which members are used depends on
// Kind.
type Value struct {
	Kind   Kind
	Int    int64
	Float  float64
	Str    string // String and Ident.
	Ints   []int64
	Floats []float64
	Idents []string
}

func NoValue() Value { return Value{} }
func IntValue(v int64) Value { return Value{Kind: Integer, Int: v} }
func FloatValue(v float32) Value { return Value{Kind: Float, Float: float64(v)} }
func StringValue(s string) Value { return Value{Kind: String, Str: s} }
func IdentValue(s string) Value { return Value{Kind: Ident, Str: s} }
func IdentsValue(s ...string) Value { return Value{Kind: IdentArray, Idents: s} }

// IntsValue returns an integer array.
func IntsValue[T ~int32 | ~uint32 | ~uint16 | ~uint8](v ...T) Value {
	a := make([]int64, len(v))
	for i, n := range v {
		a[i] = int64(n)
	}
	return Value{Kind: IntArray, Ints: a}
}

// FloatsValue returns a float array.
func FloatsValue(v ...float32) Value {
	a := make([]float64, len(v))
	for i, n := range v {
		a[i] = float64(n)
	}
	return Value{Kind: FloatArray, Floats: a}
}

func Vec2Value(v mdlx.Vec2) Value { return FloatsValue(v.X, v.Y) }
func Vec3Value(v mdlx.Vec3) Value { return FloatsValue(v.X, v.Y, v.Z) }
func Vec4Value(v mdlx.Vec4) Value { return FloatsValue(v.X, v.Y, v.Z, v.W) }

// numbers returns the elements of a numeric array as floats.
func (v *Value) numbers() ([]float64, bool) {
	switch v.Kind {
	case FloatArray:
		return v.Floats, true
	case IntArray:
		a := make([]float64, len(v.Ints))
		for i, n := range v.Ints {
			a[i] = float64(n)
		}
		return a, true
	}
	return nil, false
}

////////////////////////////////////////////////////////////////

// coerce converts values to the types of the model. Failures produce a
// CoerceError naming the field and line the value came from.
type coerce struct {
	name string
	line int
}

func (c coerce) fail(want string) error {
	return CoerceError{Want: want, Field: c.name, Line: c.line}
}

func (c coerce) intRange(v *Value, lo, hi int64) (int64, error) {
	if v.Kind != Integer || v.Int < lo || v.Int > hi {
		return 0, c.fail("integer")
	}
	return v.Int, nil
}

func (c coerce) i32(v *Value) (int32, error) {
	n, err := c.intRange(v, math.MinInt32, math.MaxInt32)
	return int32(n), err
}

func (c coerce) u32(v *Value) (uint32, error) {
	n, err := c.intRange(v, 0, math.MaxUint32)
	return uint32(n), err
}

// id is like int32, but also accepts the identifiers None and Multiple,
// which stand for -1.
func (c coerce) id(v *Value) (int32, error) {
	if v.Kind == Ident && (strings.EqualFold(v.Str, "None") || strings.EqualFold(v.Str, "Multiple")) {
		return -1, nil
	}
	return c.i32(v)
}

func (c coerce) f32(v *Value) (float32, error) {
	switch v.Kind {
	case Integer:
		return float32(v.Int), nil
	case Float:
		return float32(v.Float), nil
	}
	return 0, c.fail("float")
}

func (c coerce) floats(v *Value, n int, want string) ([]float32, error) {
	a, ok := v.numbers()
	if !ok || n >= 0 && len(a) != n {
		return nil, c.fail(want)
	}
	f := make([]float32, len(a))
	for i, x := range a {
		f[i] = float32(x)
	}
	return f, nil
}

func (c coerce) vec2(v *Value) (mdlx.Vec2, error) {
	f, err := c.floats(v, 2, "Vec2")
	if err != nil {
		return mdlx.Vec2{}, err
	}
	return mdlx.Vec2{X: f[0], Y: f[1]}, nil
}

func (c coerce) vec3(v *Value) (mdlx.Vec3, error) {
	f, err := c.floats(v, 3, "Vec3")
	if err != nil {
		return mdlx.Vec3{}, err
	}
	return mdlx.Vec3{X: f[0], Y: f[1], Z: f[2]}, nil
}

func (c coerce) vec4(v *Value) (mdlx.Vec4, error) {
	f, err := c.floats(v, 4, "Vec4")
	if err != nil {
		return mdlx.Vec4{}, err
	}
	return mdlx.Vec4{X: f[0], Y: f[1], Z: f[2], W: f[3]}, nil
}

// ints returns an integer array whose elements lie within [lo, hi].
func (c coerce) ints(v *Value, lo, hi int64) ([]int64, error) {
	if v.Kind != IntArray {
		return nil, c.fail("integer array")
	}
	for _, n := range v.Ints {
		if n < lo || n > hi {
			return nil, c.fail("integer array")
		}
	}
	return v.Ints, nil
}

func (c coerce) str(v *Value) (string, error) {
	if v.Kind != String {
		return "", c.fail("string")
	}
	return v.Str, nil
}

func (c coerce) ident(v *Value) (string, error) {
	if v.Kind != Ident {
		return "", c.fail("identifier")
	}
	return v.Str, nil
}

func (c coerce) idents(v *Value) ([]string, error) {
	if v.Kind != IdentArray {
		return nil, c.fail("identifier array")
	}
	return v.Idents, nil
}

// sample converts v to a track value of type T.
func sample[T mdlx.Sample](c coerce, v *Value) (T, error) {
	var r T
	var err error
	switch p := any(&r).(type) {
	case *float32:
		*p, err = c.f32(v)
	case *int32:
		*p, err = c.i32(v)
	case *mdlx.Vec3:
		*p, err = c.vec3(v)
	case *mdlx.Vec4:
		*p, err = c.vec4(v)
	}
	return r, err
}

// sampleValue converts a track value to a Value.
func sampleValue[T mdlx.Sample](v T) Value {
	switch v := any(v).(type) {
	case float32:
		return FloatValue(v)
	case int32:
		return IntValue(int64(v))
	case mdlx.Vec3:
		return Vec3Value(v)
	case mdlx.Vec4:
		return Vec4Value(v)
	}
	return NoValue()
}

////////////////////////////////////////////////////////////////

// FormatFloat formats v with at most precision digits after the decimal
// point. Trailing zeros and a trailing point are removed. Values whose fixed
// form would be long are written in exponent form when the exponent is large
// enough to make that form shorter.
func FormatFloat(v float32, precision int) string {
	s := trimFixed(strconv.FormatFloat(float64(v), 'f', precision, 32))
	if len(s) > 2*precision+1 {
		e := strconv.FormatFloat(float64(v), 'e', precision, 32)
		if i := strings.IndexByte(e, 'e'); i >= 0 {
			exp, _ := strconv.Atoi(e[i+1:])
			short := trimFixed(e[:i]) + "e" + strconv.Itoa(exp)
			if abs(exp) > (2*precision+1+precision)/2 {
				s = short
			} else if f, err := strconv.ParseFloat(short, 32); err == nil {
				s = trimFixed(strconv.FormatFloat(f, 'f', precision, 32))
			}
		}
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// trimFixed removes trailing zeros from the fraction of a fixed-point number,
// and the point itself if no fraction remains.
func trimFixed(s string) string {
	if strings.IndexByte(s, '.') < 0 {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
