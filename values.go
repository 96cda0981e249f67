package mdlx

import (
	"fmt"
	"strings"
)

////////////////////////////////////////////////////////////////

// Vec2 is a two-component vector, used for texture coordinates.
type Vec2 struct {
	X, Y float32
}

// Vec3 is a three-component vector. Colors are also stored as Vec3, in red,
// green, blue order unless stated otherwise.
type Vec3 struct {
	X, Y, Z float32
}

// Swap returns v with its first and last components exchanged. It converts a
// color between BGR and RGB order. Swap is its own inverse.
func (v Vec3) Swap() Vec3 {
	return Vec3{X: v.Z, Y: v.Y, Z: v.X}
}

// Vec4 is a four-component vector, used for rotation quaternions.
type Vec4 struct {
	X, Y, Z, W float32
}

// Extent describes the bounds of a model, sequence or geoset.
type Extent struct {
	BoundsRadius float32
	Min          Vec3
	Max          Vec3
}

// IsZero returns whether every component of the extent is zero.
func (e Extent) IsZero() bool {
	return e == Extent{}
}

////////////////////////////////////////////////////////////////

// Sample is the closed set of value types that can be animated.
type Sample interface {
	float32 | int32 | Vec3 | Vec4
}

// Interpolation indicates how values between keyframes are computed.
type Interpolation int32

const (
	DontInterp Interpolation = iota
	Linear
	Hermite
	Bezier
)

var interpolationNames = []string{"DontInterp", "Linear", "Hermite", "Bezier"}

func (Interpolation) Names() []string { return interpolationNames }
func (Interpolation) EnumName() string { return "interpolation type" }
func (i Interpolation) String() string { return enumString(i) }

// HasTangents returns whether keyframes of the interpolation carry in and out
// tangents.
func (i Interpolation) HasTangents() bool {
	return i == Hermite || i == Bezier
}

// KeyFrame is a single keyframe of an animation track. InTan and OutTan are
// meaningful only when the owning track's interpolation has tangents.
type KeyFrame[T Sample] struct {
	Frame  int32
	Value  T
	InTan  T
	OutTan T
}

// Animation is a track of keyframes for a single property.
type Animation[T Sample] struct {
	Interpolation Interpolation
	// GlobalSeqID is the index of a global sequence driving the track, or -1.
	GlobalSeqID int32
	Keys        []KeyFrame[T]
}

// NewAnimation returns an empty track with the given interpolation and no
// global sequence.
func NewAnimation[T Sample](interp Interpolation) *Animation[T] {
	return &Animation[T]{Interpolation: interp, GlobalSeqID: -1}
}

// HasTangents returns whether keyframes of the track carry tangents.
func (a *Animation[T]) HasTangents() bool {
	return a.Interpolation.HasTangents()
}

// Map returns a copy of the track with f applied to every value and tangent.
// Map on a nil track returns nil.
func (a *Animation[T]) Map(f func(T) T) *Animation[T] {
	if a == nil {
		return nil
	}
	b := &Animation[T]{
		Interpolation: a.Interpolation,
		GlobalSeqID:   a.GlobalSeqID,
		Keys:          make([]KeyFrame[T], len(a.Keys)),
	}
	for i, k := range a.Keys {
		b.Keys[i] = KeyFrame[T]{
			Frame:  k.Frame,
			Value:  f(k.Value),
			InTan:  f(k.InTan),
			OutTan: f(k.OutTan),
		}
	}
	return b
}

// SwapColors converts a color track between BGR and RGB order.
func SwapColors(a *Animation[Vec3]) *Animation[Vec3] {
	return a.Map(Vec3.Swap)
}

////////////////////////////////////////////////////////////////

// Enum is implemented by every enumeration in the model. Values of an Enum are
// contiguous from zero, and Names returns the canonical text name of each.
type Enum interface {
	~int32
	Names() []string
	EnumName() string
}

// EnumError indicates a wire value that does not correspond to any member of
// an enumeration.
type EnumError struct {
	Enum  string
	Value int32
}

func (err EnumError) Error() string {
	return fmt.Sprintf("unknown %s: %d", err.Enum, err.Value)
}

// CheckEnum converts a raw wire value to E, returning an EnumError if the
// value is out of range.
func CheckEnum[E Enum](v int32) (E, error) {
	var zero E
	if v < 0 || int(v) >= len(zero.Names()) {
		return zero, EnumError{Enum: zero.EnumName(), Value: v}
	}
	return E(v), nil
}

// ParseEnum returns the member of E named s, matched case-insensitively.
func ParseEnum[E Enum](s string) (E, bool) {
	var zero E
	for i, name := range zero.Names() {
		if strings.EqualFold(name, s) {
			return E(i), true
		}
	}
	return zero, false
}

func enumString[E Enum](e E) string {
	names := e.Names()
	if e < 0 || int(e) >= len(names) {
		return "Invalid"
	}
	return names[e]
}

// FilterMode is the blending mode of a material layer.
type FilterMode int32

const (
	FilterNone FilterMode = iota
	FilterTransparent
	FilterBlend
	FilterAdditive
	FilterAddAlpha
	FilterModulate
	FilterModulate2x
	FilterAlphaKey
)

var filterModeNames = []string{"None", "Transparent", "Blend", "Additive", "AddAlpha", "Modulate", "Modulate2x", "AlphaKey"}

func (FilterMode) Names() []string { return filterModeNames }
func (FilterMode) EnumName() string { return "filter mode" }
func (m FilterMode) String() string { return enumString(m) }

// FaceType is the primitive type of a group of geoset faces.
type FaceType int32

const (
	FacePoints FaceType = iota
	FaceLines
	FaceLineLoop
	FaceLineStrip
	FaceTriangles
	FaceTriangleStrip
	FaceTriangleFan
	FaceQuads
	FaceQuadStrip
	FacePolygons
)

var faceTypeNames = []string{
	"Points", "Lines", "LineLoop", "LineStrip", "Triangles",
	"TriangleStrip", "TriangleFan", "Quads", "QuadStrip", "Polygons",
}

func (FaceType) Names() []string { return faceTypeNames }
func (FaceType) EnumName() string { return "face type" }
func (t FaceType) String() string { return enumString(t) }

// LightType is the kind of a light source.
type LightType int32

const (
	Omnidirectional LightType = iota
	Directional
	Ambient
)

var lightTypeNames = []string{"Omnidirectional", "Directional", "Ambient"}

func (LightType) Names() []string { return lightTypeNames }
func (LightType) EnumName() string { return "light type" }
func (t LightType) String() string { return enumString(t) }

// ShapeType is the geometry of a collision shape.
type ShapeType int32

const (
	ShapeBox ShapeType = iota
	ShapePlane
	ShapeSphere
	ShapeCylinder
)

var shapeTypeNames = []string{"Box", "Plane", "Sphere", "Cylinder"}

func (ShapeType) Names() []string { return shapeTypeNames }
func (ShapeType) EnumName() string { return "collision shape type" }
func (t ShapeType) String() string { return enumString(t) }

// VertexCount returns the number of vertices stored for the shape.
func (t ShapeType) VertexCount() int {
	if t == ShapeBox {
		return 2
	}
	return 1
}

// HasRadius returns whether the shape stores a bounds radius.
func (t ShapeType) HasRadius() bool {
	return t == ShapeSphere || t == ShapeCylinder
}

// ParticleFilterMode is the blending mode of a particle emitter.
type ParticleFilterMode int32

const (
	ParticleBlend ParticleFilterMode = iota
	ParticleAdditive
	ParticleModulate
	ParticleModulate2x
	ParticleAlphaKey
)

var particleFilterModeNames = []string{"Blend", "Additive", "Modulate", "Modulate2x", "AlphaKey"}

func (ParticleFilterMode) Names() []string { return particleFilterModeNames }
func (ParticleFilterMode) EnumName() string { return "particle filter mode" }
func (m ParticleFilterMode) String() string { return enumString(m) }

// HeadOrTail selects which particle parts an emitter produces.
type HeadOrTail int32

const (
	Head HeadOrTail = iota
	Tail
	Both
)

var headOrTailNames = []string{"Head", "Tail", "Both"}

func (HeadOrTail) Names() []string { return headOrTailNames }
func (HeadOrTail) EnumName() string { return "head or tail" }
func (h HeadOrTail) String() string { return enumString(h) }

////////////////////////////////////////////////////////////////

// NodeFlags is the bit set stored in every node.
type NodeFlags uint32

const (
	DontInheritTranslation NodeFlags = 1 << iota
	DontInheritRotation
	DontInheritScaling
	Billboarded
	BillboardedLockX
	BillboardedLockY
	BillboardedLockZ
	CameraAnchored
	NodeBone
	NodeLight
	NodeEventObject
	NodeAttachment
	NodeParticleEmitter
	NodeCollisionShape
	NodeRibbonEmitter
	NodeUnshaded      // Also EmitterUsesMDL on particle emitters.
	NodeSortPrimsFarZ // Also EmitterUsesTGA on particle emitters.
	NodeLineEmitter
	NodeUnfogged
	NodeModelSpace
	NodeXYQuad
)

const (
	NodeHelper         NodeFlags = 0
	NodeEmitterUsesMDL           = NodeUnshaded
	NodeEmitterUsesTGA           = NodeSortPrimsFarZ
)

// Has returns whether every bit of x is set in f.
func (f NodeFlags) Has(x NodeFlags) bool { return f&x == x }

// MaterialFlags is the bit set of a material.
type MaterialFlags uint32

const (
	MaterialConstantColor  MaterialFlags = 1 << 0
	MaterialSortPrimsFarZ  MaterialFlags = 1 << 4
	MaterialFullResolution MaterialFlags = 1 << 5
)

// LayerFlags is the bit set of a material layer.
type LayerFlags uint32

const (
	LayerUnshaded     LayerFlags = 1 << 0
	LayerSphereEnvMap LayerFlags = 1 << 1
	LayerTwoSided     LayerFlags = 1 << 4
	LayerUnfogged     LayerFlags = 1 << 5
	LayerNoDepthTest  LayerFlags = 1 << 6
	LayerNoDepthSet   LayerFlags = 1 << 7
)

// GeosetAnimFlags is the bit set of a geoset animation.
type GeosetAnimFlags uint32

const (
	GeosetAnimDropShadow GeosetAnimFlags = 1 << 0
	GeosetAnimUseColor   GeosetAnimFlags = 1 << 1
)

// TextureFlags is the bit set of a texture.
type TextureFlags uint32

const (
	TextureWrapWidth  TextureFlags = 1 << 0
	TextureWrapHeight TextureFlags = 1 << 1
)

// Unselectable is the geoset selection flag that excludes the geoset from
// selection.
const Unselectable = 4
