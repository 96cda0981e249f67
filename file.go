// The mdlx package holds the in-memory representation of a Warcraft III 3D
// model, as read from either of its two encodings.
//
// A Model is produced by the decoder of the "mdx" sub-package, which handles
// the chunked binary encoding, or by the decoder of the "mdl" sub-package,
// which handles the text encoding. Both decoders produce the same canonical
// Model, and either encoder can write it back out, which is how one encoding
// is converted to the other. The "convert" sub-package routes files to the
// right codec by extension.
//
// A Model is a strict ownership tree. Entities refer to each other only by
// integer index or object id, so a Model can be copied and compared freely.
package mdlx

import (
	"fmt"
)

// SupportedVersion is the only format version understood by the codecs.
const SupportedVersion = 800

// Model is the root of a decoded model. Each field holds the entities of one
// kind, in file order.
type Model struct {
	// Version is the format version. Decoders reject any value other than
	// SupportedVersion.
	Version int32

	// Info holds the model header.
	Info ModelInfo

	Sequences         []Sequence
	GlobalSequences   []GlobalSequence
	Textures          []Texture
	Materials         []Material
	TextureAnims      []TextureAnim
	Geosets           []Geoset
	GeosetAnims       []GeosetAnim
	Bones             []Bone
	Lights            []Light
	Helpers           []Helper
	Attachments       []Attachment
	PivotPoints       []Vec3
	ParticleEmitters  []ParticleEmitter
	ParticleEmitter2s []ParticleEmitter2
	RibbonEmitters    []RibbonEmitter
	EventObjects      []EventObject
	CollisionShapes   []CollisionShape
	Cameras           []Camera
}

// New returns an empty model of the supported version.
func New() *Model {
	return &Model{Version: SupportedVersion}
}

// AssignAttachmentIndices sets the AIndex of each attachment to its position
// in file order. Decoders call it after all entities are read.
func (m *Model) AssignAttachmentIndices() {
	for i := range m.Attachments {
		m.Attachments[i].AIndex = int32(i)
	}
}

// ModelInfo is the model header.
type ModelInfo struct {
	// Name is at most 336 bytes on the wire.
	Name      string
	Unknown   int32
	Extent    Extent
	BlendTime uint32
}

// Sequence is a named range of frames, such as a walk or attack animation.
type Sequence struct {
	// Name is at most 80 bytes on the wire.
	Name       string
	Start      int32
	End        int32
	MoveSpeed  float32
	NonLooping bool
	Rarity     float32
	Unknown    int32
	Extent     Extent
}

// GlobalSequence is a looping timeline independent of the current sequence.
// Tracks refer to it by index.
type GlobalSequence struct {
	Duration uint32
}

// Texture is a reference to an image file or a replaceable texture.
type Texture struct {
	ReplaceableID int32
	// Path is at most 256 bytes on the wire.
	Path    string
	Unknown int32
	Flags   TextureFlags
}

// TextureAnim animates texture coordinates.
type TextureAnim struct {
	Translation *Animation[Vec3]
	Rotation    *Animation[Vec4]
	Scaling     *Animation[Vec3]
}

// Material is an ordered stack of layers.
type Material struct {
	PriorityPlane int32
	Flags         MaterialFlags
	Layers        []Layer
}

// Layer is a single textured pass of a material.
type Layer struct {
	FilterMode    FilterMode
	Flags         LayerFlags
	TextureID     int32
	TVertexAnimID int32
	CoordID       int32
	Alpha         float32

	AlphaAnim     *Animation[float32]
	TextureIDAnim *Animation[int32]
}

// NewLayer returns a layer with the defaults of the text encoding.
func NewLayer() Layer {
	return Layer{TextureID: -1, TVertexAnimID: -1, Alpha: 1}
}

// Geoset is a mesh of vertices and faces.
type Geoset struct {
	Vertices []Vec3
	Normals  []Vec3
	// UVs holds one set of texture coordinates per channel.
	UVs [][]Vec2

	// FaceTypes and FaceCounts are parallel. Each pair describes a group of
	// FaceCounts[i] consecutive indices in Faces.
	FaceTypes  []FaceType
	FaceCounts []int32
	Faces      []uint16

	VertexGroups      []uint8
	MatrixGroupCounts []int32
	MatrixIndices     []int32

	MaterialID     int32
	SelectionGroup int32
	SelectionFlags int32
	Extent         Extent
	AnimExtents    []Extent
}

// NewGeoset returns a geoset with the defaults of the text encoding.
func NewGeoset() Geoset {
	return Geoset{MaterialID: -1, SelectionGroup: -1}
}

// Check returns a warning for each structural inconsistency of the geoset.
// Such a geoset is unusual but can still be encoded.
func (g *Geoset) Check() []error {
	var warn []error
	if len(g.Normals) > 0 && len(g.Normals) != len(g.Vertices) {
		warn = append(warn, fmt.Errorf("normal count %d does not match vertex count %d", len(g.Normals), len(g.Vertices)))
	}
	if len(g.FaceTypes) != len(g.FaceCounts) {
		warn = append(warn, fmt.Errorf("face type count %d does not match face group count %d", len(g.FaceTypes), len(g.FaceCounts)))
	}
	for i, t := range g.FaceTypes {
		if t != FaceTriangles {
			warn = append(warn, fmt.Errorf("face group %d has type %s, expected Triangles", i, t))
			continue
		}
		if i < len(g.FaceCounts) && g.FaceCounts[i]%3 != 0 {
			warn = append(warn, fmt.Errorf("face group %d has %d indices, not a multiple of 3", i, g.FaceCounts[i]))
		}
	}
	return warn
}

// GeosetAnim animates the visibility and color of a geoset.
type GeosetAnim struct {
	Alpha float32
	Flags GeosetAnimFlags
	// Color is kept in wire order.
	Color    Vec3
	GeosetID int32

	AlphaAnim *Animation[float32]
	ColorAnim *Animation[Vec3]
}

// NewGeosetAnim returns a geoset animation with the defaults of the text
// encoding.
func NewGeosetAnim() GeosetAnim {
	return GeosetAnim{Alpha: 1, Color: Vec3{1, 1, 1}, GeosetID: -1}
}

////////////////////////////////////////////////////////////////

// Node holds the fields shared by every member of the skeleton hierarchy.
type Node struct {
	// Name is at most 80 bytes on the wire.
	Name     string
	ObjectID int32
	// ParentID is the ObjectID of the parent node, or -1.
	ParentID int32
	Flags    NodeFlags

	Translation *Animation[Vec3]
	Rotation    *Animation[Vec4]
	Scaling     *Animation[Vec3]
}

// NewNode returns a root node of the given kind. Kind is one of the node
// type flags, such as NodeBone.
func NewNode(kind NodeFlags) Node {
	return Node{ParentID: -1, Flags: kind}
}

// Bone is a node that deforms geoset vertices.
type Bone struct {
	Node
	GeosetID     int32
	GeosetAnimID int32
}

// Helper is a node with no behavior of its own.
type Helper struct {
	Node
}

// Attachment is a named point to which other models can be attached.
type Attachment struct {
	Node
	// Path is at most 256 bytes on the wire.
	Path    string
	Unknown int32
	// AttachmentID is the stored id, or -1 to use AIndex.
	AttachmentID int32
	// AIndex is the position of the attachment in file order. It is not
	// stored on the wire.
	AIndex int32

	Visibility *Animation[float32]
}

// EventTrack is the list of frames at which an event object fires.
type EventTrack struct {
	GlobalSeqID int32
	Frames      []int32
}

// EventObject is a node that fires events, such as sounds or splats.
type EventObject struct {
	Node
	Track *EventTrack
}

// CollisionShape is a node describing a simple collision volume.
type CollisionShape struct {
	Node
	Shape ShapeType
	// Vertices holds two points for a box and one otherwise.
	Vertices []Vec3
	// BoundsRadius is stored only for spheres and cylinders.
	BoundsRadius float32
}

// Light is a node that emits light.
type Light struct {
	Node
	Type             LightType
	AttenuationStart float32
	AttenuationEnd   float32
	Color            Vec3
	Intensity        float32
	AmbientColor     Vec3
	AmbientIntensity float32

	AttenuationStartAnim *Animation[float32]
	AttenuationEndAnim   *Animation[float32]
	ColorAnim            *Animation[Vec3]
	IntensityAnim        *Animation[float32]
	AmbientColorAnim     *Animation[Vec3]
	AmbientIntensityAnim *Animation[float32]
	Visibility           *Animation[float32]
}

// ParticleEmitter is a node that emits model or texture particles.
type ParticleEmitter struct {
	Node
	EmissionRate float32
	Gravity      float32
	Longitude    float32
	Latitude     float32
	// Path is at most 256 bytes on the wire.
	Path     string
	Unknown  int32
	LifeSpan float32
	Speed    float32

	Visibility       *Animation[float32]
	EmissionRateAnim *Animation[float32]
	GravityAnim      *Animation[float32]
	LongitudeAnim    *Animation[float32]
	LatitudeAnim     *Animation[float32]
	LifeSpanAnim     *Animation[float32]
	SpeedAnim        *Animation[float32]
}

// UVAnim is a range of texture cells played over part of a particle's life.
type UVAnim struct {
	Start  int32
	End    int32
	Repeat int32
}

// ParticleEmitter2 is a node that emits textured billboard particles.
type ParticleEmitter2 struct {
	Node
	Speed        float32
	Variation    float32
	Latitude     float32
	Gravity      float32
	LifeSpan     float32
	EmissionRate float32
	Length       float32
	Width        float32
	FilterMode   ParticleFilterMode
	Rows         int32
	Columns      int32
	HeadOrTail   HeadOrTail
	TailLength   float32
	Time         float32

	SegmentColor   [3]Vec3
	SegmentAlpha   [3]uint8
	SegmentScaling [3]float32

	HeadLife  UVAnim
	HeadDecay UVAnim
	TailLife  UVAnim
	TailDecay UVAnim

	TextureID     int32
	Squirt        bool
	PriorityPlane int32
	ReplaceableID int32

	Visibility       *Animation[float32]
	EmissionRateAnim *Animation[float32]
	WidthAnim        *Animation[float32]
	LengthAnim       *Animation[float32]
	SpeedAnim        *Animation[float32]
	LatitudeAnim     *Animation[float32]
	VariationAnim    *Animation[float32]
	GravityAnim      *Animation[float32]
}

// NewParticleEmitter2 returns an emitter with the defaults of the text
// encoding.
func NewParticleEmitter2() ParticleEmitter2 {
	return ParticleEmitter2{
		Node:           NewNode(NodeParticleEmitter),
		SegmentColor:   [3]Vec3{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}},
		SegmentAlpha:   [3]uint8{255, 255, 255},
		SegmentScaling: [3]float32{1, 1, 1},
		TextureID:      -1,
	}
}

// RibbonEmitter is a node that trails a textured ribbon.
type RibbonEmitter struct {
	Node
	HeightAbove  float32
	HeightBelow  float32
	Alpha        float32
	Color        Vec3
	LifeSpan     float32
	Unknown      int32
	EmissionRate int32
	Rows         int32
	Columns      int32
	MaterialID   int32
	Gravity      float32

	Visibility      *Animation[float32]
	HeightAboveAnim *Animation[float32]
	HeightBelowAnim *Animation[float32]
	AlphaAnim       *Animation[float32]
	ColorAnim       *Animation[Vec3]
	TextureSlotAnim *Animation[int32]
}

// NewRibbonEmitter returns an emitter with the defaults of the text encoding.
func NewRibbonEmitter() RibbonEmitter {
	return RibbonEmitter{
		Node:       NewNode(NodeRibbonEmitter),
		Alpha:      1,
		Color:      Vec3{1, 1, 1},
		MaterialID: -1,
	}
}

// Camera is a viewpoint with a target.
type Camera struct {
	// Name is at most 80 bytes on the wire.
	Name           string
	Position       Vec3
	FieldOfView    float32
	FarClip        float32
	NearClip       float32
	TargetPosition Vec3

	Translation       *Animation[Vec3]
	Rotation          *Animation[float32]
	TargetTranslation *Animation[Vec3]
}
