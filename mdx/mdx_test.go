package mdx

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
)

// app concatenates values into a byte slice. Strings and byte slices are
// copied, int is a single byte, and sized numbers are little-endian.
func app(bs ...interface{}) []byte {
	var s []byte
	for _, b := range bs {
		switch b := b.(type) {
		case string:
			s = append(s, b...)
		case []byte:
			s = append(s, b...)
		case int:
			s = append(s, byte(b))
		case int32:
			s = binary.LittleEndian.AppendUint32(s, uint32(b))
		case uint32:
			s = binary.LittleEndian.AppendUint32(s, b)
		case float32:
			s = binary.LittleEndian.AppendUint32(s, math.Float32bits(b))
		}
	}
	return s
}

func zeros(n int) []byte {
	return make([]byte, n)
}

func minimal() []byte {
	return app(
		"MDLX",
		"VERS", uint32(4), uint32(800),
		"MODL", uint32(372), zeros(372),
	)
}

func TestMinimal(t *testing.T) {
	in := minimal()
	m, warn, err := Decoder{}.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warnings: %s", warn)
	}
	if m.Version != 800 {
		t.Errorf("expected version 800, got %d", m.Version)
	}
	want := mdlx.New()
	if !reflect.DeepEqual(m, want) {
		t.Errorf("expected empty model, got %#v", m)
	}

	var out bytes.Buffer
	if err := (Encoder{}).Encode(&out, m); err != nil {
		t.Fatalf("unexpected encode error: %s", err)
	}
	if !bytes.Equal(out.Bytes(), in) {
		t.Errorf("re-encoding differs:\nwant % 02X\ngot  % 02X", in, out.Bytes())
	}
}

func TestInvalidMagic(t *testing.T) {
	for _, in := range [][]byte{nil, app("MDL"), app("MDLY", "VERS", uint32(4), uint32(800))} {
		_, _, err := Decoder{}.Decode(bytes.NewReader(in))
		if !errors.Is(err, ErrInvalidMagic) {
			t.Errorf("%q: expected ErrInvalidMagic, got %v", in, err)
		}
	}
}

func TestUnknownChunk(t *testing.T) {
	in := app(minimal(), "ABCD", uint32(4), uint32(0))
	m, _, err := Decoder{}.Decode(bytes.NewReader(in))
	if m != nil {
		t.Errorf("expected no model")
	}
	var ue ErrUnknownChunk
	if !errors.As(err, &ue) {
		t.Fatalf("expected ErrUnknownChunk, got %v", err)
	}
	if Tag(ue) != newTag("ABCD") {
		t.Errorf("unexpected tag %s", Tag(ue))
	}
	if !strings.Contains(err.Error(), "ABCD") {
		t.Errorf("error does not name the tag: %s", err)
	}
}

func TestVersionGate(t *testing.T) {
	tests := [][]byte{
		app("MDLX", "VERS", uint32(4), uint32(900), "MODL", uint32(372), zeros(372)),
		app("MDLX", "MODL", uint32(372), zeros(372)),
	}
	for i, in := range tests {
		m, _, err := Decoder{}.Decode(bytes.NewReader(in))
		if m != nil {
			t.Errorf("%d: expected no model", i)
		}
		var ve ErrUnrecognizedVersion
		if !errors.As(err, &ve) {
			t.Errorf("%d: expected ErrUnrecognizedVersion, got %v", i, err)
		}
	}

	if err := (Encoder{}).Encode(&bytes.Buffer{}, &mdlx.Model{Version: 900}); err == nil {
		t.Errorf("expected error encoding version 900")
	}
}

func TestShortChunk(t *testing.T) {
	in := app("MDLX", "VERS", uint32(8), uint32(800))
	_, _, err := Decoder{}.Decode(bytes.NewReader(in))
	var ce ChunkError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ChunkError, got %v", err)
	}
	var se ShortDataError
	if !errors.As(err, &se) {
		t.Fatalf("expected ShortDataError, got %v", err)
	}
	if se.Have != 4 || se.Need != 8 {
		t.Errorf("expected 4B left (need 8), got %s", se)
	}
	if !strings.Contains(err.Error(), "VERS") {
		t.Errorf("error does not name the tag: %s", err)
	}
}

func TestUnknownTrack(t *testing.T) {
	body := app(
		int32(0), uint32(0), int32(-1), int32(-1), int32(0), float32(1),
		"KXXX", uint32(0), int32(0), int32(-1),
	)
	c := newCursor(body)
	readLayer(c)
	var te TrackError
	if !errors.As(c.Err(), &te) {
		t.Fatalf("expected TrackError, got %v", c.Err())
	}
	if te.Entity != "Layer" || te.Tag != newTag("KXXX") {
		t.Errorf("unexpected error %s", te)
	}
}

func TestShortKeyframes(t *testing.T) {
	c := newCursor(app(uint32(5), int32(1), int32(-1), int32(0)))
	if a := readAnim[float32](c); a != nil {
		t.Errorf("expected no animation")
	}
	var se ShortDataError
	if !errors.As(c.Err(), &se) || se.What != "keyframes" {
		t.Errorf("expected keyframes ShortDataError, got %v", c.Err())
	}
}

func TestUnknownInterpolation(t *testing.T) {
	c := newCursor(app(uint32(0), int32(7), int32(-1)))
	readAnim[float32](c)
	var ee mdlx.EnumError
	if !errors.As(c.Err(), &ee) || ee.Value != 7 {
		t.Errorf("expected EnumError for 7, got %v", c.Err())
	}
}

func TestTangents(t *testing.T) {
	hermite := &mdlx.Animation[mdlx.Vec3]{
		Interpolation: mdlx.Hermite,
		GlobalSeqID:   2,
		Keys: []mdlx.KeyFrame[mdlx.Vec3]{
			{Frame: 0, Value: mdlx.Vec3{X: 1}, InTan: mdlx.Vec3{Y: 2}, OutTan: mdlx.Vec3{Z: 3}},
			{Frame: 100, Value: mdlx.Vec3{X: 4}, InTan: mdlx.Vec3{Y: 5}, OutTan: mdlx.Vec3{Z: 6}},
		},
	}
	w := newWriter()
	writeAnim(w, tagKGTR, hermite)
	if int64(w.Len()) != animSize(hermite) {
		t.Errorf("expected %d bytes, got %d", animSize(hermite), w.Len())
	}
	if want := int64(16 + 2*(4+3*12)); animSize(hermite) != want {
		t.Errorf("expected size %d, got %d", want, animSize(hermite))
	}
	c := newCursor(w.Bytes()[4:])
	got := readAnim[mdlx.Vec3](c)
	if c.Err() != nil {
		t.Fatalf("unexpected error: %s", c.Err())
	}
	if !reflect.DeepEqual(got, hermite) {
		t.Errorf("expected %v, got %v", hermite, got)
	}

	linear := &mdlx.Animation[float32]{
		Interpolation: mdlx.Linear,
		GlobalSeqID:   -1,
		Keys:          []mdlx.KeyFrame[float32]{{Frame: 5, Value: 0.5}},
	}
	w = newWriter()
	writeAnim(w, tagKATV, linear)
	if w.Len() != 16+8 {
		t.Errorf("expected 24 bytes for linear track, got %d", w.Len())
	}
}

func TestLightColorOrder(t *testing.T) {
	l := mdlx.Light{
		Node:  mdlx.NewNode(mdlx.NodeLight),
		Color: mdlx.Vec3{X: 1, Y: 0.5, Z: 0},
	}
	w := newWriter()
	writeLight(w, &l)
	b := w.Bytes()
	// Node record (96) + type + attenuation start and end.
	const off = 96 + 12
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off+4*i:]))
	}
	if f(0) != 0 || f(1) != 0.5 || f(2) != 1 {
		t.Errorf("expected BGR order, got %v %v %v", f(0), f(1), f(2))
	}

	got := readLight(newCursor(b))
	if got.Color != l.Color {
		t.Errorf("expected %v, got %v", l.Color, got.Color)
	}
}

func TestGeosetWarnings(t *testing.T) {
	g := fullGeoset()
	g.FaceTypes = []mdlx.FaceType{mdlx.FaceQuads}
	w := newWriter()
	writeGeoset(w, &g)
	c := newCursor(w.Bytes())
	_, warn := readGeoset(c)
	if c.Err() != nil {
		t.Fatalf("unexpected error: %s", c.Err())
	}
	if len(warn) != 1 || !strings.Contains(warn[0].Error(), "Quads") {
		t.Errorf("expected a non-triangle warning, got %v", warn)
	}
}

func TestDump(t *testing.T) {
	var out bytes.Buffer
	if err := (Decoder{}).Dump(&out, bytes.NewReader(minimal())); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	s := out.String()
	for _, want := range []string{"#0: VERS", "Version: 800", "#1: MODL", "Size: 372", "... 308 more bytes"} {
		if !strings.Contains(s, want) {
			t.Errorf("dump missing %q:\n%s", want, s)
		}
	}
}

func fullGeoset() mdlx.Geoset {
	return mdlx.Geoset{
		Vertices:          []mdlx.Vec3{{X: 0}, {X: 1}, {Y: 1}},
		Normals:           []mdlx.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
		UVs:               [][]mdlx.Vec2{{{X: 0}, {X: 1}, {Y: 1}}, {}},
		FaceTypes:         []mdlx.FaceType{mdlx.FaceTriangles},
		FaceCounts:        []int32{3},
		Faces:             []uint16{0, 1, 2},
		VertexGroups:      []uint8{0, 0, 1},
		MatrixGroupCounts: []int32{1, 2},
		MatrixIndices:     []int32{0, 0, 1},
		MaterialID:        3,
		SelectionGroup:    1,
		SelectionFlags:    mdlx.Unselectable,
		Extent:            mdlx.Extent{BoundsRadius: 1, Max: mdlx.Vec3{X: 1, Y: 1}},
		AnimExtents:       []mdlx.Extent{{BoundsRadius: 2}},
	}
}

func track[T mdlx.Sample](interp mdlx.Interpolation, values ...T) *mdlx.Animation[T] {
	a := mdlx.NewAnimation[T](interp)
	a.Keys = []mdlx.KeyFrame[T]{}
	for i, v := range values {
		k := mdlx.KeyFrame[T]{Frame: int32(i * 100), Value: v}
		if interp.HasTangents() {
			k.InTan, k.OutTan = v, v
		}
		a.Keys = append(a.Keys, k)
	}
	return a
}

func fullModel() *mdlx.Model {
	m := mdlx.New()
	m.Info = mdlx.ModelInfo{Name: "Footman", Extent: mdlx.Extent{BoundsRadius: 50}, BlendTime: 150}
	m.Sequences = []mdlx.Sequence{
		{Name: "Stand", Start: 0, End: 1000, Rarity: 1},
		{Name: "Walk", Start: 1100, End: 2000, MoveSpeed: 270, NonLooping: true},
	}
	m.GlobalSequences = []mdlx.GlobalSequence{{Duration: 3000}}
	m.Textures = []mdlx.Texture{
		{Path: `Textures\Footman.blp`, Flags: mdlx.TextureWrapWidth},
		{ReplaceableID: 1},
	}
	m.Materials = []mdlx.Material{
		{PriorityPlane: 1, Flags: mdlx.MaterialConstantColor, Layers: []mdlx.Layer{
			{FilterMode: mdlx.FilterBlend, Flags: mdlx.LayerTwoSided, TextureID: 0, TVertexAnimID: -1, Alpha: 1,
				AlphaAnim: track[float32](mdlx.Linear, 0, 1)},
			{FilterMode: mdlx.FilterAdditive, TextureID: 1, TVertexAnimID: 0, Alpha: 0.5,
				TextureIDAnim: track[int32](mdlx.DontInterp, 0, 1)},
		}},
		{},
	}
	m.TextureAnims = []mdlx.TextureAnim{{
		Translation: track(mdlx.Linear, mdlx.Vec3{X: 1}),
		Rotation:    track(mdlx.Bezier, mdlx.Vec4{W: 1}),
	}}
	m.Geosets = []mdlx.Geoset{fullGeoset()}
	m.GeosetAnims = []mdlx.GeosetAnim{{
		Alpha: 1, Flags: mdlx.GeosetAnimUseColor, Color: mdlx.Vec3{X: 0.2, Y: 0.4, Z: 0.6}, GeosetID: 0,
		AlphaAnim: track[float32](mdlx.DontInterp),
		ColorAnim: track(mdlx.Linear, mdlx.Vec3{X: 1}),
	}}

	root := mdlx.NewNode(mdlx.NodeBone)
	root.Name = "Root"
	root.Translation = track(mdlx.Hermite, mdlx.Vec3{Z: 1}, mdlx.Vec3{Z: 2})
	root.Rotation = track(mdlx.Linear, mdlx.Vec4{W: 1})
	root.Scaling = track(mdlx.Linear, mdlx.Vec3{X: 1, Y: 1, Z: 1})
	m.Bones = []mdlx.Bone{{Node: root, GeosetID: 0, GeosetAnimID: -1}}

	node := func(name string, id int32, kind mdlx.NodeFlags) mdlx.Node {
		n := mdlx.NewNode(kind)
		n.Name, n.ObjectID, n.ParentID = name, id, 0
		return n
	}
	m.Lights = []mdlx.Light{{
		Node: node("Light", 1, mdlx.NodeLight), Type: mdlx.Ambient,
		AttenuationStart: 80, AttenuationEnd: 200, Color: mdlx.Vec3{X: 1, Y: 0.5}, Intensity: 1,
		AmbientColor: mdlx.Vec3{Z: 1}, AmbientIntensity: 0.2,
		ColorAnim:  track(mdlx.Linear, mdlx.Vec3{X: 1, Y: 0.25}),
		Visibility: track[float32](mdlx.DontInterp, 1, 0),
	}}
	m.Helpers = []mdlx.Helper{{Node: node("Helper", 2, mdlx.NodeHelper)}}
	m.Attachments = []mdlx.Attachment{
		{Node: node("Origin Ref", 3, mdlx.NodeAttachment), AttachmentID: 0, Visibility: track[float32](mdlx.DontInterp, 1)},
		{Node: node("Head Ref", 4, mdlx.NodeAttachment), Path: "Head.mdl", AttachmentID: 1},
	}
	m.ParticleEmitters = []mdlx.ParticleEmitter{{
		Node: node("Emitter", 5, mdlx.NodeParticleEmitter|mdlx.NodeEmitterUsesMDL),
		EmissionRate: 10, Gravity: 1, Longitude: 0.5, Latitude: 0.25, Path: "Spark.mdl", LifeSpan: 2, Speed: 30,
		SpeedAnim: track[float32](mdlx.Linear, 30, 60),
	}}
	pe2 := mdlx.NewParticleEmitter2()
	pe2.Node = node("Emitter2", 6, mdlx.NodeParticleEmitter|mdlx.NodeUnshaded)
	pe2.FilterMode = mdlx.ParticleAdditive
	pe2.HeadOrTail = mdlx.Both
	pe2.SegmentColor[1] = mdlx.Vec3{X: 1, Y: 0.5, Z: 0.25}
	pe2.SegmentAlpha = [3]uint8{0, 255, 0}
	pe2.HeadLife = mdlx.UVAnim{Start: 0, End: 3, Repeat: 1}
	pe2.Squirt = true
	pe2.Rows, pe2.Columns = 4, 4
	pe2.EmissionRateAnim = track[float32](mdlx.Linear, 0, 100)
	m.ParticleEmitter2s = []mdlx.ParticleEmitter2{pe2}
	ribbon := mdlx.NewRibbonEmitter()
	ribbon.Node = node("Ribbon", 7, mdlx.NodeRibbonEmitter)
	ribbon.Color = mdlx.Vec3{X: 1, Y: 0, Z: 0.5}
	ribbon.EmissionRate = 30
	ribbon.ColorAnim = track(mdlx.Linear, mdlx.Vec3{X: 0.1, Y: 0.2, Z: 0.3})
	ribbon.TextureSlotAnim = track[int32](mdlx.DontInterp, 0, 1)
	m.RibbonEmitters = []mdlx.RibbonEmitter{ribbon}
	m.EventObjects = []mdlx.EventObject{
		{Node: node("SNDxFOOT", 8, mdlx.NodeEventObject), Track: &mdlx.EventTrack{GlobalSeqID: -1, Frames: []int32{100, 500}}},
		{Node: node("FTPxFOOT", 9, mdlx.NodeEventObject)},
		{Node: node("SPLxBLOD", 10, mdlx.NodeEventObject), Track: &mdlx.EventTrack{GlobalSeqID: 0, Frames: []int32{}}},
	}
	m.CollisionShapes = []mdlx.CollisionShape{
		{Node: node("Box", 11, mdlx.NodeCollisionShape), Shape: mdlx.ShapeBox, Vertices: []mdlx.Vec3{{X: -1}, {X: 1}}},
		{Node: node("Sphere", 12, mdlx.NodeCollisionShape), Shape: mdlx.ShapeSphere, Vertices: []mdlx.Vec3{{}}, BoundsRadius: 20},
	}
	m.PivotPoints = []mdlx.Vec3{{}, {X: 1}, {Y: 2}}
	m.Cameras = []mdlx.Camera{{
		Name: "Portrait", Position: mdlx.Vec3{X: 100}, FieldOfView: 0.7, FarClip: 1000, NearClip: 8,
		TargetPosition: mdlx.Vec3{Z: 50},
		Rotation:       track[float32](mdlx.Linear, 0, 1),
	}}
	m.AssignAttachmentIndices()
	return m
}

func TestRoundTrip(t *testing.T) {
	want := fullModel()
	var buf bytes.Buffer
	if err := (Encoder{}).Encode(&buf, want); err != nil {
		t.Fatalf("unexpected encode error: %s", err)
	}
	first := append([]byte(nil), buf.Bytes()...)

	got, warn, err := Decoder{}.Decode(&buf)
	if err != nil {
		t.Fatalf("unexpected decode error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warnings: %s", warn)
	}

	check := func(name string, a, b interface{}) {
		t.Helper()
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s differ:\nwant %#v\ngot  %#v", name, a, b)
		}
	}
	check("info", want.Info, got.Info)
	check("sequences", want.Sequences, got.Sequences)
	check("global sequences", want.GlobalSequences, got.GlobalSequences)
	check("textures", want.Textures, got.Textures)
	check("materials", want.Materials, got.Materials)
	check("texture anims", want.TextureAnims, got.TextureAnims)
	check("geosets", want.Geosets, got.Geosets)
	check("geoset anims", want.GeosetAnims, got.GeosetAnims)
	check("bones", want.Bones, got.Bones)
	check("lights", want.Lights, got.Lights)
	check("helpers", want.Helpers, got.Helpers)
	check("attachments", want.Attachments, got.Attachments)
	check("particle emitters", want.ParticleEmitters, got.ParticleEmitters)
	check("particle emitters 2", want.ParticleEmitter2s, got.ParticleEmitter2s)
	check("ribbon emitters", want.RibbonEmitters, got.RibbonEmitters)
	check("event objects", want.EventObjects, got.EventObjects)
	check("collision shapes", want.CollisionShapes, got.CollisionShapes)
	check("pivot points", want.PivotPoints, got.PivotPoints)
	check("cameras", want.Cameras, got.Cameras)

	buf.Reset()
	if err := (Encoder{}).Encode(&buf, got); err != nil {
		t.Fatalf("unexpected encode error: %s", err)
	}
	if !bytes.Equal(first, buf.Bytes()) {
		t.Errorf("second encoding differs from the first")
	}
}

func TestEntityErrorPath(t *testing.T) {
	m := fullModel()
	var buf bytes.Buffer
	if err := (Encoder{}).Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	b := buf.Bytes()
	// Corrupt the light type.
	i := bytes.Index(b, []byte("LITE"))
	if i < 0 {
		t.Fatal("no LITE chunk")
	}
	// Tag, chunk size, record size, node record (with two tracks).
	nodeSize := int(binary.LittleEndian.Uint32(b[i+12:]))
	off := i + 12 + nodeSize
	binary.LittleEndian.PutUint32(b[off:], 9)

	_, _, err := Decoder{}.Decode(bytes.NewReader(b))
	var ee EntityError
	if !errors.As(err, &ee) || ee.Entity != "Light" || ee.Index != 0 {
		t.Fatalf("expected Light[0] error, got %v", err)
	}
	if !strings.Contains(err.Error(), `"LITE" chunk: Light[0]: unknown light type: 9`) {
		t.Errorf("unexpected message: %s", err)
	}
}
