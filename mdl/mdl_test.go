package mdl

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
)

const header = "Version {\n\tFormatVersion 800,\n}\n"

func decodeString(t *testing.T, d Decoder, s string) (*mdlx.Model, error, error) {
	t.Helper()
	return d.Decode(strings.NewReader(s))
}

func encodeString(t *testing.T, e Encoder, m *mdlx.Model) string {
	t.Helper()
	var buf bytes.Buffer
	if err := e.Encode(&buf, m); err != nil {
		t.Fatalf("unexpected encode error: %s", err)
	}
	return buf.String()
}

func TestBoneFragment(t *testing.T) {
	m, warn, err := decodeString(t, Decoder{}, header+`Bone "Root" { ObjectId 0, }`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn != nil {
		t.Errorf("unexpected warnings: %s", warn)
	}
	if len(m.Bones) != 1 {
		t.Fatalf("expected 1 bone, got %d", len(m.Bones))
	}
	b := m.Bones[0]
	if b.Name != "Root" || b.ObjectID != 0 || b.ParentID != -1 {
		t.Errorf("unexpected node %+v", b.Node)
	}
	if b.Translation != nil || b.Rotation != nil || b.Scaling != nil {
		t.Errorf("expected no tracks")
	}
	if b.GeosetID != -1 || b.GeosetAnimID != -1 {
		t.Errorf("expected default geoset ids, got %d %d", b.GeosetID, b.GeosetAnimID)
	}
	if !b.Flags.Has(mdlx.NodeBone) {
		t.Errorf("expected bone flag")
	}

	out := encodeString(t, Encoder{}, m)
	want := "Bone \"Root\" {\n\tObjectId 0,\n}\n"
	if !strings.Contains(out, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, out)
	}
	if strings.Contains(out, "Parent") {
		t.Errorf("unexpected Parent line:\n%s", out)
	}
	if !strings.HasPrefix(out, header) {
		t.Errorf("expected output to begin with version block, got:\n%s", out)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		v         float32
		precision int
		want      string
	}{
		{0, 6, "0"},
		{1, 6, "1"},
		{100, 6, "100"},
		{0.5, 6, "0.5"},
		{-2.5, 6, "-2.5"},
		{0.2, 6, "0.2"},
		{0.123456789, 3, "0.123"},
		{-0.0000001, 6, "0"},
		{0.0000001, 6, "0"},
		{1e20, 6, "1e20"},
	}
	for _, tt := range tests {
		if got := FormatFloat(tt.v, tt.precision); got != tt.want {
			t.Errorf("FormatFloat(%g, %d): want %q, got %q", tt.v, tt.precision, tt.want, got)
		}
	}
}

func TestParse(t *testing.T) {
	src := `// comment
Foo "name" 2 {
	Ints { 1, 2, 3 },
	Floats { 1, 2.5 },
	Idents { A, B },
	Empty { },
	Sub {
		A,
	}
	Counted 2 {
	}
	Flag,
	Value Linear,
	Str "a\"b",
	static Alpha 0.5,
	10: { 1, 2 },
		InTan { 0, 0 },
		OutTan { 1, 1 },
	{ 4, 5 },
}
`
	root, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if len(root.Body) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(root.Body))
	}
	foo, ok := root.Body[0].(*Block)
	if !ok {
		t.Fatalf("expected block, got %T", root.Body[0])
	}
	if foo.Type != "Foo" || !foo.Named || foo.Name != "name" || !reflect.DeepEqual(foo.Counts, []int64{2}) || foo.Line != 2 {
		t.Errorf("unexpected header %+v", foo)
	}

	field := func(i int) *Field {
		t.Helper()
		f, ok := foo.Body[i].(*Field)
		if !ok {
			t.Fatalf("statement %d: expected field, got %T", i, foo.Body[i])
		}
		return f
	}
	block := func(i int) *Block {
		t.Helper()
		b, ok := foo.Body[i].(*Block)
		if !ok {
			t.Fatalf("statement %d: expected block, got %T", i, foo.Body[i])
		}
		return b
	}

	if f := field(0); f.Value.Kind != IntArray || !reflect.DeepEqual(f.Value.Ints, []int64{1, 2, 3}) {
		t.Errorf("Ints: unexpected value %+v", f.Value)
	}
	if f := field(1); f.Value.Kind != FloatArray || !reflect.DeepEqual(f.Value.Floats, []float64{1, 2.5}) {
		t.Errorf("Floats: unexpected value %+v", f.Value)
	}
	if f := field(2); f.Value.Kind != IdentArray || !reflect.DeepEqual(f.Value.Idents, []string{"A", "B"}) {
		t.Errorf("Idents: unexpected value %+v", f.Value)
	}
	if f := field(3); f.Value.Kind != IntArray || len(f.Value.Ints) != 0 {
		t.Errorf("Empty: unexpected value %+v", f.Value)
	}
	if b := block(4); b.Type != "Sub" || len(b.Body) != 1 {
		t.Errorf("Sub: unexpected block %+v", b)
	}
	if b := block(5); b.Type != "Counted" || !reflect.DeepEqual(b.Counts, []int64{2}) {
		t.Errorf("Counted: unexpected block %+v", b)
	}
	if f := field(6); f.Name != "Flag" || f.Value.Kind != None {
		t.Errorf("Flag: unexpected field %+v", f)
	}
	if f := field(7); f.Value.Kind != Ident || f.Value.Str != "Linear" {
		t.Errorf("Value: unexpected value %+v", f.Value)
	}
	if f := field(8); f.Value.Kind != String || f.Value.Str != `a"b` {
		t.Errorf("Str: unexpected value %+v", f.Value)
	}
	if f := field(9); !f.Static || f.Name != "Alpha" || f.Value.Kind != Float || f.Value.Float != 0.5 {
		t.Errorf("static: unexpected field %+v", f)
	}
	fr, ok := foo.Body[10].(*Frame)
	if !ok {
		t.Fatalf("expected frame, got %T", foo.Body[10])
	}
	if fr.Frame != 10 || fr.InTan == nil || fr.OutTan == nil || fr.Line != 16 {
		t.Errorf("unexpected frame %+v", fr)
	}
	if f := field(11); f.Name != "" || f.Value.Kind != IntArray {
		t.Errorf("item: unexpected field %+v", f)
	}
}

func TestSyntaxError(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"Foo {\n", 2},
		{"Foo {\n\tName \"abc\n}\n", 2},
		{"Foo {\n}\n}\n", 3},
		{"Foo {\n\t@\n}\n", 2},
	}
	for _, tt := range tests {
		_, err := Parse([]byte(tt.src))
		var se SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: expected SyntaxError, got %v", tt.src, err)
			continue
		}
		if se.Line != tt.line {
			t.Errorf("%q: expected line %d, got %d (%s)", tt.src, tt.line, se.Line, se)
		}
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`Textures\Footman.blp`, `"Textures\Footman.blp"`},
		{`say "hi"`, `"say \"hi\""`},
		{`a\\b`, `"a\\\b"`},
		{`end\`, `"end\\"`},
	}
	for _, tt := range tests {
		got := quote(tt.in)
		if got != tt.want {
			t.Errorf("quote(%q): want %s, got %s", tt.in, tt.want, got)
		}
		root, err := Parse([]byte("X " + got + ","))
		if err != nil {
			t.Errorf("%s: unexpected error: %s", got, err)
			continue
		}
		if f := root.Body[0].(*Field); f.Value.Str != tt.in {
			t.Errorf("%s: read back %q", got, f.Value.Str)
		}
	}
}

func TestTangentErrors(t *testing.T) {
	missing := header + `Bone "B" {
	ObjectId 0,
	Translation 1 {
		Hermite,
		0: { 0, 0, 0 },
	}
}
`
	_, _, err := decodeString(t, Decoder{}, missing)
	if !errors.Is(err, ErrMissingTangent) {
		t.Fatalf("expected ErrMissingTangent, got %v", err)
	}
	for _, s := range []string{"Bone[0] at line 4", "InTan (in Translation) at line 8"} {
		if !strings.Contains(err.Error(), s) {
			t.Errorf("expected error to contain %q, got %q", s, err)
		}
	}

	unexpected := header + `Bone "B" {
	ObjectId 0,
	Rotation 1 {
		Linear,
		0: { 0, 0, 0, 1 },
			OutTan { 0, 0, 0, 1 },
	}
}
`
	_, _, err = decodeString(t, Decoder{}, unexpected)
	if !errors.Is(err, ErrUnexpectedTangent) {
		t.Fatalf("expected ErrUnexpectedTangent, got %v", err)
	}
	if !strings.Contains(err.Error(), "OutTan (in Rotation)") {
		t.Errorf("unexpected message %q", err)
	}
}

func TestUnknownStatements(t *testing.T) {
	_, _, err := decodeString(t, Decoder{}, header+"Bone \"B\" {\n\tObjectId 0,\n\tFoo 1,\n}\n")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField, got %v", err)
	} else if !strings.Contains(err.Error(), "Foo (in Bone) at line 6") {
		t.Errorf("unexpected message %q", err)
	}

	_, _, err = decodeString(t, Decoder{}, header+"Helper \"H\" {\n\tSpin 1 {\n\t}\n}\n")
	if !errors.Is(err, ErrUnknownBlock) {
		t.Errorf("expected ErrUnknownBlock, got %v", err)
	}

	_, _, err = decodeString(t, Decoder{}, header+"Bone \"B\" {\n\tTranslation 0 {\n\t\tLinear,\n\t\tSmooth,\n\t}\n}\n")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("expected ErrUnknownField for interpolation, got %v", err)
	}

	m, warn, err := decodeString(t, Decoder{}, header+"Extra 1 {\n}\n")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if m == nil {
		t.Fatalf("expected model")
	}
	if !errors.Is(warn, ErrUnknownBlock) {
		t.Errorf("expected unknown block warning, got %v", warn)
	}
}

func TestCoerceError(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"Bone \"B\" {\n\tObjectId \"x\",\n}\n", "expected integer for ObjectId at line 5"},
		{"Helper \"H\" {\n\tObjectId 0,\n\tParent 1.5,\n}\n", "expected integer for Parent at line 6"},
		{"Materials 1 {\n\tMaterial {\n\t\tLayer {\n\t\t\tFilterMode Glow,\n\t\t}\n\t}\n}\n", "expected filter mode for FilterMode at line 7"},
		{"PivotPoints 1 {\n\t{ 1, 2 },\n}\n", "expected Vec3 for PivotPoints at line 5"},
		{"Sequences 1 {\n\tAnim \"Stand\" {\n\t\tInterval { 0 },\n\t}\n}\n", "expected integer array of 2 elements for Interval at line 6"},
	}
	for _, tt := range tests {
		_, _, err := decodeString(t, Decoder{}, header+tt.src)
		var ce CoerceError
		if !errors.As(err, &ce) {
			t.Errorf("%q: expected CoerceError, got %v", tt.src, err)
			continue
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: expected %q, got %q", tt.src, tt.want, err)
		}
	}
}

func TestVersionGate(t *testing.T) {
	for _, src := range []string{
		`Model "x" { BlendTime 150, }`,
		"Version {\n\tFormatVersion 900,\n}\n",
	} {
		m, _, err := decodeString(t, Decoder{}, src)
		if m != nil {
			t.Errorf("%q: expected no model", src)
		}
		var ve ErrUnrecognizedVersion
		if !errors.As(err, &ve) {
			t.Errorf("%q: expected ErrUnrecognizedVersion, got %v", src, err)
		}
	}
	if err := (Encoder{}).Encode(&bytes.Buffer{}, &mdlx.Model{Version: 900}); err == nil {
		t.Errorf("expected error encoding version 900")
	}
}

func TestForceRGB(t *testing.T) {
	m := mdlx.New()
	a := mdlx.NewGeosetAnim()
	a.Flags = mdlx.GeosetAnimUseColor
	a.Color = mdlx.Vec3{X: 0.25, Y: 0.5, Z: 0.75}
	m.GeosetAnims = []mdlx.GeosetAnim{a}

	plain := encodeString(t, Encoder{}, m)
	if !strings.Contains(plain, "static Color { 0.25, 0.5, 0.75 },") {
		t.Errorf("expected wire order color, got:\n%s", plain)
	}

	f := mdlx.DefaultFormat()
	f.ForceRGB = true
	rgb := encodeString(t, Encoder{Format: f}, m)
	if !strings.Contains(rgb, "static Color { 0.75, 0.5, 0.25 },") {
		t.Errorf("expected swapped color, got:\n%s", rgb)
	}

	got, _, err := decodeString(t, Decoder{Format: f}, rgb)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got.GeosetAnims[0].Color != a.Color {
		t.Errorf("expected %v, got %v", a.Color, got.GeosetAnims[0].Color)
	}
}

func TestLineEnding(t *testing.T) {
	f := mdlx.DefaultFormat()
	f.LineEnding = mdlx.CRLF
	f.Indent = "  "
	out := encodeString(t, Encoder{Format: f}, mdlx.New())
	want := "Version {\r\n  FormatVersion 800,\r\n}\r\nModel \"\" {\r\n  BlendTime 0,\r\n}\r\n"
	if out != want {
		t.Errorf("want %q, got %q", want, out)
	}
	if _, _, err := decodeString(t, Decoder{}, out); err != nil {
		t.Errorf("unexpected error reading CRLF text: %s", err)
	}

	f.Precision = 0
	if err := (Encoder{Format: f}).Encode(&bytes.Buffer{}, mdlx.New()); err == nil {
		t.Errorf("expected error for invalid precision")
	}
}

func TestGeosetWarnings(t *testing.T) {
	src := header + `Geoset {
	Vertices 4 {
		{ 0, 0, 0 },
		{ 1, 0, 0 },
		{ 1, 1, 0 },
		{ 0, 1, 0 },
	}
	Faces 1 4 {
		Quads {
			{ 0, 1, 2, 3 },
		}
	}
	VertexGroup {
		0,
		0,
		0,
		0,
	}
	Unselectable,
}
`
	m, warn, err := decodeString(t, Decoder{}, src)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if warn == nil || !strings.Contains(warn.Error(), "Geoset[0]") {
		t.Errorf("expected geoset warning, got %v", warn)
	}
	g := m.Geosets[0]
	if len(g.Vertices) != 4 || !reflect.DeepEqual(g.FaceTypes, []mdlx.FaceType{mdlx.FaceQuads}) || !reflect.DeepEqual(g.Faces, []uint16{0, 1, 2, 3}) {
		t.Errorf("unexpected geoset %+v", g)
	}
	if !reflect.DeepEqual(g.VertexGroups, []uint8{0, 0, 0, 0}) {
		t.Errorf("unexpected vertex groups %v", g.VertexGroups)
	}
	if g.SelectionFlags != mdlx.Unselectable || g.MaterialID != -1 {
		t.Errorf("unexpected selection %d, material %d", g.SelectionFlags, g.MaterialID)
	}
}

////////////////////////////////////////////////////////////////

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

// textModel returns a model using every entity, holding only values that the
// text encoding preserves.
func textModel() *mdlx.Model {
	m := mdlx.New()
	m.Info = mdlx.ModelInfo{Name: "Footman", Extent: mdlx.Extent{BoundsRadius: 50, Max: mdlx.Vec3{Z: 100}}, BlendTime: 150}
	m.Sequences = []mdlx.Sequence{
		{Name: "Stand", Start: 0, End: 1000, Rarity: 1},
		{Name: "Walk", Start: 1100, End: 2000, MoveSpeed: 270, NonLooping: true, Extent: mdlx.Extent{BoundsRadius: 10}},
	}
	m.GlobalSequences = []mdlx.GlobalSequence{{Duration: 3000}, {Duration: 0}}
	m.Textures = []mdlx.Texture{
		{Path: `Textures\Footman.blp`, Flags: mdlx.TextureWrapWidth | mdlx.TextureWrapHeight},
		{ReplaceableID: 1},
	}
	m.Materials = []mdlx.Material{
		{PriorityPlane: 1, Flags: mdlx.MaterialConstantColor, Layers: []mdlx.Layer{
			{FilterMode: mdlx.FilterBlend, Flags: mdlx.LayerTwoSided, TextureID: 0, TVertexAnimID: -1, Alpha: 1,
				AlphaAnim: track[float32](mdlx.Linear, 0, 1)},
			{FilterMode: mdlx.FilterAdditive, TextureID: 1, TVertexAnimID: 0, CoordID: 1, Alpha: 0.5,
				TextureIDAnim: track[int32](mdlx.DontInterp, 0, 1)},
		}},
		{Layers: []mdlx.Layer{}},
	}
	m.TextureAnims = []mdlx.TextureAnim{{
		Translation: track(mdlx.Linear, mdlx.Vec3{X: 1}),
		Rotation:    track(mdlx.Bezier, mdlx.Vec4{W: 1}),
	}}
	m.Geosets = []mdlx.Geoset{{
		Vertices:          []mdlx.Vec3{{}, {X: 1}, {Y: 1}},
		Normals:           []mdlx.Vec3{{Z: 1}, {Z: 1}, {Z: 1}},
		UVs:               [][]mdlx.Vec2{{{}, {X: 1}, {Y: 1}}},
		FaceTypes:         []mdlx.FaceType{mdlx.FaceTriangles},
		FaceCounts:        []int32{3},
		Faces:             []uint16{0, 1, 2},
		VertexGroups:      []uint8{0, 0, 0},
		MatrixGroupCounts: []int32{1},
		MatrixIndices:     []int32{0},
		MaterialID:        0,
		SelectionGroup:    0,
		Extent:            mdlx.Extent{BoundsRadius: 1, Max: mdlx.Vec3{X: 1, Y: 1}},
		AnimExtents:       []mdlx.Extent{{BoundsRadius: 1}, {BoundsRadius: 2}},
	}}
	m.GeosetAnims = []mdlx.GeosetAnim{{
		Alpha: 1, Flags: mdlx.GeosetAnimUseColor | mdlx.GeosetAnimDropShadow, Color: mdlx.Vec3{X: 0.2, Y: 0.4, Z: 0.6}, GeosetID: 0,
		AlphaAnim: track[float32](mdlx.DontInterp),
	}}

	root := mdlx.NewNode(mdlx.NodeBone)
	root.Name = "Root"
	root.Flags |= mdlx.DontInheritRotation | mdlx.Billboarded
	root.Translation = track(mdlx.Hermite, mdlx.Vec3{Z: 1}, mdlx.Vec3{Z: 2})
	root.Rotation = track(mdlx.Linear, mdlx.Vec4{W: 1})
	root.Scaling = track(mdlx.Linear, mdlx.Vec3{X: 1, Y: 1, Z: 1})
	root.Scaling.GlobalSeqID = 0
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
		{Node: node("Origin Ref", 3, mdlx.NodeAttachment), AttachmentID: -1, Visibility: track[float32](mdlx.DontInterp, 1)},
		{Node: node("Head Ref", 4, mdlx.NodeAttachment), Path: "Head.mdl", AttachmentID: 5},
	}
	m.ParticleEmitters = []mdlx.ParticleEmitter{{
		Node: node("Emitter", 5, mdlx.NodeParticleEmitter|mdlx.NodeEmitterUsesMDL),
		EmissionRate: 10, Gravity: 1, Longitude: 0.5, Latitude: 0.25, Path: "Spark.mdl", LifeSpan: 2, Speed: 30,
		SpeedAnim: track[float32](mdlx.Linear, 30, 60),
	}}
	pe2 := mdlx.NewParticleEmitter2()
	pe2.Node = node("Emitter2", 6, mdlx.NodeParticleEmitter|mdlx.NodeUnshaded|mdlx.NodeXYQuad)
	pe2.FilterMode = mdlx.ParticleAdditive
	pe2.HeadOrTail = mdlx.Both
	pe2.SegmentColor[1] = mdlx.Vec3{X: 1, Y: 0.5, Z: 0.25}
	pe2.SegmentAlpha = [3]uint8{0, 255, 0}
	pe2.SegmentScaling = [3]float32{1, 2, 3}
	pe2.HeadLife = mdlx.UVAnim{Start: 0, End: 3, Repeat: 1}
	pe2.TailDecay = mdlx.UVAnim{Start: 4, End: 7, Repeat: 2}
	pe2.Squirt = true
	pe2.Rows, pe2.Columns = 4, 4
	pe2.TextureID = 0
	pe2.LifeSpan, pe2.TailLength, pe2.Time = 1, 0.5, 0.25
	pe2.Speed, pe2.Width = 100, 20
	pe2.EmissionRateAnim = track[float32](mdlx.Linear, 0, 100)
	m.ParticleEmitter2s = []mdlx.ParticleEmitter2{pe2}
	ribbon := mdlx.NewRibbonEmitter()
	ribbon.Node = node("Ribbon", 7, mdlx.NodeRibbonEmitter)
	ribbon.Color = mdlx.Vec3{X: 1, Y: 0, Z: 0.5}
	ribbon.EmissionRate = 30
	ribbon.HeightAbove = 10
	ribbon.MaterialID = 0
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
		TargetPosition:    mdlx.Vec3{Z: 50},
		Rotation:          track[float32](mdlx.Linear, 0, 1),
		TargetTranslation: track(mdlx.Hermite, mdlx.Vec3{Z: 50}),
	}}
	m.AssignAttachmentIndices()
	return m
}

func TestRoundTrip(t *testing.T) {
	want := textModel()
	first := encodeString(t, Encoder{}, want)

	got, warn, err := decodeString(t, Decoder{}, first)
	if err != nil {
		t.Fatalf("unexpected decode error: %s\n%s", err, first)
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

	second := encodeString(t, Encoder{}, got)
	if first != second {
		t.Errorf("re-encoding differs:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
}

func TestEncodeLayout(t *testing.T) {
	out := encodeString(t, Encoder{}, textModel())
	for _, s := range []string{
		"Sequences 2 {\n\tAnim \"Stand\" {\n\t\tInterval { 0, 1000 },\n\t\tRarity 1,\n\t}\n",
		"\t\tNonLooping,\n",
		"GlobalSequences 2 {\n\tDuration 3000,\n\tDuration 0,\n}\n",
		"\tBitmap {\n\t\tImage \"Textures\\Footman.blp\",\n\t\tWrapWidth,\n\t\tWrapHeight,\n\t}\n",
		"\t\t\tstatic TextureID 1,\n",
		"\tTranslation 2 {\n\t\tHermite,\n\t\t0: { 0, 0, 1 },\n\t\t\tInTan { 0, 0, 1 },\n\t\t\tOutTan { 0, 0, 1 },\n",
		"\tScaling 1 {\n\t\tLinear,\n\t\tGlobalSeqId 0,\n",
		"\tDontInherit { Rotation },\n",
		"\tFaces 1 3 {\n\t\tTriangles {\n\t\t\t{ 0, 1, 2 },\n\t\t}\n\t}\n",
		"\tGroups 1 1 {\n\t\tMatrices { 0 },\n\t}\n",
		"\tEventTrack 2 {\n\t\t100,\n\t\t500,\n\t}\n",
		"\tBox,\n\tVertices 2 {\n",
		"PivotPoints 3 {\n\t{ 0, 0, 0 },\n",
		"Camera \"Portrait\" {\n\tPosition { 100, 0, 0 },\n",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("expected output to contain %q", s)
		}
	}
	if strings.Contains(out, "AttachmentID 0") {
		t.Errorf("attachment id equal to its index should be omitted")
	}
	if !strings.Contains(out, "AttachmentID 5,") {
		t.Errorf("attachment id different from its index should be written")
	}
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("expected trailing newline")
	}
}
