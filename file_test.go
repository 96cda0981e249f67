package mdlx

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	m := New()
	if m.Version != SupportedVersion {
		t.Errorf("expected version %d, got %d", SupportedVersion, m.Version)
	}
	if len(m.Bones) != 0 || len(m.Geosets) != 0 || m.Info.Name != "" {
		t.Errorf("expected empty model, got %+v", m)
	}
}

func TestAssignAttachmentIndices(t *testing.T) {
	m := New()
	m.Attachments = make([]Attachment, 3)
	for i := range m.Attachments {
		m.Attachments[i].AIndex = 99
	}
	m.AssignAttachmentIndices()
	for i, a := range m.Attachments {
		if a.AIndex != int32(i) {
			t.Errorf("attachment %d: expected index %d, got %d", i, i, a.AIndex)
		}
	}
}

func TestDefaults(t *testing.T) {
	if l := NewLayer(); l.TextureID != -1 || l.TVertexAnimID != -1 || l.Alpha != 1 {
		t.Errorf("unexpected layer defaults %+v", l)
	}
	if g := NewGeoset(); g.MaterialID != -1 || g.SelectionGroup != -1 {
		t.Errorf("unexpected geoset defaults %+v", g)
	}
	if a := NewGeosetAnim(); a.Alpha != 1 || a.Color != (Vec3{1, 1, 1}) || a.GeosetID != -1 {
		t.Errorf("unexpected geoset anim defaults %+v", a)
	}
	if n := NewNode(NodeLight); n.ParentID != -1 || n.Flags != NodeLight {
		t.Errorf("unexpected node defaults %+v", n)
	}
	p := NewParticleEmitter2()
	if !p.Flags.Has(NodeParticleEmitter) || p.TextureID != -1 || p.SegmentAlpha != [3]uint8{255, 255, 255} {
		t.Errorf("unexpected emitter defaults %+v", p)
	}
	r := NewRibbonEmitter()
	if !r.Flags.Has(NodeRibbonEmitter) || r.MaterialID != -1 || r.Alpha != 1 {
		t.Errorf("unexpected ribbon defaults %+v", r)
	}
	if a := NewAnimation[Vec4](Linear); a.GlobalSeqID != -1 || a.Keys != nil {
		t.Errorf("unexpected animation defaults %+v", a)
	}
}

func TestGeosetCheck(t *testing.T) {
	g := NewGeoset()
	g.Vertices = make([]Vec3, 3)
	g.Normals = make([]Vec3, 3)
	g.FaceTypes = []FaceType{FaceTriangles}
	g.FaceCounts = []int32{3}
	g.Faces = []uint16{0, 1, 2}
	if warn := g.Check(); len(warn) != 0 {
		t.Errorf("unexpected warnings %v", warn)
	}

	g.Normals = g.Normals[:2]
	g.FaceTypes = []FaceType{FaceTriangles, FaceQuads}
	g.FaceCounts = []int32{4}
	warn := g.Check()
	want := []string{
		"normal count 2 does not match vertex count 3",
		"face type count 2 does not match face group count 1",
		"face group 0 has 4 indices, not a multiple of 3",
		"face group 1 has type Quads, expected Triangles",
	}
	if len(warn) != len(want) {
		t.Fatalf("expected %d warnings, got %v", len(want), warn)
	}
	for i, w := range warn {
		if w.Error() != want[i] {
			t.Errorf("warning %d: want %q, got %q", i, want[i], w)
		}
	}
}

func TestParseIndent(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"tab", "\t", true},
		{"TAB2", "\t\t", true},
		{"tabs3", "", false},
		{"2", "  ", true},
		{"4spaces", "    ", true},
		{" 1 ", " ", true},
		{"0", "", false},
		{"9", "", false},
		{"wide", "", false},
	}
	for _, tt := range tests {
		got, err := ParseIndent(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("%q: want %q (ok %t), got %q, %v", tt.in, tt.want, tt.ok, got, err)
		}
	}
}

func TestParseLineEnding(t *testing.T) {
	tests := map[string]LineEnding{"": LF, "LF": LF, "cr": CR, "CrLf": CRLF}
	for in, want := range tests {
		if got, err := ParseLineEnding(in); err != nil || got != want {
			t.Errorf("%q: want %q, got %q, %v", in, want, got, err)
		}
	}
	if _, err := ParseLineEnding("nel"); err == nil {
		t.Error("expected error for unknown line ending")
	}
	if CRLF.String() != "\r\n" || LineEnding(7).String() != "\n" {
		t.Error("unexpected terminator")
	}
}

func TestFormatValidate(t *testing.T) {
	if err := DefaultFormat().Validate(); err != nil {
		t.Fatalf("default format is invalid: %s", err)
	}
	tests := []struct {
		name   string
		modify func(*Format)
		msg    string
	}{
		{"low precision", func(f *Format) { f.Precision = 0 }, "precision 0 out of range"},
		{"high precision", func(f *Format) { f.Precision = 10 }, "precision 10 out of range"},
		{"empty indent", func(f *Format) { f.Indent = "" }, "indent must not be empty"},
		{"bad indent", func(f *Format) { f.Indent = "-" }, "invalid indent"},
		{"long indent", func(f *Format) { f.Indent = strings.Repeat(" ", 9) }, "invalid indent"},
		{"line ending", func(f *Format) { f.LineEnding = 3 }, "unknown line ending"},
	}
	for _, tt := range tests {
		f := DefaultFormat()
		tt.modify(&f)
		err := f.Validate()
		if err == nil || !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%s: expected error containing %q, got %v", tt.name, tt.msg, err)
		}
	}
}
