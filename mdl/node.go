package mdl

import (
	"github.com/warcodec/mdlx"
)

// Flags of a node that are written as bare fields.
var nodeFlagNames = []struct {
	name string
	flag mdlx.NodeFlags
}{
	{"Billboarded", mdlx.Billboarded},
	{"BillboardedLockX", mdlx.BillboardedLockX},
	{"BillboardedLockY", mdlx.BillboardedLockY},
	{"BillboardedLockZ", mdlx.BillboardedLockZ},
	{"CameraAnchored", mdlx.CameraAnchored},
}

var dontInheritNames = []struct {
	name string
	flag mdlx.NodeFlags
}{
	{"Translation", mdlx.DontInheritTranslation},
	{"Rotation", mdlx.DontInheritRotation},
	{"Scaling", mdlx.DontInheritScaling},
}

func dontInherit(b *Block, names []string, line int) (mdlx.NodeFlags, error) {
	var flags mdlx.NodeFlags
next:
	for _, name := range names {
		for _, d := range dontInheritNames {
			if is(name, d.name) {
				flags |= d.flag
				continue next
			}
		}
		return 0, FieldError{Block: b.Type, Field: "DontInherit", Line: line, Cause: CoerceError{Want: "Translation, Rotation, or Scaling", Field: name, Line: line}}
	}
	return flags, nil
}

// decodeNodeStmt applies s to n if s is one of the statements shared by all
// nodes, and reports whether it did.
func decodeNodeStmt(n *mdlx.Node, b *Block, s Stmt) (bool, error) {
	var err error
	switch s := s.(type) {
	case *Field:
		c := coerce{s.Name, s.Line}
		switch {
		case is(s.Name, "ObjectId"):
			n.ObjectID, err = c.i32(&s.Value)
		case is(s.Name, "Parent"):
			n.ParentID, err = c.id(&s.Value)
		case is(s.Name, "DontInherit"):
			var names []string
			if s.Value.Kind != IntArray || len(s.Value.Ints) > 0 {
				if names, err = c.idents(&s.Value); err != nil {
					return true, err
				}
			}
			var flags mdlx.NodeFlags
			flags, err = dontInherit(b, names, s.Line)
			n.Flags |= flags
		default:
			for _, f := range nodeFlagNames {
				if is(s.Name, f.name) && s.Value.Kind == None {
					n.Flags |= f.flag
					return true, nil
				}
			}
			return false, nil
		}
	case *Block:
		switch {
		case is(s.Type, "Translation"):
			n.Translation, err = decodeAnim[mdlx.Vec3](s)
		case is(s.Type, "Rotation"):
			n.Rotation, err = decodeAnim[mdlx.Vec4](s)
		case is(s.Type, "Scaling"):
			n.Scaling, err = decodeAnim[mdlx.Vec3](s)
		case is(s.Type, "DontInherit"):
			// Written without a trailing comma, the list reads as a block.
			var names []string
			for _, st := range s.Body {
				f, ok := st.(*Field)
				if !ok || f.Value.Kind != None {
					return true, unknownStmt(s, st)
				}
				names = append(names, f.Name)
			}
			var flags mdlx.NodeFlags
			flags, err = dontInherit(b, names, s.Line)
			n.Flags |= flags
		default:
			return false, nil
		}
	default:
		return false, nil
	}
	return true, err
}

// decodeNode decodes the statements of a node-based entity. Statements not
// shared by all nodes are passed to own, which reports whether it handled
// them. Statements handled by neither are errors.
func decodeNode(n *mdlx.Node, b *Block, own func(s Stmt) (bool, error)) error {
	n.Name = b.Name
	for _, s := range b.Body {
		ok, err := decodeNodeStmt(n, b, s)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if own != nil {
			if ok, err = own(s); err != nil {
				return err
			}
		}
		if !ok {
			return unknownStmt(b, s)
		}
	}
	return nil
}

// encodeNode returns the block of a node-based entity, holding the fields
// shared by all nodes.
func encodeNode(typ string, n *mdlx.Node) *Block {
	b := NewNamedBlock(typ, n.Name)
	b.Field("ObjectId", IntValue(int64(n.ObjectID)))
	addField(b, "Parent", IntValue(int64(n.ParentID)), n.ParentID != -1)
	for _, f := range nodeFlagNames {
		addFlag(b, f.name, n.Flags.Has(f.flag))
	}
	var names []string
	for _, d := range dontInheritNames {
		if n.Flags.Has(d.flag) {
			names = append(names, d.name)
		}
	}
	addField(b, "DontInherit", IdentsValue(names...), len(names) > 0)
	addTrack(b, "Translation", n.Translation)
	addTrack(b, "Rotation", n.Rotation)
	addTrack(b, "Scaling", n.Scaling)
	return b
}

////////////////////////////////////////////////////////////////

func decodeBone(b *Block) (mdlx.Bone, error) {
	v := mdlx.Bone{Node: mdlx.NewNode(mdlx.NodeBone), GeosetID: -1, GeosetAnimID: -1}
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		f, ok := s.(*Field)
		if !ok {
			return false, nil
		}
		c := coerce{f.Name, f.Line}
		var err error
		switch {
		case is(f.Name, "GeosetId"):
			v.GeosetID, err = c.id(&f.Value)
		case is(f.Name, "GeosetAnimId"):
			v.GeosetAnimID, err = c.id(&f.Value)
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

func encodeBone(v *mdlx.Bone) *Block {
	b := encodeNode("Bone", &v.Node)
	addField(b, "GeosetId", IntValue(int64(v.GeosetID)), v.GeosetID != -1)
	addField(b, "GeosetAnimId", IntValue(int64(v.GeosetAnimID)), v.GeosetAnimID != -1)
	return b
}

func decodeHelper(b *Block) (mdlx.Helper, error) {
	v := mdlx.Helper{Node: mdlx.NewNode(mdlx.NodeHelper)}
	err := decodeNode(&v.Node, b, nil)
	return v, err
}

func encodeHelper(v *mdlx.Helper) *Block {
	return encodeNode("Helper", &v.Node)
}

func decodeAttachment(b *Block) (mdlx.Attachment, error) {
	v := mdlx.Attachment{Node: mdlx.NewNode(mdlx.NodeAttachment), AttachmentID: -1}
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "Path"):
				v.Path, err = c.str(&s.Value)
			case is(s.Name, "AttachmentID"):
				v.AttachmentID, err = c.i32(&s.Value)
			default:
				return false, nil
			}
		case *Block:
			if !is(s.Type, "Visibility") {
				return false, nil
			}
			v.Visibility, err = decodeAnim[float32](s)
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

// encodeAttachment writes the attachment id only when it differs from the
// position of the attachment.
func encodeAttachment(v *mdlx.Attachment) *Block {
	b := encodeNode("Attachment", &v.Node)
	addField(b, "AttachmentID", IntValue(int64(v.AttachmentID)), v.AttachmentID != -1 && v.AttachmentID != v.AIndex)
	addField(b, "Path", StringValue(v.Path), v.Path != "")
	addTrack(b, "Visibility", v.Visibility)
	return b
}

func decodeEventObject(b *Block) (mdlx.EventObject, error) {
	v := mdlx.EventObject{Node: mdlx.NewNode(mdlx.NodeEventObject)}
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		t, ok := s.(*Block)
		if !ok || !is(t.Type, "EventTrack") {
			return false, nil
		}
		track, err := decodeEventTrack(t)
		v.Track = track
		return true, err
	})
	return v, err
}

func decodeEventTrack(b *Block) (*mdlx.EventTrack, error) {
	t := &mdlx.EventTrack{GlobalSeqID: -1, Frames: []int32{}}
	for _, s := range b.Body {
		f, ok := s.(*Field)
		if !ok {
			return nil, unknownStmt(b, s)
		}
		c := coerce{b.Type, f.Line}
		switch {
		case is(f.Name, "GlobalSeqId"):
			id, err := c.id(&f.Value)
			if err != nil {
				return nil, err
			}
			t.GlobalSeqID = id
		case f.Name == "":
			n, err := c.i32(&f.Value)
			if err != nil {
				return nil, err
			}
			t.Frames = append(t.Frames, n)
		default:
			return nil, unknownField(b, f)
		}
	}
	return t, nil
}

func encodeEventObject(v *mdlx.EventObject) *Block {
	b := encodeNode("EventObject", &v.Node)
	if v.Track != nil {
		t := &Block{Type: "EventTrack", Counts: []int64{int64(len(v.Track.Frames))}}
		addField(t, "GlobalSeqId", IntValue(int64(v.Track.GlobalSeqID)), v.Track.GlobalSeqID != -1)
		for _, n := range v.Track.Frames {
			t.Item(IntValue(int64(n)))
		}
		b.Add(t)
	}
	return b
}

func decodeCollisionShape(b *Block) (mdlx.CollisionShape, error) {
	v := mdlx.CollisionShape{Node: mdlx.NewNode(mdlx.NodeCollisionShape), Vertices: []mdlx.Vec3{}}
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		var err error
		switch s := s.(type) {
		case *Field:
			if is(s.Name, "BoundsRadius") {
				v.BoundsRadius, err = coerce{s.Name, s.Line}.f32(&s.Value)
				return true, err
			}
			shape, ok := keyword[mdlx.ShapeType](s)
			if !ok {
				return false, nil
			}
			v.Shape = shape
		case *Block:
			if !is(s.Type, "Vertices") {
				return false, nil
			}
			v.Vertices, err = decodeItems(s, coerce.vec3)
		default:
			return false, nil
		}
		return true, err
	})
	return v, err
}

func encodeCollisionShape(v *mdlx.CollisionShape) *Block {
	b := encodeNode("CollisionShape", &v.Node)
	b.Flag(v.Shape.String())
	b.Add(encodeItems("Vertices", v.Vertices, Vec3Value))
	addField(b, "BoundsRadius", FloatValue(v.BoundsRadius), v.BoundsRadius != 0)
	return b
}

func decodeLight(b *Block) (mdlx.Light, error) {
	v := mdlx.Light{Node: mdlx.NewNode(mdlx.NodeLight)}
	err := decodeNode(&v.Node, b, func(s Stmt) (bool, error) {
		var err error
		switch s := s.(type) {
		case *Field:
			c := coerce{s.Name, s.Line}
			switch {
			case is(s.Name, "AttenuationStart"):
				v.AttenuationStart, err = c.f32(&s.Value)
			case is(s.Name, "AttenuationEnd"):
				v.AttenuationEnd, err = c.f32(&s.Value)
			case is(s.Name, "Color"):
				v.Color, err = c.vec3(&s.Value)
			case is(s.Name, "Intensity"):
				v.Intensity, err = c.f32(&s.Value)
			case is(s.Name, "AmbColor"):
				v.AmbientColor, err = c.vec3(&s.Value)
			case is(s.Name, "AmbIntensity"):
				v.AmbientIntensity, err = c.f32(&s.Value)
			default:
				t, ok := keyword[mdlx.LightType](s)
				if !ok {
					return false, nil
				}
				v.Type = t
			}
		case *Block:
			switch {
			case is(s.Type, "AttenuationStart"):
				v.AttenuationStartAnim, err = decodeAnim[float32](s)
			case is(s.Type, "AttenuationEnd"):
				v.AttenuationEndAnim, err = decodeAnim[float32](s)
			case is(s.Type, "Color"):
				v.ColorAnim, err = decodeAnim[mdlx.Vec3](s)
			case is(s.Type, "Intensity"):
				v.IntensityAnim, err = decodeAnim[float32](s)
			case is(s.Type, "AmbColor"):
				v.AmbientColorAnim, err = decodeAnim[mdlx.Vec3](s)
			case is(s.Type, "AmbIntensity"):
				v.AmbientIntensityAnim, err = decodeAnim[float32](s)
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

func encodeLight(v *mdlx.Light) *Block {
	b := encodeNode("Light", &v.Node)
	b.Flag(v.Type.String())
	addBoth(b, "AttenuationStart", v.AttenuationStart, 0, v.AttenuationStartAnim)
	addBoth(b, "AttenuationEnd", v.AttenuationEnd, 0, v.AttenuationEndAnim)
	addBoth(b, "Color", v.Color, mdlx.Vec3{}, v.ColorAnim)
	addBoth(b, "Intensity", v.Intensity, 0, v.IntensityAnim)
	addBoth(b, "AmbColor", v.AmbientColor, mdlx.Vec3{}, v.AmbientColorAnim)
	addBoth(b, "AmbIntensity", v.AmbientIntensity, 0, v.AmbientIntensityAnim)
	addTrack(b, "Visibility", v.Visibility)
	return b
}
