package mdl

import (
	"fmt"
	"io"
	"strings"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
)

// Decoder decodes a stream of text into an mdlx.Model.
type Decoder struct {
	// Format controls how colors of geoset animations are read.
	Format mdlx.Format
}

// Decode reads text from r and decodes it into a model according to the MDL
// format.
//
// Top-level blocks that are not understood, and structural inconsistencies
// that do not prevent the model from being decoded, are returned as
// warnings. If err is not nil, no model is returned.
func (d Decoder) Decode(r io.Reader) (model *mdlx.Model, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}
	var doc Document
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, nil, err
	}

	var warns errors.Errors
	model = &mdlx.Model{}
	counts := map[string]int{}
	for _, s := range doc.Root.Body {
		b, ok := s.(*Block)
		if !ok {
			warns = warns.Append(unknownStmt(doc.Root, s))
			continue
		}
		name := canonicalBlock(b.Type)
		i := counts[name]
		counts[name]++
		w, err := d.decodeBlock(model, b, i)
		warns = warns.Append(w...)
		if err != nil {
			if _, ok := err.(ErrUnrecognizedVersion); ok {
				return nil, warns.Return(), err
			}
			return nil, warns.Return(), EntityError{Entity: name, Index: i, Line: b.Line, Cause: err}
		}
	}
	if model.Version != mdlx.SupportedVersion {
		return nil, warns.Return(), ErrUnrecognizedVersion(model.Version)
	}
	model.AssignAttachmentIndices()
	return model, warns.Return(), nil
}

// Keywords of the top-level blocks.
var blockNames = []string{
	"Version", "Model", "Sequences", "GlobalSequences", "Textures", "Materials",
	"TextureAnims", "Geoset", "GeosetAnim", "Bone", "Light", "Helper",
	"Attachment", "ParticleEmitter", "ParticleEmitter2", "RibbonEmitter",
	"EventObject", "CollisionShape", "PivotPoints", "Camera",
}

// canonicalBlock returns the keyword matching typ, or typ itself.
func canonicalBlock(typ string) string {
	for _, name := range blockNames {
		if strings.EqualFold(name, typ) {
			return name
		}
	}
	return typ
}

// collect decodes the sub-blocks of b that have the given type, and ignores
// all other statements.
func collect[T any](b *Block, typ string, list []T, decode func(*Block) (T, error)) ([]T, error) {
	for _, s := range b.Body {
		sub, ok := s.(*Block)
		if !ok || !is(sub.Type, typ) {
			continue
		}
		v, err := decode(sub)
		if err != nil {
			return list, err
		}
		list = append(list, v)
	}
	return list, nil
}

// decodeBlock decodes one top-level block into model. Version and Model
// replace the current value, and all others append to it.
func (d Decoder) decodeBlock(model *mdlx.Model, b *Block, i int) (warn errors.Errors, err error) {
	switch canonicalBlock(b.Type) {
	case "Version":
		if model.Version, err = decodeVersion(b); err == nil && model.Version != mdlx.SupportedVersion {
			return nil, ErrUnrecognizedVersion(model.Version)
		}
	case "Model":
		model.Info, err = decodeModelInfo(b)
	case "Sequences":
		model.Sequences, err = collect(b, "Anim", model.Sequences, decodeSequence)
	case "GlobalSequences":
		var list []mdlx.GlobalSequence
		list, err = decodeGlobalSequences(b)
		model.GlobalSequences = append(model.GlobalSequences, list...)
	case "Textures":
		model.Textures, err = collect(b, "Bitmap", model.Textures, decodeTexture)
	case "Materials":
		model.Materials, err = collect(b, "Material", model.Materials, decodeMaterial)
	case "TextureAnims":
		model.TextureAnims, err = collect(b, "TVertexAnim", model.TextureAnims, decodeTextureAnim)
	case "Geoset":
		var g mdlx.Geoset
		if g, err = decodeGeoset(b); err != nil {
			return nil, err
		}
		model.Geosets = append(model.Geosets, g)
		return errors.Prefix(fmt.Sprintf("Geoset[%d]", i), g.Check()...), nil
	case "GeosetAnim":
		var a mdlx.GeosetAnim
		a, err = decodeGeosetAnim(b, d.Format.ForceRGB)
		model.GeosetAnims = append(model.GeosetAnims, a)
	case "Bone":
		err = decodeInto(b, &model.Bones, decodeBone)
	case "Light":
		err = decodeInto(b, &model.Lights, decodeLight)
	case "Helper":
		err = decodeInto(b, &model.Helpers, decodeHelper)
	case "Attachment":
		err = decodeInto(b, &model.Attachments, decodeAttachment)
	case "ParticleEmitter":
		err = decodeInto(b, &model.ParticleEmitters, decodeParticleEmitter)
	case "ParticleEmitter2":
		err = decodeInto(b, &model.ParticleEmitter2s, decodeParticleEmitter2)
	case "RibbonEmitter":
		err = decodeInto(b, &model.RibbonEmitters, decodeRibbonEmitter)
	case "EventObject":
		err = decodeInto(b, &model.EventObjects, decodeEventObject)
	case "CollisionShape":
		err = decodeInto(b, &model.CollisionShapes, decodeCollisionShape)
	case "PivotPoints":
		var list []mdlx.Vec3
		list, err = decodeItems(b, coerce.vec3)
		model.PivotPoints = append(model.PivotPoints, list...)
	case "Camera":
		err = decodeInto(b, &model.Cameras, decodeCamera)
	default:
		return errors.Errors{fmt.Errorf("line %d: %w %q", b.Line, ErrUnknownBlock, b.Type)}, nil
	}
	return nil, err
}

// decodeInto decodes b and appends the result to list.
func decodeInto[T any](b *Block, list *[]T, decode func(*Block) (T, error)) error {
	v, err := decode(b)
	if err != nil {
		return err
	}
	*list = append(*list, v)
	return nil
}

////////////////////////////////////////////////////////////////

// Encoder encodes an mdlx.Model into a stream of text.
type Encoder struct {
	// Format controls the layout of the text.
	Format mdlx.Format
}

// Encode formats model according to the MDL format and writes the result to
// w. The zero Format is replaced by mdlx.DefaultFormat.
func (e Encoder) Encode(w io.Writer, model *mdlx.Model) error {
	if w == nil {
		return errors.New("nil writer")
	}
	if model == nil {
		return errors.New("nil model")
	}
	if model.Version != mdlx.SupportedVersion {
		return ErrUnrecognizedVersion(model.Version)
	}
	f := e.Format
	if f == (mdlx.Format{}) {
		f = mdlx.DefaultFormat()
	}
	if err := f.Validate(); err != nil {
		return err
	}
	doc := Document{Root: EncodeModel(model, f), Format: f}
	_, err := doc.WriteTo(w)
	return err
}

// EncodeModel returns the root block of the text form of model.
func EncodeModel(model *mdlx.Model, f mdlx.Format) *Block {
	root := &Block{}
	root.Add(encodeVersion(model.Version))
	root.Add(encodeModelInfo(&model.Info))
	if len(model.Sequences) > 0 {
		root.Add(encodeList("Sequences", model.Sequences, encodeSequence))
	}
	if len(model.GlobalSequences) > 0 {
		root.Add(encodeGlobalSequences(model.GlobalSequences))
	}
	if len(model.Textures) > 0 {
		root.Add(encodeList("Textures", model.Textures, encodeTexture))
	}
	if len(model.Materials) > 0 {
		root.Add(encodeList("Materials", model.Materials, encodeMaterial))
	}
	if len(model.TextureAnims) > 0 {
		root.Add(encodeList("TextureAnims", model.TextureAnims, encodeTextureAnim))
	}
	for i := range model.Geosets {
		root.Add(encodeGeoset(&model.Geosets[i]))
	}
	for i := range model.GeosetAnims {
		root.Add(encodeGeosetAnim(&model.GeosetAnims[i], f.ForceRGB))
	}
	encodeEach(root, model.Bones, encodeBone)
	encodeEach(root, model.Lights, encodeLight)
	encodeEach(root, model.Helpers, encodeHelper)
	encodeEach(root, model.Attachments, encodeAttachment)
	encodeEach(root, model.ParticleEmitters, encodeParticleEmitter)
	encodeEach(root, model.ParticleEmitter2s, encodeParticleEmitter2)
	encodeEach(root, model.RibbonEmitters, encodeRibbonEmitter)
	encodeEach(root, model.EventObjects, encodeEventObject)
	encodeEach(root, model.CollisionShapes, encodeCollisionShape)
	if len(model.PivotPoints) > 0 {
		root.Add(encodeItems("PivotPoints", model.PivotPoints, Vec3Value))
	}
	encodeEach(root, model.Cameras, encodeCamera)
	return root
}

// encodeList returns a block holding the blocks of each entity in list, with
// the number of entities as its count.
func encodeList[T any](name string, list []T, encode func(*T) *Block) *Block {
	b := &Block{Type: name, Counts: []int64{int64(len(list))}}
	for i := range list {
		b.Add(encode(&list[i]))
	}
	return b
}

// encodeEach appends the block of each entity in list to root.
func encodeEach[T any](root *Block, list []T, encode func(*T) *Block) {
	for i := range list {
		root.Add(encode(&list[i]))
	}
}
