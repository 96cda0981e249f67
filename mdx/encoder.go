package mdx

import (
	"io"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
)

// Encoder encodes an mdlx.Model into a stream of bytes.
type Encoder struct{}

// Encode writes model to w according to the MDX format. Collections that are
// empty produce no chunk.
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

	b := newWriter()
	b.tag(magic)
	b.chunk(tagVERS, func(w *writer) { w.i32(model.Version) })
	b.chunk(tagMODL, func(w *writer) { writeModelInfo(w, &model.Info) })
	writeFlat(b, tagSEQS, model.Sequences, writeSequence)
	writeFlat(b, tagGLBS, model.GlobalSequences, writeGlobalSequence)
	writeFlat(b, tagTEXS, model.Textures, writeTexture)
	writeSized(b, tagMTLS, model.Materials, writeMaterial)
	writeSized(b, tagTXAN, model.TextureAnims, writeTextureAnim)
	writeSized(b, tagGEOS, model.Geosets, writeGeoset)
	writeSized(b, tagGEOA, model.GeosetAnims, writeGeosetAnim)
	writeFlat(b, tagBONE, model.Bones, writeBone)
	writeFlat(b, tagHELP, model.Helpers, writeHelper)
	writeSized(b, tagATCH, model.Attachments, writeAttachment)
	writeFlat(b, tagCLID, model.CollisionShapes, writeCollisionShape)
	writeSized(b, tagLITE, model.Lights, writeLight)
	writeFlat(b, tagEVTS, model.EventObjects, writeEventObject)
	writeSized(b, tagPREM, model.ParticleEmitters, writeParticleEmitter)
	writeSized(b, tagPRE2, model.ParticleEmitter2s, writeParticleEmitter2)
	writeSized(b, tagRIBB, model.RibbonEmitters, writeRibbonEmitter)
	writeFlat(b, tagPIVT, model.PivotPoints, writePivot)
	writeSized(b, tagCAMS, model.Cameras, writeCamera)
	if err := b.Err(); err != nil {
		return CodecError{Cause: err}
	}

	if _, err := w.Write(b.Bytes()); err != nil {
		return errors.New("error encoding format: " + err.Error())
	}
	return nil
}

// writeFlat writes a chunk of entities with no size prefix.
func writeFlat[T any](w *writer, t Tag, list []T, write func(*writer, *T)) {
	if len(list) == 0 {
		return
	}
	w.chunk(t, func(w *writer) {
		for i := range list {
			write(w, &list[i])
		}
	})
}

// writeSized writes a chunk of entities that are each prefixed by an
// inclusive size.
func writeSized[T any](w *writer, t Tag, list []T, write func(*writer, *T)) {
	if len(list) == 0 {
		return
	}
	w.chunk(t, func(w *writer) {
		for i := range list {
			w.record(func(w *writer) { write(w, &list[i]) })
		}
	})
}
