package mdx

import (
	"fmt"
	"io"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
)

// Decoder decodes a stream of bytes into an mdlx.Model.
type Decoder struct{}

// Decode reads data from r and decodes it into a model according to the MDX
// format.
//
// Warnings are returned for structural inconsistencies that do not prevent
// the model from being decoded. If err is not nil, no model is returned.
func (d Decoder) Decode(r io.Reader) (model *mdlx.Model, warn, err error) {
	if r == nil {
		return nil, nil, errors.New("nil reader")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := splitChunks(data)
	if err != nil {
		return nil, nil, err
	}

	var warns errors.Errors
	model = &mdlx.Model{}
	for i, ch := range chunks {
		w, err := decodeChunk(model, ch)
		warns = warns.Append(w...)
		if err != nil {
			if _, ok := err.(ErrUnrecognizedVersion); ok {
				return nil, warns.Return(), err
			}
			return nil, warns.Return(), ChunkError{Index: i, Tag: ch.Tag, Cause: err}
		}
	}
	if model.Version != mdlx.SupportedVersion {
		return nil, warns.Return(), ErrUnrecognizedVersion(model.Version)
	}
	model.AssignAttachmentIndices()
	return model, warns.Return(), nil
}

// rawChunk is a top-level chunk whose body has not been decoded.
type rawChunk struct {
	Tag Tag
	// Offset is the position of the chunk's tag within the file.
	Offset int64
	Body   []byte
}

// splitChunks checks the magic of data and divides the remainder into chunks.
func splitChunks(data []byte) ([]rawChunk, error) {
	c := newCursor(data)
	var sig Tag
	copy(sig[:], c.bytes("magic", 4))
	if c.err != nil || sig != magic {
		return nil, ErrInvalidMagic
	}

	var chunks []rawChunk
	for i := 0; c.left() > 0; i++ {
		off := c.offset()
		var t Tag
		copy(t[:], c.bytes("chunk id", 4))
		if c.err != nil {
			return nil, DataError{Offset: off, Cause: c.err}
		}
		size := int64(c.u32())
		if c.err != nil {
			return nil, ChunkError{Index: i, Tag: t, Cause: ShortDataError{What: "size", Have: c.left(), Need: 4}}
		}
		body := c.bytes("body", size)
		if c.err != nil {
			return nil, ChunkError{Index: i, Tag: t, Cause: c.err}
		}
		chunks = append(chunks, rawChunk{Tag: t, Offset: off, Body: body})
	}
	return chunks, nil
}

// decodeChunk decodes the body of one chunk into model. Singleton chunks
// replace the current value, and repeated chunks append to it.
func decodeChunk(model *mdlx.Model, ch rawChunk) (warn errors.Errors, err error) {
	c := newCursor(ch.Body)
	switch ch.Tag {
	case tagVERS:
		model.Version = c.i32()
		if c.err == nil && model.Version != mdlx.SupportedVersion {
			return nil, ErrUnrecognizedVersion(model.Version)
		}
	case tagMODL:
		model.Info = readModelInfo(c)
	case tagSEQS:
		model.Sequences, err = readFlat(c, model.Sequences, "Sequence", readSequence)
	case tagGLBS:
		model.GlobalSequences, err = readFlat(c, model.GlobalSequences, "GlobalSequence", readGlobalSequence)
	case tagTEXS:
		model.Textures, err = readFlat(c, model.Textures, "Texture", readTexture)
	case tagPIVT:
		model.PivotPoints, err = readFlat(c, model.PivotPoints, "PivotPoint", readPivot)
	case tagBONE:
		model.Bones, err = readFlat(c, model.Bones, "Bone", readBone)
	case tagHELP:
		model.Helpers, err = readFlat(c, model.Helpers, "Helper", readHelper)
	case tagEVTS:
		model.EventObjects, err = readFlat(c, model.EventObjects, "EventObject", readEventObject)
	case tagCLID:
		model.CollisionShapes, err = readFlat(c, model.CollisionShapes, "CollisionShape", readCollisionShape)
	case tagMTLS:
		model.Materials, err = readSized(c, model.Materials, "Material", readMaterial)
	case tagTXAN:
		model.TextureAnims, err = readSized(c, model.TextureAnims, "TextureAnim", readTextureAnim)
	case tagGEOS:
		return readGeosets(c, model)
	case tagGEOA:
		model.GeosetAnims, err = readSized(c, model.GeosetAnims, "GeosetAnim", readGeosetAnim)
	case tagATCH:
		model.Attachments, err = readSized(c, model.Attachments, "Attachment", readAttachment)
	case tagLITE:
		model.Lights, err = readSized(c, model.Lights, "Light", readLight)
	case tagPREM:
		model.ParticleEmitters, err = readSized(c, model.ParticleEmitters, "ParticleEmitter", readParticleEmitter)
	case tagPRE2:
		model.ParticleEmitter2s, err = readSized(c, model.ParticleEmitter2s, "ParticleEmitter2", readParticleEmitter2)
	case tagRIBB:
		model.RibbonEmitters, err = readSized(c, model.RibbonEmitters, "RibbonEmitter", readRibbonEmitter)
	case tagCAMS:
		model.Cameras, err = readSized(c, model.Cameras, "Camera", readCamera)
	default:
		return nil, ErrUnknownChunk(ch.Tag)
	}
	if err != nil {
		return nil, err
	}
	return nil, c.Err()
}

// readFlat reads entities that follow each other with no size prefix until
// the chunk body is exhausted.
func readFlat[T any](c *cursor, list []T, entity string, read func(*cursor) T) ([]T, error) {
	for i := len(list); c.err == nil && c.left() > 0; i++ {
		v := read(c)
		if c.err != nil {
			return list, EntityError{Entity: entity, Index: i, Cause: c.err}
		}
		list = append(list, v)
	}
	return list, nil
}

// readSized reads entities that are each prefixed by an inclusive size until
// the chunk body is exhausted. Each entity is read from within its own size.
func readSized[T any](c *cursor, list []T, entity string, read func(*cursor) T) ([]T, error) {
	for i := len(list); c.err == nil && c.left() > 0; i++ {
		rc := c.record()
		if c.err != nil {
			return list, EntityError{Entity: entity, Index: i, Cause: c.err}
		}
		v := read(rc)
		if rc.err != nil {
			return list, EntityError{Entity: entity, Index: i, Cause: rc.err}
		}
		list = append(list, v)
	}
	return list, nil
}

func readGeosets(c *cursor, model *mdlx.Model) (warn errors.Errors, err error) {
	for i := len(model.Geosets); c.err == nil && c.left() > 0; i++ {
		rc := c.record()
		if c.err != nil {
			return warn, EntityError{Entity: "Geoset", Index: i, Cause: c.err}
		}
		g, w := readGeoset(rc)
		if rc.err != nil {
			return warn, EntityError{Entity: "Geoset", Index: i, Cause: rc.err}
		}
		warn = warn.Append(errors.Prefix(fmt.Sprintf("Geoset[%d]", i), w...)...)
		model.Geosets = append(model.Geosets, g)
	}
	return warn, nil
}
