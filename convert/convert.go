// The convert package routes models between files and the codecs of the mdx
// and mdl packages, choosing a codec by file extension.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/warcodec/mdlx"
	"github.com/warcodec/mdlx/errors"
	"github.com/warcodec/mdlx/mdl"
	"github.com/warcodec/mdlx/mdx"
	"golang.org/x/crypto/blake2b"
)

// Kind is an encoding of a model.
type Kind int

const (
	Unknown Kind = iota
	MDX          // Binary.
	MDL          // Text.
)

func (k Kind) String() string {
	switch k {
	case MDX:
		return "mdx"
	case MDL:
		return "mdl"
	}
	return "unknown"
}

// Ext returns the file extension of the kind, including the dot.
func (k Kind) Ext() string {
	if k == Unknown {
		return ""
	}
	return "." + k.String()
}

// Other returns the encoding a file of kind k converts to.
func (k Kind) Other() Kind {
	switch k {
	case MDX:
		return MDL
	case MDL:
		return MDX
	}
	return Unknown
}

// ErrUnknownKind indicates a path whose extension names no encoding.
type ErrUnknownKind string

func (err ErrUnknownKind) Error() string {
	return fmt.Sprintf("unknown model extension %q", string(err))
}

// KindOf returns the encoding named by the extension of path, ignoring case.
func KindOf(path string) (Kind, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mdx":
		return MDX, nil
	case ".mdl":
		return MDL, nil
	default:
		return Unknown, ErrUnknownKind(ext)
	}
}

// SwapExt returns path with its extension replaced by that of kind.
func SwapExt(path string, kind Kind) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + kind.Ext()
}

// Decode reads a model of the given kind from r.
func Decode(r io.Reader, kind Kind, f mdlx.Format) (model *mdlx.Model, warn, err error) {
	switch kind {
	case MDX:
		return mdx.Decoder{}.Decode(r)
	case MDL:
		return mdl.Decoder{Format: f}.Decode(r)
	}
	return nil, nil, ErrUnknownKind(kind.Ext())
}

// Encode writes model to w in the given kind.
func Encode(w io.Writer, model *mdlx.Model, kind Kind, f mdlx.Format) error {
	switch kind {
	case MDX:
		return mdx.Encoder{}.Encode(w, model)
	case MDL:
		return mdl.Encoder{Format: f}.Encode(w, model)
	}
	return ErrUnknownKind(kind.Ext())
}

// PathError wraps an error with the file that caused it.
type PathError struct {
	Op    string
	Path  string
	Cause error
}

func (err PathError) Error() string {
	return err.Op + " " + err.Path + ": " + err.Cause.Error()
}

func (err PathError) Unwrap() error {
	return err.Cause
}

// ReadFile decodes the model stored at path.
func ReadFile(path string, f mdlx.Format) (model *mdlx.Model, warn, err error) {
	kind, err := KindOf(path)
	if err != nil {
		return nil, nil, PathError{Op: "read", Path: path, Cause: err}
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()
	model, warn, err = Decode(file, kind, f)
	if warn != nil {
		warn = PathError{Op: "read", Path: path, Cause: warn}
	}
	if err != nil {
		return nil, warn, PathError{Op: "read", Path: path, Cause: err}
	}
	return model, warn, nil
}

// WriteFile encodes model to path, creating missing parent directories. The
// file is written only if encoding succeeds.
func WriteFile(model *mdlx.Model, path string, f mdlx.Format) error {
	kind, err := KindOf(path)
	if err != nil {
		return PathError{Op: "write", Path: path, Cause: err}
	}
	var buf bytes.Buffer
	if err := Encode(&buf, model, kind, f); err != nil {
		return PathError{Op: "write", Path: path, Cause: err}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0666)
}

// Convert reads the model at input and writes it to output. The codecs are
// chosen by the extensions of each path.
func Convert(input, output string, f mdlx.Format) (model *mdlx.Model, warn, err error) {
	model, warn, err = ReadFile(input, f)
	if err != nil {
		return nil, warn, err
	}
	if err := WriteFile(model, output, f); err != nil {
		return nil, warn, err
	}
	return model, warn, nil
}

// Digest returns the BLAKE2b-256 hash of model encoded in the given kind.
func Digest(model *mdlx.Model, kind Kind, f mdlx.Format) ([blake2b.Size256]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, model, kind, f); err != nil {
		return [blake2b.Size256]byte{}, err
	}
	return blake2b.Sum256(buf.Bytes()), nil
}

// ErrMismatch indicates that a written model does not read back to the model
// that was written.
type ErrMismatch struct {
	Path       string
	Want, Have [blake2b.Size256]byte
}

func (err ErrMismatch) Error() string {
	return fmt.Sprintf("verify %s: digest %x does not match %x", err.Path, err.Have[:8], err.Want[:8])
}

// Verify reads back the file at path and checks that it encodes to the same
// bytes as model, in the encoding of path.
func Verify(model *mdlx.Model, path string, f mdlx.Format) error {
	kind, err := KindOf(path)
	if err != nil {
		return PathError{Op: "verify", Path: path, Cause: err}
	}
	want, err := Digest(model, kind, f)
	if err != nil {
		return PathError{Op: "verify", Path: path, Cause: err}
	}
	back, _, err := ReadFile(path, f)
	if err != nil {
		return err
	}
	have, err := Digest(back, kind, f)
	if err != nil {
		return PathError{Op: "verify", Path: path, Cause: err}
	}
	if have != want {
		return ErrMismatch{Path: path, Want: want, Have: have}
	}
	return nil
}

// Count returns the number of entities of each kind in model, keyed by the
// name of the entity.
func Count(model *mdlx.Model) map[string]int {
	return map[string]int{
		"Sequence":         len(model.Sequences),
		"GlobalSequence":   len(model.GlobalSequences),
		"Texture":          len(model.Textures),
		"Material":         len(model.Materials),
		"TextureAnim":      len(model.TextureAnims),
		"Geoset":           len(model.Geosets),
		"GeosetAnim":       len(model.GeosetAnims),
		"Bone":             len(model.Bones),
		"Light":            len(model.Lights),
		"Helper":           len(model.Helpers),
		"Attachment":       len(model.Attachments),
		"PivotPoint":       len(model.PivotPoints),
		"ParticleEmitter":  len(model.ParticleEmitters),
		"ParticleEmitter2": len(model.ParticleEmitter2s),
		"RibbonEmitter":    len(model.RibbonEmitters),
		"EventObject":      len(model.EventObjects),
		"CollisionShape":   len(model.CollisionShapes),
		"Camera":           len(model.Cameras),
	}
}

// Warnings flattens a warning returned by a decoder into a list.
func Warnings(warn error) errors.Errors {
	if pe, ok := warn.(PathError); ok {
		return errors.Prefix(pe.Path, errors.List(pe.Cause)...)
	}
	return errors.List(warn)
}
