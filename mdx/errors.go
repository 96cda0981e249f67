package mdx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// Indicates that the file does not begin with the MDX magic.
	ErrInvalidMagic = errors.New("invalid magic (expected MDLX)")
	// Indicates a record that declares a size smaller than its size field.
	ErrRecordSize = errors.New("record size smaller than 4")
)

// ErrUnrecognizedVersion indicates a format version not supported by the
// codec.
type ErrUnrecognizedVersion int32

func (err ErrUnrecognizedVersion) Error() string {
	return fmt.Sprintf("unsupported version %d", int32(err))
}

// ErrUnknownChunk indicates a top-level chunk tag not known by the codec.
type ErrUnknownChunk Tag

func (err ErrUnknownChunk) Error() string {
	return fmt.Sprintf("unknown chunk %s (0x%08X)", Tag(err), Tag(err).Uint32())
}

// ShortDataError indicates that fewer bytes remain than a read requires.
type ShortDataError struct {
	// What names the value being read, if known.
	What string
	Have int
	Need int
}

func (err ShortDataError) Error() string {
	msg := fmt.Sprintf("%dB left (need %d)", err.Have, err.Need)
	if err.What == "" {
		return msg
	}
	return err.What + ": " + msg
}

// TrackError indicates an animation track tag not expected within an entity.
type TrackError struct {
	Entity string
	Tag    Tag
}

func (err TrackError) Error() string {
	return fmt.Sprintf("unknown animation in %s: %s (0x%08X)", err.Entity, err.Tag, err.Tag.Uint32())
}

// CodecError wraps an error that occurred while encoding or decoding a model.
type CodecError struct {
	Cause error
}

func (err CodecError) Error() string {
	if err.Cause == nil {
		return "codec error"
	}
	return "codec error: " + err.Cause.Error()
}

func (err CodecError) Unwrap() error {
	return err.Cause
}

// DataError wraps an error that occurred while decoding the chunk structure.
type DataError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// ChunkError indicates an error that occurred within a chunk.
type ChunkError struct {
	// Index is the position of the chunk within the file.
	Index int
	// Tag is the tag of the chunk.
	Tag Tag

	Cause error
}

func (err ChunkError) Error() string {
	if err.Index < 0 {
		return fmt.Sprintf("%q chunk: %s", err.Tag.String(), err.Cause.Error())
	}
	return fmt.Sprintf("#%d %q chunk: %s", err.Index, err.Tag.String(), err.Cause.Error())
}

func (err ChunkError) Unwrap() error {
	return err.Cause
}

// EntityError indicates an error within one record of a chunk.
type EntityError struct {
	// Entity is the kind of record, such as "Light".
	Entity string
	// Index is the position of the record within the chunk.
	Index int

	Cause error
}

func (err EntityError) Error() string {
	return fmt.Sprintf("%s[%d]: %s", err.Entity, err.Index, err.Cause.Error())
}

func (err EntityError) Unwrap() error {
	return err.Cause
}
