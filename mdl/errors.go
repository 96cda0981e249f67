package mdl

import (
	"errors"
	"fmt"
)

var (
	// Indicates a field that is not understood within its block.
	ErrUnknownField = errors.New("unknown field")
	// Indicates a sub-block that is not understood within its block.
	ErrUnknownBlock = errors.New("unknown block")
	// Indicates a keyframe outside of an animation track.
	ErrUnexpectedFrame = errors.New("unexpected keyframe")
	// Indicates a keyframe without a tangent required by its interpolation.
	ErrMissingTangent = errors.New("missing tangent")
	// Indicates a keyframe with a tangent not allowed by its interpolation.
	ErrUnexpectedTangent = errors.New("unexpected tangent")
)

// SyntaxError indicates malformed text.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (err SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", err.Line, err.Column, err.Msg)
}

// CoerceError indicates a value that cannot be converted to the type
// required by its field.
type CoerceError struct {
	// Want names the required type.
	Want  string
	Field string
	Line  int
}

func (err CoerceError) Error() string {
	if err.Field == "" {
		return fmt.Sprintf("expected %s at line %d", err.Want, err.Line)
	}
	return fmt.Sprintf("expected %s for %s at line %d", err.Want, err.Field, err.Line)
}

// FieldError indicates a problem with a field, block, or keyframe within the
// block named Block.
type FieldError struct {
	Block string
	Field string
	Line  int

	Cause error
}

func (err FieldError) Error() string {
	return fmt.Sprintf("%s (in %s) at line %d: %s", err.Field, err.Block, err.Line, err.Cause)
}

func (err FieldError) Unwrap() error {
	return err.Cause
}

// EntityError indicates an error within one entity of the model.
type EntityError struct {
	Entity string
	// Index is the position of the entity among those of its kind.
	Index int
	Line  int

	Cause error
}

func (err EntityError) Error() string {
	return fmt.Sprintf("%s[%d] at line %d: %s", err.Entity, err.Index, err.Line, err.Cause)
}

func (err EntityError) Unwrap() error {
	return err.Cause
}

// ErrUnrecognizedVersion indicates a format version not supported by the
// codec.
type ErrUnrecognizedVersion int32

func (err ErrUnrecognizedVersion) Error() string {
	return fmt.Sprintf("unsupported version %d", int32(err))
}
