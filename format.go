package mdlx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LineEnding selects the line terminator written by the text encoder.
type LineEnding uint8

const (
	LF LineEnding = iota
	CR
	CRLF
)

// String returns the terminator itself.
func (e LineEnding) String() string {
	switch e {
	case CR:
		return "\r"
	case CRLF:
		return "\r\n"
	default:
		return "\n"
	}
}

// ParseLineEnding parses "lf", "cr" or "crlf", case-insensitively.
func ParseLineEnding(s string) (LineEnding, error) {
	switch strings.ToLower(s) {
	case "lf", "":
		return LF, nil
	case "cr":
		return CR, nil
	case "crlf":
		return CRLF, nil
	}
	return LF, fmt.Errorf("unknown line ending %q", s)
}

// ParseIndent converts an indent setting to the indent string. It
// accepts "tab" or "tabN" for N tabs, and "N" or "Nspaces" for N spaces.
func ParseIndent(s string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	char := " "
	switch {
	case strings.HasPrefix(v, "tab"):
		char = "\t"
		v = strings.TrimSuffix(strings.TrimPrefix(v, "tab"), "s")
		if v == "" {
			v = "1"
		}
	case strings.HasSuffix(v, "spaces"):
		v = strings.TrimSuffix(v, "spaces")
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > MaxIndent {
		return "", fmt.Errorf("invalid indent %q", s)
	}
	return strings.Repeat(char, n), nil
}

const (
	// MinPrecision and MaxPrecision bound the number of fractional digits
	// written for floating-point values.
	MinPrecision = 1
	MaxPrecision = 9

	// MaxIndent is the largest number of indent characters per level.
	MaxIndent = 8
)

// Format configures the text encoding. A Format is passed by value into each
// codec call and is never modified by the codecs.
type Format struct {
	// Precision is the number of fractional digits written for floats.
	Precision int
	// Indent is written once per nesting level.
	Indent string
	// LineEnding terminates every written line.
	LineEnding LineEnding
	// ForceRGB swaps geoset animation colors into RGB order when writing
	// text, and back when reading it.
	ForceRGB bool
}

// DefaultFormat returns the format used when none is configured.
func DefaultFormat() Format {
	return Format{
		Precision:  6,
		Indent:     "\t",
		LineEnding: LF,
	}
}

var errEmptyIndent = errors.New("indent must not be empty")

// Validate returns an error if any option of f is out of range.
func (f Format) Validate() error {
	if f.Precision < MinPrecision || f.Precision > MaxPrecision {
		return fmt.Errorf("precision %d out of range [%d, %d]", f.Precision, MinPrecision, MaxPrecision)
	}
	if f.Indent == "" {
		return errEmptyIndent
	}
	if strings.Trim(f.Indent, " \t") != "" || len(f.Indent) > MaxIndent {
		return fmt.Errorf("invalid indent %q", f.Indent)
	}
	if f.LineEnding > CRLF {
		return fmt.Errorf("unknown line ending %d", f.LineEnding)
	}
	return nil
}
