// The errors package provides error list primitives shared by the codecs.
// Decoders use an Errors list to collect warnings about unusual but
// representable input, and return it separately from a fatal error.
package errors

import (
	"errors"
	"strings"
)

func New(text string) error {
	return errors.New(text)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// Errors is a list of errors.
type Errors []error

// Errors formats the list by separating each message with a newline. Each
// produced line, including lines within messages, is prefixed with a tab.
func (errs Errors) Error() string {
	switch len(errs) {
	case 0:
		return "no errors"
	case 1:
		return errs[0].Error()
	default:
		var buf strings.Builder
		buf.WriteString("multiple errors:")
		for _, err := range errs {
			buf.WriteString("\n\t")
			buf.WriteString(strings.ReplaceAll(err.Error(), "\n", "\n\t"))
		}
		return buf.String()
	}
}

func (errs Errors) Unwrap() []error {
	return errs
}

// Append returns errs with each err appended to it. Arguments that are nil are
// skipped.
func (errs Errors) Append(err ...error) Errors {
	for _, err := range err {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// Return prepares errs to be returned by a function by returning nil if errs is
// empty.
func (errs Errors) Return() error {
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Union receives a number of errors and combines them into one Errors. Any errs
// that are Errors are concatenated directly. Returns nil if all errs are nil or
// empty.
func Union(errs ...error) error {
	var e Errors
	for _, err := range errs {
		e = e.Append(List(err)...)
	}
	return e.Return()
}

// List flattens err into a list. A nil err produces an empty list, and an
// Errors is returned with its nil members removed.
func List(err error) Errors {
	switch err := err.(type) {
	case nil:
		return nil
	case Errors:
		return Errors{}.Append(err...)
	default:
		return Errors{err}
	}
}

// Context is an error with a location prefix, such as the entity that
// produced it.
type Context struct {
	Where string
	Cause error
}

func (err Context) Error() string {
	return err.Where + ": " + err.Cause.Error()
}

func (err Context) Unwrap() error {
	return err.Cause
}

// Prefix wraps each error in errs with the location where.
func Prefix(where string, errs ...error) Errors {
	var out Errors
	for _, err := range errs {
		if err != nil {
			out = append(out, Context{Where: where, Cause: err})
		}
	}
	return out
}
