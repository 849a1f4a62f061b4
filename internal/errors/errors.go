// Package errors defines the error kinds populate reports and the exit
// codes they map to.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure for reporting and exit-code selection.
type Kind string

const (
	KindValidation Kind = "validation"
	KindParse      Kind = "parse"
	KindIO         Kind = "io"
)

// Sentinels usable with errors.Is.
var (
	ErrValidation = errors.New("validation error")
	ErrParse      = errors.New("parse error")
	ErrIO         = errors.New("io error")
)

// Error carries the operation, kind and optional path of a failure.
// Names lists the parameters or placeholders involved, when there are any.
type Error struct {
	Op    string
	Kind  Kind
	Path  string
	Names []string
	Err   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	var b strings.Builder
	b.WriteString(e.Op)
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrParse:
		return e.Kind == KindParse
	case ErrIO:
		return e.Kind == KindIO
	}
	return false
}

// Validation builds a validation error for the given names.
func Validation(op, path string, names []string, msg string) *Error {
	return &Error{
		Op:    op,
		Kind:  KindValidation,
		Path:  path,
		Names: names,
		Err:   errors.New(msg),
	}
}

// Parse wraps a decoding failure.
func Parse(op, path string, err error) *Error {
	return &Error{Op: op, Kind: KindParse, Path: path, Err: err}
}

// IO wraps a file system failure.
func IO(op, path string, err error) *Error {
	return &Error{Op: op, Kind: KindIO, Path: path, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// NamesOf returns the names attached to the first *Error in err's chain.
func NamesOf(err error) []string {
	var e *Error
	if errors.As(err, &e) {
		return e.Names
	}
	return nil
}

// QuoteNames renders names as 'a', 'b' for messages.
func QuoteNames(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "'" + n + "'"
	}
	return strings.Join(quoted, ", ")
}
