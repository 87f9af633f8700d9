package materialize

import (
	"errors"
	"fmt"
)

// Kind classifies a materialization failure.
type Kind string

const (
	KindUnknownTemplate     Kind = "UnknownTemplate"
	KindDestinationNotEmpty Kind = "DestinationNotEmpty"
	KindMissingSubstitution Kind = "MissingSubstitution"
	KindFilesystem          Kind = "FilesystemError"
)

// Sentinels for errors.Is. Every *Error unwraps to the sentinel of its kind.
var (
	ErrUnknownTemplate     = errors.New("unknown template")
	ErrDestinationNotEmpty = errors.New("destination not empty")
	ErrMissingSubstitution = errors.New("missing substitution")
	ErrFilesystem          = errors.New("filesystem error")
)

// Error reports a failed materialization along with the offending template,
// path or placeholder.
type Error struct {
	Kind        Kind
	Template    string
	Path        string
	Placeholder string
	Err         error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindUnknownTemplate:
		msg = fmt.Sprintf("unknown template %q", e.Template)
	case KindDestinationNotEmpty:
		msg = fmt.Sprintf("destination %s is not empty (use overwrite to write into it)", e.Path)
	case KindMissingSubstitution:
		msg = fmt.Sprintf("no value for placeholder %q in %s", e.Placeholder, e.Path)
	default:
		msg = "filesystem error"
		if e.Path != "" {
			msg += " at " + e.Path
		}
	}
	if e.Err != nil && e.Kind != KindMissingSubstitution && e.Kind != KindUnknownTemplate {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{sentinel(e.Kind)}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func sentinel(kind Kind) error {
	switch kind {
	case KindUnknownTemplate:
		return ErrUnknownTemplate
	case KindDestinationNotEmpty:
		return ErrDestinationNotEmpty
	case KindMissingSubstitution:
		return ErrMissingSubstitution
	default:
		return ErrFilesystem
	}
}

// KindOf returns the kind of a materialization error, or "" when err is not one.
func KindOf(err error) Kind {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return ""
}

func fsError(path string, err error) *Error {
	return &Error{Kind: KindFilesystem, Path: path, Err: err}
}
