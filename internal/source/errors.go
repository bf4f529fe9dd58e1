package source

import "errors"

// Kind classifies a symbol-level failure: the fetch never produced a usable
// payload, or the payload could not be turned into a record.
type Kind string

const (
	KindFetch   Kind = "fetch"
	KindExtract Kind = "extract"
	KindUnknown Kind = "error"
)

type Error struct {
	kind Kind
	err  error
}

func FetchError(err error) *Error {
	return &Error{kind: KindFetch, err: err}
}

func ExtractError(err error) *Error {
	return &Error{kind: KindExtract, err: err}
}

func (e *Error) Error() string { return string(e.kind) + ": " + e.err.Error() }
func (e *Error) Unwrap() error { return e.err }
func (e *Error) Kind() Kind    { return e.kind }

// KindOf reports the failure class of err, or KindUnknown when err does not
// wrap a source error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.kind
	}
	return KindUnknown
}
