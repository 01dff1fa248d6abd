package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// Kind classifies workspace failures. Kinds are errors themselves so that
// errors.Is(err, workspace.NotFound) works on anything wrapping an *Error.
type Kind int

const (
	NotFound Kind = iota + 1
	IoFailure
	PathSelectionAborted
	InvalidNodeKind
	LoadDeclined //the user kept unsaved changes instead of switching documents
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case IoFailure:
		return "I/O failure"
	case PathSelectionAborted:
		return "path selection aborted"
	case InvalidNodeKind:
		return "invalid node kind"
	case LoadDeclined:
		return "load declined"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) Error() string {
	return k.String()
}

type Error struct {
	Kind    Kind
	message string
	cause   error
}

func (e *Error) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.Kind, ": ", e.message)
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	kind, isKind := target.(Kind)
	return isKind && kind == e.Kind
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, message: message, cause: cause}
}

// ioError tags filesystem failures, missing paths count as NotFound.
func ioError(message string, cause error) *Error {
	if errors.Is(cause, fs.ErrNotExist) {
		return newError(NotFound, message, cause)
	}
	return newError(IoFailure, message, cause)
}
