package docspace

import (
	"errors"
	"fmt"
	"strings"

	"github.com/n2code/docspace/internal/workspace"
)

// CommandError describes a failed workspace command, optionally naming the node it was about.
type CommandError struct {
	message string
	node    Id
	cause   error
}

func (e *CommandError) Error() string {
	var msg strings.Builder
	fmt.Fprint(&msg, e.message)
	if e.node != MissingId {
		fmt.Fprintf(&msg, " #%s", e.node)
	}
	if e.cause != nil {
		fmt.Fprint(&msg, ": ", e.cause)
	}
	return msg.String()
}

func (e *CommandError) Unwrap() error {
	return e.cause
}

// Node is the node the command was about, MissingId for workspace-wide commands.
func (e *CommandError) Node() Id {
	return e.node
}

// Kind classifies the cause, ok is false if it did not originate in the workspace.
func (e *CommandError) Kind() (kind ErrorKind, ok bool) {
	var wsErr *workspace.Error
	if errors.As(e.cause, &wsErr) {
		return wsErr.Kind, true
	}
	if errors.As(e.cause, &kind) {
		return kind, true
	}
	return
}

func newCommandError(message string, cause error) *CommandError {
	return &CommandError{message: message, cause: cause}
}

func newNodeError(message string, node Id, cause error) *CommandError {
	return &CommandError{message: message, node: node, cause: cause}
}
