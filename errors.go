package searchsim

import (
	"errors"
	"fmt"
)

// ErrUnknownWorkflow is returned by New for a workflow it cannot build.
var ErrUnknownWorkflow = errors.New("unknown workflow")

// ErrStalled is returned by Run when a step neither recorded an action nor
// finished the session.
var ErrStalled = errors.New("session made no progress")

// MissingPortError reports a collaborator the selected workflow needs but
// was not supplied.
type MissingPortError struct {
	Port string
}

func (e *MissingPortError) Error() string {
	return fmt.Sprintf("missing port: %s", e.Port)
}
