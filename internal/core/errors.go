package core

import (
	"fmt"
	"strings"
)

// ResolutionError reports that a target name could not be resolved to a live
// registered target. It is fatal to Enter: no mocks from the batch are left
// applied.
type ResolutionError struct {
	Target string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve target %q: no target registered under that name", e.Target)
}

// UsageError reports a misuse of the mocking API: mutating a closed context,
// double-closing, or referencing an attribute name with no active entry.
// It is always surfaced, never silently ignored.
type UsageError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// AttributeAccessError reports that a target refused an attribute operation,
// such as setting an unexported struct field or patching an unsupported
// target kind. Surfaced at apply time; aborts the enclosing batch.
type AttributeAccessError struct {
	Name   string
	Reason string
}

// Error implements the error interface.
func (e *AttributeAccessError) Error() string {
	return fmt.Sprintf("cannot access attribute %q: %s", e.Name, e.Reason)
}

// TeardownError aggregates undo failures from a context exit. Every undo is
// attempted before this is raised, so one broken restoration never prevents
// the others.
type TeardownError struct {
	Errs []error
}

// Error implements the error interface.
func (e *TeardownError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}

	return fmt.Sprintf("%d teardown failure(s): %s", len(e.Errs), strings.Join(msgs, "; "))
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TeardownError) Unwrap() []error {
	return e.Errs
}
