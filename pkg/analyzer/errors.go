package analyzer

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying why a unit dropped out of a batch. Both are
// reachable through errors.Is on the collected batch error.
var (
	// ErrUnreadableInput marks a unit whose content could not be read.
	ErrUnreadableInput = errors.New("unreadable input")
	// ErrMalformedUnit marks a unit that yielded no structural model:
	// unsupported language, failed parse or an oversized file.
	ErrMalformedUnit = errors.New("malformed unit")
)

// UnitError is the per-unit failure record. Kind holds one of the sentinel
// errors above, Err the underlying cause.
type UnitError struct {
	Path string
	Kind error
	Err  error
}

func (e *UnitError) Error() string {
	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the classification sentinel and the cause, so
// errors.Is matches either.
func (e *UnitError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
