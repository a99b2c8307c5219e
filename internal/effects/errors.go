package effects

import (
	"errors"
	"fmt"
)

// TransportError reports which step of a side-effect sequence failed against
// an external collaborator and what had already been durably applied before
// it. Completed effects are never rolled back.
type TransportError struct {
	Step      string
	Err       error
	Completed []Outcome
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("step %q failed after %d completed step(s): %v", e.Step, len(e.Completed), e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is (or wraps) a collaborator failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// InconsistentStateWarning is a non-fatal partial success: a trailing effect
// failed after the primary action (e.g. a payment) already committed. It is
// surfaced for manual follow-up and never blocks the flow.
type InconsistentStateWarning struct {
	Step string
	Err  error
}

func (w *InconsistentStateWarning) Error() string {
	return fmt.Sprintf("step %q left inconsistent state, manual follow-up needed: %v", w.Step, w.Err)
}

func (w *InconsistentStateWarning) Unwrap() error {
	return w.Err
}
