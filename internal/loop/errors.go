package loop

import (
	"errors"
	"fmt"
)

// shapeMismatchError reports a step that changed the structure of the state.
type shapeMismatchError struct {
	iter int
	err  error
}

func (e shapeMismatchError) Error() string {
	return fmt.Sprintf("loop: step %d changed state structure: %v", e.iter, e.err)
}

func (e shapeMismatchError) Unwrap() error { return e.err }

// IsShapeMismatch reports whether err came from a failed shape check.
func IsShapeMismatch(err error) bool {
	var se shapeMismatchError
	return errors.As(err, &se)
}
