package prior

import (
	"errors"
	"fmt"
)

// invalidParameterError rejects a prior's construction or transform input.
type invalidParameterError struct {
	prior string
	param string
	msg   string
	err   error
}

func (e invalidParameterError) Error() string {
	return fmt.Sprintf("prior %q: invalid %s: %s", e.prior, e.param, e.msg)
}

func (e invalidParameterError) Unwrap() error { return e.err }

// IsInvalidParameter reports whether err rejects a prior parameter or input.
func IsInvalidParameter(err error) bool {
	var ie invalidParameterError
	return errors.As(err, &ie)
}

type duplicateNameError struct{ name string }

func (e duplicateNameError) Error() string { return "prior already registered: " + e.name }

// IsDuplicateName reports whether err came from registering a taken name.
func IsDuplicateName(err error) bool {
	var de duplicateNameError
	return errors.As(err, &de)
}

type notFoundError struct{ name string }

func (e notFoundError) Error() string { return "prior not found: " + e.name }

// ErrNotFound returns an error for a missing prior name.
func ErrNotFound(name string) error { return notFoundError{name: name} }

// IsNotFound reports whether err indicates a missing prior name.
func IsNotFound(err error) bool {
	var ne notFoundError
	return errors.As(err, &ne)
}
