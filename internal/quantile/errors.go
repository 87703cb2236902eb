package quantile

import "errors"

// invalidInputError rejects a sample set or weight vector.
type invalidInputError struct{ msg string }

func (e invalidInputError) Error() string { return "quantile: invalid input: " + e.msg }

// IsInvalidInput reports whether err is an input validation failure.
func IsInvalidInput(err error) bool {
	var ie invalidInputError
	return errors.As(err, &ie)
}
