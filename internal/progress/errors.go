package progress

import (
	"errors"
	"fmt"
)

// unrecognizedStateError signals a reporter attached to a loop whose state
// carries no sampler.State.
type unrecognizedStateError struct{ typ string }

func (e unrecognizedStateError) Error() string {
	return fmt.Sprintf("progress: reporter only works with sampler state, got %s", e.typ)
}

// IsUnrecognizedState reports whether err is a reporter/state mismatch.
func IsUnrecognizedState(err error) bool {
	var ue unrecognizedStateError
	return errors.As(err, &ue)
}

// workerBusyError signals that a worker's previous reporter is still active,
// or closed but not drained within the hub's drain timeout.
type workerBusyError struct{ worker string }

func (e workerBusyError) Error() string { return "progress: worker busy: " + e.worker }

// IsWorkerBusy reports whether err indicates an aliased worker display.
func IsWorkerBusy(err error) bool {
	var we workerBusyError
	return errors.As(err, &we)
}

// ErrNoExtractor is returned when progress is requested without an Extractor.
var ErrNoExtractor = errors.New("progress: no state extractor configured")
