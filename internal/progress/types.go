package progress

import (
	"fmt"
	"strings"
	"time"
)

// Update is the payload emitted once per loop iteration.
type Update struct {
	Iteration                int
	StepIdx                  int
	LogZ                     float64
	NumLikelihoodEvaluations int
}

// Label identifies the run a display belongs to.
type Label struct {
	RunID  string
	Worker string
}

// Description is the human-readable display title.
func (l Label) Description() string { return "Running on " + l.Worker }

// Summary is handed to a display when its run closes.
type Summary struct {
	Updates int
	Dropped int64
	Elapsed time.Duration
}

// Phase is a reporter's lifecycle state.
type Phase int32

const (
	PhaseUninitialized Phase = iota
	PhaseActive
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseActive:
		return "active"
	case PhaseClosed:
		return "closed"
	default:
		return fmt.Sprintf("phase(%d)", int32(p))
	}
}

// Policy decides what happens to an update when a reporter's queue is full.
type Policy int

const (
	// DropOldest evicts the oldest queued update to make room.
	DropOldest Policy = iota
	// Block waits up to the hub's block timeout, then drops the new update.
	Block
)

func (p Policy) String() string {
	if p == Block {
		return "block"
	}
	return "drop_oldest"
}

// ParsePolicy maps a configuration value to a Policy. Empty means DropOldest.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop_oldest":
		return DropOldest, nil
	case "block":
		return Block, nil
	default:
		return DropOldest, fmt.Errorf("progress: unknown backpressure policy %q", s)
	}
}
