// Package sampler holds the sampler-side state read by progress reporting,
// and a small deterministic stepper with the same shape as a nested
// sampler's main update, used to exercise the loop driver end to end.
package sampler

// EvidenceCalculation carries the running evidence estimate.
type EvidenceCalculation struct {
	LogZMean float64
	// LogX is the log prior volume enclosed by the current likelihood contour.
	LogX float64
}

// State is the subset of a nested sampler's state that reporters read.
// Done flips from false to true exactly once over a run.
type State struct {
	StepIdx                  int
	EvidenceCalculation      EvidenceCalculation
	NumLikelihoodEvaluations int
	Done                     bool
}

// SamplerState lets State satisfy Carrier.
func (s State) SamplerState() State { return s }

// Carrier is implemented by loop states that embed or bundle a State.
type Carrier interface {
	SamplerState() State
}

// Bundle pairs a State with auxiliary loop data.
type Bundle[A any] struct {
	State State
	Aux   A
}

// SamplerState returns the bundled State.
func (b Bundle[A]) SamplerState() State { return b.State }
