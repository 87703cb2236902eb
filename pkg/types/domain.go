package types

// ProgressStatus is the latest rendered state of one reporter run.
type ProgressStatus struct {
	// Unique identifier of the run.
	// example: 6f1c2a7e-3b7d-4d55-9d6e-0c1f2a3b4c5d
	RunID string `json:"run_id" example:"6f1c2a7e-3b7d-4d55-9d6e-0c1f2a3b4c5d"`
	// Worker/device identity the display is labelled with.
	// example: cpu:0
	Worker string `json:"worker" example:"cpu:0"`
	// Reporter phase (active, closed).
	// example: active
	State string `json:"state" example:"active"`
	// Number of updates rendered so far.
	// example: 120
	Iterations int `json:"iterations" example:"120"`
	// Sampler step index of the last rendered update.
	// example: 120
	StepIdx int `json:"step_idx" example:"120"`
	// Running log-evidence estimate of the last rendered update.
	// example: -12.7
	LogZ float64 `json:"log_z" example:"-12.7"`
	// Likelihood evaluations reported by the last rendered update.
	// example: 48000
	NumLikelihoodEvaluations int `json:"num_likelihood_evals" example:"48000"`
	// Updates dropped by backpressure.
	// example: 0
	Dropped int64 `json:"dropped" example:"0"`
	// Run start (unix seconds).
	// example: 1700000000
	StartedUnix int64 `json:"started_unix" example:"1700000000"`
	// Run end (unix seconds), zero while active.
	// example: 1700000042
	ClosedUnix int64 `json:"closed_unix,omitempty" example:"1700000042"`
}

// PriorInfo describes a registered prior.
type PriorInfo struct {
	// Prior name.
	// example: theta
	Name string `json:"name" example:"theta"`
	// Prior kind (piecewise_linear, from_samples).
	// example: piecewise_linear
	Kind string `json:"kind" example:"piecewise_linear"`
	// Batch shape of the transform output; empty for scalars.
	// example: []
	Shape []int `json:"shape"`
	// Whether the prior variable is tracked in sampler output.
	// example: true
	Tracked bool `json:"tracked" example:"true"`
}
