package progress

import (
	"fmt"

	"nestkit/internal/loop"
	"nestkit/internal/sampler"
)

// DefaultWorker labels runs that name no worker.
const DefaultWorker = "cpu:0"

// Observer follows one loop run on one worker. It implements loop.Observer.
type Observer[S any] struct {
	hub     *Hub
	worker  string
	extract Extractor[S]
	rep     *Reporter
}

// Attach returns an observer that reports a run on worker through hub. The
// reporter is acquired when the loop begins, updated after every step,
// closed the first time the sampler reports done, and closed on loop exit
// if done was never seen.
func Attach[S any](hub *Hub, worker string, extract Extractor[S]) *Observer[S] {
	if hub == nil {
		hub = Default()
	}
	if worker == "" {
		worker = DefaultWorker
	}
	return &Observer[S]{hub: hub, worker: worker, extract: extract}
}

// Reporter returns the run's reporter, or nil before Begin.
func (o *Observer[S]) Reporter() *Reporter { return o.rep }

func (o *Observer[S]) Begin() error {
	if o.extract == nil {
		return ErrNoExtractor
	}
	rep, err := o.hub.Acquire(o.worker)
	if err != nil {
		return err
	}
	o.rep = rep
	return nil
}

func (o *Observer[S]) Step(iter int, body S) error {
	st, ok := o.extract(body)
	if !ok {
		return unrecognizedStateError{typ: fmt.Sprintf("%T", body)}
	}
	if o.rep.Phase() != PhaseActive {
		return nil
	}
	o.rep.Update(Update{
		Iteration:                iter,
		StepIdx:                  st.StepIdx,
		LogZ:                     st.EvidenceCalculation.LogZMean,
		NumLikelihoodEvaluations: st.NumLikelihoodEvaluations,
	})
	if st.Done {
		o.rep.Close()
	}
	return nil
}

func (o *Observer[S]) End() {
	if o.rep != nil {
		o.rep.Close()
	}
}

// Options configures RunTrackedLoop.
type Options[S any] struct {
	ShowProgress bool
	// Hub defaults to Default().
	Hub *Hub
	// Worker defaults to DefaultWorker.
	Worker string
	// Extract is required when ShowProgress is set.
	Extract Extractor[S]
}

// RunTrackedLoop runs step while cond holds, reporting progress when
// opts.ShowProgress is set. Reporting never alters the returned state. The
// initial state is checked against the extractor before any step runs.
func RunTrackedLoop[S any](cond func(S) bool, step func(S) S, init S, opts Options[S], loopOpts ...loop.Option[S]) (S, error) {
	if !opts.ShowProgress {
		return loop.WhileCollect(cond, step, init, loopOpts...)
	}
	if opts.Extract == nil {
		return init, ErrNoExtractor
	}
	if _, ok := opts.Extract(init); !ok {
		return init, unrecognizedStateError{typ: fmt.Sprintf("%T", init)}
	}
	obs := Attach(opts.Hub, opts.Worker, opts.Extract)
	return loop.WhileCollect(cond, step, init, append(loopOpts, loop.WithObserver[S](obs))...)
}

// RunSampler is RunTrackedLoop for loops over a bare sampler.State.
func RunSampler(cond func(sampler.State) bool, step func(sampler.State) sampler.State, init sampler.State, show bool, hub *Hub, worker string) (sampler.State, error) {
	return RunTrackedLoop(cond, step, init, Options[sampler.State]{
		ShowProgress: show,
		Hub:          hub,
		Worker:       worker,
		Extract:      StateExtractor,
	})
}

var _ loop.Observer[sampler.State] = (*Observer[sampler.State])(nil)
