// Package loop drives "run while the predicate holds" iterations over an
// opaque state value. The driver threads an iteration counter alongside the
// caller's state; the counter is visible to observers only, never to the
// predicate, the step, or the returned value.
//
// Iteration i+1 always consumes the output of iteration i. There is no
// parallelism across iterations and no cancellation: a run ends when the
// predicate is false, or when a hook or shape check reports an error.
package loop

// Tracked pairs a body state with the number of steps applied so far.
type Tracked[S any] struct {
	Iter int
	Body S
}

// Iterate lifts step into a counter-threading step over Tracked values.
func Iterate[S any](step func(S) S) func(Tracked[S]) Tracked[S] {
	return func(t Tracked[S]) Tracked[S] {
		return Tracked[S]{Iter: t.Iter + 1, Body: step(t.Body)}
	}
}

// Observer receives the phase transitions of a run. The driver calls Begin
// once, right before the first step; Step after every step with the
// post-increment counter; and End once on exit if Begin ran (including exits
// caused by errors). An error from Begin or Step stops the run.
type Observer[S any] interface {
	Begin() error
	Step(iter int, body S) error
	End()
}

// Stats describes a finished run.
type Stats struct {
	Iterations int
}

type options[S any] struct {
	observer   Observer[S]
	shapeCheck func(before, after S) error
}

// Option configures WhileCollect.
type Option[S any] func(*options[S])

// WithObserver attaches obs to the run. A nil observer is ignored.
func WithObserver[S any](obs Observer[S]) Option[S] {
	return func(o *options[S]) { o.observer = obs }
}

// WithShapeCheck installs fn to compare each step's input and output. A
// non-nil result is reported as a shape mismatch and ends the run.
func WithShapeCheck[S any](fn func(before, after S) error) Option[S] {
	return func(o *options[S]) { o.shapeCheck = fn }
}

// WhileCollect applies step to init while cond holds and returns the final
// state. If cond(init) is false, init is returned and step never runs. On
// error the last state that passed every check is returned with it.
func WhileCollect[S any](cond func(S) bool, step func(S) S, init S, opts ...Option[S]) (S, error) {
	out, _, err := WhileCollectStats(cond, step, init, opts...)
	return out, err
}

// WhileCollectStats is WhileCollect that also reports how many steps ran.
func WhileCollectStats[S any](cond func(S) bool, step func(S) S, init S, opts ...Option[S]) (S, Stats, error) {
	var o options[S]
	for _, opt := range opts {
		opt(&o)
	}
	body := Iterate(step)
	cur := Tracked[S]{Body: init}

	began := false
	defer func() {
		if began {
			o.observer.End()
		}
	}()

	for cond(cur.Body) {
		if cur.Iter == 0 && o.observer != nil {
			if err := o.observer.Begin(); err != nil {
				return cur.Body, Stats{}, err
			}
			began = true
		}
		next := body(cur)
		if o.shapeCheck != nil {
			if err := o.shapeCheck(cur.Body, next.Body); err != nil {
				return cur.Body, Stats{Iterations: cur.Iter}, shapeMismatchError{iter: next.Iter, err: err}
			}
		}
		if o.observer != nil {
			if err := o.observer.Step(next.Iter, next.Body); err != nil {
				return cur.Body, Stats{Iterations: cur.Iter}, err
			}
		}
		cur = next
	}
	return cur.Body, Stats{Iterations: cur.Iter}, nil
}
