package progress

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"nestkit/pkg/types"
)

// Reporter is one worker's progress run. Update and Close are called from
// the compute side; a dedicated goroutine owns the display and drains the
// bounded queue in FIFO order.
type Reporter struct {
	hub     *Hub
	label   Label
	policy  Policy
	timeout time.Duration
	log     zerolog.Logger

	// mu guards phase and the close of ch.
	mu    sync.Mutex
	phase Phase
	ch    chan Update

	dropped atomic.Int64
	drained chan struct{}

	statusMu sync.Mutex
	status   types.ProgressStatus
}

func newReporter(h *Hub, l Label) *Reporter {
	now := time.Now()
	return &Reporter{
		hub:     h,
		label:   l,
		policy:  h.cfg.Policy,
		timeout: h.cfg.BlockTimeout,
		log:     h.log.With().Str("run_id", l.RunID).Str("worker", l.Worker).Logger(),
		phase:   PhaseActive,
		ch:      make(chan Update, h.cfg.BufferSize),
		drained: make(chan struct{}),
		status: types.ProgressStatus{
			RunID:       l.RunID,
			Worker:      l.Worker,
			State:       PhaseActive.String(),
			StartedUnix: now.Unix(),
		},
	}
}

// Label returns the run's identity.
func (r *Reporter) Label() Label { return r.label }

// Phase returns the compute-side lifecycle state.
func (r *Reporter) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Dropped returns how many updates backpressure has discarded so far.
func (r *Reporter) Dropped() int64 { return r.dropped.Load() }

// Drained is closed once the display has been closed and the worker released.
func (r *Reporter) Drained() <-chan struct{} { return r.drained }

// Status returns the latest rendered state.
func (r *Reporter) Status() types.ProgressStatus {
	r.statusMu.Lock()
	defer r.statusMu.Unlock()
	return r.status
}

// Update enqueues u for display. It reports false, without enqueuing, once
// the reporter is closed.
func (r *Reporter) Update(u Update) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseActive {
		return false
	}
	r.enqueue(u)
	return true
}

// Close moves the reporter to CLOSED. Queued updates are still rendered
// before the display closes. Only the first call has an effect.
func (r *Reporter) Close() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.phase != PhaseActive {
		return false
	}
	r.phase = PhaseClosed
	close(r.ch)
	return true
}

// enqueue must be called with r.mu held. The compute goroutine is the only
// sender, so after one eviction the next send has room.
func (r *Reporter) enqueue(u Update) {
	select {
	case r.ch <- u:
		return
	default:
	}
	if r.policy == Block {
		t := time.NewTimer(r.timeout)
		defer t.Stop()
		select {
		case r.ch <- u:
		case <-t.C:
			r.drop()
		}
		return
	}
	for {
		select {
		case <-r.ch:
			r.drop()
		default:
		}
		select {
		case r.ch <- u:
			return
		default:
		}
	}
}

func (r *Reporter) drop() {
	r.dropped.Add(1)
	droppedTotal.Inc()
}

// run is the reporting goroutine.
func (r *Reporter) run(sink Sink) {
	defer close(r.drained)
	defer r.hub.release(r)

	start := time.Now()
	var d Display
	r.call("open", func() error {
		var err error
		d, err = sink.Open(r.label)
		return err
	})
	if d == nil {
		d = discardDisplay{}
	}
	eventsTotal.WithLabelValues(string(EventOpen)).Inc()
	r.log.Debug().Msg("progress reporter active")

	n := 0
	for u := range r.ch {
		n++
		r.call("update", func() error { return d.Update(u) })
		eventsTotal.WithLabelValues(string(EventUpdate)).Inc()
		r.statusMu.Lock()
		r.status.Iterations = n
		r.status.StepIdx = u.StepIdx
		r.status.LogZ = u.LogZ
		r.status.NumLikelihoodEvaluations = u.NumLikelihoodEvaluations
		r.status.Dropped = r.dropped.Load()
		r.statusMu.Unlock()
	}

	sum := Summary{Updates: n, Dropped: r.dropped.Load(), Elapsed: time.Since(start)}
	r.call("close", func() error { return d.Close(sum) })
	eventsTotal.WithLabelValues(string(EventClose)).Inc()

	r.statusMu.Lock()
	r.status.State = PhaseClosed.String()
	r.status.Dropped = sum.Dropped
	r.status.ClosedUnix = time.Now().Unix()
	r.statusMu.Unlock()

	if sum.Dropped > 0 {
		r.log.Info().Int64("dropped", sum.Dropped).Int("updates", n).Msg("progress updates dropped")
	}
	r.log.Debug().Msg("progress reporter closed")
}

// call runs one display operation, keeping errors and panics on this goroutine.
func (r *Reporter) call(op string, fn func() error) {
	defer func() {
		if p := recover(); p != nil {
			r.fault(op, fmt.Errorf("panic: %v", p))
		}
	}()
	if err := fn(); err != nil {
		r.fault(op, err)
	}
}

func (r *Reporter) fault(op string, err error) {
	sinkErrorsTotal.WithLabelValues(op).Inc()
	r.log.Warn().Err(err).Str("op", op).Msg("progress sink fault")
}
