package progress

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// Sink opens one Display per run. Implementations may be shared by many
// reporters; Open is called from each reporter's own goroutine.
type Sink interface {
	Open(l Label) (Display, error)
}

// Display renders one run. All calls for a run come from a single goroutine,
// in order: any number of Update calls, then Close.
type Display interface {
	Update(u Update) error
	Close(s Summary) error
}

// discardSink opens displays that render nothing.
type discardSink struct{}

func (discardSink) Open(Label) (Display, error) { return discardDisplay{}, nil }

type discardDisplay struct{}

func (discardDisplay) Update(Update) error { return nil }
func (discardDisplay) Close(Summary) error { return nil }

// EventKind tags a recorded display call.
type EventKind string

const (
	EventOpen   EventKind = "open"
	EventUpdate EventKind = "update"
	EventClose  EventKind = "close"
)

// Event is one display call recorded by MemorySink.
type Event struct {
	Kind    EventKind
	Label   Label
	Update  Update
	Summary Summary
}

// MemorySink records display calls in memory for tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Open(l Label) (Display, error) {
	s.record(Event{Kind: EventOpen, Label: l})
	return memoryDisplay{sink: s, label: l}, nil
}

func (s *MemorySink) record(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// EventsFor returns the recorded events of one worker, in order.
func (s *MemorySink) EventsFor(worker string) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Label.Worker == worker {
			out = append(out, e)
		}
	}
	return out
}

type memoryDisplay struct {
	sink  *MemorySink
	label Label
}

func (d memoryDisplay) Update(u Update) error {
	d.sink.record(Event{Kind: EventUpdate, Label: d.label, Update: u})
	return nil
}

func (d memoryDisplay) Close(s Summary) error {
	d.sink.record(Event{Kind: EventClose, Label: d.label, Summary: s})
	return nil
}

// MultiSink fans every display call out to several sinks. A failing member
// does not stop the others; their errors are joined.
type MultiSink []Sink

func (m MultiSink) Open(l Label) (Display, error) {
	ds := make(multiDisplay, 0, len(m))
	var errs []error
	for _, s := range m {
		d, err := s.Open(l)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		ds = append(ds, d)
	}
	return ds, errors.Join(errs...)
}

type multiDisplay []Display

func (m multiDisplay) Update(u Update) error {
	var errs []error
	for _, d := range m {
		if err := d.Update(u); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m multiDisplay) Close(s Summary) error {
	var errs []error
	for _, d := range m {
		if err := d.Close(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogSink writes run lifecycle to a zerolog logger: open and close at info,
// each update at debug.
type LogSink struct {
	Logger zerolog.Logger
}

func (s LogSink) Open(l Label) (Display, error) {
	lg := s.Logger.With().Str("run_id", l.RunID).Str("worker", l.Worker).Logger()
	lg.Info().Msg("progress open")
	return logDisplay{log: lg}, nil
}

type logDisplay struct{ log zerolog.Logger }

func (d logDisplay) Update(u Update) error {
	d.log.Debug().
		Int("iteration", u.Iteration).
		Int("step", u.StepIdx).
		Float64("log_z", u.LogZ).
		Int("num_likelihood_evals", u.NumLikelihoodEvaluations).
		Msg("progress")
	return nil
}

func (d logDisplay) Close(s Summary) error {
	d.log.Info().
		Int("updates", s.Updates).
		Int64("dropped", s.Dropped).
		Dur("elapsed", s.Elapsed).
		Msg("progress closed")
	return nil
}
