package progress

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"nestkit/pkg/types"
)

const (
	DefaultBufferSize   = 64
	DefaultBlockTimeout = 50 * time.Millisecond
	DefaultHistory      = 16
	DefaultDrainTimeout = 5 * time.Second
)

// HubConfig holds construction-time options for a Hub.
type HubConfig struct {
	// Sink renders runs; nil discards.
	Sink Sink
	// BufferSize bounds each reporter's queue; <= 0 means DefaultBufferSize.
	BufferSize int
	Policy     Policy
	// BlockTimeout bounds the Block policy's wait; <= 0 means DefaultBlockTimeout.
	BlockTimeout time.Duration
	// History is how many finished runs Snapshot keeps; 0 means DefaultHistory,
	// negative keeps none.
	History int
	// DrainTimeout bounds how long Acquire waits for a closed reporter on the
	// same worker to finish rendering; <= 0 means DefaultDrainTimeout.
	DrainTimeout time.Duration
	// Logger is optional; nil logs nothing.
	Logger *zerolog.Logger
}

// Hub owns the display resources of all workers. At most one reporter per
// worker exists until its display has been closed.
type Hub struct {
	cfg HubConfig
	log zerolog.Logger

	mu      sync.Mutex
	active  map[string]*Reporter
	history []types.ProgressStatus
}

// NewHub builds a Hub, applying defaults to cfg.
func NewHub(cfg HubConfig) *Hub {
	if cfg.Sink == nil {
		cfg.Sink = discardSink{}
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}
	if cfg.DrainTimeout <= 0 {
		cfg.DrainTimeout = DefaultDrainTimeout
	}
	if cfg.History == 0 {
		cfg.History = DefaultHistory
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Hub{cfg: cfg, log: log, active: make(map[string]*Reporter)}
}

var (
	defaultHubOnce sync.Once
	defaultHub     *Hub
)

// SetDefault installs h as the hub used when Options.Hub is nil. It reports
// false, leaving the existing hub in place, once Default has been used.
func SetDefault(h *Hub) bool {
	installed := false
	defaultHubOnce.Do(func() { defaultHub, installed = h, true })
	if !installed && h != nil {
		h.log.Warn().Msg("progress: default hub already in use, SetDefault ignored")
	}
	return installed
}

// Default returns the process-wide hub, creating a discarding one on first use.
func Default() *Hub {
	defaultHubOnce.Do(func() { defaultHub = NewHub(HubConfig{}) })
	return defaultHub
}

// Acquire opens a new ACTIVE reporter for worker. If the worker's previous
// reporter is closed but still rendering, Acquire waits up to DrainTimeout for
// it to drain. A previous reporter that is still ACTIVE, or one that does not
// drain in time, yields a worker-busy error.
func (h *Hub) Acquire(worker string) (*Reporter, error) {
	var timer *time.Timer
	for {
		h.mu.Lock()
		prev, busy := h.active[worker]
		if !busy {
			r := newReporter(h, Label{RunID: uuid.NewString(), Worker: worker})
			h.active[worker] = r
			h.mu.Unlock()

			activeRuns.Inc()
			go r.run(h.cfg.Sink)
			return r, nil
		}
		h.mu.Unlock()

		if prev.Phase() == PhaseActive {
			return nil, workerBusyError{worker: worker}
		}
		if timer == nil {
			timer = time.NewTimer(h.cfg.DrainTimeout)
			defer timer.Stop()
		}
		select {
		case <-prev.Drained():
		case <-timer.C:
			h.log.Warn().Str("worker", worker).Str("run_id", prev.label.RunID).Msg("previous progress run did not drain")
			return nil, workerBusyError{worker: worker}
		}
	}
}

func (h *Hub) release(r *Reporter) {
	st := r.Status()
	h.mu.Lock()
	if h.active[r.label.Worker] == r {
		delete(h.active, r.label.Worker)
	}
	if h.cfg.History > 0 {
		h.history = append(h.history, st)
		if over := len(h.history) - h.cfg.History; over > 0 {
			h.history = append(h.history[:0:0], h.history[over:]...)
		}
	}
	h.mu.Unlock()
	activeRuns.Dec()
}

// Active returns the number of reporters still draining.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.active)
}

// Snapshot returns active runs sorted by worker, followed by finished runs
// oldest first.
func (h *Hub) Snapshot() []types.ProgressStatus {
	h.mu.Lock()
	active := make([]*Reporter, 0, len(h.active))
	for _, r := range h.active {
		active = append(active, r)
	}
	out := make([]types.ProgressStatus, 0, len(active)+len(h.history))
	hist := append([]types.ProgressStatus(nil), h.history...)
	h.mu.Unlock()

	sort.Slice(active, func(i, j int) bool { return active[i].label.Worker < active[j].label.Worker })
	for _, r := range active {
		out = append(out, r.Status())
	}
	return append(out, hist...)
}

// Wait blocks until every reporter active at call time has drained, or ctx
// is done.
func (h *Hub) Wait(ctx context.Context) error {
	h.mu.Lock()
	pending := make([]*Reporter, 0, len(h.active))
	for _, r := range h.active {
		pending = append(pending, r)
	}
	h.mu.Unlock()
	for _, r := range pending {
		select {
		case <-r.Drained():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
