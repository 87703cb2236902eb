// Package progress reports the progress of tracked loops without touching
// their numerics. It is structured into small files by concern:
//
//   - hub.go: Hub, the process-wide registry of reporters keyed by worker.
//   - reporter.go: Reporter, the per-run lifecycle and bounded transport.
//   - sink.go: Sink/Display interfaces, MemorySink, MultiSink, LogSink.
//   - terminal.go: TerminalSink, a tqdm-like single line per worker.
//   - extract.go: Extractors reading sampler.State out of loop states.
//   - attach.go: Attach (a loop.Observer) and RunTrackedLoop.
//   - metrics.go: Prometheus collectors.
//
// Lifecycle of one run: UNINITIALIZED -> ACTIVE when the loop begins its
// first iteration; one update per iteration while ACTIVE; ACTIVE -> CLOSED
// the first time the sampler reports done, or when the loop exits. Updates
// travel over a bounded channel to a goroutine that owns the display, so the
// loop never waits on rendering. Per-worker FIFO order is preserved; when the
// channel is full the configured Policy decides which update is dropped.
// Display faults, including panics, stay on the reporting goroutine.
package progress
