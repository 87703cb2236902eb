package progress

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nestkit",
			Subsystem: "progress",
			Name:      "events_total",
			Help:      "Progress events delivered to displays",
		},
		[]string{"kind"},
	)

	droppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "nestkit",
			Subsystem: "progress",
			Name:      "dropped_total",
			Help:      "Progress updates dropped by backpressure",
		},
	)

	sinkErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "nestkit",
			Subsystem: "progress",
			Name:      "sink_errors_total",
			Help:      "Display failures isolated on the reporting goroutine",
		},
		[]string{"op"},
	)

	activeRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "nestkit",
			Subsystem: "progress",
			Name:      "active_runs",
			Help:      "Reporters that have not finished draining",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsTotal, droppedTotal, sinkErrorsTotal, activeRuns)
}
