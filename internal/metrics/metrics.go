package metrics

import "github.com/prometheus/client_golang/prometheus"

// Pipeline holds the Prometheus instrumentation for the detection pipeline.
type Pipeline struct {
	EventsProcessed prometheus.Counter
	AlertsEmitted   *prometheus.CounterVec
	QueueDropped    prometheus.Counter
}

// NewPipeline creates the pipeline counters and registers them with reg.
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	p := &Pipeline{
		EventsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ransomguard_file_events_total",
			Help: "File change notifications processed by the detection pipeline",
		}),
		AlertsEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ransomguard_alerts_total",
				Help: "Alerts emitted by the classifier",
			},
			[]string{"severity", "type"},
		),
		QueueDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ransomguard_queue_dropped_total",
			Help: "Change notifications dropped because the pipeline queue was full",
		}),
	}

	if reg != nil {
		reg.MustRegister(p.EventsProcessed, p.AlertsEmitted, p.QueueDropped)
	}
	return p
}
