package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upload outcomes used as the "outcome" label.
const (
	OutcomeOK           = "ok"
	OutcomeClientError  = "client_error"
	OutcomeStorageError = "storage_error"
)

// Metrics holds the relay's Prometheus collectors.
type Metrics struct {
	uploads          *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	analysisErrors   prometheus.Counter
	commands         prometheus.Counter
	streamClients    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agrorelay_uploads_total",
			Help: "Image uploads by outcome.",
		}, []string{"outcome"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agrorelay_analysis_duration_seconds",
			Help:    "Time spent in the analysis stage, including waiting for the analysis lock.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		analysisErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agrorelay_analysis_errors_total",
			Help: "Analyses that produced an error-shaped result.",
		}),
		commands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agrorelay_commands_total",
			Help: "Commands written to the mailbox by operators.",
		}),
		streamClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agrorelay_stream_clients",
			Help: "Currently connected MJPEG stream clients.",
		}),
	}

	reg.MustRegister(m.uploads, m.analysisDuration, m.analysisErrors, m.commands, m.streamClients)
	return m
}

// The methods below accept a nil receiver so callers can run without metrics.

func (m *Metrics) UploadFinished(outcome string) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) AnalysisFinished(seconds float64, failed bool) {
	if m == nil {
		return
	}
	m.analysisDuration.Observe(seconds)
	if failed {
		m.analysisErrors.Inc()
	}
}

func (m *Metrics) CommandSet() {
	if m == nil {
		return
	}
	m.commands.Inc()
}

func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.streamClients.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.streamClients.Dec()
}
