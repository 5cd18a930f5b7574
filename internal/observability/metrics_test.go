package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.UploadFinished(OutcomeOK)
	m.UploadFinished(OutcomeOK)
	m.UploadFinished(OutcomeStorageError)
	if got := testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeOK)); got != 2 {
		t.Fatalf("expected 2 ok uploads, got %f", got)
	}
	if got := testutil.ToFloat64(m.uploads.WithLabelValues(OutcomeStorageError)); got != 1 {
		t.Fatalf("expected 1 storage error, got %f", got)
	}

	m.AnalysisFinished(0.05, false)
	m.AnalysisFinished(0.01, true)
	if samples := testutil.CollectAndCount(m.analysisDuration); samples != 1 {
		t.Fatalf("expected one histogram series, got %d", samples)
	}
	if got := testutil.ToFloat64(m.analysisErrors); got != 1 {
		t.Fatalf("expected 1 analysis error, got %f", got)
	}

	m.CommandSet()
	if got := testutil.ToFloat64(m.commands); got != 1 {
		t.Fatalf("expected 1 command, got %f", got)
	}

	m.StreamOpened()
	m.StreamOpened()
	m.StreamClosed()
	if got := testutil.ToFloat64(m.streamClients); got != 1 {
		t.Fatalf("expected 1 stream client, got %f", got)
	}
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	m.UploadFinished(OutcomeOK)
	m.AnalysisFinished(1, true)
	m.CommandSet()
	m.StreamOpened()
	m.StreamClosed()
}
