package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"datatable/metrics"
)

func TestOpCounts(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	m.Op("apply", metrics.ResultOK)
	m.Op("apply", metrics.ResultOK)
	m.Op("apply", metrics.ResultNotFound)

	if got := testutil.ToFloat64(m.OpCount("apply", metrics.ResultOK)); got != 2 {
		t.Fatalf("expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.OpCount("apply", metrics.ResultNotFound)); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SessionOpened()
	m.Pipeline(10, 2)
	m.Op("reset", metrics.ResultAborted)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"datatable_session_operations_total",
		"datatable_sessions_open",
		"datatable_pipeline_runs_total",
		"datatable_pipeline_input_rows",
		"datatable_pipeline_groups",
	} {
		if !names[want] {
			t.Errorf("missing metric family %s", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	m.Op("apply", metrics.ResultOK)
	m.SessionOpened()
	m.SessionClosed()
	m.Pipeline(1, 1)
}
