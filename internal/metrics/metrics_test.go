package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func getGaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	if err := g.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

func getCounterVecValue(cv *prometheus.CounterVec, labels ...string) float64 {
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

func getHistogramCount(hv *prometheus.HistogramVec, labels ...string) uint64 {
	o, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		return 0
	}
	var m dto.Metric
	if err := o.(prometheus.Metric).Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetrics_CatalogRequestsTotal(t *testing.T) {
	before := getCounterVecValue(CatalogRequestsTotal, "search", "success")
	CatalogRequestsTotal.WithLabelValues("search", "success").Inc()
	after := getCounterVecValue(CatalogRequestsTotal, "search", "success")

	if after != before+1 {
		t.Errorf("Expected success counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_CatalogRequestsTotal_LabelsIndependent(t *testing.T) {
	beforeErr := getCounterVecValue(CatalogRequestsTotal, "episodes", "network_error")
	beforeOK := getCounterVecValue(CatalogRequestsTotal, "episodes", "success")

	CatalogRequestsTotal.WithLabelValues("episodes", "network_error").Inc()

	if diff := getCounterVecValue(CatalogRequestsTotal, "episodes", "network_error") - beforeErr; diff != 1 {
		t.Errorf("Expected network_error counter to increment by 1, got diff %.0f", diff)
	}
	if diff := getCounterVecValue(CatalogRequestsTotal, "episodes", "success") - beforeOK; diff != 0 {
		t.Errorf("Expected success counter unchanged, got diff %.0f", diff)
	}
}

func TestMetrics_CatalogRequestDuration(t *testing.T) {
	before := getHistogramCount(CatalogRequestDuration, "search")
	CatalogRequestDuration.WithLabelValues("search").Observe(0.25)
	after := getHistogramCount(CatalogRequestDuration, "search")

	if after != before+1 {
		t.Errorf("Expected one more observation, got diff %d", after-before)
	}
}

func TestMetrics_UserActionsTotal(t *testing.T) {
	before := getCounterVecValue(UserActionsTotal, "search", "superseded")
	UserActionsTotal.WithLabelValues("search", "superseded").Inc()
	after := getCounterVecValue(UserActionsTotal, "search", "superseded")

	if after != before+1 {
		t.Errorf("Expected superseded counter to increment by 1, got diff %.0f", after-before)
	}
}

func TestMetrics_ActiveSessions(t *testing.T) {
	before := getGaugeValue(ActiveSessions)
	ActiveSessions.Inc()
	ActiveSessions.Inc()
	ActiveSessions.Dec()
	after := getGaugeValue(ActiveSessions)

	if after != before+1 {
		t.Errorf("Expected gauge to rise by 1, got diff %.0f", after-before)
	}
	ActiveSessions.Dec()
}

func TestNewHTTPServer(t *testing.T) {
	tests := []struct {
		name     string
		address  string
		port     int
		expected string
	}{
		{name: "explicit port", address: "localhost", port: 9191, expected: "localhost:9191"},
		{name: "default port", address: "0.0.0.0", port: 0, expected: "0.0.0.0:9090"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := NewHTTPServer(tt.address, tt.port)
			if srv.Addr != tt.expected {
				t.Errorf("Expected address %q, got %q", tt.expected, srv.Addr)
			}
			if srv.Handler == nil {
				t.Error("Expected a handler exposing /metrics")
			}
		})
	}
}
