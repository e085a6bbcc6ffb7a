package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			if matchLabels(metric, labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func matchLabels(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, pair := range metric.GetLabel() {
		if want, ok := labels[pair.GetName()]; ok {
			if want != pair.GetValue() {
				return false
			}
			matched++
		}
	}
	return matched == len(labels)
}

func TestLeadMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLeadMetrics(reg)
	m.ObserveOTPRequest("sent")
	m.ObserveOTPRequest("sent")
	m.ObserveOTPRequest("failed")
	m.ObserveOTPVerification("verified")
	m.ObserveSubmission("created")
	m.ObserveExport()
	m.ObserveBackendCall("send_otp", "200", 0.25)

	if got := counterValue(t, reg, "bridgei2p_leadform_otp_requests_total", map[string]string{"outcome": "sent"}); got != 2 {
		t.Fatalf("expected 2 sent otp requests, got %v", got)
	}
	if got := counterValue(t, reg, "bridgei2p_leadform_otp_requests_total", map[string]string{"outcome": "failed"}); got != 1 {
		t.Fatalf("expected 1 failed otp request, got %v", got)
	}
	if got := counterValue(t, reg, "bridgei2p_admin_csv_exports_total", nil); got != 1 {
		t.Fatalf("expected 1 export, got %v", got)
	}
}

func TestLeadMetricsDefaultRegistry(t *testing.T) {
	m := NewLeadMetrics(nil)
	m.ObserveSubmission("failed")
	prometheus.DefaultRegisterer.Unregister(m.otpRequests)
	prometheus.DefaultRegisterer.Unregister(m.otpVerification)
	prometheus.DefaultRegisterer.Unregister(m.submissions)
	prometheus.DefaultRegisterer.Unregister(m.exports)
	prometheus.DefaultRegisterer.Unregister(m.backendLatency)
}

func TestLeadMetricsNilSafe(t *testing.T) {
	var m *LeadMetrics
	m.ObserveOTPRequest("sent")
	m.ObserveOTPVerification("rejected")
	m.ObserveSubmission("created")
	m.ObserveExport()
	m.ObserveBackendCall("list_leads", "500", 0.1)
}
