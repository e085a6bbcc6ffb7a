package metrics

import "github.com/prometheus/client_golang/prometheus"

// LeadMetrics exposes counters/histograms for the lead capture and admin flows.
type LeadMetrics struct {
	otpRequests     *prometheus.CounterVec
	otpVerification *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	exports         prometheus.Counter
	backendLatency  *prometheus.HistogramVec
}

// NewLeadMetrics registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	m := &LeadMetrics{
		otpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgei2p",
			Subsystem: "leadform",
			Name:      "otp_requests_total",
			Help:      "OTP send attempts by outcome",
		}, []string{"outcome"}),
		otpVerification: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgei2p",
			Subsystem: "leadform",
			Name:      "otp_verifications_total",
			Help:      "OTP verification attempts by outcome",
		}, []string{"outcome"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bridgei2p",
			Subsystem: "leadform",
			Name:      "submissions_total",
			Help:      "Lead submissions by outcome",
		}, []string{"outcome"}),
		exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bridgei2p",
			Subsystem: "admin",
			Name:      "csv_exports_total",
			Help:      "CSV exports served from the dashboard",
		}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bridgei2p",
			Subsystem: "backend",
			Name:      "request_duration_seconds",
			Help:      "Latency of lead/OTP backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.otpRequests, m.otpVerification, m.submissions, m.exports, m.backendLatency)
	return m
}

func (m *LeadMetrics) ObserveOTPRequest(outcome string) {
	if m == nil {
		return
	}
	m.otpRequests.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveOTPVerification(outcome string) {
	if m == nil {
		return
	}
	m.otpVerification.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

func (m *LeadMetrics) ObserveExport() {
	if m == nil {
		return
	}
	m.exports.Inc()
}

// ObserveBackendCall satisfies leadapi.Observer.
func (m *LeadMetrics) ObserveBackendCall(operation, status string, seconds float64) {
	if m == nil {
		return
	}
	m.backendLatency.WithLabelValues(operation, status).Observe(seconds)
}
