package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// BookingMetrics exposes counters/histograms for the booking proxy.
type BookingMetrics struct {
	requestsTotal    *prometheus.CounterVec
	rateLimitedTotal *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "proxy",
			Name:      "requests_total",
			Help:      "Total proxied widget requests",
		}, []string{"endpoint", "status"}),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Subsystem: "proxy",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter",
		}, []string{"context"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "booking",
			Subsystem: "upstream",
			Name:      "request_seconds",
			Help:      "Latency of YCLIENTS API calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.rateLimitedTotal, m.upstreamLatency)
	return m
}

func (m *BookingMetrics) ObserveRequest(endpoint string, status int) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

func (m *BookingMetrics) ObserveRateLimited(requestContext string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(requestContext).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(resource string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(resource).Observe(seconds)
}
