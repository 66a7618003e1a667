package middleware

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics returns middleware that counts requests and observes their latency
// by status code and method, registering the collectors with reg.
func Metrics(reg prometheus.Registerer, subsystem string) func(http.Handler) http.Handler {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "newsqual",
		Subsystem: subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by status code and method.",
	}, []string{"code", "method"})

	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "newsqual",
		Subsystem: subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by status code and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"code", "method"})

	reg.MustRegister(requests, duration)

	return func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(requests,
			promhttp.InstrumentHandlerDuration(duration, next),
		)
	}
}
