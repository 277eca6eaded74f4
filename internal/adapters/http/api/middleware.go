package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/woolshed/flockmark/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metrics wraps a handler with request counting and latency recording. The
// route pattern keeps label cardinality bounded.
func (s *Server) metrics(route string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(recorder, r)

		metrics.RecordHTTPRequest(route, r.Method, strconv.Itoa(recorder.status))
		metrics.RecordHTTPRequestDuration(route, r.Method, float64(time.Since(start).Milliseconds()))
	})
}

func (s *Server) metricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
