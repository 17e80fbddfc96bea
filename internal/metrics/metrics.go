package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hooked/internal/optimistic"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hooked",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hooked",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hooked",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	pageFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hooked",
		Name:      "list_page_fetches_total",
		Help:      "Page fetches folded into list state, by outcome",
	}, []string{"list", "outcome"})

	pageLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hooked",
		Name:      "list_page_fetch_duration_seconds",
		Help:      "Duration of page fetches in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"list"})

	mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hooked",
		Name:      "list_mutations_total",
		Help:      "Optimistic mutations by kind and final phase",
	}, []string{"list", "kind", "phase"})

	storiesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hooked",
		Name:      "stories_swept_total",
		Help:      "Expired stories deleted by the sweeper",
	})
)

// Middleware records request metrics labelled by chi route pattern, so ids
// in paths do not explode the label set.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePage matches paging.Hook.
func ObservePage(list string, _ int, err error, elapsed time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	pageFetches.WithLabelValues(list, outcome).Inc()
	pageLatency.WithLabelValues(list).Observe(elapsed.Seconds())
}

// ObserveMutation matches optimistic.Hook.
func ObserveMutation(list string, kind optimistic.Kind, phase optimistic.Phase) {
	mutations.WithLabelValues(list, string(kind), phase.String()).Inc()
}

// StoriesSwept adds n to the sweeper counter.
func StoriesSwept(n int) {
	storiesSwept.Add(float64(n))
}
