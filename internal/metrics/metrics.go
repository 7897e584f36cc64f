package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal    *prometheus.CounterVec
	ballotsSavedTotal    *prometheus.CounterVec
	ballotEntries        prometheus.Histogram
	eventsPublishedTotal *prometheus.CounterVec
	registerOnce         sync.Once
)

// Register initializes Prometheus metrics on the default registry.
func Register() {
	registerOnce.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cfbpoll",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests processed by the poll API.",
		}, []string{"method", "path", "status"})

		ballotsSavedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cfbpoll",
			Name:      "ballots_saved_total",
			Help:      "Ballot writes by variant and outcome.",
		}, []string{"variant", "outcome"})

		ballotEntries = promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cfbpoll",
			Name:      "ballot_entries",
			Help:      "Number of ranked teams per saved ballot.",
			Buckets:   []float64{1, 5, 10, 15, 20, 24, 25},
		})

		eventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cfbpoll",
			Name:      "ballot_events_published_total",
			Help:      "Ballot events handed to the event publisher.",
		}, []string{"status"})
	})
}

// IncRequest increments the http_requests_total counter with the given labels.
func IncRequest(method, path string, status int) {
	if httpRequestsTotal == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

func ObserveBallotSave(variant string, entries int, err error) {
	if ballotsSavedTotal == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ballotsSavedTotal.WithLabelValues(variant, outcome).Inc()
	if err == nil {
		ballotEntries.Observe(float64(entries))
	}
}

func IncEventPublished(ok bool) {
	if eventsPublishedTotal == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	eventsPublishedTotal.WithLabelValues(status).Inc()
}
