// Package metrics collects Prometheus metrics for the HTTP layer and the
// user and exercise services.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the subset used by the services.
type Recorder interface {
	RecordUserCreated()
	RecordDuplicateUsername()
	RecordExerciseLogged()
	RecordLogQuery(returned int)
}

type Collector struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	usersCreated    prometheus.Counter
	duplicates      prometheus.Counter
	exercisesLogged prometheus.Counter
	logEntries      prometheus.Histogram
}

// NewCollector registers all metrics plus the Go runtime and process
// collectors on a dedicated registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "exercisetracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "exercisetracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exercisetracker",
			Name:      "users_created_total",
			Help:      "Users registered.",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exercisetracker",
			Name:      "duplicate_usernames_total",
			Help:      "Registrations rejected because the username was taken.",
		}),
		exercisesLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "exercisetracker",
			Name:      "exercises_logged_total",
			Help:      "Exercises persisted.",
		}),
		logEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "exercisetracker",
			Name:      "log_entries_returned",
			Help:      "Number of exercises returned per log query.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
	}

	reg.MustRegister(
		c.requests,
		c.requestDuration,
		c.usersCreated,
		c.duplicates,
		c.exercisesLogged,
		c.logEntries,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RecordUserCreated() {
	c.usersCreated.Inc()
}

func (c *Collector) RecordDuplicateUsername() {
	c.duplicates.Inc()
}

func (c *Collector) RecordExerciseLogged() {
	c.exercisesLogged.Inc()
}

func (c *Collector) RecordLogQuery(returned int) {
	c.logEntries.Observe(float64(returned))
}

// Handler exposes the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Nop discards everything. Useful where metrics are irrelevant.
type Nop struct{}

func (Nop) RecordUserCreated()       {}
func (Nop) RecordDuplicateUsername() {}
func (Nop) RecordExerciseLogged()    {}
func (Nop) RecordLogQuery(int)       {}
