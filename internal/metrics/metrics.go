// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the session counters.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder is the metrics surface used by the session authority, the registry and the HTTP layer.
type Recorder interface {
	RecordLogin(outcome string)
	RecordRegister(outcome string)
	RecordKeyRequest(outcome string)
	RecordKeyVerify(outcome string)
	RecordExpiration()
	RecordDerivation(state string)
	SetActiveConsoles(n int)
	SetSuperAdminSessions(n int)
	ObserveHTTP(method, route string, status int, d time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	logins         *prometheus.CounterVec
	registrations  *prometheus.CounterVec
	keyRequests    *prometheus.CounterVec
	keyVerifies    *prometheus.CounterVec
	expirations    prometheus.Counter
	derivations    *prometheus.CounterVec
	activeConsoles prometheus.Gauge
	superAdmins    prometheus.Gauge
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_admin_logins_total",
			Help: "Password login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_admin_registrations_total",
			Help: "Admin registrations by outcome.",
		}, []string{"outcome"}),
		keyRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_super_admin_key_requests_total",
			Help: "One-time key requests by outcome.",
		}, []string{"outcome"}),
		keyVerifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_super_admin_key_verifications_total",
			Help: "One-time key verifications by outcome.",
		}, []string{"outcome"}),
		expirations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "campus_super_admin_session_expirations_total",
			Help: "Keyless super-admin sessions cleared by the expiry ticker.",
		}),
		derivations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_session_derivations_total",
			Help: "Completed session derivations by resulting state.",
		}, []string{"state"}),
		activeConsoles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "campus_active_consoles",
			Help: "Consoles currently held in memory.",
		}),
		superAdmins: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "campus_super_admin_sessions",
			Help: "Consoles currently holding a super admin session.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "campus_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "campus_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.logins,
		c.registrations,
		c.keyRequests,
		c.keyVerifies,
		c.expirations,
		c.derivations,
		c.activeConsoles,
		c.superAdmins,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

func (c *Collector) RecordLogin(outcome string)      { c.logins.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordRegister(outcome string)   { c.registrations.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordKeyRequest(outcome string) { c.keyRequests.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordKeyVerify(outcome string)  { c.keyVerifies.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordExpiration()               { c.expirations.Inc() }
func (c *Collector) RecordDerivation(state string)   { c.derivations.WithLabelValues(state).Inc() }
func (c *Collector) SetActiveConsoles(n int)         { c.activeConsoles.Set(float64(n)) }
func (c *Collector) SetSuperAdminSessions(n int)     { c.superAdmins.Set(float64(n)) }

func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = Nop{}
)

// Nop discards everything. Used when metrics are not wired (tests, tools).
type Nop struct{}

func (Nop) RecordLogin(string)                             {}
func (Nop) RecordRegister(string)                          {}
func (Nop) RecordKeyRequest(string)                        {}
func (Nop) RecordKeyVerify(string)                         {}
func (Nop) RecordExpiration()                              {}
func (Nop) RecordDerivation(string)                        {}
func (Nop) SetActiveConsoles(int)                          {}
func (Nop) SetSuperAdminSessions(int)                      {}
func (Nop) ObserveHTTP(string, string, int, time.Duration) {}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
