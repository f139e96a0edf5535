package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	VotersRegistered prometheus.Counter
	VotesCast        prometheus.Counter
	VotesRejected    *prometheus.CounterVec
	RequestLatency   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		VotersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nirvachan_voters_registered_total",
			Help: "Total number of voters successfully registered",
		}),
		VotesCast: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nirvachan_votes_cast_total",
			Help: "Total number of votes successfully recorded",
		}),
		VotesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nirvachan_votes_rejected_total",
			Help: "Total number of rejected cast attempts by reason",
		}, []string{"reason"}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nirvachan_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// IncrementVotersRegistered increments the registered-voters counter by 1.
func (m *Metrics) IncrementVotersRegistered() {
	if m == nil {
		return
	}
	m.VotersRegistered.Inc()
}

// IncrementVotesCast increments the cast-votes counter by 1.
func (m *Metrics) IncrementVotesCast() {
	if m == nil {
		return
	}
	m.VotesCast.Inc()
}

// IncrementVotesRejected counts a rejected cast attempt under its reason code.
func (m *Metrics) IncrementVotesRejected(reason string) {
	if m == nil {
		return
	}
	m.VotesRejected.WithLabelValues(reason).Inc()
}

// ObserveRequest records one HTTP request observation.
func (m *Metrics) ObserveRequest(route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestLatency.WithLabelValues(route, status).Observe(seconds)
}
