package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records environment activity served over HTTP
type Metrics struct {
	steps    *prometheus.CounterVec
	episodes *prometheus.CounterVec
	errors   *prometheus.CounterVec
	rewards  *prometheus.HistogramVec
	sessions prometheus.Gauge
	expired  prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		steps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_rl_env_steps_total",
				Help: "Total number of environment steps",
			},
			[]string{"split"},
		),
		episodes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_rl_env_episodes_total",
				Help: "Total number of episodes started by a reset",
			},
			[]string{"split"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "keyword_rl_env_errors_total",
				Help: "Total number of rejected environment requests",
			},
			[]string{"kind"},
		),
		rewards: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "keyword_rl_env_step_reward",
				Help:    "Reward of every step",
				Buckets: prometheus.LinearBuckets(-20, 4, 11),
			},
			[]string{"split"},
		),
		sessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "keyword_rl_env_active_sessions",
				Help: "Number of open sessions",
			},
		),
		expired: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "keyword_rl_env_expired_sessions_total",
				Help: "Total number of sessions removed for being idle",
			},
		),
	}
}

func (m *Metrics) RecordStep(split string, reward float64) {
	m.steps.WithLabelValues(split).Inc()
	m.rewards.WithLabelValues(split).Observe(reward)
}

func (m *Metrics) RecordEpisode(split string) {
	m.episodes.WithLabelValues(split).Inc()
}

func (m *Metrics) RecordError(kind string) {
	m.errors.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordExpired(n int) {
	m.expired.Add(float64(n))
}

func (m *Metrics) SetSessions(n int) {
	m.sessions.Set(float64(n))
}
