package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

var (
	AuthSuccessTotal     prometheus.Counter
	AuthFailureTotal     prometheus.Counter
	PolicyDenialsTotal   prometheus.Counter
	SessionsCreatedTotal prometheus.Counter
	SessionsRevokedTotal prometheus.Counter
	ActiveSessionsGauge  prometheus.Gauge
)

func init() {
	// Collectors exist from package load so services and tests can update
	// them freely; registration happens once in InitCustomMetrics.
	newCollectors()
}

func newCollectors() {
	AuthSuccessTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chathub_auth_success_total",
		Help: "Total number of successfully authenticated requests.",
	})
	AuthFailureTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chathub_auth_failure_total",
		Help: "Total number of rejected authentication attempts.",
	})
	PolicyDenialsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chathub_policy_denials_total",
		Help: "Total number of security policy validation failures.",
	})
	SessionsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chathub_sessions_created_total",
		Help: "Total number of sessions created.",
	})
	SessionsRevokedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "chathub_sessions_revoked_total",
		Help: "Total number of sessions revoked.",
	})
	ActiveSessionsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "chathub_active_sessions_gauge",
		Help: "Current number of active user sessions.",
	})
}

// InitCustomMetrics registers the custom Prometheus metrics.
// It should be called once at application startup.
func InitCustomMetrics(reg prometheus.Registerer) {
	if reg == nil {
		log.Error().Msg("Prometheus registry is nil, cannot register custom metrics.")
		return
	}

	collectors := map[string]prometheus.Collector{
		"AuthSuccessTotal":     AuthSuccessTotal,
		"AuthFailureTotal":     AuthFailureTotal,
		"PolicyDenialsTotal":   PolicyDenialsTotal,
		"SessionsCreatedTotal": SessionsCreatedTotal,
		"SessionsRevokedTotal": SessionsRevokedTotal,
		"ActiveSessionsGauge":  ActiveSessionsGauge,
	}
	for name, c := range collectors {
		if err := reg.Register(c); err != nil {
			log.Warn().Err(err).Msgf("Failed to register %s metric", name)
		}
	}
	log.Info().Msg("Custom Prometheus metrics registered.")
}
