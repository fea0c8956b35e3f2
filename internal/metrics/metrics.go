package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the application counters exported on /metrics next to the
// HTTP metrics recorded by fiberprometheus.
type Registry struct {
	// Admin
	AdminActionsTotal *prometheus.CounterVec

	// Auth
	TokensIssuedTotal *prometheus.CounterVec
	AuthFailuresTotal *prometheus.CounterVec

	// Cache
	UserCacheHitsTotal   prometheus.Counter
	UserCacheMissesTotal prometheus.Counter

	// Logging
	SystemLogsFlushedTotal prometheus.Counter
}

var Default = NewRegistry(prometheus.DefaultRegisterer)

func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		AdminActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jetbench_admin_actions_total",
				Help: "Admin writes by model and action",
			},
			[]string{"model", "action"},
		),
		TokensIssuedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jetbench_tokens_issued_total",
				Help: "JWTs issued by token type",
			},
			[]string{"token_type"},
		),
		AuthFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jetbench_auth_failures_total",
				Help: "Rejected authentication attempts by reason",
			},
			[]string{"reason"},
		),
		UserCacheHitsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jetbench_user_cache_hits_total",
				Help: "Authenticated user lookups served from cache",
			},
		),
		UserCacheMissesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jetbench_user_cache_misses_total",
				Help: "Authenticated user lookups that hit the database",
			},
		),
		SystemLogsFlushedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "jetbench_system_logs_flushed_total",
				Help: "Error log records persisted to system_logs",
			},
		),
	}
}
