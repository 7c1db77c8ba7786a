package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_cache_lookups_total",
			Help: "Number of settings cache lookups, differentiated by result.",
		},
		[]string{"result"},
	)

	backendErrors = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_backend_errors_total",
			Help: "Number of failed settings operations, differentiated by operation and error kind.",
		},
		[]string{"op", "kind"},
	)

	defaultsCreated = promauto.NewCounter( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_defaults_created_total",
			Help: "Number of times the default settings record was synthesized on an empty table.",
		},
	)
)

func countError(op string, err error) {
	if err == nil {
		return
	}

	backendErrors.WithLabelValues(op, KindOf(err).String()).Inc()
}
