package handler

const (
	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// APIPath prefixes the JSON API.
	APIPath = "/api"

	// CheckAlivePath answers load balancer health checks.
	CheckAlivePath = "/checkalive"

	// MetricsPath exposes prometheus metrics.
	MetricsPath = "/metrics"

	// ErrNilACSMsg is used if app, cfg or store is nil.
	ErrNilACSMsg = "app, cfg or store is nil"
)
