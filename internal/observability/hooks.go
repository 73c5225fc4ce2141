package observability

import (
	"context"

	"moviegate/internal/upstream"
)

// NewPrometheusHooks returns upstream hooks that record request counts and latency.
func NewPrometheusHooks() upstream.Hooks {
	return upstream.Hooks{
		OnRequestEnd: func(_ context.Context, info upstream.RequestInfo) {
			upstreamRequestsTotal.WithLabelValues(info.Endpoint, info.Outcome).Inc()
			upstreamRequestDuration.WithLabelValues(info.Endpoint).Observe(info.Duration.Seconds())
		},
	}
}
