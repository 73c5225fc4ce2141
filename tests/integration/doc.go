// Package integration provides integration tests that run the Redis cache
// backend against a real Redis instance started via testcontainers.
//
// Run with: go test -tags=integration ./tests/integration/...
package integration
