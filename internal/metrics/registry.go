// Package metrics provides optional Prometheus instrumentation for the
// dispatcher and protocol layers behind small, nil-safe interfaces.
// Metrics collection is off until InitRegistry is called; every exported
// constructor and every metric method on a value obtained before that call
// is a safe no-op.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu       sync.RWMutex
	registry *prometheus.Registry
)

// InitRegistry creates and installs the package-level Prometheus registry,
// enabling metrics collection. Safe to call more than once; later calls
// replace the registry (existing collectors registered against the old one
// are orphaned, matching the usual restart-time wiring of a CLI's metrics
// flag).
func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	mu.Lock()
	registry = reg
	mu.Unlock()
	return reg
}

// IsEnabled reports whether InitRegistry has been called.
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return registry != nil
}

// GetRegistry returns the installed registry, or nil if metrics were never
// initialized.
func GetRegistry() *prometheus.Registry {
	mu.RLock()
	defer mu.RUnlock()
	return registry
}
