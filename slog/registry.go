package slog

import (
	"log/slog"
	"time"

	"github.com/diogo-cruz/aisafety"
)

// Ensure LoggingRegistry implements aisafety.AdapterRegistry.
var _ aisafety.AdapterRegistry = (*LoggingRegistry)(nil)

// LoggingRegistry wraps an AdapterRegistry and logs publisher resolution.
type LoggingRegistry struct {
	next   aisafety.AdapterRegistry
	logger *slog.Logger
}

// NewLoggingRegistry creates a new LoggingRegistry.
func NewLoggingRegistry(next aisafety.AdapterRegistry, logger *slog.Logger) *LoggingRegistry {
	return &LoggingRegistry{next: next, logger: logger}
}

// Resolve delegates to the wrapped registry and logs the outcome.
func (r *LoggingRegistry) Resolve(identifier string) (a aisafety.Adapter, err error) {
	defer func(begin time.Time) {
		publisher := "(none)"
		if a != nil {
			publisher = a.Name()
		}
		r.logger.Info("publisher resolution",
			"identifier", identifier,
			"publisher", publisher,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(identifier)
}

// Get delegates to the wrapped registry.
func (r *LoggingRegistry) Get(name string) aisafety.Adapter {
	return r.next.Get(name)
}

// Register delegates to the wrapped registry.
func (r *LoggingRegistry) Register(a aisafety.Adapter) {
	r.next.Register(a)
}

// List delegates to the wrapped registry.
func (r *LoggingRegistry) List() []string {
	return r.next.List()
}
