// Package connect opens live database connections from profiles, wiring
// the TLS configuration produced by internal/ssl into each driver. Only
// connection establishment and SSL status reporting live here; per-engine
// query handling belongs to the plugin layer above.
package connect

import (
	"context"
	"fmt"
	"time"

	"github.com/oriys/quasar/internal/cache"
	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/logging"
	"github.com/oriys/quasar/internal/metrics"
	"github.com/oriys/quasar/internal/observability"
	"github.com/oriys/quasar/internal/profile"
	"github.com/oriys/quasar/internal/ssl"
)

// Connector opens a connection for one engine and reports its SSL status.
type Connector interface {
	// Type returns the engine this connector serves.
	Type() engine.DatabaseType

	// Test opens a connection from the profile, verifies it with a ping,
	// reports the effective SSL status, and closes the connection.
	Test(ctx context.Context, p *profile.Profile) (*engine.SSLStatus, error)
}

// Manager dispatches to the registered connectors and caches SSL status
// results.
type Manager struct {
	connectors map[engine.DatabaseType]Connector
	statuses   cache.StatusCache
}

// NewManager creates a manager with the built-in connectors registered.
// builder and reg may be nil to use the package defaults.
func NewManager(builder *ssl.Builder, reg *ssl.Registry, statuses cache.StatusCache) *Manager {
	if builder == nil {
		builder = ssl.NewBuilder()
	}
	if reg == nil {
		reg = ssl.DefaultRegistry()
	}
	if statuses == nil {
		statuses = cache.NewInMemoryStatusCache(0)
	}
	m := &Manager{
		connectors: make(map[engine.DatabaseType]Connector),
		statuses:   statuses,
	}
	m.RegisterConnector(&PostgresConnector{Builder: builder, Registry: reg})
	m.RegisterConnector(&RedisConnector{Builder: builder, Registry: reg})
	return m
}

// RegisterConnector adds or replaces the connector for an engine.
func (m *Manager) RegisterConnector(c Connector) {
	m.connectors[c.Type()] = c
}

// Supported reports whether a connection test is available for the engine.
func (m *Manager) Supported(dbType engine.DatabaseType) bool {
	_, ok := m.connectors[dbType]
	return ok
}

// Test runs a connection test for the profile, recording metrics and a
// span, and caches the reported SSL status under the profile fingerprint.
func (m *Manager) Test(ctx context.Context, p *profile.Profile) (*engine.SSLStatus, error) {
	conn, ok := m.connectors[p.Type]
	if !ok {
		return nil, fmt.Errorf("no connector registered for %s", p.Type)
	}

	ctx, span := observability.StartSpan(ctx, "connect.test",
		observability.AttrDatabaseType.String(string(p.Type)),
		observability.AttrProfileID.String(p.ID),
		observability.AttrHostname.String(p.Hostname),
	)
	defer span.End()

	start := time.Now()
	status, err := conn.Test(ctx, p)
	metrics.RecordConnectionTest(string(p.Type), time.Since(start), err)
	if err != nil {
		observability.SetSpanError(span, err)
		logging.Op().Warn("connection test failed", "database", string(p.Type), "hostname", p.Hostname, "error", err)
		return nil, err
	}
	span.SetAttributes(
		observability.AttrSSLEnabled.Bool(status.IsEnabled),
		observability.AttrSSLMode.String(status.Mode),
	)
	observability.SetSpanOK(span)

	if err := m.statuses.Set(p.Fingerprint(), status); err != nil {
		logging.Op().Debug("ssl status cache set failed", "error", err)
	}
	return status, nil
}

// SSLStatus returns the cached SSL status for the profile, falling back
// to a fresh connection test on a miss.
func (m *Manager) SSLStatus(ctx context.Context, p *profile.Profile) (*engine.SSLStatus, error) {
	if status, err := m.statuses.Get(p.Fingerprint()); err == nil {
		metrics.RecordStatusCacheLookup(true)
		return status, nil
	}
	metrics.RecordStatusCacheLookup(false)
	return m.Test(ctx, p)
}
