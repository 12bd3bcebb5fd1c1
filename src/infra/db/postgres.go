// Package db provides database connection management for PostgreSQL.
// It resolves the connection target once at startup and uses pgx for the
// pool itself.
package db

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool limits per the bridge's resource model: a bounded pool, short idle
// lifetimes, and a hard connect deadline so a caller that cannot obtain a
// connection fails instead of hanging.
const (
	maxConns       = 10
	idleLifetime   = 30 * time.Second
	connectTimeout = 10 * time.Second
)

// ErrNotConnected is returned when no pool has been constructed, either
// because configuration is missing or because startup degraded.
var ErrNotConnected = errors.New("database pool not initialized")

// Postgres wraps a pgx connection pool with helper methods. A Postgres with
// a nil Pool is legal: it represents degraded mode, where every data
// operation reports a connection error but the process keeps serving.
type Postgres struct {
	Pool *pgxpool.Pool
	log  *slog.Logger
}

// Open builds a connection pool from the resolved configuration. It is lazy:
// no connection is established at call time, and an unreachable database
// does not fail Open. Only an unparseable connection string does.
func Open(ctx context.Context, resolved ResolvedConfig, log *slog.Logger) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(resolved.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	poolCfg.MaxConns = maxConns
	poolCfg.MaxConnIdleTime = idleLifetime
	// The background health check also discards broken idle connections,
	// logging nothing and never surfacing to request handlers.
	poolCfg.HealthCheckPeriod = idleLifetime
	poolCfg.ConnConfig.ConnectTimeout = connectTimeout

	// Transport dials the resolved literal IP over IPv4 only; the TLS
	// handshake still sees the original hostname.
	if resolved.TransportHost != "" {
		poolCfg.ConnConfig.Host = resolved.TransportHost
	}
	dialer := &net.Dialer{Timeout: connectTimeout}
	poolCfg.ConnConfig.DialFunc = func(ctx context.Context, _ string, addr string) (net.Conn, error) {
		return dialer.DialContext(ctx, "tcp4", addr)
	}

	switch resolved.Policy {
	case TLSNone:
		poolCfg.ConnConfig.TLSConfig = nil
	case TLSRequireServerName:
		// Encrypted, ServerName carried for the handshake identity, but
		// the certificate is still not verified. Deliberate: these
		// providers terminate TLS on proxies whose certificates rarely
		// match the resolved address.
		poolCfg.ConnConfig.TLSConfig = &tls.Config{
			InsecureSkipVerify: true,
			ServerName:         resolved.TLSServerName,
		}
	default:
		poolCfg.ConnConfig.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pg := &Postgres{Pool: pool, log: log}

	// Best-effort reachability probe. Failure degrades, never aborts.
	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		log.Warn("database not reachable at startup, continuing in degraded mode",
			"error", err,
		)
		return pg, nil
	}

	log.Info("database connection established",
		"tls_policy", resolved.Policy.String(),
		"resolved_host", resolved.TransportHost,
	)
	return pg, nil
}

// Close closes the connection pool.
// Call this during graceful shutdown.
func (p *Postgres) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
		p.log.Info("database connection closed")
	}
}

// Health checks if the database is reachable.
// Returns nil if healthy, error otherwise.
func (p *Postgres) Health(ctx context.Context) error {
	if p == nil || p.Pool == nil {
		return ErrNotConnected
	}
	return p.Pool.Ping(ctx)
}
