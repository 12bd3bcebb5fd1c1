package db

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexbridge/src/infra/logger"
)

func testResolver(lookup func(ctx context.Context, host string) ([]net.IP, error)) *Resolver {
	r := NewResolver(logger.Discard())
	if lookup != nil {
		r.lookupIPv4 = lookup
	}
	return r
}

func TestResolveInternalHosts(t *testing.T) {
	r := testResolver(func(ctx context.Context, host string) ([]net.IP, error) {
		t.Fatalf("unexpected DNS lookup for %q", host)
		return nil, nil
	})

	t.Run("localhost in development", func(t *testing.T) {
		out := r.Resolve(context.Background(), "postgres://u:p@localhost:5432/records", false)
		assert.Equal(t, TLSNone, out.Policy)
		assert.Empty(t, out.TransportHost)
		assert.Empty(t, out.TLSServerName)
		assert.Equal(t, "postgres://u:p@localhost:5432/records", out.ConnString)
	})

	t.Run("localhost in production", func(t *testing.T) {
		out := r.Resolve(context.Background(), "postgres://u:p@localhost:5432/records", true)
		assert.Equal(t, TLSRequireUnverified, out.Policy)
	})

	t.Run("private network suffix never gets the server-name policy", func(t *testing.T) {
		raw := "postgres://u:p@pg.railway.internal:5432/records"
		out := r.Resolve(context.Background(), raw, true)
		assert.Equal(t, TLSRequireUnverified, out.Policy)
		assert.Empty(t, out.TransportHost)
		assert.Equal(t, raw, out.ConnString)
	})

	t.Run("URL requesting TLS keeps it in development", func(t *testing.T) {
		out := r.Resolve(context.Background(), "postgres://u:p@localhost/records?sslmode=require", false)
		assert.Equal(t, TLSRequireUnverified, out.Policy)
	})

	t.Run("literal IPv4 is not rewritten", func(t *testing.T) {
		out := r.Resolve(context.Background(), "postgres://u:p@192.168.4.20:5432/records", false)
		assert.Equal(t, TLSNone, out.Policy)
		assert.Empty(t, out.TransportHost)
	})
}

func TestResolveExternalHost(t *testing.T) {
	t.Run("successful resolution rewrites transport and carries the name", func(t *testing.T) {
		r := testResolver(func(ctx context.Context, host string) ([]net.IP, error) {
			require.Equal(t, "ep-example.us-east-2.aws.neon.tech", host)
			return []net.IP{net.ParseIP("203.0.113.10"), net.ParseIP("203.0.113.11")}, nil
		})
		raw := "postgres://u:p@ep-example.us-east-2.aws.neon.tech/records?sslmode=require"
		out := r.Resolve(context.Background(), raw, true)

		assert.Equal(t, "203.0.113.10", out.TransportHost)
		assert.Equal(t, "ep-example.us-east-2.aws.neon.tech", out.TLSServerName)
		assert.Equal(t, TLSRequireServerName, out.Policy)
		assert.Equal(t, raw, out.ConnString)
		assert.Equal(t, "Neon", out.Provider)
	})

	t.Run("failed resolution defers to the driver", func(t *testing.T) {
		r := testResolver(func(ctx context.Context, host string) ([]net.IP, error) {
			return nil, errors.New("no such host")
		})
		raw := "postgres://u:p@db.example.com/records"
		out := r.Resolve(context.Background(), raw, true)

		assert.Empty(t, out.TransportHost)
		assert.Empty(t, out.TLSServerName)
		assert.Equal(t, TLSRequireUnverified, out.Policy)
		assert.Equal(t, raw, out.ConnString)
	})

	t.Run("empty resolution result also falls back", func(t *testing.T) {
		r := testResolver(func(ctx context.Context, host string) ([]net.IP, error) {
			return nil, nil
		})
		out := r.Resolve(context.Background(), "postgres://u:p@db.example.com/records", false)
		assert.Equal(t, TLSRequireUnverified, out.Policy)
	})
}

func TestResolveMalformedURL(t *testing.T) {
	r := testResolver(nil)

	for _, raw := range []string{"", "://not-a-url", "postgres://"} {
		out := r.Resolve(context.Background(), raw, true)
		assert.Equal(t, TLSRequireUnverified, out.Policy, "input %q", raw)
		assert.Equal(t, raw, out.ConnString, "input %q", raw)
		assert.Empty(t, out.TransportHost, "input %q", raw)
	}
}

func TestIdentifyProviderIsDiagnosticOnly(t *testing.T) {
	assert.Equal(t, "Supabase", identifyProvider("db.abcdefgh.supabase.co"))
	assert.Equal(t, "Amazon RDS", identifyProvider("mydb.cluster-xyz.us-east-1.rds.amazonaws.com"))
	assert.Equal(t, "", identifyProvider("db.example.com"))
}
