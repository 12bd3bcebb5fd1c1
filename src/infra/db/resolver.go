package db

import (
	"context"
	"log/slog"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// TLSPolicy states whether a connection requires encryption and whether the
// server's certificate identity is checked.
type TLSPolicy int

const (
	// TLSNone disables TLS entirely (local development).
	TLSNone TLSPolicy = iota

	// TLSRequireUnverified encrypts the transport but skips certificate
	// verification.
	TLSRequireUnverified

	// TLSRequireServerName encrypts the transport and carries the original
	// hostname as the handshake identity hint. Verification itself stays
	// off, matching the permissive trust model of the managed providers
	// this targets.
	TLSRequireServerName
)

func (p TLSPolicy) String() string {
	switch p {
	case TLSNone:
		return "none"
	case TLSRequireUnverified:
		return "required-but-unverified"
	case TLSRequireServerName:
		return "required-with-server-name"
	default:
		return "unknown"
	}
}

// ResolvedConfig is the immutable connection configuration produced once at
// startup. TransportHost and TLSServerName are deliberately separate: the
// socket dials the literal IP while the TLS handshake still references the
// original hostname.
type ResolvedConfig struct {
	// ConnString is the original connection URL, never mutated.
	ConnString string

	// TransportHost is the literal IPv4 address to dial. Empty means the
	// driver's own resolution applies to the URL host.
	TransportHost string

	// TLSServerName is the original hostname, used only for the TLS
	// handshake identity.
	TLSServerName string

	Policy TLSPolicy

	// Provider is the managed-Postgres vendor guess. Diagnostic only; it
	// never changes behavior.
	Provider string
}

// providerPatterns maps hostname substrings to managed-Postgres vendors.
// Identification is used for logging only.
var providerPatterns = []struct {
	substr string
	name   string
}{
	{"neon.tech", "Neon"},
	{"supabase.c", "Supabase"},
	{"railway", "Railway"},
	{"render.com", "Render"},
	{"rds.amazonaws.com", "Amazon RDS"},
	{"digitalocean.com", "DigitalOcean"},
	{"azure.com", "Azure"},
	{"aivencloud.com", "Aiven"},
	{"cockroachlabs.cloud", "CockroachDB Cloud"},
	{"heroku", "Heroku"},
}

// Resolver classifies a database URL's host and derives transport and TLS
// settings for it. Many managed Postgres providers advertise IPv6 addresses
// that are unreachable from the hosting runtime's network; resolving to IPv4
// up front avoids unreachable-network failures while keeping the original
// hostname available for the handshake.
type Resolver struct {
	log *slog.Logger

	// lookupIPv4 is swappable for tests.
	lookupIPv4 func(ctx context.Context, host string) ([]net.IP, error)
}

// NewResolver creates a Resolver backed by the system DNS resolver.
func NewResolver(log *slog.Logger) *Resolver {
	return &Resolver{
		log: log,
		lookupIPv4: func(ctx context.Context, host string) ([]net.IP, error) {
			return net.DefaultResolver.LookupIP(ctx, "ip4", host)
		},
	}
}

// Resolve derives the connection configuration for rawURL. It never fails:
// a malformed URL falls back to the unverified TLS policy with the input
// untouched, so a bad value degrades data routes instead of aborting startup.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, production bool) ResolvedConfig {
	out := ResolvedConfig{
		ConnString: rawURL,
		Policy:     TLSRequireUnverified,
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		r.log.Warn("could not parse database URL, using unverified TLS fallback", "error", err)
		return out
	}
	host := u.Hostname()
	out.Provider = identifyProvider(host)
	if out.Provider != "" {
		r.log.Info("detected managed database provider", "provider", out.Provider)
	}

	if isInternalHost(host) || isIPv4Literal(host) {
		if production || urlRequestsTLS(u) {
			out.Policy = TLSRequireUnverified
		} else {
			out.Policy = TLSNone
		}
		r.log.Debug("database host needs no resolution",
			"host", host,
			"tls_policy", out.Policy.String(),
		)
		return out
	}

	// External hostname: force forward IPv4 resolution.
	addrs, err := r.lookupIPv4(ctx, host)
	if err != nil || len(addrs) == 0 {
		// Leave resolution to the driver and keep encrypting.
		r.log.Warn("IPv4 resolution failed, deferring to driver resolution",
			"host", host,
			"error", err,
		)
		out.Policy = TLSRequireUnverified
		return out
	}

	out.TransportHost = addrs[0].String()
	out.TLSServerName = host
	out.Policy = TLSRequireServerName
	r.log.Info("resolved database host to IPv4",
		"host", host,
		"address", out.TransportHost,
		"tls_policy", out.Policy.String(),
	)
	return out
}

// isInternalHost reports whether host lives on the private platform network.
func isInternalHost(host string) bool {
	return host == "localhost" || strings.HasSuffix(host, ".internal")
}

// isIPv4Literal reports whether host is a dotted-quad address.
func isIPv4Literal(host string) bool {
	addr, err := netip.ParseAddr(host)
	return err == nil && addr.Is4()
}

// urlRequestsTLS reports whether the URL itself asks for an encrypted
// connection.
func urlRequestsTLS(u *url.URL) bool {
	q := u.Query()
	if mode := q.Get("sslmode"); mode != "" && mode != "disable" {
		return true
	}
	return q.Get("ssl") == "true"
}

func identifyProvider(host string) string {
	for _, p := range providerPatterns {
		if strings.Contains(host, p.substr) {
			return p.name
		}
	}
	return ""
}
