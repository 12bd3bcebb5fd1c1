package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lexbridge/src/core/ports"
)

// Health failure reasons. Operators see these verbatim, so they stay
// machine-readable and stable.
const (
	ReasonMissingConfiguration     = "missing_configuration"
	ReasonPlaceholderConfiguration = "placeholder_configuration"
	ReasonConnectivityFailure      = "connectivity_failure"
)

// healthPingTimeout bounds the round-trip probe so the health endpoint
// answers promptly even when the network blackholes.
const healthPingTimeout = 5 * time.Second

// HealthConfig carries the configuration facts the health check needs,
// extracted from infra config at wiring time so the core stays
// infrastructure-free.
type HealthConfig struct {
	// Configured is false when no connection string was provided.
	Configured bool

	// Placeholder is true when the connection string still contains an
	// unsubstituted deploy-template reference.
	Placeholder bool

	// Environment is the deploy environment name reported to clients.
	Environment string

	// Version is the application version reported to clients.
	Version string
}

// HealthService re-validates configuration and connectivity on demand.
type HealthService struct {
	cfg  HealthConfig
	repo ports.DocumentRepository
	log  *slog.Logger
}

// NewHealthService creates a new HealthService.
func NewHealthService(cfg HealthConfig, repo ports.DocumentRepository, log *slog.Logger) *HealthService {
	return &HealthService{cfg: cfg, repo: repo, log: log}
}

// HealthStatus is the health report. When OK, Version/Database/Environment
// are set; when not, Reason and Hint classify the failure for remediation.
type HealthStatus struct {
	Status      string `json:"status"`
	Version     string `json:"version,omitempty"`
	Database    string `json:"database,omitempty"`
	Environment string `json:"environment,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Hint        string `json:"hint,omitempty"`
}

// OK reports whether the status describes a healthy process.
func (s *HealthStatus) OK() bool {
	return s.Status == "ok"
}

// Check distinguishes missing configuration, placeholder configuration, and
// connectivity failure, in that order, before reporting ok.
func (s *HealthService) Check(ctx context.Context) *HealthStatus {
	if !s.cfg.Configured {
		return &HealthStatus{
			Status: "error",
			Reason: ReasonMissingConfiguration,
			Hint:   "set APP_DATABASE_URL to the Postgres connection string",
		}
	}
	if s.cfg.Placeholder {
		return &HealthStatus{
			Status: "error",
			Reason: ReasonPlaceholderConfiguration,
			Hint:   "the connection string still contains a ${...} template reference; substitute the real value",
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, healthPingTimeout)
	defer cancel()
	if err := s.repo.Health(pingCtx); err != nil {
		s.log.Warn("health probe failed", "error", err)
		return &HealthStatus{
			Status: "error",
			Reason: ReasonConnectivityFailure,
			Hint:   connectivityHint(err),
		}
	}

	return &HealthStatus{
		Status:      "ok",
		Version:     s.cfg.Version,
		Database:    "connected",
		Environment: s.cfg.Environment,
	}
}

// connectivityHint guesses at the failure class from the driver's error
// text, separating unreachable networks from rejected credentials.
func connectivityHint(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password"),
		strings.Contains(msg, "authentication"),
		strings.Contains(msg, "sasl"),
		strings.Contains(msg, "role"):
		return "credentials rejected; check the database user and password"
	case strings.Contains(msg, "unreachable"),
		strings.Contains(msg, "no route"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "timed out"),
		strings.Contains(msg, "refused"),
		strings.Contains(msg, "no such host"):
		return "database unreachable from this network; check the host, port, and firewall"
	default:
		return "database connection failed: " + err.Error()
	}
}
