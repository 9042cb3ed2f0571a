package monitoring

import (
	"context"
	"time"

	"jobboard/internal/services"

	"go.uber.org/zap"
)

// HealthChecker reports the state of the backing services
type HealthChecker interface {
	HealthCheck(ctx context.Context) *services.ServiceHealth
}

// SystemHealthResponse represents system health
type SystemHealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Uptime       string            `json:"uptime"`
	Version      string            `json:"version"`
	Environment  string            `json:"environment"`
	Dependencies map[string]string `json:"dependencies"`
	Issues       []string          `json:"issues,omitempty"`
}

// Healthy reports whether every dependency is up
func (h *SystemHealthResponse) Healthy() bool {
	return h.Status == "healthy"
}

// Reporter combines dependency health with process information
type Reporter struct {
	checker     HealthChecker
	logger      *zap.Logger
	startTime   time.Time
	version     string
	environment string
}

// NewReporter creates a health reporter
func NewReporter(checker HealthChecker, version, environment string, logger *zap.Logger) *Reporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		checker:     checker,
		logger:      logger,
		startTime:   time.Now(),
		version:     version,
		environment: environment,
	}
}

// Report checks the dependencies. An unhealthy result is logged once per call.
func (r *Reporter) Report(ctx context.Context) *SystemHealthResponse {
	health := r.checker.HealthCheck(ctx)

	report := &SystemHealthResponse{
		Status:       health.Status,
		Timestamp:    health.Timestamp,
		Uptime:       time.Since(r.startTime).Round(time.Second).String(),
		Version:      r.version,
		Environment:  r.environment,
		Dependencies: health.Dependencies,
		Issues:       health.Issues,
	}

	if !report.Healthy() {
		r.logger.Warn("Health check failed", zap.Strings("issues", report.Issues))
	}
	return report
}
