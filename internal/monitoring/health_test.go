package monitoring

import (
	"context"
	"testing"
	"time"

	"jobboard/internal/services"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubChecker struct {
	health *services.ServiceHealth
}

func (s stubChecker) HealthCheck(ctx context.Context) *services.ServiceHealth {
	return s.health
}

func TestReport(t *testing.T) {
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	reporter := NewReporter(stubChecker{health: &services.ServiceHealth{
		Status:       "unhealthy",
		Timestamp:    at,
		Dependencies: map[string]string{"database": "unhealthy", "cache": "healthy"},
		Issues:       []string{"database: connection refused"},
	}}, "1.2.3", "test", zap.NewNop())

	report := reporter.Report(context.Background())

	assert.False(t, report.Healthy())
	assert.Equal(t, at, report.Timestamp)
	assert.Equal(t, "1.2.3", report.Version)
	assert.Equal(t, "test", report.Environment)
	assert.Equal(t, "unhealthy", report.Dependencies["database"])
	assert.NotEmpty(t, report.Uptime)
}
