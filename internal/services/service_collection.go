package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"jobboard/internal/cache"
	"jobboard/internal/database"
	"jobboard/internal/events"
	"jobboard/internal/repositories"

	"go.uber.org/zap"
)

// Dependencies are the infrastructure components the services are built from
type Dependencies struct {
	Repositories *repositories.Collection
	Database     *database.Manager
	Cache        cache.Cache
	Storage      FileStorage
	Tokens       TokenIssuer
	Publisher    events.Publisher
	Verifier     WebhookVerifier
	Clock        Clock
}

// ServiceCollection holds all services with dependency injection
type ServiceCollection struct {
	CompanyService     CompanyService
	JobService         JobService
	ApplicationService ApplicationService
	UserService        UserService
	WebhookService     WebhookService

	deps     Dependencies
	logger   *zap.Logger
	shutdown chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// ServiceHealth is reported by the health endpoint
type ServiceHealth struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Dependencies map[string]string `json:"dependencies"`
	Issues       []string          `json:"issues,omitempty"`
}

// NewServiceCollection wires every service from deps
func NewServiceCollection(deps Dependencies, config Config, logger *zap.Logger) (*ServiceCollection, error) {
	if deps.Repositories == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Storage == nil {
		return nil, fmt.Errorf("file storage is required")
	}
	if deps.Tokens == nil {
		return nil, fmt.Errorf("token issuer is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	repos := deps.Repositories
	sc := &ServiceCollection{
		CompanyService: NewCompanyService(repos.Company, deps.Storage, deps.Tokens, deps.Cache, config, logger.Named("company_service")),
		JobService:     NewJobService(repos.Job, deps.Cache, config, deps.Clock, logger.Named("job_service")),
		ApplicationService: NewApplicationService(
			repos.Application, repos.Job, repos.User, deps.Publisher, config, deps.Clock, logger.Named("application_service"),
		),
		UserService:    NewUserService(repos.User, deps.Storage, config, logger.Named("user_service")),
		WebhookService: NewWebhookService(repos.User, deps.Verifier, logger.Named("webhook_service")),
		deps:           deps,
		logger:         logger,
		shutdown:       make(chan struct{}),
	}

	logger.Info("Service collection initialized")
	return sc, nil
}

// StartExpirySweeper hides expired jobs every interval until Shutdown.
// A non-positive interval disables the sweeper.
func (sc *ServiceCollection) StartExpirySweeper(interval time.Duration) {
	if interval <= 0 {
		sc.logger.Info("Job expiry sweeper disabled")
		return
	}

	sc.wg.Add(1)
	go func() {
		defer sc.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		sc.sweep()
		for {
			select {
			case <-ticker.C:
				sc.sweep()
			case <-sc.shutdown:
				sc.logger.Info("Job expiry sweeper stopped")
				return
			}
		}
	}()

	sc.logger.Info("Job expiry sweeper started", zap.Duration("interval", interval))
}

func (sc *ServiceCollection) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hidden, err := sc.JobService.ExpireStaleJobs(ctx)
	if err != nil {
		sc.logger.Error("Job expiry sweep failed", zap.Error(err))
		return
	}
	if hidden > 0 {
		sc.logger.Info("Expired jobs hidden", zap.Int64("count", hidden))
	}
}

// HealthCheck reports the state of the database and the cache
func (sc *ServiceCollection) HealthCheck(ctx context.Context) *ServiceHealth {
	health := &ServiceHealth{
		Status:       "healthy",
		Timestamp:    sc.deps.Clock(),
		Dependencies: make(map[string]string),
	}

	if sc.deps.Database != nil {
		if status := sc.deps.Database.Health(ctx); status.Healthy {
			health.Dependencies["database"] = "healthy"
		} else {
			health.Dependencies["database"] = "unhealthy"
			health.Issues = append(health.Issues, "database: "+status.Error)
		}
	}

	if sc.deps.Cache != nil {
		if err := sc.deps.Cache.Health(ctx); err != nil {
			health.Dependencies["cache"] = "unhealthy"
			health.Issues = append(health.Issues, "cache: "+err.Error())
		} else {
			health.Dependencies["cache"] = "healthy"
		}
	}

	if len(health.Issues) > 0 {
		health.Status = "unhealthy"
	}
	return health
}

// Shutdown stops background work and waits for it to finish
func (sc *ServiceCollection) Shutdown(ctx context.Context) error {
	sc.once.Do(func() { close(sc.shutdown) })

	done := make(chan struct{})
	go func() {
		sc.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		sc.logger.Info("Service collection shut down")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("service shutdown timed out: %w", ctx.Err())
	}
}
