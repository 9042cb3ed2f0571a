package repositories

import (
	"fmt"

	"jobboard/internal/database"

	"go.uber.org/zap"
)

// Collection holds all repository instances for dependency injection
type Collection struct {
	Company     CompanyRepository
	User        UserRepository
	Job         JobRepository
	Application ApplicationRepository
}

// NewCollection creates a new repository collection
func NewCollection(db *database.Manager, logger *zap.Logger) (*Collection, error) {
	if db == nil {
		return nil, fmt.Errorf("database manager is required")
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Collection{
		Company:     NewCompanyRepository(db, logger.Named("company_repository")),
		User:        NewUserRepository(db, logger.Named("user_repository")),
		Job:         NewJobRepository(db, logger.Named("job_repository")),
		Application: NewApplicationRepository(db, logger.Named("application_repository")),
	}, nil
}
