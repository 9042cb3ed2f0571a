package repositories

import (
	"context"
	"time"

	"jobboard/internal/models"
)

// CompanyRepository defines the contract for company data operations
type CompanyRepository interface {
	Create(ctx context.Context, company *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByEmail(ctx context.Context, email string) (*models.Company, error)
	Update(ctx context.Context, company *models.Company) error
}

// UserRepository defines the contract for job seeker data operations.
// Rows are written only from identity provider events.
type UserRepository interface {
	Upsert(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateResume(ctx context.Context, id, resumeURL string) error
}

// JobRepository defines the contract for job data operations
type JobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)

	// ListVisible returns jobs the owner keeps visible whose deadline is
	// not older than threshold, newest first.
	ListVisible(ctx context.Context, filter models.JobFilter, threshold time.Time) ([]*models.Job, error)
	ListByCompany(ctx context.Context, companyID string) ([]*models.CompanyJob, error)

	// ToggleVisible flips the owner toggle of a job owned by companyID and
	// returns the new value. ErrNotFound when no such job exists.
	ToggleVisible(ctx context.Context, id, companyID string) (bool, error)

	// HideExpired clears the visible flag of every job whose deadline is
	// older than threshold and returns how many rows changed.
	HideExpired(ctx context.Context, threshold time.Time) (int64, error)
}

// ApplicationRepository defines the contract for job application data operations
type ApplicationRepository interface {
	// Create returns ErrDuplicate when the user already applied to the job.
	Create(ctx context.Context, application *models.JobApplication) error
	GetByID(ctx context.Context, id string) (*models.JobApplication, error)
	UpdateStatus(ctx context.Context, id, companyID string, status models.ApplicationStatus, at time.Time) error
	ListByCompany(ctx context.Context, companyID string) ([]*models.JobApplication, error)
	ListByUser(ctx context.Context, userID string) ([]*models.JobApplication, error)
}
