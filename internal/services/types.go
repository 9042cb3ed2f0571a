package services

import (
	"context"
	"mime/multipart"
	"time"

	"jobboard/internal/models"
	"jobboard/internal/storage"
)

// Clock returns the current time
type Clock func() time.Time

// TokenIssuer signs company bearer tokens
type TokenIssuer interface {
	IssueCompanyToken(companyID string) (string, error)
}

// FileStorage is the subset of remote storage the services use
type FileStorage interface {
	UploadFile(ctx context.Context, file *multipart.FileHeader, folder string) (*storage.UploadResult, error)
	DeleteFile(ctx context.Context, publicID string) error
}

// Config holds the settings the services need
type Config struct {
	BCryptCost      int
	LogoFolder      string
	ResumeFolder    string
	MaxLogoSize     int64
	MaxResumeSize   int64
	VisibilityGrace time.Duration
	JobsCacheTTL    time.Duration
}

// DefaultConfig returns the defaults used when no configuration is given
func DefaultConfig() Config {
	return Config{
		BCryptCost:      10,
		LogoFolder:      "companies",
		ResumeFolder:    "resumes",
		MaxLogoSize:     2 << 20,
		MaxResumeSize:   5 << 20,
		VisibilityGrace: models.DefaultVisibilityGrace,
		JobsCacheTTL:    30 * time.Second,
	}
}

// ===============================
// COMPANY REQUESTS
// ===============================

// RegisterCompanyRequest is the multipart registration form
type RegisterCompanyRequest struct {
	Name     string                `json:"name" validate:"required,max=200"`
	Email    string                `json:"email" validate:"required,email,max=255"`
	Password string                `json:"password" validate:"required,min=6,max=72"`
	Logo     *multipart.FileHeader `json:"image" validate:"required"`
}

// LoginRequest holds company credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateCompanyRequest replaces the fields that are set
type UpdateCompanyRequest struct {
	Name  string                `json:"name" validate:"omitempty,max=200"`
	Email string                `json:"email" validate:"omitempty,email,max=255"`
	Logo  *multipart.FileHeader `json:"image"`
}

// AuthResult is returned by register and login
type AuthResult struct {
	Company *models.Company `json:"company"`
	Token   string          `json:"token"`
}

// ===============================
// JOB REQUESTS
// ===============================

// PostJobRequest is the payload of a new job posting. Deadline accepts
// RFC 3339 timestamps or plain dates.
type PostJobRequest struct {
	Title              string   `json:"title" validate:"required,max=200"`
	Description        string   `json:"description" validate:"required"`
	Location           string   `json:"location" validate:"required,max=100"`
	Category           string   `json:"category" validate:"required,max=100"`
	District           string   `json:"district" validate:"required,max=100"`
	Salary             *int     `json:"salary" validate:"omitempty,gte=0"`
	Deadline           string   `json:"deadline" validate:"required"`
	JobType            string   `json:"jobType" validate:"omitempty,jobtype"`
	ExperienceRequired string   `json:"experienceRequired" validate:"omitempty,experience"`
	Skills             []string `json:"skills" validate:"omitempty,max=50,dive,max=100"`
	ContactEmail       string   `json:"contactEmail" validate:"omitempty,email"`
}

// ChangeVisibilityRequest toggles the visibility of a job
type ChangeVisibilityRequest struct {
	ID string `json:"id" validate:"required"`
}

// ===============================
// APPLICATION REQUESTS
// ===============================

// ApplyRequest submits an application for the authenticated user
type ApplyRequest struct {
	JobID string `json:"jobId" validate:"required"`
}

// ChangeStatusRequest records a hiring decision
type ChangeStatusRequest struct {
	ID     string `json:"id" validate:"required"`
	Status string `json:"status" validate:"required"`
}

// ===============================
// WEBHOOK EVENTS
// ===============================

// IdentityEvent is an identity provider webhook payload
type IdentityEvent struct {
	Type string           `json:"type"`
	Data IdentityUserData `json:"data"`
}

// IdentityUserData is the user object carried by identity events
type IdentityUserData struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}
