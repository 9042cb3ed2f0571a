package docs

import (
	"jobboard/internal/models"
)

// Response shapes referenced by the handler annotations. Success
// envelopes carry their payload keys at the top level.

// MessageResponse is a success envelope without payload
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Webhook received"`
}

// AuthResponse is returned by company register and login
type AuthResponse struct {
	Success bool            `json:"success" example:"true"`
	Company *models.Company `json:"company"`
	Token   string          `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// CompanyResponse wraps a company profile
type CompanyResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message,omitempty"`
	Company *models.Company `json:"company"`
}

// JobResponse wraps a single job
type JobResponse struct {
	Success bool        `json:"success" example:"true"`
	Message string      `json:"message,omitempty" example:"Job Added"`
	Job     *models.Job `json:"job"`
}

// JobsResponse wraps the public job listing
type JobsResponse struct {
	Success bool          `json:"success" example:"true"`
	Jobs    []*models.Job `json:"jobs"`
}

// CompanyJobsResponse wraps a company's own jobs
type CompanyJobsResponse struct {
	Success  bool                 `json:"success" example:"true"`
	JobsData []*models.CompanyJob `json:"jobsData"`
}

// ApplicationResponse wraps a single application
type ApplicationResponse struct {
	Success     bool                   `json:"success" example:"true"`
	Message     string                 `json:"message,omitempty" example:"Status Changed"`
	Application *models.JobApplication `json:"application"`
}

// ApplicationsResponse wraps a list of applications
type ApplicationsResponse struct {
	Success      bool                     `json:"success" example:"true"`
	Applications []*models.JobApplication `json:"applications"`
}

// UserResponse wraps a job seeker
type UserResponse struct {
	Success bool         `json:"success" example:"true"`
	Message string       `json:"message,omitempty"`
	User    *models.User `json:"user"`
}
