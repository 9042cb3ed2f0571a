package models

import (
	"time"
)

// ===============================
// COMPANY
// ===============================

// Company is a recruiter account that owns job postings
type Company struct {
	ID            string    `json:"_id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"`
	Image         string    `json:"image" db:"image"`
	ImagePublicID string    `json:"-" db:"image_public_id"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// CompanySummary is the public projection embedded in jobs and applications
type CompanySummary struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

// Summary returns the public projection of the company
func (c *Company) Summary() *CompanySummary {
	return &CompanySummary{ID: c.ID, Name: c.Name, Email: c.Email, Image: c.Image}
}

// ===============================
// USER
// ===============================

// User is a job seeker mirrored from the identity provider
type User struct {
	ID        string    `json:"_id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Image     string    `json:"image" db:"image"`
	Resume    string    `json:"resume" db:"resume"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ===============================
// JOB
// ===============================

// JobType is the employment type of a posting
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeFreelance  JobType = "freelance"
)

// Valid reports whether t is a known job type
func (t JobType) Valid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return true
	}
	return false
}

// ExperienceLevel is the seniority a posting asks for
type ExperienceLevel string

const (
	ExperienceEntry     ExperienceLevel = "entry"
	ExperienceMid       ExperienceLevel = "mid"
	ExperienceSenior    ExperienceLevel = "senior"
	ExperienceExecutive ExperienceLevel = "executive"
)

// Valid reports whether l is a known experience level
func (l ExperienceLevel) Valid() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior, ExperienceExecutive:
		return true
	}
	return false
}

// Job is a posting owned by exactly one company
type Job struct {
	ID                 string          `json:"_id" db:"id"`
	CompanyID          string          `json:"companyId" db:"company_id"`
	Title              string          `json:"title" db:"title"`
	Description        string          `json:"description" db:"description"`
	District           string          `json:"district" db:"district"`
	Location           string          `json:"location" db:"location"`
	Category           string          `json:"category" db:"category"`
	Salary             *int            `json:"salary,omitempty" db:"salary"`
	JobType            JobType         `json:"jobType" db:"job_type"`
	ExperienceRequired ExperienceLevel `json:"experienceRequired" db:"experience_required"`
	Skills             []string        `json:"skills" db:"skills"`
	ContactEmail       string          `json:"contactEmail,omitempty" db:"contact_email"`
	Visible            bool            `json:"visible" db:"visible"`
	IsActive           bool            `json:"isActive" db:"is_active"`
	PostedDate         time.Time       `json:"postedDate" db:"posted_date"`
	DeadlineDate       time.Time       `json:"deadlineDate" db:"deadline"`

	// Joined
	Company *CompanySummary `json:"company,omitempty" db:"-"`
}

// JobSummary is the projection embedded in applications
type JobSummary struct {
	ID                 string          `json:"_id"`
	Title              string          `json:"title"`
	Location           string          `json:"location"`
	District           string          `json:"district"`
	Category           string          `json:"category"`
	JobType            JobType         `json:"jobType"`
	ExperienceRequired ExperienceLevel `json:"experienceRequired"`
	Salary             *int            `json:"salary,omitempty"`
	DeadlineDate       time.Time       `json:"deadlineDate"`
}

// Summary returns the projection of the job embedded in applications
func (j *Job) Summary() *JobSummary {
	return &JobSummary{
		ID:                 j.ID,
		Title:              j.Title,
		Location:           j.Location,
		District:           j.District,
		Category:           j.Category,
		JobType:            j.JobType,
		ExperienceRequired: j.ExperienceRequired,
		Salary:             j.Salary,
		DeadlineDate:       j.DeadlineDate,
	}
}

// CompanyJob is a job as its owner sees it
type CompanyJob struct {
	Job
	// Listed is the effective public visibility, Visible is the owner toggle.
	Listed     bool `json:"listed"`
	Applicants int  `json:"applicants"`
}

// JobFilter narrows the public job listing
type JobFilter struct {
	Category string
	Location string
	District string
	Query    string
}

// ===============================
// JOB APPLICATION
// ===============================

// JobApplication links a user to a job of a company
type JobApplication struct {
	ID            string            `json:"_id" db:"id"`
	UserID        string            `json:"userId" db:"user_id"`
	CompanyID     string            `json:"companyId" db:"company_id"`
	JobID         string            `json:"jobId" db:"job_id"`
	Status        ApplicationStatus `json:"status" db:"status"`
	SubmittedDate time.Time         `json:"date" db:"submitted_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`

	// Joined
	User    *User           `json:"user,omitempty" db:"-"`
	Job     *JobSummary     `json:"job,omitempty" db:"-"`
	Company *CompanySummary `json:"company,omitempty" db:"-"`
}
