package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/cache"
	"jobboard/internal/models"
	"jobboard/internal/repositories"
	"jobboard/internal/validation"

	"go.uber.org/zap"
)

const jobListCachePrefix = "jobs:list:"

// JobService manages job postings and their public visibility
type JobService interface {
	// Public catalogue
	ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error)
	GetJob(ctx context.Context, id string) (*models.Job, error)

	// Company management
	PostJob(ctx context.Context, companyID string, req *PostJobRequest) (*models.Job, error)
	ListCompanyJobs(ctx context.Context, companyID string) ([]*models.CompanyJob, error)
	ChangeVisibility(ctx context.Context, companyID, jobID string) (*models.Job, error)

	// ExpireStaleJobs persists the hidden state of jobs past the grace window
	ExpireStaleJobs(ctx context.Context) (int64, error)
}

type jobService struct {
	repo   repositories.JobRepository
	cache  cache.Cache
	policy models.VisibilityPolicy
	config Config
	now    Clock
	logger *zap.Logger
}

// NewJobService creates a new job service
func NewJobService(repo repositories.JobRepository, jobCache cache.Cache, config Config, now Clock, logger *zap.Logger) JobService {
	if now == nil {
		now = time.Now
	}
	return &jobService{
		repo:   repo,
		cache:  jobCache,
		policy: models.NewVisibilityPolicy(config.VisibilityGrace),
		config: config,
		now:    now,
		logger: logger,
	}
}

// ListJobs returns the jobs that are publicly visible right now
func (s *jobService) ListJobs(ctx context.Context, filter models.JobFilter) ([]*models.Job, error) {
	now := s.now()
	key := jobListCacheKey(filter)

	var cached []*models.Job
	if s.cache != nil && cache.GetJSON(ctx, s.cache, key, &cached) {
		// Entries may have expired since they were cached.
		return s.listed(cached, now), nil
	}

	jobs, err := s.repo.ListVisible(ctx, filter, s.policy.Threshold(now))
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load jobs", err)
	}

	for _, job := range jobs {
		s.policy.Apply(job, now)
	}

	if s.cache != nil {
		if err := cache.SetJSON(ctx, s.cache, key, jobs, s.config.JobsCacheTTL); err != nil {
			s.logger.Warn("Failed to cache job listing", zap.Error(err))
		}
	}

	return jobs, nil
}

// GetJob returns a job only while it is publicly visible
func (s *jobService) GetJob(ctx context.Context, id string) (*models.Job, error) {
	if !repositories.IsValidID(id) {
		return nil, NewNotFoundError("Job not found")
	}

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load job", err)
	}
	if job == nil {
		return nil, NewNotFoundError("Job not found")
	}

	now := s.now()
	if !s.policy.IsListed(job, now) {
		return nil, NewNotFoundError("Job not found or no longer available")
	}
	s.policy.Apply(job, now)

	return job, nil
}

// PostJob creates a job for the company. The deadline must lie in the future.
func (s *jobService) PostJob(ctx context.Context, companyID string, req *PostJobRequest) (*models.Job, error) {
	req.Title = strings.TrimSpace(req.Title)

	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("", err)
	}

	deadline, err := ParseDeadline(req.Deadline)
	if err != nil {
		return nil, NewValidationError("Invalid deadline", err)
	}

	now := s.now()
	if !deadline.After(now) {
		return nil, NewValidationError("Deadline must be a future date", nil)
	}

	job := &models.Job{
		CompanyID:          companyID,
		Title:              req.Title,
		Description:        req.Description,
		District:           req.District,
		Location:           req.Location,
		Category:           req.Category,
		Salary:             req.Salary,
		JobType:            models.JobTypeFullTime,
		ExperienceRequired: models.ExperienceEntry,
		Skills:             normalizeSkills(req.Skills),
		ContactEmail:       strings.TrimSpace(req.ContactEmail),
		Visible:            true,
		IsActive:           true,
		PostedDate:         now,
		DeadlineDate:       deadline,
	}
	if req.JobType != "" {
		job.JobType = models.JobType(req.JobType)
	}
	if req.ExperienceRequired != "" {
		job.ExperienceRequired = models.ExperienceLevel(req.ExperienceRequired)
	}

	if err := s.repo.Create(ctx, job); err != nil {
		return nil, NewInternalError("Failed to create job", err)
	}

	s.invalidateListings(ctx)
	return job, nil
}

// ListCompanyJobs returns all jobs of the company with applicant counts
func (s *jobService) ListCompanyJobs(ctx context.Context, companyID string) ([]*models.CompanyJob, error) {
	jobs, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load company jobs", err)
	}

	now := s.now()
	for _, job := range jobs {
		job.Listed = s.policy.IsListed(&job.Job, now)
	}

	return jobs, nil
}

// ChangeVisibility flips the owner toggle of one of the company's jobs
func (s *jobService) ChangeVisibility(ctx context.Context, companyID, jobID string) (*models.Job, error) {
	if !repositories.IsValidID(jobID) {
		return nil, NewNotFoundError("Job not found")
	}

	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load job", err)
	}
	if job == nil {
		return nil, NewNotFoundError("Job not found")
	}
	if job.CompanyID != companyID {
		return nil, NewForbiddenError("Job belongs to another company")
	}

	visible, err := s.repo.ToggleVisible(ctx, job.ID, companyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewNotFoundError("Job not found")
		}
		return nil, NewInternalError("Failed to change visibility", err)
	}
	job.Visible = visible

	s.invalidateListings(ctx)
	return job, nil
}

// ExpireStaleJobs hides jobs whose deadline passed the grace window
func (s *jobService) ExpireStaleJobs(ctx context.Context) (int64, error) {
	hidden, err := s.repo.HideExpired(ctx, s.policy.Threshold(s.now()))
	if err != nil {
		return 0, NewServiceUnavailableError("Failed to expire jobs", err)
	}

	if hidden > 0 {
		s.invalidateListings(ctx)
	}
	return hidden, nil
}

func (s *jobService) listed(jobs []*models.Job, now time.Time) []*models.Job {
	out := make([]*models.Job, 0, len(jobs))
	for _, job := range jobs {
		if s.policy.IsListed(job, now) {
			out = append(out, job)
		}
	}
	return out
}

func (s *jobService) invalidateListings(ctx context.Context) {
	invalidateJobListings(ctx, s.cache, s.logger)
}

// invalidateJobListings drops every cached public listing. Listings embed
// company summaries, so company changes call it too.
func invalidateJobListings(ctx context.Context, c cache.Cache, logger *zap.Logger) {
	if c == nil {
		return
	}
	if err := c.DeletePattern(ctx, jobListCachePrefix+"*"); err != nil {
		logger.Warn("Failed to invalidate job listing cache", zap.Error(err))
	}
}

func jobListCacheKey(filter models.JobFilter) string {
	return fmt.Sprintf("%s%s|%s|%s|%s", jobListCachePrefix,
		strings.ToLower(filter.Category),
		strings.ToLower(filter.Location),
		strings.ToLower(filter.District),
		strings.ToLower(strings.TrimSpace(filter.Query)),
	)
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		key := strings.ToLower(skill)
		if skill == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, skill)
	}
	return out
}

// ParseDeadline accepts an RFC 3339 timestamp or a YYYY-MM-DD date (UTC midnight)
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unsupported date format %q", value)
}
