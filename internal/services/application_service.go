package services

import (
	"context"
	"errors"
	"time"

	"jobboard/internal/events"
	"jobboard/internal/models"
	"jobboard/internal/repositories"
	"jobboard/internal/validation"

	"go.uber.org/zap"
)

// ApplicationService handles application submission and hiring decisions
type ApplicationService interface {
	Apply(ctx context.Context, userID string, req *ApplyRequest) (*models.JobApplication, error)
	ChangeStatus(ctx context.Context, companyID string, req *ChangeStatusRequest) (*models.JobApplication, error)
	ListApplicants(ctx context.Context, companyID string) ([]*models.JobApplication, error)
	ListUserApplications(ctx context.Context, userID string) ([]*models.JobApplication, error)
}

type applicationService struct {
	repo      repositories.ApplicationRepository
	jobs      repositories.JobRepository
	users     repositories.UserRepository
	publisher events.Publisher
	policy    models.VisibilityPolicy
	now       Clock
	logger    *zap.Logger
}

// NewApplicationService creates a new application service. publisher may be nil.
func NewApplicationService(
	repo repositories.ApplicationRepository,
	jobs repositories.JobRepository,
	users repositories.UserRepository,
	publisher events.Publisher,
	config Config,
	now Clock,
	logger *zap.Logger,
) ApplicationService {
	if now == nil {
		now = time.Now
	}
	return &applicationService{
		repo:      repo,
		jobs:      jobs,
		users:     users,
		publisher: publisher,
		policy:    models.NewVisibilityPolicy(config.VisibilityGrace),
		now:       now,
		logger:    logger,
	}
}

// Apply submits an application of the user to a publicly visible job
func (s *applicationService) Apply(ctx context.Context, userID string, req *ApplyRequest) (*models.JobApplication, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("", err)
	}
	if !repositories.IsValidID(req.JobID) {
		return nil, NewNotFoundError("Job not found")
	}

	job, err := s.jobs.GetByID(ctx, req.JobID)
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

	// Users only exist once the identity provider webhook mirrored them.
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}

	application := &models.JobApplication{
		UserID:        userID,
		CompanyID:     job.CompanyID,
		JobID:         job.ID,
		Status:        models.StatusPending,
		SubmittedDate: now,
	}

	if err := s.repo.Create(ctx, application); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError("Already applied", "ALREADY_APPLIED")
		}
		if errors.Is(err, repositories.ErrMissingReference) {
			return nil, NewNotFoundError("User not found")
		}
		return nil, NewInternalError("Failed to submit application", err)
	}

	s.publish(ctx, events.ApplicationSubmitted, application, now)
	return application, nil
}

// ChangeStatus moves an application of the company to a new status
func (s *applicationService) ChangeStatus(ctx context.Context, companyID string, req *ChangeStatusRequest) (*models.JobApplication, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("", err)
	}

	target, err := models.ParseApplicationStatus(req.Status)
	if err != nil {
		return nil, NewValidationError("Invalid status", err)
	}

	if !repositories.IsValidID(req.ID) {
		return nil, NewNotFoundError("Application not found")
	}

	application, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load application", err)
	}
	if application == nil {
		return nil, NewNotFoundError("Application not found")
	}
	if application.CompanyID != companyID {
		return nil, NewForbiddenError("Application belongs to another company")
	}

	next, err := application.Status.Transition(target)
	if err != nil {
		return nil, NewValidationError("Cannot change status from "+string(application.Status)+" to "+string(target), err)
	}
	if next == application.Status {
		return application, nil
	}

	now := s.now()
	if err := s.repo.UpdateStatus(ctx, application.ID, companyID, next, now); err != nil {
		return nil, NewInternalError("Failed to change status", err)
	}
	application.Status = next
	application.UpdatedAt = now

	s.publish(ctx, events.ApplicationStatusChanged, application, now)
	return application, nil
}

// ListApplicants returns the applications to all jobs of the company
func (s *applicationService) ListApplicants(ctx context.Context, companyID string) ([]*models.JobApplication, error) {
	applications, err := s.repo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load applicants", err)
	}
	return applications, nil
}

// ListUserApplications returns the applications the user submitted
func (s *applicationService) ListUserApplications(ctx context.Context, userID string) ([]*models.JobApplication, error) {
	applications, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load applications", err)
	}
	return applications, nil
}

func (s *applicationService) publish(ctx context.Context, eventType string, application *models.JobApplication, at time.Time) {
	if s.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, at)
	event.CompanyID = application.CompanyID
	event.ApplicationID = application.ID
	event.JobID = application.JobID
	event.UserID = application.UserID
	event.Status = string(application.Status)

	s.publisher.Publish(ctx, event)
}
