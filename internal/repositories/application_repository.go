package repositories

import (
	"context"
	"fmt"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/models"

	"go.uber.org/zap"
)

type applicationRepository struct {
	*BaseRepository
}

// NewApplicationRepository creates a new job application repository
func NewApplicationRepository(db *database.Manager, logger *zap.Logger) ApplicationRepository {
	return &applicationRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts an application. The (user_id, job_id) unique constraint
// rejects a second application for the same job.
func (r *applicationRepository) Create(ctx context.Context, application *models.JobApplication) error {
	if application.ID == "" {
		application.ID = NewID()
	}
	if application.Status == "" {
		application.Status = models.StatusPending
	}

	query := `
		INSERT INTO job_applications (id, user_id, company_id, job_id, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)`

	_, err := r.ExecContext(ctx, query,
		application.ID,
		application.UserID,
		application.CompanyID,
		application.JobID,
		application.Status,
		application.SubmittedDate,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return ErrMissingReference
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	application.UpdatedAt = application.SubmittedDate

	r.GetLogger().Info("Job application created",
		zap.String("application_id", application.ID),
		zap.String("job_id", application.JobID),
		zap.String("user_id", application.UserID),
	)

	return nil
}

// GetByID retrieves an application without joined data
func (r *applicationRepository) GetByID(ctx context.Context, id string) (*models.JobApplication, error) {
	query := `
		SELECT id, user_id, company_id, job_id, status, submitted_at, updated_at
		FROM job_applications
		WHERE id = $1`

	application := &models.JobApplication{}
	err := r.QueryRowContext(ctx, query, id).Scan(
		&application.ID,
		&application.UserID,
		&application.CompanyID,
		&application.JobID,
		&application.Status,
		&application.SubmittedDate,
		&application.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get application by ID: %w", err)
	}

	return application, nil
}

// UpdateStatus writes a new status on an application owned by the company
func (r *applicationRepository) UpdateStatus(ctx context.Context, id, companyID string, status models.ApplicationStatus, at time.Time) error {
	result, err := r.ExecContext(ctx,
		`UPDATE job_applications SET status = $3, updated_at = $4 WHERE id = $1 AND company_id = $2`,
		id, companyID, status, at,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("application not found or not owned by company")
	}

	return nil
}

// ListByCompany returns the applicants of all jobs of a company, newest first
func (r *applicationRepository) ListByCompany(ctx context.Context, companyID string) ([]*models.JobApplication, error) {
	query := `
		SELECT a.id, a.user_id, a.company_id, a.job_id, a.status, a.submitted_at, a.updated_at,
			u.id, u.name, u.email, u.image, u.resume,
			j.id, j.title, j.location, j.district, j.category, j.job_type, j.experience_required, j.salary, j.deadline
		FROM job_applications a
		JOIN users u ON u.id = a.user_id
		JOIN jobs j ON j.id = a.job_id
		WHERE a.company_id = $1
		ORDER BY a.submitted_at DESC`

	rows, err := r.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company applications: %w", err)
	}
	defer rows.Close()

	applications := make([]*models.JobApplication, 0)
	for rows.Next() {
		application := &models.JobApplication{
			User: &models.User{},
			Job:  &models.JobSummary{},
		}
		dest := append(applicationScanDest(application),
			&application.User.ID,
			&application.User.Name,
			&application.User.Email,
			&application.User.Image,
			&application.User.Resume,
		)
		dest = append(dest, jobSummaryScanDest(application.Job)...)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, application)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return applications, nil
}

// ListByUser returns the applications of a user, newest first
func (r *applicationRepository) ListByUser(ctx context.Context, userID string) ([]*models.JobApplication, error) {
	query := `
		SELECT a.id, a.user_id, a.company_id, a.job_id, a.status, a.submitted_at, a.updated_at,
			j.id, j.title, j.location, j.district, j.category, j.job_type, j.experience_required, j.salary, j.deadline,
			c.id, c.name, c.email, c.image
		FROM job_applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN companies c ON c.id = a.company_id
		WHERE a.user_id = $1
		ORDER BY a.submitted_at DESC`

	rows, err := r.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user applications: %w", err)
	}
	defer rows.Close()

	applications := make([]*models.JobApplication, 0)
	for rows.Next() {
		application := &models.JobApplication{
			Job:     &models.JobSummary{},
			Company: &models.CompanySummary{},
		}
		dest := append(applicationScanDest(application), jobSummaryScanDest(application.Job)...)
		dest = append(dest,
			&application.Company.ID,
			&application.Company.Name,
			&application.Company.Email,
			&application.Company.Image,
		)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, application)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return applications, nil
}

func applicationScanDest(a *models.JobApplication) []interface{} {
	return []interface{}{
		&a.ID,
		&a.UserID,
		&a.CompanyID,
		&a.JobID,
		&a.Status,
		&a.SubmittedDate,
		&a.UpdatedAt,
	}
}

func jobSummaryScanDest(j *models.JobSummary) []interface{} {
	return []interface{}{
		&j.ID,
		&j.Title,
		&j.Location,
		&j.District,
		&j.Category,
		&j.JobType,
		&j.ExperienceRequired,
		&j.Salary,
		&j.DeadlineDate,
	}
}
