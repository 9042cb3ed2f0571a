package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"jobboard/internal/database"
	"jobboard/internal/models"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type jobRepository struct {
	*BaseRepository
}

// NewJobRepository creates a new job repository
func NewJobRepository(db *database.Manager, logger *zap.Logger) JobRepository {
	return &jobRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const jobColumns = `
	j.id, j.company_id, j.title, j.description, j.district, j.location, j.category,
	j.salary, j.job_type, j.experience_required, j.skills, j.contact_email,
	j.visible, j.is_active, j.posted_date, j.deadline`

// Create inserts a new job posting
func (r *jobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = NewID()
	}
	if job.Skills == nil {
		job.Skills = []string{}
	}

	query := `
		INSERT INTO jobs (
			id, company_id, title, description, district, location, category,
			salary, job_type, experience_required, skills, contact_email,
			visible, is_active, posted_date, deadline
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	_, err := r.ExecContext(ctx, query,
		job.ID,
		job.CompanyID,
		job.Title,
		job.Description,
		job.District,
		job.Location,
		job.Category,
		job.Salary,
		job.JobType,
		job.ExperienceRequired,
		pq.Array(job.Skills),
		job.ContactEmail,
		job.Visible,
		job.IsActive,
		job.PostedDate,
		job.DeadlineDate,
	)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}

	r.GetLogger().Info("Job created successfully",
		zap.String("job_id", job.ID),
		zap.String("company_id", job.CompanyID),
		zap.Time("deadline", job.DeadlineDate),
	)

	return nil
}

// GetByID retrieves a job with its company regardless of visibility
func (r *jobRepository) GetByID(ctx context.Context, id string) (*models.Job, error) {
	query := `
		SELECT ` + jobColumns + `,
			c.id, c.name, c.email, c.image
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE j.id = $1`

	job, err := scanJobWithCompany(r.QueryRowContext(ctx, query, id))
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job by ID: %w", err)
	}

	return job, nil
}

// ListVisible returns the public job listing
func (r *jobRepository) ListVisible(ctx context.Context, filter models.JobFilter, threshold time.Time) ([]*models.Job, error) {
	conditions := []string{"j.visible", "j.deadline >= $1"}
	args := []interface{}{threshold}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.Category != "" {
		addCondition("LOWER(j.category) = LOWER($%d)", filter.Category)
	}
	if filter.Location != "" {
		addCondition("LOWER(j.location) = LOWER($%d)", filter.Location)
	}
	if filter.District != "" {
		addCondition("LOWER(j.district) = LOWER($%d)", filter.District)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		addCondition("j.title ILIKE $%d", "%"+escapeLike(q)+"%")
	}

	query := `
		SELECT ` + jobColumns + `,
			c.id, c.name, c.email, c.image
		FROM jobs j
		JOIN companies c ON c.id = j.company_id
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY j.posted_date DESC`

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0)
	for rows.Next() {
		job, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate jobs: %w", err)
	}

	return jobs, nil
}

// ListByCompany returns every job of a company with its applicant count
func (r *jobRepository) ListByCompany(ctx context.Context, companyID string) ([]*models.CompanyJob, error) {
	query := `
		SELECT ` + jobColumns + `,
			COUNT(a.id) AS applicants
		FROM jobs j
		LEFT JOIN job_applications a ON a.job_id = j.id
		WHERE j.company_id = $1
		GROUP BY j.id
		ORDER BY j.posted_date DESC`

	rows, err := r.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.CompanyJob, 0)
	for rows.Next() {
		job := &models.CompanyJob{}
		dest := append(jobScanDest(&job.Job), &job.Applicants)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan company job: %w", err)
		}
		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate company jobs: %w", err)
	}

	return jobs, nil
}

// ToggleVisible flips the owner visibility toggle of a job and returns the
// new value. The row stays locked between the read and the write.
func (r *jobRepository) ToggleVisible(ctx context.Context, id, companyID string) (bool, error) {
	var visible bool
	err := r.WithTransaction(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`SELECT visible FROM jobs WHERE id = $1 AND company_id = $2 FOR UPDATE`,
			id, companyID,
		).Scan(&visible)
		if err != nil {
			if r.IsNotFound(err) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to lock job: %w", err)
		}

		visible = !visible
		if _, err := tx.ExecContext(ctx,
			`UPDATE jobs SET visible = $3 WHERE id = $1 AND company_id = $2`,
			id, companyID, visible,
		); err != nil {
			return fmt.Errorf("failed to update job visibility: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	r.GetLogger().Info("Job visibility changed",
		zap.String("job_id", id),
		zap.Bool("visible", visible),
	)
	return visible, nil
}

// HideExpired persists the expiry of jobs whose deadline passed the threshold
func (r *jobRepository) HideExpired(ctx context.Context, threshold time.Time) (int64, error) {
	result, err := r.ExecContext(ctx,
		`UPDATE jobs SET visible = FALSE WHERE visible AND deadline < $1`,
		threshold,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to hide expired jobs: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func jobScanDest(job *models.Job) []interface{} {
	return []interface{}{
		&job.ID,
		&job.CompanyID,
		&job.Title,
		&job.Description,
		&job.District,
		&job.Location,
		&job.Category,
		&job.Salary,
		&job.JobType,
		&job.ExperienceRequired,
		(*pq.StringArray)(&job.Skills),
		&job.ContactEmail,
		&job.Visible,
		&job.IsActive,
		&job.PostedDate,
		&job.DeadlineDate,
	}
}

func scanJobWithCompany(row rowScanner) (*models.Job, error) {
	job := &models.Job{}
	company := &models.CompanySummary{}

	dest := append(jobScanDest(job), &company.ID, &company.Name, &company.Email, &company.Image)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	job.Company = company
	return job, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
