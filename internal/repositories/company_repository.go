package repositories

import (
	"context"
	"fmt"
	"strings"

	"jobboard/internal/database"
	"jobboard/internal/models"

	"go.uber.org/zap"
)

type companyRepository struct {
	*BaseRepository
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *database.Manager, logger *zap.Logger) CompanyRepository {
	return &companyRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

const companyColumns = `id, name, email, password_hash, image, image_public_id, created_at, updated_at`

// Create inserts a new company. Emails are unique regardless of case.
func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == "" {
		company.ID = NewID()
	}
	company.Email = normalizeEmail(company.Email)

	query := `
		INSERT INTO companies (id, name, email, password_hash, image, image_public_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		company.ID,
		company.Name,
		company.Email,
		company.PasswordHash,
		company.Image,
		company.ImagePublicID,
	).Scan(&company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create company: %w", err)
	}

	r.GetLogger().Info("Company created successfully",
		zap.String("company_id", company.ID),
	)

	return nil
}

// GetByID retrieves a company by ID
func (r *companyRepository) GetByID(ctx context.Context, id string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	company := &models.Company{}
	err := r.QueryRowContext(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.PasswordHash,
		&company.Image,
		&company.ImagePublicID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by ID: %w", err)
	}

	return company, nil
}

// GetByEmail retrieves a company by email
func (r *companyRepository) GetByEmail(ctx context.Context, email string) (*models.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE LOWER(email) = $1`

	company := &models.Company{}
	err := r.QueryRowContext(ctx, query, normalizeEmail(email)).Scan(
		&company.ID,
		&company.Name,
		&company.Email,
		&company.PasswordHash,
		&company.Image,
		&company.ImagePublicID,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get company by email: %w", err)
	}

	return company, nil
}

// Update writes name, email and logo of an existing company
func (r *companyRepository) Update(ctx context.Context, company *models.Company) error {
	company.Email = normalizeEmail(company.Email)

	query := `
		UPDATE companies
		SET name = $2, email = $3, image = $4, image_public_id = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.QueryRowContext(ctx, query,
		company.ID,
		company.Name,
		company.Email,
		company.Image,
		company.ImagePublicID,
	).Scan(&company.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		if r.IsNotFound(err) {
			return fmt.Errorf("company not found")
		}
		return fmt.Errorf("failed to update company: %w", err)
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
