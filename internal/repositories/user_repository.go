package repositories

import (
	"context"
	"fmt"

	"jobboard/internal/database"
	"jobboard/internal/models"

	"go.uber.org/zap"
)

type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Upsert inserts a user or refreshes the profile of an existing one,
// restoring a deleted account. The resume is never touched here.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, image, resume)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, image = EXCLUDED.image,
			deleted_at = NULL, updated_at = NOW()
		RETURNING resume, created_at, updated_at`

	err := r.QueryRowContext(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Image,
		user.Resume,
	).Scan(&user.Resume, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	r.GetLogger().Info("User synchronized",
		zap.String("user_id", user.ID),
	)

	return nil
}

// Update refreshes the profile fields and reports whether the user exists
func (r *userRepository) Update(ctx context.Context, user *models.User) (bool, error) {
	query := `
		UPDATE users
		SET name = $2, email = $3, image = $4, updated_at = NOW()
		WHERE id = $1`

	result, err := r.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.Image)
	if err != nil {
		return false, fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rows > 0, nil
}

// Delete marks a user as deleted and reports whether an active user existed.
// The row stays so the user's applications keep their applicant.
func (r *userRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.ExecContext(ctx,
		`UPDATE users SET deleted_at = NOW(), updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows > 0 {
		r.GetLogger().Info("User deleted", zap.String("user_id", id))
	}

	return rows > 0, nil
}

// GetByID retrieves an active user by the identity provider id
func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, name, email, image, resume, created_at, updated_at FROM users WHERE id = $1 AND deleted_at IS NULL`

	user := &models.User{}
	err := r.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Image,
		&user.Resume,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if r.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// UpdateResume stores the resume URL of a user
func (r *userRepository) UpdateResume(ctx context.Context, id, resumeURL string) error {
	result, err := r.ExecContext(ctx,
		`UPDATE users SET resume = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`,
		id, resumeURL,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user not found")
	}

	return nil
}
