package services

import (
	"context"
	"errors"
	"mime/multipart"

	"jobboard/internal/models"
	"jobboard/internal/repositories"
	"jobboard/internal/storage"

	"go.uber.org/zap"
)

// UserService serves the job seeker's own account
type UserService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateResume(ctx context.Context, userID string, file *multipart.FileHeader) (*models.User, error)
}

type userService struct {
	repo    repositories.UserRepository
	storage FileStorage
	config  Config
	logger  *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(repo repositories.UserRepository, fileStorage FileStorage, config Config, logger *zap.Logger) UserService {
	return &userService{
		repo:    repo,
		storage: fileStorage,
		config:  config,
		logger:  logger,
	}
}

// GetUser returns a user mirrored from the identity provider
func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, NewServiceUnavailableError("Failed to load user", err)
	}
	if user == nil {
		return nil, NewNotFoundError("User not found")
	}
	return user, nil
}

// UpdateResume uploads a PDF resume and stores its URL on the user
func (s *userService) UpdateResume(ctx context.Context, userID string, file *multipart.FileHeader) (*models.User, error) {
	if file == nil {
		return nil, NewValidationError("Resume file is required", nil)
	}
	if err := storage.Validate(file, storage.ResumeRule(s.config.MaxResumeSize)); err != nil {
		return nil, NewValidationError("Invalid resume: "+err.Error(), err)
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(ctx, file, s.config.ResumeFolder)
	if err != nil {
		if errors.Is(err, storage.ErrMissingCredentials) {
			return nil, NewServiceUnavailableError("File uploads are not available", err)
		}
		return nil, NewUpstreamError("Failed to upload resume", err)
	}

	if err := s.repo.UpdateResume(ctx, userID, result.URL); err != nil {
		if delErr := s.storage.DeleteFile(ctx, result.PublicID); delErr != nil {
			s.logger.Warn("Failed to delete unreferenced resume",
				zap.String("public_id", result.PublicID),
				zap.Error(delErr),
			)
		}
		return nil, NewInternalError("Failed to save resume", err)
	}

	user.Resume = result.URL
	s.logger.Info("Resume updated", zap.String("user_id", userID))
	return user, nil
}
