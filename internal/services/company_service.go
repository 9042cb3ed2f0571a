package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"

	"jobboard/internal/cache"
	"jobboard/internal/models"
	"jobboard/internal/repositories"
	"jobboard/internal/storage"
	"jobboard/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CompanyService manages recruiter accounts
type CompanyService interface {
	Register(ctx context.Context, req *RegisterCompanyRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)
	GetProfile(ctx context.Context, companyID string) (*models.Company, error)
	UpdateProfile(ctx context.Context, companyID string, req *UpdateCompanyRequest) (*models.Company, error)
}

type companyService struct {
	repo     repositories.CompanyRepository
	storage  FileStorage
	tokens   TokenIssuer
	jobCache cache.Cache
	config   Config
	logger   *zap.Logger
}

// NewCompanyService creates a new company service
func NewCompanyService(
	repo repositories.CompanyRepository,
	fileStorage FileStorage,
	tokens TokenIssuer,
	jobCache cache.Cache,
	config Config,
	logger *zap.Logger,
) CompanyService {
	return &companyService{
		repo:     repo,
		storage:  fileStorage,
		tokens:   tokens,
		jobCache: jobCache,
		config:   config,
		logger:   logger,
	}
}

// Register creates a company account with its logo and signs it in
func (s *companyService) Register(ctx context.Context, req *RegisterCompanyRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("", err)
	}

	if err := storage.Validate(req.Logo, storage.ImageRule(s.config.MaxLogoSize)); err != nil {
		return nil, NewValidationError("Invalid logo: "+err.Error(), err)
	}

	existing, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewInternalError("Failed to check company email", err)
	}
	if existing != nil {
		return nil, NewConflictError("Company already registered", "EMAIL_TAKEN")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, NewInternalError("Failed to hash password", err)
	}

	logo, err := s.upload(ctx, req.Logo, s.config.LogoFolder, "logo")
	if err != nil {
		return nil, err
	}

	company := &models.Company{
		Name:          req.Name,
		Email:         req.Email,
		PasswordHash:  string(hash),
		Image:         logo.URL,
		ImagePublicID: logo.PublicID,
	}

	if err := s.repo.Create(ctx, company); err != nil {
		s.discardUpload(ctx, logo.PublicID)
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError("Company already registered", "EMAIL_TAKEN")
		}
		return nil, NewInternalError("Failed to create company", err)
	}

	return s.authenticate(company)
}

// Login checks credentials and returns a fresh token
func (s *companyService) Login(ctx context.Context, req *LoginRequest) (*AuthResult, error) {
	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("", err)
	}

	company, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, NewInternalError("Failed to load company", err)
	}
	if company == nil {
		return nil, NewUnauthorizedError("Invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(company.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("Invalid email or password")
	}

	return s.authenticate(company)
}

// GetProfile returns the company without its password hash
func (s *companyService) GetProfile(ctx context.Context, companyID string) (*models.Company, error) {
	company, err := s.repo.GetByID(ctx, companyID)
	if err != nil {
		return nil, NewInternalError("Failed to load company", err)
	}
	if company == nil {
		return nil, NewNotFoundError("Company not found")
	}
	return company, nil
}

// UpdateProfile replaces name, email and logo. A replaced logo is removed
// from storage once the new one is saved.
func (s *companyService) UpdateProfile(ctx context.Context, companyID string, req *UpdateCompanyRequest) (*models.Company, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.ValidateStruct(req); err != nil {
		return nil, NewValidationError("", err)
	}
	if req.Logo != nil {
		if err := storage.Validate(req.Logo, storage.ImageRule(s.config.MaxLogoSize)); err != nil {
			return nil, NewValidationError("Invalid logo: "+err.Error(), err)
		}
	}

	company, err := s.GetProfile(ctx, companyID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		company.Name = req.Name
	}

	if req.Email != "" && !strings.EqualFold(req.Email, company.Email) {
		other, err := s.repo.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, NewInternalError("Failed to check company email", err)
		}
		if other != nil && other.ID != company.ID {
			return nil, NewConflictError("Email already in use", "EMAIL_TAKEN")
		}
		company.Email = req.Email
	}

	oldPublicID := company.ImagePublicID
	var newLogo *storage.UploadResult
	if req.Logo != nil {
		newLogo, err = s.upload(ctx, req.Logo, s.config.LogoFolder, "logo")
		if err != nil {
			return nil, err
		}
		company.Image = newLogo.URL
		company.ImagePublicID = newLogo.PublicID
	}

	if err := s.repo.Update(ctx, company); err != nil {
		if newLogo != nil {
			s.discardUpload(ctx, newLogo.PublicID)
		}
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewConflictError("Email already in use", "EMAIL_TAKEN")
		}
		return nil, NewInternalError("Failed to update company", err)
	}

	if newLogo != nil && oldPublicID != "" {
		s.discardUpload(ctx, oldPublicID)
	}

	invalidateJobListings(ctx, s.jobCache, s.logger)
	return company, nil
}

func (s *companyService) authenticate(company *models.Company) (*AuthResult, error) {
	token, err := s.tokens.IssueCompanyToken(company.ID)
	if err != nil {
		return nil, NewInternalError("Failed to issue token", err)
	}
	return &AuthResult{Company: company, Token: token}, nil
}

func (s *companyService) upload(ctx context.Context, file *multipart.FileHeader, folder, what string) (*storage.UploadResult, error) {
	result, err := s.storage.UploadFile(ctx, file, folder)
	if err != nil {
		if errors.Is(err, storage.ErrMissingCredentials) {
			return nil, NewServiceUnavailableError("File uploads are not available", err)
		}
		return nil, NewUpstreamError("Failed to upload "+what, err)
	}
	return result, nil
}

// discardUpload removes a file that is no longer referenced. Failures
// only leave an orphan behind, so they are logged.
func (s *companyService) discardUpload(ctx context.Context, publicID string) {
	if err := s.storage.DeleteFile(ctx, publicID); err != nil {
		s.logger.Warn("Failed to delete unreferenced upload",
			zap.String("public_id", publicID),
			zap.Error(err),
		)
	}
}
