package services

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"jobboard/internal/models"
	"jobboard/internal/repositories"

	"go.uber.org/zap"
)

// Identity provider event types
const (
	IdentityUserCreated = "user.created"
	IdentityUserUpdated = "user.updated"
	IdentityUserDeleted = "user.deleted"
)

// WebhookVerifier checks the signature of a webhook delivery
type WebhookVerifier interface {
	Verify(payload []byte, headers http.Header) error
}

// WebhookService mirrors identity provider users into the users table
type WebhookService interface {
	HandleIdentityEvent(ctx context.Context, payload []byte, headers http.Header) error
}

type webhookService struct {
	users    repositories.UserRepository
	verifier WebhookVerifier
	logger   *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(users repositories.UserRepository, verifier WebhookVerifier, logger *zap.Logger) WebhookService {
	return &webhookService{
		users:    users,
		verifier: verifier,
		logger:   logger,
	}
}

// HandleIdentityEvent verifies and applies a single delivery. Unknown
// event types are acknowledged without changes.
func (s *webhookService) HandleIdentityEvent(ctx context.Context, payload []byte, headers http.Header) error {
	if s.verifier == nil {
		return NewServiceUnavailableError("Webhooks are not configured", nil)
	}
	if err := s.verifier.Verify(payload, headers); err != nil {
		s.logger.Warn("Rejected webhook with invalid signature", zap.Error(err))
		return NewUnauthorizedError("Invalid webhook signature")
	}

	var event IdentityEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return NewValidationError("Invalid webhook payload", err)
	}
	switch event.Type {
	case IdentityUserCreated, IdentityUserUpdated, IdentityUserDeleted:
		if event.Data.ID == "" {
			return NewValidationError("Webhook payload has no user id", nil)
		}
	}

	logger := s.logger.With(
		zap.String("event_type", event.Type),
		zap.String("user_id", event.Data.ID),
	)

	switch event.Type {
	case IdentityUserCreated:
		if err := s.users.Upsert(ctx, userFromIdentity(event.Data)); err != nil {
			return NewInternalError("Failed to create user", err)
		}
		logger.Info("User mirrored from identity provider")

	case IdentityUserUpdated:
		user := userFromIdentity(event.Data)
		updated, err := s.users.Update(ctx, user)
		if err != nil {
			return NewInternalError("Failed to update user", err)
		}
		if !updated {
			// The create event was missed; converge by inserting.
			logger.Warn("Update for unknown user, inserting")
			if err := s.users.Upsert(ctx, user); err != nil {
				return NewInternalError("Failed to create user", err)
			}
		}

	case IdentityUserDeleted:
		deleted, err := s.users.Delete(ctx, event.Data.ID)
		if err != nil {
			return NewInternalError("Failed to delete user", err)
		}
		if !deleted {
			logger.Debug("Delete for unknown user ignored")
		}

	default:
		logger.Debug("Ignoring webhook event")
	}

	return nil
}

func userFromIdentity(data IdentityUserData) *models.User {
	user := &models.User{
		ID:    data.ID,
		Name:  strings.TrimSpace(data.FirstName + " " + data.LastName),
		Image: data.ImageURL,
	}
	if len(data.EmailAddresses) > 0 {
		user.Email = data.EmailAddresses[0].EmailAddress
	}
	return user
}
