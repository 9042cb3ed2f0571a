package webhooks

import (
	"io"
	"net/http"

	"jobboard/internal/response"
	"jobboard/internal/services"

	"go.uber.org/zap"
)

// maxPayloadSize caps identity provider webhook bodies
const maxPayloadSize = 1 << 20

// WebhookController receives identity provider events
type WebhookController struct {
	serviceCollection *services.ServiceCollection
	logger            *zap.Logger
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(serviceCollection *services.ServiceCollection, logger *zap.Logger) *WebhookController {
	return &WebhookController{
		serviceCollection: serviceCollection,
		logger:            logger,
	}
}

// HandleIdentityEvent verifies and applies a user lifecycle event. The
// raw body is passed on untouched since the signature covers its bytes.
// @Summary Identity provider webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param svix-id header string true "Message id"
// @Param svix-timestamp header string true "Send time"
// @Param svix-signature header string true "Signature"
// @Success 200 {object} docs.MessageResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /webhooks [post]
func (c *WebhookController) HandleIdentityEvent(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadSize))
	if err != nil {
		response.QuickError(w, r, services.NewValidationError("Invalid webhook payload", err))
		return
	}

	if err := c.serviceCollection.WebhookService.HandleIdentityEvent(r.Context(), payload, r.Header); err != nil {
		response.QuickError(w, r, err)
		return
	}

	response.QuickSuccess(w, r, "Webhook received", nil)
}
