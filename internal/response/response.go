package response

import (
	"context"
	"encoding/json"
	"net/http"

	"jobboard/internal/contextutils"
	"jobboard/internal/services"

	"go.uber.org/zap"
)

// ===============================
// RESPONSE CONFIGURATION
// ===============================

// Config holds configuration for the response system
type Config struct {
	PrettyJSON         bool `json:"pretty_json"`
	IncludeRequestID   bool `json:"include_request_id"`
	MaskInternalErrors bool `json:"mask_internal_errors"`
}

// DefaultConfig returns production-ready response configuration
func DefaultConfig() *Config {
	return &Config{
		PrettyJSON:         false,
		IncludeRequestID:   true,
		MaskInternalErrors: true,
	}
}

// ===============================
// RESPONSE TYPES
// ===============================

// Payload holds the keys merged into the top level of a success envelope
type Payload map[string]interface{}

// ErrorDetail identifies the failure kind of an error envelope
type ErrorDetail struct {
	Type      string      `json:"type"`
	Code      string      `json:"code,omitempty"`
	Fields    interface{} `json:"fields,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope of a failed request
type ErrorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Error   *ErrorDetail `json:"error"`
}

// Messages shown instead of the detail of a system fault
var maskedMessages = map[string]string{
	services.ErrTypeInternal:           "An internal error occurred",
	services.ErrTypeServiceUnavailable: "Service temporarily unavailable, please try again",
	services.ErrTypeUpstream:           "An external service failed, please try again",
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes success and error envelopes
type Builder struct {
	config *Config
	logger *zap.Logger
}

// NewBuilder creates a new response builder
func NewBuilder(config *Config, logger *zap.Logger) *Builder {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		config: config,
		logger: logger,
	}
}

// Success builds a success envelope: {"success":true,"message"?:...,...payload}
func (b *Builder) Success(message string, payload Payload) map[string]interface{} {
	body := make(map[string]interface{}, len(payload)+2)
	for k, v := range payload {
		body[k] = v
	}
	body["success"] = true
	if message != "" {
		body["message"] = message
	}
	return body
}

// Error builds an error envelope. System faults never expose their detail.
func (b *Builder) Error(ctx context.Context, err error) *ErrorResponse {
	serviceErr := services.GetServiceError(err)

	detail := &ErrorDetail{
		Type: serviceErr.Type,
		Code: serviceErr.Code,
	}
	if fields, ok := serviceErr.Details["fields"]; ok {
		detail.Fields = fields
	}
	if b.config.IncludeRequestID {
		detail.RequestID = contextutils.GetRequestID(ctx)
	}

	message := serviceErr.Message
	if b.config.MaskInternalErrors && !serviceErr.IsClientError() {
		if masked, ok := maskedMessages[serviceErr.Type]; ok {
			message = masked
		} else {
			message = maskedMessages[services.ErrTypeInternal]
		}
	}

	return &ErrorResponse{
		Success: false,
		Message: message,
		Error:   detail,
	}
}

// ===============================
// HTTP RESPONSE WRITERS
// ===============================

// WriteJSON writes any value as JSON with the given status code
func (b *Builder) WriteJSON(w http.ResponseWriter, r *http.Request, body interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(statusCode)

	encoder := json.NewEncoder(w)
	if b.config.PrettyJSON {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(body); err != nil {
		b.logger.Error("Failed to encode JSON response",
			zap.Error(err),
			zap.String("request_id", contextutils.GetRequestID(r.Context())),
		)
	}
}

// WriteSuccess writes a 200 success envelope
func (b *Builder) WriteSuccess(w http.ResponseWriter, r *http.Request, message string, payload Payload) {
	b.WriteJSON(w, r, b.Success(message, payload), http.StatusOK)
}

// WriteCreated writes a 201 success envelope
func (b *Builder) WriteCreated(w http.ResponseWriter, r *http.Request, message string, payload Payload) {
	b.WriteJSON(w, r, b.Success(message, payload), http.StatusCreated)
}

// WriteError writes an error envelope with the status code of the error
func (b *Builder) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	body := b.Error(r.Context(), err)
	b.logError(r.Context(), err)
	b.WriteJSON(w, r, body, services.GetServiceError(err).GetStatusCode())
}

func (b *Builder) logError(ctx context.Context, err error) {
	serviceErr := services.GetServiceError(err)
	logger := contextutils.GetLogger(ctx, b.logger)

	fields := []zap.Field{
		zap.String("request_id", contextutils.GetRequestID(ctx)),
		zap.String("error_type", serviceErr.Type),
		zap.String("error_message", serviceErr.Message),
	}

	if serviceErr.IsClientError() {
		logger.Info("Request rejected", append(fields, zap.String("error_code", serviceErr.Code))...)
		return
	}
	logger.Error("Request failed", append(fields, zap.Error(err))...)
}

// ===============================
// CONTEXT HELPERS
// ===============================

type contextKey string

const builderKey contextKey = "response_builder"

// GetBuilder extracts response builder from context
func GetBuilder(ctx context.Context) *Builder {
	if builder, ok := ctx.Value(builderKey).(*Builder); ok {
		return builder
	}
	return nil
}

// SetBuilder stores response builder in context
func SetBuilder(ctx context.Context, builder *Builder) context.Context {
	return context.WithValue(ctx, builderKey, builder)
}

func builderFor(r *http.Request) *Builder {
	if builder := GetBuilder(r.Context()); builder != nil {
		return builder
	}
	return NewBuilder(DefaultConfig(), zap.NewNop())
}

// ===============================
// HELPER FUNCTIONS
// ===============================

// QuickSuccess writes a 200 success envelope with the builder from the request
func QuickSuccess(w http.ResponseWriter, r *http.Request, message string, payload Payload) {
	builderFor(r).WriteSuccess(w, r, message, payload)
}

// QuickCreated writes a 201 success envelope with the builder from the request
func QuickCreated(w http.ResponseWriter, r *http.Request, message string, payload Payload) {
	builderFor(r).WriteCreated(w, r, message, payload)
}

// QuickError writes an error envelope with the builder from the request
func QuickError(w http.ResponseWriter, r *http.Request, err error) {
	builderFor(r).WriteError(w, r, err)
}

// ===============================
// RESPONSE MIDDLEWARE
// ===============================

// Middleware stores builder in every request context
func Middleware(builder *Builder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetBuilder(r.Context(), builder)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
