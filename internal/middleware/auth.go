package middleware

import (
	"net/http"
	"strings"

	"jobboard/internal/auth"
	"jobboard/internal/contextutils"
	"jobboard/internal/response"
	"jobboard/internal/services"

	"go.uber.org/zap"
)

// CompanyTokenParser verifies company bearer tokens
type CompanyTokenParser interface {
	ParseCompanyToken(token string) (string, error)
}

// SessionVerifier verifies identity provider session tokens
type SessionVerifier interface {
	VerifySessionToken(token string) (string, error)
}

// AuthMiddleware authenticates companies and job seekers
type AuthMiddleware struct {
	companies CompanyTokenParser
	sessions  SessionVerifier
	logger    *zap.Logger
}

// NewAuthMiddleware creates the authentication middleware. sessions may be
// nil when no identity provider key is configured; user routes then reject
// every request.
func NewAuthMiddleware(companies CompanyTokenParser, sessions SessionVerifier, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{
		companies: companies,
		sessions:  sessions,
		logger:    logger,
	}
}

// RequireCompany accepts a company token from the authorization header.
// Browsers cannot set headers on websocket handshakes, so upgrade
// requests may carry the token in the "token" query parameter instead.
func (m *AuthMiddleware) RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := requestToken(r)
		if token == "" && isWebsocketUpgrade(r) {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			response.QuickError(w, r, services.NewUnauthorizedError("Not authorized, login again"))
			return
		}

		companyID, err := m.companies.ParseCompanyToken(token)
		if err != nil {
			GetRequestLogger(r.Context()).Info("Rejected company token", zap.Error(err))
			response.QuickError(w, r, services.NewUnauthorizedError("Not authorized, login again"))
			return
		}

		ctx := contextutils.WithCompanyID(r.Context(), companyID)
		ctx = contextutils.WithLogger(ctx, GetRequestLogger(ctx).With(zap.String("company_id", companyID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser accepts an identity provider session token
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.sessions == nil {
			response.QuickError(w, r, services.NewServiceUnavailableError("User authentication is not configured", nil))
			return
		}

		token := requestToken(r)
		if token == "" {
			response.QuickError(w, r, services.NewUnauthorizedError("Not authorized, login again"))
			return
		}

		userID, err := m.sessions.VerifySessionToken(token)
		if err != nil {
			GetRequestLogger(r.Context()).Info("Rejected session token", zap.Error(err))
			response.QuickError(w, r, services.NewUnauthorizedError("Not authorized, login again"))
			return
		}

		ctx := contextutils.WithUserID(r.Context(), userID)
		ctx = contextutils.WithLogger(ctx, GetRequestLogger(ctx).With(zap.String("user_id", userID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestToken reads the authorization header, falling back to the
// legacy "token" header the web client sends
func requestToken(r *http.Request) string {
	if token := auth.BearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	return auth.BearerToken(r.Header.Get("Token"))
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
