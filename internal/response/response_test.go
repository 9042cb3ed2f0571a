package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard/internal/contextutils"
	"jobboard/internal/services"
	"jobboard/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccess_MergesPayload(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/company/login", nil)

	builder.WriteSuccess(rec, req, "", Payload{
		"token":   "abc",
		"company": map[string]string{"name": "Acme"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "abc", body["token"])
	assert.NotContains(t, body, "message")
	assert.NotContains(t, body, "data")
}

func TestWriteSuccess_PayloadCannotOverrideSuccess(t *testing.T) {
	builder := NewBuilder(nil, nil)
	rec := httptest.NewRecorder()

	builder.WriteCreated(rec, httptest.NewRequest(http.MethodPost, "/", nil), "Job posted", Payload{"success": false})

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Job posted", body["message"])
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantType    string
		wantMessage string
	}{
		{"validation", services.NewValidationError("Deadline must be a future date", nil), 400, services.ErrTypeValidation, "Deadline must be a future date"},
		{"not found", services.NewNotFoundError("Job not found"), 404, services.ErrTypeNotFound, "Job not found"},
		{"conflict", services.NewConflictError("Already applied", "ALREADY_APPLIED"), 409, services.ErrTypeConflict, "Already applied"},
		{"internal is masked", services.NewInternalError("pq: relation jobs does not exist", errors.New("boom")), 500, services.ErrTypeInternal, "An internal error occurred"},
		{"upstream is masked", services.NewUpstreamError("cloudinary said no", nil), 502, services.ErrTypeUpstream, "An external service failed, please try again"},
		{"plain error is internal", errors.New("dial tcp: refused"), 500, services.ErrTypeInternal, "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			builder := NewBuilder(DefaultConfig(), zap.NewNop())
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-1"))

			builder.WriteError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])

			detail := body["error"].(map[string]interface{})
			assert.Equal(t, tt.wantType, detail["type"])
			assert.Equal(t, "req-1", detail["requestId"])
		})
	}
}

func TestWriteError_IncludesFieldErrors(t *testing.T) {
	builder := NewBuilder(DefaultConfig(), zap.NewNop())
	rec := httptest.NewRecorder()

	fields := validation.Errors{{Field: "title", Rule: "required", Message: "title is required"}}
	builder.WriteError(rec, httptest.NewRequest(http.MethodPost, "/", nil), services.NewValidationError("", fields))

	body := decode(t, rec)
	assert.Equal(t, "title is required", body["message"])
	detail := body["error"].(map[string]interface{})
	require.Len(t, detail["fields"], 1)
}

func TestQuickHelpers_UseBuilderFromContext(t *testing.T) {
	builder := NewBuilder(&Config{PrettyJSON: true}, zap.NewNop())

	handler := Middleware(builder)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Same(t, builder, GetBuilder(r.Context()))
		QuickSuccess(w, r, "ok", nil)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "\n  \"success\": true")
}
