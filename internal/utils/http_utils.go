package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"jobboard/internal/services"
)

// MaxJSONBodySize caps JSON request bodies
const MaxJSONBodySize = 1 << 20

// DecodeJSON decodes a JSON request body into dst. Malformed bodies are
// reported as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodySize)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return services.NewValidationError("Request body is required", err)
		case errors.As(err, &maxBytesErr):
			return services.NewValidationError("Request body is too large", err)
		default:
			return services.NewValidationError("Invalid request body", err)
		}
	}
	return nil
}

// ParseMultipart parses a multipart form. The returned cleanup removes the
// temporary files of the form and must be deferred by the caller on every
// path, including failures after parsing.
func ParseMultipart(w http.ResponseWriter, r *http.Request, maxSize int64) (func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+(1<<20))

	if err := r.ParseMultipartForm(maxSize); err != nil {
		cleanup := func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return cleanup, services.NewValidationError("Expected a multipart form", err)
		}
		return cleanup, services.NewValidationError(fmt.Sprintf("Invalid form, uploads are limited to %dMB", maxSize>>20), err)
	}

	return func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}, nil
}

// FormFile returns the first file uploaded under field, or nil
func FormFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

// FormValue returns a trimmed form value
func FormValue(r *http.Request, field string) string {
	return strings.TrimSpace(r.FormValue(field))
}
