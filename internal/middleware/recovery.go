package middleware

import (
	"fmt"
	"net/http"

	"jobboard/internal/response"
	"jobboard/internal/services"

	"go.uber.org/zap"
)

// Recovery turns a panic in a handler into a masked 500 envelope
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				// Let the server abort the connection as it intends to.
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				GetRequestLogger(r.Context()).Error("Panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)

				response.QuickError(w, r, services.NewInternalError("Panic recovered", fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
