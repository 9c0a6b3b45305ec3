package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/odo-atelier/budget-api/internal/domain"
	"go.uber.org/zap"
)

// Recovery turns a panicking handler into a 500 response and logs the panic
func Recovery(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", r.Header.Get(RequestIDHeader)),
					zap.Stack("stack"),
				)

				writeProblem(w, http.StatusInternalServerError, domain.ErrorTypeInternal, "Internal server error")
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeProblem(w http.ResponseWriter, status int, errorType, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.NewAPIError(status, errorType, detail))
}
