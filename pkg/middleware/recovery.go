package middleware

import (
	"net/http"
	"runtime/debug"

	"staymi/pkg/logger"
)

func Recovery(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					log.Error("Panic recovered",
						"request_id", logger.RequestID(r.Context()),
						"error", err,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes the same envelope pkg/http uses for handler errors.
func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + message + `","code":"` + code + `"}`))
}
