package middleware

import (
	"net/http"
	"strings"

	"staymi/pkg/logger"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// ContentTypeValidation rejects bodies on POST/PUT/PATCH whose media type is
// not in allowed. Bodyless requests (capture, cancel) pass.
func ContentTypeValidation(log *logger.Logger, allowed ...string) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		allowed = []string{ContentTypeJSON}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r) {
				contentType := extractContentType(r.Header.Get("Content-Type"))
				if !isAllowed(contentType, allowed) {
					log.Warn("Invalid Content-Type header",
						"request_id", logger.RequestID(r.Context()),
						"content_type", contentType,
						"path", r.URL.Path,
						"method", r.Method,
					)
					writeJSONError(w, http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE",
						"Content-Type must be one of: "+strings.Join(allowed, ", "))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(r *http.Request) bool {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return r.ContentLength != 0
	}
	return false
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}

func isAllowed(contentType string, allowed []string) bool {
	for _, a := range allowed {
		if contentType == a {
			return true
		}
	}
	return false
}
