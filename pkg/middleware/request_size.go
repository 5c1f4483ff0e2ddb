package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps request bodies. Multipart uploads get uploadLimit instead of limit.
func MaxRequestSize(limit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			max := limit
			if strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), ContentTypeMultipart) {
				max = uploadLimit
			}
			if r.ContentLength > max {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "BAD_REQUEST", "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
