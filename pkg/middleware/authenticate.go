package middleware

import (
	"net/http"
	"strings"

	"staymi/pkg/auth"
	apperrors "staymi/pkg/errors"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// TokenParser turns a bearer token into a principal.
type TokenParser interface {
	Parse(token string) (*auth.Principal, error)
}

// Authenticate attaches the caller's principal when a bearer token is present.
// Requests without a token continue anonymously; a bad token is rejected.
func Authenticate(tokens TokenParser, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Authorization header must be 'Bearer <token>'"))
				return
			}

			principal, err := tokens.Parse(strings.TrimSpace(token))
			if err != nil {
				log.Debug("Rejected bearer token",
					"request_id", logger.RequestID(r.Context()),
					"error", err,
				)
				_ = httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole guards a route: 401 without a principal, 403 with the wrong role.
func RequireRole(roles ...auth.Role) func(httprouter.Handle) httprouter.Handle {
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			principal, ok := auth.PrincipalFrom(r.Context())
			if !ok {
				_ = httputil.WriteError(w, apperrors.Unauthorized("Authentication required"))
				return
			}
			if len(roles) > 0 && !principal.Is(roles...) {
				_ = httputil.WriteError(w, apperrors.Forbidden("You do not have access to this resource"))
				return
			}
			next(w, r, ps)
		}
	}
}
