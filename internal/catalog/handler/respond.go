package handler

import (
	"net/http"

	"staymi/pkg/auth"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
)

const (
	tagBrands = "brands"
	tagHotels = "hotels"
	tagRooms  = "rooms"
	tagPlans  = "plans"
)

var storeRoles = []auth.Role{auth.RoleStore, auth.RoleAdmin}

// responder writes responses and logs the rare failure to do so.
type responder struct {
	log *logger.Logger
}

func (r responder) fail(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		r.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (r responder) ok(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		r.log.Error("failed to write success response", "handler", handler, "operation", "WriteSuccess", "error", err)
	}
}

func (r responder) created(w http.ResponseWriter, handler string, data any) {
	if err := httputil.WriteCreated(w, data); err != nil {
		r.log.Error("failed to write created response", "handler", handler, "operation", "WriteCreated", "error", err)
	}
}

func (r responder) page(w http.ResponseWriter, handler string, data any, total int64, limit int, offset int64) {
	if err := httputil.WritePaginated(w, data, total, limit, offset); err != nil {
		r.log.Error("failed to write paginated response", "handler", handler, "operation", "WritePaginated", "error", err)
	}
}

func (r responder) noContent(w http.ResponseWriter) {
	_ = httputil.WriteNoContent(w)
}

func principal(r *http.Request) *auth.Principal {
	p, _ := auth.PrincipalFrom(r.Context())
	return p
}
