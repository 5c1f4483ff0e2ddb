package handler

import (
	"net/http"

	"staymi/internal/subscriptions/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const tag = "subscriptions"

var (
	userOnly  = []auth.Role{auth.RoleUser}
	adminOnly = []auth.Role{auth.RoleAdmin}
)

type SubscriptionHandler struct {
	service service.SubscriptionService
	log     *logger.Logger
}

func NewSubscriptionHandler(service service.SubscriptionService, log *logger.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		service: service,
		log:     log,
	}
}

func (h *SubscriptionHandler) Plans(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.writeSuccess(w, "Plans", h.service.Plans())
}

func (h *SubscriptionHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	current, err := h.service.Me(r.Context(), principal)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}
	h.writeSuccess(w, "Me", current)
}

func (h *SubscriptionHandler) Subscribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SubscribeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Subscribe", err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	sub, err := h.service.Subscribe(r.Context(), principal, &req)
	if err != nil {
		h.writeError(w, "Subscribe", err)
		return
	}

	if err := httputil.WriteCreated(w, sub); err != nil {
		h.log.Error("failed to write created response", "handler", "Subscribe", "operation", "WriteCreated", "error", err)
	}
}

func (h *SubscriptionHandler) Capture(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	sub, err := h.service.Capture(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Capture", err)
		return
	}
	h.writeSuccess(w, "Capture", sub)
}

func (h *SubscriptionHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	sub, err := h.service.Cancel(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	h.writeSuccess(w, "Cancel", sub)
}

func (h *SubscriptionHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	subs, total, err := h.service.ListMine(r.Context(), principal, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}
	h.writePage(w, "ListMine", subs, total, limit, offset)
}

func (h *SubscriptionHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	subs, total, err := h.service.ListAll(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}
	h.writePage(w, "ListAll", subs, total, limit, offset)
}

func (h *SubscriptionHandler) writeSuccess(w http.ResponseWriter, name string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *SubscriptionHandler) writePage(w http.ResponseWriter, name string, data any, total int64, limit int, offset int64) {
	if err := httputil.WritePaginated(w, data, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "operation", "WritePaginated", "error", err)
	}
}

func (h *SubscriptionHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *SubscriptionHandler) Routes() []contracts.Route {
	statusQuery := append([]contracts.QueryParam{
		{Name: "status", Type: "string", Description: "pending, active, cancelled, superseded or payment_failed"},
	}, contracts.Paging...)

	return []contracts.Route{
		{Method: http.MethodGet, Path: "/api/v1/subscriptions/plans", Handle: h.Plans, Tag: tag,
			Summary: "List membership plans", Response: []model.SubscriptionPlan{}},
		{Method: http.MethodGet, Path: "/api/v1/subscriptions/me", Handle: h.Me, Tag: tag,
			Roles: userOnly, Summary: "Get my effective membership", Response: model.EffectiveSubscription{}},
		{Method: http.MethodGet, Path: "/api/v1/subscriptions", Handle: h.ListMine, Tag: tag,
			Roles: userOnly, Summary: "List my subscriptions", Query: contracts.Paging, Response: model.Subscription{}, Paginated: true},
		{Method: http.MethodPost, Path: "/api/v1/subscriptions", Handle: h.Subscribe, Tag: tag,
			Roles: userOnly, Summary: "Subscribe to a paid tier", Request: model.SubscribeRequest{}, Response: model.Subscription{}, Status: http.StatusCreated},
		{Method: http.MethodPost, Path: "/api/v1/subscriptions/id/:id/capture", Handle: h.Capture, Tag: tag,
			Roles: userOnly, Summary: "Capture the approved payment of a subscription", Response: model.Subscription{}},
		{Method: http.MethodPost, Path: "/api/v1/subscriptions/id/:id/cancel", Handle: h.Cancel, Tag: tag,
			Roles: userOnly, Summary: "Cancel an active subscription", Response: model.Subscription{}},
		{Method: http.MethodGet, Path: "/api/v1/admin/subscriptions", Handle: h.ListAll, Tag: tag,
			Roles: adminOnly, Summary: "List all subscriptions", Query: statusQuery, Response: model.Subscription{}, Paginated: true},
	}
}

func (h *SubscriptionHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
