package handler

import (
	"net/http"

	"staymi/internal/orders/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const tag = "orders"

var (
	userOnly   = []auth.Role{auth.RoleUser}
	storeRoles = []auth.Role{auth.RoleStore, auth.RoleAdmin}
	viewers    = []auth.Role{auth.RoleUser, auth.RoleStore, auth.RoleAdmin}
	adminOnly  = []auth.Role{auth.RoleAdmin}
)

var statusQuery = append([]contracts.QueryParam{
	{Name: "status", Type: "string", Description: "pending, paid, cancelled or payment_failed"},
}, contracts.Paging...)

type OrderHandler struct {
	service service.OrderService
	log     *logger.Logger
}

func NewOrderHandler(service service.OrderService, log *logger.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		log:     log,
	}
}

func (h *OrderHandler) Quote(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Quote", err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	quote, err := h.service.Quote(r.Context(), principal, &req)
	if err != nil {
		h.writeError(w, "Quote", err)
		return
	}
	h.writeSuccess(w, "Quote", quote)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateOrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	order, err := h.service.Create(r.Context(), principal, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, order); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *OrderHandler) Capture(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	order, err := h.service.Capture(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Capture", err)
		return
	}
	h.writeSuccess(w, "Capture", order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	order, err := h.service.Cancel(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	h.writeSuccess(w, "Cancel", order)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	order, err := h.service.GetByID(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", order)
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	orders, total, err := h.service.ListMine(r.Context(), principal, limit, offset)
	if err != nil {
		h.writeError(w, "ListMine", err)
		return
	}
	h.writePage(w, "ListMine", orders, total, limit, offset)
}

func (h *OrderHandler) ListByHotel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListByHotel", err)
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	orders, total, err := h.service.ListByHotel(r.Context(), principal, ps.ByName("id"), limit, offset)
	if err != nil {
		h.writeError(w, "ListByHotel", err)
		return
	}
	h.writePage(w, "ListByHotel", orders, total, limit, offset)
}

func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}

	orders, total, err := h.service.ListAll(r.Context(), r.URL.Query().Get("status"), limit, offset)
	if err != nil {
		h.writeError(w, "ListAll", err)
		return
	}
	h.writePage(w, "ListAll", orders, total, limit, offset)
}

func (h *OrderHandler) writeSuccess(w http.ResponseWriter, name string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *OrderHandler) writePage(w http.ResponseWriter, name string, data any, total int64, limit int, offset int64) {
	if err := httputil.WritePaginated(w, data, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "operation", "WritePaginated", "error", err)
	}
}

func (h *OrderHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *OrderHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodPost, Path: "/api/v1/orders/quote", Handle: h.Quote, Tag: tag,
			Roles: userOnly, Summary: "Price a stay without booking it", Request: model.CreateOrderRequest{}, Response: model.Quote{}},
		{Method: http.MethodPost, Path: "/api/v1/orders", Handle: h.Create, Tag: tag,
			Roles: userOnly, Summary: "Book a room and open its PayPal payment", Request: model.CreateOrderRequest{}, Response: model.Order{}, Status: http.StatusCreated},
		{Method: http.MethodPost, Path: "/api/v1/orders/id/:id/capture", Handle: h.Capture, Tag: tag,
			Roles: userOnly, Summary: "Capture the approved payment of an order", Response: model.Order{}},
		{Method: http.MethodPost, Path: "/api/v1/orders/id/:id/cancel", Handle: h.Cancel, Tag: tag,
			Roles: userOnly, Summary: "Cancel a pending order", Response: model.Order{}},
		{Method: http.MethodGet, Path: "/api/v1/orders", Handle: h.ListMine, Tag: tag,
			Roles: userOnly, Summary: "List my orders", Query: contracts.Paging, Response: model.Order{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/orders/id/:id", Handle: h.GetByID, Tag: tag,
			Roles: viewers, Summary: "Get an order", Response: model.Order{}},
		{Method: http.MethodGet, Path: "/api/v1/store/hotels/id/:id/orders", Handle: h.ListByHotel, Tag: tag,
			Roles: storeRoles, Summary: "List a hotel's orders", Query: contracts.Paging, Response: model.Order{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/admin/orders", Handle: h.ListAll, Tag: tag,
			Roles: adminOnly, Summary: "List all orders", Query: statusQuery, Response: model.Order{}, Paginated: true},
	}
}

func (h *OrderHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
