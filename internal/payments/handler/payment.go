package handler

import (
	"net/http"

	"staymi/internal/payments/repository"
	"staymi/internal/payments/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const tag = "payments"

type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

// PayPalReturn is the redirect target PayPal sends the payer to after approval.
func (h *PaymentHandler) PayPalReturn(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	result, err := h.service.HandleReturn(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PayPalReturn", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "PayPalReturn", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	payment, err := h.service.GetByID(r.Context(), principal, ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, payment); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PaymentHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	principal, _ := auth.PrincipalFrom(r.Context())
	payments, total, err := h.service.List(r.Context(), principal, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListMine", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, payments, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListMine", "operation", "WritePaginated", "error", err)
	}
}

func (h *PaymentHandler) ListAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	query := r.URL.Query()
	filter := repository.Filter{
		UserID:  query.Get("user_id"),
		Status:  model.PaymentStatus(query.Get("status")),
		Purpose: model.PaymentPurpose(query.Get("purpose")),
	}

	payments, total, err := h.service.ListAll(r.Context(), filter, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, payments, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *PaymentHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{
			Method: http.MethodGet, Path: "/api/v1/paypal/return", Handle: h.PayPalReturn,
			Tag: tag, Summary: "Settle a payment after PayPal approval",
			Query:    []contracts.QueryParam{{Name: "token", Type: "string", Description: "PayPal order id"}},
			Response: model.PaymentReturn{},
		},
		{
			Method: http.MethodGet, Path: "/api/v1/payments", Handle: h.ListMine,
			Roles: []auth.Role{auth.RoleUser}, Tag: tag, Summary: "List my payments",
			Query: contracts.Paging, Response: model.Payment{}, Paginated: true,
		},
		{
			Method: http.MethodGet, Path: "/api/v1/payments/id/:id", Handle: h.GetByID,
			Roles: []auth.Role{auth.RoleUser, auth.RoleAdmin}, Tag: tag, Summary: "Get a payment",
			Response: model.Payment{},
		},
		{
			Method: http.MethodGet, Path: "/api/v1/admin/payments", Handle: h.ListAll,
			Roles: []auth.Role{auth.RoleAdmin}, Tag: tag, Summary: "List all payments",
			Query: append([]contracts.QueryParam{
				{Name: "status", Type: "string", Description: "created, completed or failed"},
				{Name: "purpose", Type: "string", Description: "order or subscription"},
				{Name: "user_id", Type: "string"},
			}, contracts.Paging...),
			Response: model.Payment{}, Paginated: true,
		},
	}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
