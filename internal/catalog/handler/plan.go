package handler

import (
	"net/http"

	"staymi/internal/catalog/service"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PlanHandler struct {
	responder
	service service.PlanService
}

func NewPlanHandler(service service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{
		responder: responder{log: log},
		service:   service,
	}
}

func (h *PlanHandler) ListRoomPlans(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "ListRoomPlans", err)
		return
	}

	plans, total, err := h.service.ListRoomPlans(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.fail(w, "ListRoomPlans", err)
		return
	}
	h.page(w, "ListRoomPlans", plans, total, limit, offset)
}

func (h *PlanHandler) GetRoomPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, err := h.service.GetRoomPlan(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, "GetRoomPlan", err)
		return
	}
	h.ok(w, "GetRoomPlan", plan)
}

func (h *PlanHandler) CreateRoomPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var plan model.RoomPlan
	if err := httputil.DecodeJSON(r, &plan); err != nil {
		h.fail(w, "CreateRoomPlan", err)
		return
	}

	if err := h.service.CreateRoomPlan(r.Context(), principal(r), ps.ByName("id"), &plan); err != nil {
		h.fail(w, "CreateRoomPlan", err)
		return
	}
	h.created(w, "CreateRoomPlan", plan)
}

func (h *PlanHandler) UpdateRoomPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomPlanUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.fail(w, "UpdateRoomPlan", err)
		return
	}

	plan, err := h.service.UpdateRoomPlan(r.Context(), principal(r), ps.ByName("id"), &updates)
	if err != nil {
		h.fail(w, "UpdateRoomPlan", err)
		return
	}
	h.ok(w, "UpdateRoomPlan", plan)
}

func (h *PlanHandler) DeleteRoomPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteRoomPlan(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.fail(w, "DeleteRoomPlan", err)
		return
	}
	h.noContent(w)
}

func (h *PlanHandler) ListProductPlans(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "ListProductPlans", err)
		return
	}

	plans, total, err := h.service.ListProductPlans(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.fail(w, "ListProductPlans", err)
		return
	}
	h.page(w, "ListProductPlans", plans, total, limit, offset)
}

func (h *PlanHandler) GetProductPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	plan, err := h.service.GetProductPlan(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, "GetProductPlan", err)
		return
	}
	h.ok(w, "GetProductPlan", plan)
}

func (h *PlanHandler) CreateProductPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var plan model.ProductPlan
	if err := httputil.DecodeJSON(r, &plan); err != nil {
		h.fail(w, "CreateProductPlan", err)
		return
	}

	if err := h.service.CreateProductPlan(r.Context(), principal(r), ps.ByName("id"), &plan); err != nil {
		h.fail(w, "CreateProductPlan", err)
		return
	}
	h.created(w, "CreateProductPlan", plan)
}

func (h *PlanHandler) UpdateProductPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.ProductPlanUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.fail(w, "UpdateProductPlan", err)
		return
	}

	plan, err := h.service.UpdateProductPlan(r.Context(), principal(r), ps.ByName("id"), &updates)
	if err != nil {
		h.fail(w, "UpdateProductPlan", err)
		return
	}
	h.ok(w, "UpdateProductPlan", plan)
}

func (h *PlanHandler) DeleteProductPlan(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteProductPlan(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.fail(w, "DeleteProductPlan", err)
		return
	}
	h.noContent(w)
}

func (h *PlanHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodGet, Path: "/api/v1/hotels/id/:id/room-plans", Handle: h.ListRoomPlans, Tag: tagPlans,
			Summary: "List active room plans of a hotel", Query: contracts.Paging, Response: model.RoomPlan{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/room-plans/id/:id", Handle: h.GetRoomPlan, Tag: tagPlans,
			Summary: "Get an active room plan", Response: model.RoomPlan{}},
		{Method: http.MethodPost, Path: "/api/v1/store/hotels/id/:id/room-plans", Handle: h.CreateRoomPlan, Tag: tagPlans,
			Roles: storeRoles, Summary: "Create a room plan", Request: model.RoomPlan{}, Response: model.RoomPlan{}, Status: http.StatusCreated},
		{Method: http.MethodPatch, Path: "/api/v1/store/room-plans/id/:id", Handle: h.UpdateRoomPlan, Tag: tagPlans,
			Roles: storeRoles, Summary: "Update a room plan", Request: model.RoomPlanUpdate{}, Response: model.RoomPlan{}},
		{Method: http.MethodDelete, Path: "/api/v1/store/room-plans/id/:id", Handle: h.DeleteRoomPlan, Tag: tagPlans,
			Roles: storeRoles, Summary: "Delete a room plan", Status: http.StatusNoContent},

		{Method: http.MethodGet, Path: "/api/v1/hotels/id/:id/product-plans", Handle: h.ListProductPlans, Tag: tagPlans,
			Summary: "List active product plans of a hotel", Query: contracts.Paging, Response: model.ProductPlan{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/product-plans/id/:id", Handle: h.GetProductPlan, Tag: tagPlans,
			Summary: "Get an active product plan", Response: model.ProductPlan{}},
		{Method: http.MethodPost, Path: "/api/v1/store/hotels/id/:id/product-plans", Handle: h.CreateProductPlan, Tag: tagPlans,
			Roles: storeRoles, Summary: "Create a product plan", Request: model.ProductPlan{}, Response: model.ProductPlan{}, Status: http.StatusCreated},
		{Method: http.MethodPatch, Path: "/api/v1/store/product-plans/id/:id", Handle: h.UpdateProductPlan, Tag: tagPlans,
			Roles: storeRoles, Summary: "Update a product plan", Request: model.ProductPlanUpdate{}, Response: model.ProductPlan{}},
		{Method: http.MethodDelete, Path: "/api/v1/store/product-plans/id/:id", Handle: h.DeleteProductPlan, Tag: tagPlans,
			Roles: storeRoles, Summary: "Delete a product plan", Status: http.StatusNoContent},
	}
}

func (h *PlanHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
