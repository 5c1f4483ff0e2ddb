package handler

import (
	"net/http"

	"staymi/internal/catalog/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BrandHandler struct {
	responder
	service service.BrandService
}

func NewBrandHandler(service service.BrandService, log *logger.Logger) *BrandHandler {
	return &BrandHandler{
		responder: responder{log: log},
		service:   service,
	}
}

func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "List", err)
		return
	}

	brands, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.fail(w, "List", err)
		return
	}
	h.page(w, "List", brands, total, limit, offset)
}

func (h *BrandHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	brand, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, "GetByID", err)
		return
	}
	h.ok(w, "GetByID", brand)
}

func (h *BrandHandler) GetMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	brand, err := h.service.GetMine(r.Context(), principal(r))
	if err != nil {
		h.fail(w, "GetMine", err)
		return
	}
	h.ok(w, "GetMine", brand)
}

func (h *BrandHandler) UpdateMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var updates model.BrandUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.fail(w, "UpdateMine", err)
		return
	}

	brand, err := h.service.UpdateMine(r.Context(), principal(r), &updates)
	if err != nil {
		h.fail(w, "UpdateMine", err)
		return
	}
	h.ok(w, "UpdateMine", brand)
}

func (h *BrandHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodGet, Path: "/api/v1/brands", Handle: h.List, Tag: tagBrands,
			Summary: "List brands", Query: contracts.Paging, Response: model.Brand{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/brands/id/:id", Handle: h.GetByID, Tag: tagBrands,
			Summary: "Get a brand", Response: model.Brand{}},
		{Method: http.MethodGet, Path: "/api/v1/store/brand", Handle: h.GetMine, Tag: tagBrands,
			Roles: []auth.Role{auth.RoleStore}, Summary: "Get my brand", Response: model.Brand{}},
		{Method: http.MethodPatch, Path: "/api/v1/store/brand", Handle: h.UpdateMine, Tag: tagBrands,
			Roles: []auth.Role{auth.RoleStore}, Summary: "Update my brand", Request: model.BrandUpdate{}, Response: model.Brand{}},
	}
}

func (h *BrandHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
