package handler

import (
	"net/http"

	"staymi/internal/catalog/repository"
	"staymi/internal/catalog/service"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type HotelHandler struct {
	responder
	service service.HotelService
}

func NewHotelHandler(service service.HotelService, log *logger.Logger) *HotelHandler {
	return &HotelHandler{
		responder: responder{log: log},
		service:   service,
	}
}

func (h *HotelHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "Search", err)
		return
	}

	query := r.URL.Query()
	filter := repository.HotelFilter{
		BrandID: query.Get("brand_id"),
		City:    query.Get("city"),
		Country: query.Get("country"),
	}

	hotels, total, err := h.service.ListPublic(r.Context(), filter, limit, offset)
	if err != nil {
		h.fail(w, "Search", err)
		return
	}
	h.page(w, "Search", hotels, total, limit, offset)
}

func (h *HotelHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	hotel, err := h.service.GetPublic(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, "GetByID", err)
		return
	}
	h.ok(w, "GetByID", hotel)
}

func (h *HotelHandler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "ListMine", err)
		return
	}

	hotels, total, err := h.service.ListForStore(r.Context(), principal(r), r.URL.Query().Get("brand_id"), limit, offset)
	if err != nil {
		h.fail(w, "ListMine", err)
		return
	}
	h.page(w, "ListMine", hotels, total, limit, offset)
}

func (h *HotelHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var hotel model.Hotel
	if err := httputil.DecodeJSON(r, &hotel); err != nil {
		h.fail(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), principal(r), &hotel); err != nil {
		h.fail(w, "Create", err)
		return
	}
	h.created(w, "Create", hotel)
}

func (h *HotelHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.HotelUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.fail(w, "Update", err)
		return
	}

	hotel, err := h.service.Update(r.Context(), principal(r), ps.ByName("id"), &updates)
	if err != nil {
		h.fail(w, "Update", err)
		return
	}
	h.ok(w, "Update", hotel)
}

func (h *HotelHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.fail(w, "Delete", err)
		return
	}
	h.noContent(w)
}

func (h *HotelHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodGet, Path: "/api/v1/hotels", Handle: h.Search, Tag: tagHotels,
			Summary: "Search active hotels",
			Query: append([]contracts.QueryParam{
				{Name: "city", Type: "string"},
				{Name: "country", Type: "string", Description: "ISO 3166-1 alpha-2"},
				{Name: "brand_id", Type: "string"},
			}, contracts.Paging...),
			Response: model.Hotel{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/hotels/id/:id", Handle: h.GetByID, Tag: tagHotels,
			Summary: "Get an active hotel", Response: model.Hotel{}},
		{Method: http.MethodGet, Path: "/api/v1/store/hotels", Handle: h.ListMine, Tag: tagHotels,
			Roles: storeRoles, Summary: "List my brand's hotels",
			Query:    append([]contracts.QueryParam{{Name: "brand_id", Type: "string", Description: "admin only"}}, contracts.Paging...),
			Response: model.Hotel{}, Paginated: true},
		{Method: http.MethodPost, Path: "/api/v1/store/hotels", Handle: h.Create, Tag: tagHotels,
			Roles: storeRoles, Summary: "Create a hotel", Request: model.Hotel{}, Response: model.Hotel{}, Status: http.StatusCreated},
		{Method: http.MethodPatch, Path: "/api/v1/store/hotels/id/:id", Handle: h.Update, Tag: tagHotels,
			Roles: storeRoles, Summary: "Update a hotel", Request: model.HotelUpdate{}, Response: model.Hotel{}},
		{Method: http.MethodDelete, Path: "/api/v1/store/hotels/id/:id", Handle: h.Delete, Tag: tagHotels,
			Roles: storeRoles, Summary: "Delete a hotel with its rooms and plans", Status: http.StatusNoContent},
	}
}

func (h *HotelHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
