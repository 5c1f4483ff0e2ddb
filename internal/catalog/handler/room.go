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

type RoomHandler struct {
	responder
	service service.RoomService
}

func NewRoomHandler(service service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		responder: responder{log: log},
		service:   service,
	}
}

func (h *RoomHandler) ListRoomTypes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "ListRoomTypes", err)
		return
	}

	types, total, err := h.service.ListRoomTypes(r.Context(), ps.ByName("id"), limit, offset)
	if err != nil {
		h.fail(w, "ListRoomTypes", err)
		return
	}
	h.page(w, "ListRoomTypes", types, total, limit, offset)
}

func (h *RoomHandler) CreateRoomType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var roomType model.RoomType
	if err := httputil.DecodeJSON(r, &roomType); err != nil {
		h.fail(w, "CreateRoomType", err)
		return
	}

	if err := h.service.CreateRoomType(r.Context(), principal(r), ps.ByName("id"), &roomType); err != nil {
		h.fail(w, "CreateRoomType", err)
		return
	}
	h.created(w, "CreateRoomType", roomType)
}

func (h *RoomHandler) UpdateRoomType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.RoomTypeUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.fail(w, "UpdateRoomType", err)
		return
	}

	roomType, err := h.service.UpdateRoomType(r.Context(), principal(r), ps.ByName("id"), &updates)
	if err != nil {
		h.fail(w, "UpdateRoomType", err)
		return
	}
	h.ok(w, "UpdateRoomType", roomType)
}

func (h *RoomHandler) DeleteRoomType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteRoomType(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.fail(w, "DeleteRoomType", err)
		return
	}
	h.noContent(w)
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.fail(w, "ListRooms", err)
		return
	}

	rooms, total, err := h.service.ListRooms(r.Context(), principal(r), ps.ByName("id"), limit, offset)
	if err != nil {
		h.fail(w, "ListRooms", err)
		return
	}
	h.page(w, "ListRooms", rooms, total, limit, offset)
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var room model.HotelRoom
	if err := httputil.DecodeJSON(r, &room); err != nil {
		h.fail(w, "CreateRoom", err)
		return
	}

	if err := h.service.CreateRoom(r.Context(), principal(r), ps.ByName("id"), &room); err != nil {
		h.fail(w, "CreateRoom", err)
		return
	}
	h.created(w, "CreateRoom", room)
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var updates model.HotelRoomUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.fail(w, "UpdateRoom", err)
		return
	}

	room, err := h.service.UpdateRoom(r.Context(), principal(r), ps.ByName("id"), &updates)
	if err != nil {
		h.fail(w, "UpdateRoom", err)
		return
	}
	h.ok(w, "UpdateRoom", room)
}

func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteRoom(r.Context(), principal(r), ps.ByName("id")); err != nil {
		h.fail(w, "DeleteRoom", err)
		return
	}
	h.noContent(w)
}

func (h *RoomHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodGet, Path: "/api/v1/hotels/id/:id/room-types", Handle: h.ListRoomTypes, Tag: tagRooms,
			Summary: "List room types of an active hotel", Query: contracts.Paging, Response: model.RoomType{}, Paginated: true},
		{Method: http.MethodPost, Path: "/api/v1/store/hotels/id/:id/room-types", Handle: h.CreateRoomType, Tag: tagRooms,
			Roles: storeRoles, Summary: "Create a room type", Request: model.RoomType{}, Response: model.RoomType{}, Status: http.StatusCreated},
		{Method: http.MethodPatch, Path: "/api/v1/store/room-types/id/:id", Handle: h.UpdateRoomType, Tag: tagRooms,
			Roles: storeRoles, Summary: "Update a room type", Request: model.RoomTypeUpdate{}, Response: model.RoomType{}},
		{Method: http.MethodDelete, Path: "/api/v1/store/room-types/id/:id", Handle: h.DeleteRoomType, Tag: tagRooms,
			Roles: storeRoles, Summary: "Delete an unused room type", Status: http.StatusNoContent},
		{Method: http.MethodGet, Path: "/api/v1/store/hotels/id/:id/rooms", Handle: h.ListRooms, Tag: tagRooms,
			Roles: storeRoles, Summary: "List physical rooms of a hotel", Query: contracts.Paging, Response: model.HotelRoom{}, Paginated: true},
		{Method: http.MethodPost, Path: "/api/v1/store/hotels/id/:id/rooms", Handle: h.CreateRoom, Tag: tagRooms,
			Roles: storeRoles, Summary: "Create a room", Request: model.HotelRoom{}, Response: model.HotelRoom{}, Status: http.StatusCreated},
		{Method: http.MethodPatch, Path: "/api/v1/store/rooms/id/:id", Handle: h.UpdateRoom, Tag: tagRooms,
			Roles: storeRoles, Summary: "Update a room", Request: model.HotelRoomUpdate{}, Response: model.HotelRoom{}},
		{Method: http.MethodDelete, Path: "/api/v1/store/rooms/id/:id", Handle: h.DeleteRoom, Tag: tagRooms,
			Roles: storeRoles, Summary: "Delete a room", Status: http.StatusNoContent},
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
