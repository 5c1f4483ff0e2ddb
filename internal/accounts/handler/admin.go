package handler

import (
	"net/http"

	"staymi/internal/accounts/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const tagAdmin = "admin"

var adminOnly = []auth.Role{auth.RoleAdmin}

var searchQuery = append([]contracts.QueryParam{
	{Name: "search", Type: "string", Description: "matches e-mail and names, case-insensitive"},
}, contracts.Paging...)

type AdminHandler struct {
	service service.AdminService
	log     *logger.Logger
}

func NewAdminHandler(service service.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		log:     log,
	}
}

func (h *AdminHandler) ListAdmins(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListAdmins", err)
		return
	}

	admins, total, err := h.service.ListAdmins(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "ListAdmins", err)
		return
	}
	h.writePage(w, "ListAdmins", admins, total, limit, offset)
}

func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateAdminRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateAdmin", err)
		return
	}

	admin, err := h.service.CreateAdmin(r.Context(), &req)
	if err != nil {
		h.writeError(w, "CreateAdmin", err)
		return
	}

	if err := httputil.WriteCreated(w, admin); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateAdmin", "operation", "WriteCreated", "error", err)
	}
}

func (h *AdminHandler) DeleteAdmin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	if err := h.service.DeleteAdmin(r.Context(), principal, ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteAdmin", err)
		return
	}
	_ = httputil.WriteNoContent(w)
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}

	users, total, err := h.service.ListUsers(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		h.writeError(w, "ListUsers", err)
		return
	}
	h.writePage(w, "ListUsers", users, total, limit, offset)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetUser(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetUser", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "GetUser", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.DeleteUser(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, "DeleteUser", err)
		return
	}
	_ = httputil.WriteNoContent(w)
}

func (h *AdminHandler) SetUserStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.UserStatusUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, "SetUserStatus", err)
		return
	}

	user, err := h.service.SetUserStatus(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, "SetUserStatus", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "SetUserStatus", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AdminHandler) ListStoreUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "ListStoreUsers", err)
		return
	}

	users, total, err := h.service.ListStoreUsers(r.Context(), r.URL.Query().Get("search"), limit, offset)
	if err != nil {
		h.writeError(w, "ListStoreUsers", err)
		return
	}
	h.writePage(w, "ListStoreUsers", users, total, limit, offset)
}

func (h *AdminHandler) writePage(w http.ResponseWriter, name string, data any, total int64, limit int, offset int64) {
	if err := httputil.WritePaginated(w, data, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", name, "operation", "WritePaginated", "error", err)
	}
}

func (h *AdminHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AdminHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodGet, Path: "/api/v1/admin/admin-users", Handle: h.ListAdmins, Tag: tagAdmin,
			Roles: adminOnly, Summary: "List administrators", Query: contracts.Paging, Response: model.AdminUser{}, Paginated: true},
		{Method: http.MethodPost, Path: "/api/v1/admin/admin-users", Handle: h.CreateAdmin, Tag: tagAdmin,
			Roles: adminOnly, Summary: "Create an administrator", Request: model.CreateAdminRequest{}, Response: model.AdminUser{}, Status: http.StatusCreated},
		{Method: http.MethodDelete, Path: "/api/v1/admin/admin-users/id/:id", Handle: h.DeleteAdmin, Tag: tagAdmin,
			Roles: adminOnly, Summary: "Delete another administrator", Status: http.StatusNoContent},
		{Method: http.MethodGet, Path: "/api/v1/admin/users", Handle: h.ListUsers, Tag: tagAdmin,
			Roles: adminOnly, Summary: "List travellers", Query: searchQuery, Response: model.User{}, Paginated: true},
		{Method: http.MethodGet, Path: "/api/v1/admin/users/id/:id", Handle: h.GetUser, Tag: tagAdmin,
			Roles: adminOnly, Summary: "Get a traveller", Response: model.User{}},
		{Method: http.MethodDelete, Path: "/api/v1/admin/users/id/:id", Handle: h.DeleteUser, Tag: tagAdmin,
			Roles: adminOnly, Summary: "Delete a traveller", Status: http.StatusNoContent},
		{Method: http.MethodPatch, Path: "/api/v1/admin/users/id/:id/status", Handle: h.SetUserStatus, Tag: tagAdmin,
			Roles: adminOnly, Summary: "Enable or disable a traveller", Request: model.UserStatusUpdate{}, Response: model.User{}},
		{Method: http.MethodGet, Path: "/api/v1/admin/store-users", Handle: h.ListStoreUsers, Tag: tagAdmin,
			Roles: adminOnly, Summary: "List store accounts", Query: searchQuery, Response: model.StoreUser{}, Paginated: true},
	}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
