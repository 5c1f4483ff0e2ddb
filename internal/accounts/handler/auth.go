package handler

import (
	"context"
	"net/http"

	"staymi/internal/accounts/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const tagAuth = "auth"

type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

func NewAuthHandler(service service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.SignupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	resp, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Signup", err)
		return
	}

	if err := httputil.WriteCreated(w, resp); err != nil {
		h.log.Error("failed to write created response", "handler", "Signup", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.login(w, r, "Login", h.service.Login)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	user, err := h.service.Me(r.Context(), principal)
	if err != nil {
		h.writeError(w, "Me", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "Me", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	var updates model.UserUpdate
	if err := httputil.DecodeJSON(r, &updates); err != nil {
		h.writeError(w, "UpdateMe", err)
		return
	}

	user, err := h.service.UpdateMe(r.Context(), principal, &updates)
	if err != nil {
		h.writeError(w, "UpdateMe", err)
		return
	}

	if err := httputil.WriteSuccess(w, user); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateMe", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) StoreSignup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.StoreSignupRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "StoreSignup", err)
		return
	}

	resp, err := h.service.StoreSignup(r.Context(), &req)
	if err != nil {
		h.writeError(w, "StoreSignup", err)
		return
	}

	if err := httputil.WriteCreated(w, resp); err != nil {
		h.log.Error("failed to write created response", "handler", "StoreSignup", "operation", "WriteCreated", "error", err)
	}
}

func (h *AuthHandler) StoreLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.login(w, r, "StoreLogin", h.service.StoreLogin)
}

func (h *AuthHandler) StoreMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	profile, err := h.service.StoreMe(r.Context(), principal)
	if err != nil {
		h.writeError(w, "StoreMe", err)
		return
	}

	if err := httputil.WriteSuccess(w, profile); err != nil {
		h.log.Error("failed to write success response", "handler", "StoreMe", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.login(w, r, "AdminLogin", h.service.AdminLogin)
}

func (h *AuthHandler) login(
	w http.ResponseWriter,
	r *http.Request,
	name string,
	fn func(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error),
) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, name, err)
		return
	}

	resp, err := fn(r.Context(), &req)
	if err != nil {
		h.writeError(w, name, err)
		return
	}

	if err := httputil.WriteSuccess(w, resp); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AuthHandler) Routes() []contracts.Route {
	return []contracts.Route{
		{Method: http.MethodPost, Path: "/api/v1/auth/signup", Handle: h.Signup, Tag: tagAuth,
			Summary: "Create a traveller account", Request: model.SignupRequest{}, Response: model.AuthResponse{}, Status: http.StatusCreated},
		{Method: http.MethodPost, Path: "/api/v1/auth/login", Handle: h.Login, Tag: tagAuth,
			Summary: "Log in as a traveller", Request: model.LoginRequest{}, Response: model.AuthResponse{}},
		{Method: http.MethodGet, Path: "/api/v1/auth/me", Handle: h.Me, Tag: tagAuth,
			Roles: []auth.Role{auth.RoleUser}, Summary: "Current traveller", Response: model.User{}},
		{Method: http.MethodPatch, Path: "/api/v1/users/me", Handle: h.UpdateMe, Tag: tagAuth,
			Roles: []auth.Role{auth.RoleUser}, Summary: "Update my profile", Request: model.UserUpdate{}, Response: model.User{}},
		{Method: http.MethodPost, Path: "/api/v1/auth/store/signup", Handle: h.StoreSignup, Tag: tagAuth,
			Summary: "Create a store account with its brand", Request: model.StoreSignupRequest{}, Response: model.AuthResponse{}, Status: http.StatusCreated},
		{Method: http.MethodPost, Path: "/api/v1/auth/store/login", Handle: h.StoreLogin, Tag: tagAuth,
			Summary: "Log in as a store", Request: model.LoginRequest{}, Response: model.AuthResponse{}},
		{Method: http.MethodGet, Path: "/api/v1/auth/store/me", Handle: h.StoreMe, Tag: tagAuth,
			Roles: []auth.Role{auth.RoleStore}, Summary: "Current store account and brand", Response: model.StoreProfile{}},
		{Method: http.MethodPost, Path: "/api/v1/auth/admin/login", Handle: h.AdminLogin, Tag: tagAuth,
			Summary: "Log in as an administrator", Request: model.LoginRequest{}, Response: model.AuthResponse{}},
	}
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
