package handler

import (
	"io"
	"net/http"
	"strconv"

	"staymi/internal/media/service"
	"staymi/pkg/auth"
	"staymi/pkg/contracts"
	apperrors "staymi/pkg/errors"
	httputil "staymi/pkg/http"
	"staymi/pkg/logger"
	"staymi/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// FormField is the multipart field carrying the image.
const FormField = "image"

type ImageHandler struct {
	service   service.ImageService
	maxMemory int64
	log       *logger.Logger
}

func NewImageHandler(service service.ImageService, maxUploadSize int, log *logger.Logger) *ImageHandler {
	return &ImageHandler{
		service:   service,
		maxMemory: int64(maxUploadSize),
		log:       log,
	}
}

func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	if err := r.ParseMultipartForm(h.maxMemory); err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("Expected a multipart form with an image field"))
		return
	}
	file, header, err := r.FormFile(FormField)
	if err != nil {
		h.writeError(w, "Upload", apperrors.InvalidInput("Missing image field"))
		return
	}
	defer file.Close()

	image, err := h.service.Upload(r.Context(), principal, ps.ByName("id"), header.Filename, file)
	if err != nil {
		h.writeError(w, "Upload", err)
		return
	}

	if err := httputil.WriteCreated(w, image); err != nil {
		h.log.Error("failed to write created response", "handler", "Upload", "operation", "WriteCreated", "error", err)
	}
}

func (h *ImageHandler) Remove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	principal, _ := auth.PrincipalFrom(r.Context())

	if err := h.service.Remove(r.Context(), principal, ps.ByName("id"), ps.ByName("imageId")); err != nil {
		h.writeError(w, "Remove", err)
		return
	}
	_ = httputil.WriteNoContent(w)
}

func (h *ImageHandler) Serve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	stream, err := h.service.Open(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Serve", err)
		return
	}
	defer stream.Close()

	w.Header().Set("Content-Type", stream.File.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(stream.File.Size, 10))
	w.Header().Set("Cache-Control", "public, max-age=86400, immutable")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, stream); err != nil {
		h.log.Ctx(r.Context()).Warn("Image stream interrupted", "image_id", stream.File.ID, "error", err)
	}
}

func (h *ImageHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ImageHandler) Routes() []contracts.Route {
	storeRoles := []auth.Role{auth.RoleStore, auth.RoleAdmin}
	return []contracts.Route{
		{Method: http.MethodPost, Path: "/api/v1/store/hotels/id/:id/images", Handle: h.Upload, Tag: "images",
			Roles: storeRoles, Summary: "Upload a hotel image (JPEG, PNG or WebP)", FileField: FormField,
			Response: model.HotelImage{}, Status: http.StatusCreated},
		{Method: http.MethodDelete, Path: "/api/v1/store/hotels/id/:id/images/:imageId", Handle: h.Remove, Tag: "images",
			Roles: storeRoles, Summary: "Remove a hotel image", Status: http.StatusNoContent},
		{Method: http.MethodGet, Path: "/api/v1/images/id/:id", Handle: h.Serve, Tag: "images",
			Summary: "Download an image", Binary: true},
	}
}

func (h *ImageHandler) RegisterRoutes(router *httprouter.Router) {
	contracts.Mount(router, h.Routes())
}
