package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/banners/service"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type BannerHandler struct {
	service service.BannerService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewBannerHandler(service service.BannerService, authenticator *middleware.Authenticator, log *logger.Logger) *BannerHandler {
	return &BannerHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

func (h *BannerHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/banner", h.auth.RequireRole(h.Upload, model.RoleAdmin))
	router.GET("/api/banner", h.List)
	router.DELETE("/api/banner/:id", h.auth.RequireRole(h.Delete, model.RoleAdmin))
}

// Upload takes multipart files[] plus indexes, a JSON array with one slot per file.
func (h *BannerHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if !httputil.IsMultipart(r) {
		h.writeError(w, r, "Upload", apperrors.InvalidInput("No files uploaded"))
		return
	}
	files, err := httputil.FormUploads(r, "files")
	if err == nil && len(files) == 0 {
		files, err = httputil.FormUploads(r, "files[]")
	}
	if err != nil {
		h.writeError(w, r, "Upload", err)
		return
	}

	var indexes []model.FlexInt
	if raw := r.FormValue("indexes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &indexes); err != nil {
			h.writeError(w, r, "Upload", apperrors.InvalidInput("Invalid or mismatched indexes array"))
			return
		}
	}
	slots := make([]int, len(indexes))
	for i, idx := range indexes {
		slots[i] = int(idx)
	}

	banners, err := h.service.Upload(r.Context(), files, slots)
	if err != nil {
		h.writeError(w, r, "Upload", err)
		return
	}
	h.writeJSON(w, r, "Upload", http.StatusOK, httputil.Message("Banners uploaded successfully", "banners", banners))
}

func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	banners, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}
	h.writeJSON(w, r, "List", http.StatusOK, httputil.Message("Banners fetched successfully", "banners", banners))
}

func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}
	h.writeJSON(w, r, "Delete", http.StatusOK, httputil.Message("Banner deleted successfully"))
}

func (h *BannerHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *BannerHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
