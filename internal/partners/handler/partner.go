package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/partners/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type PartnerHandler struct {
	service service.PartnerService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewPartnerHandler(service service.PartnerService, authenticator *middleware.Authenticator, log *logger.Logger) *PartnerHandler {
	return &PartnerHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

func (h *PartnerHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/service-partners/:userId", h.auth.Required(h.Create))
	router.GET("/api/service-partners", h.List)
	router.GET("/api/service-partners/:id", h.GetByID)
	router.GET("/api/service-partners/:id/:sub", httputil.NestedRoute("partner", "partnerId", h.GetByPartner))
	router.PUT("/api/service-partners/:id", h.auth.Required(h.Update))
	router.DELETE("/api/service-partners/:id", h.auth.RequireRole(h.Delete, model.RoleAdmin))
}

func (h *PartnerHandler) Create(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var partner model.ServicePartner
	if err := httputil.DecodeJSON(r, &partner); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	created, err := h.service.Create(r.Context(), ps.ByName("userId"), &partner)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	h.writeJSON(w, r, "Create", http.StatusOK, created)
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	partners, err := h.service.List(r.Context())
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}
	h.writeJSON(w, r, "List", http.StatusOK, partners)
}

func (h *PartnerHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	partner, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}
	h.writeJSON(w, r, "GetByID", http.StatusOK, partner)
}

func (h *PartnerHandler) GetByPartner(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	partner, err := h.service.GetByPartner(r.Context(), ps.ByName("partnerId"))
	if err != nil {
		h.writeError(w, r, "GetByPartner", err)
		return
	}
	h.writeJSON(w, r, "GetByPartner", http.StatusOK, partner)
}

// Update credits the change to the caller unless the body names updatedBy.
func (h *PartnerHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.PartnerUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	if update.UpdatedBy == "" {
		update.UpdatedBy = auth.UserIDFromContext(r.Context())
	}

	partner, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	h.writeJSON(w, r, "Update", http.StatusOK, partner)
}

func (h *PartnerHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.writeError(w, r, "Delete", err)
		return
	}
	h.writeJSON(w, r, "Delete", http.StatusOK, map[string]any{"success": true, "message": "Service Partner deleted"})
}

func (h *PartnerHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *PartnerHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
