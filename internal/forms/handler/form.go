package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/forms/service"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type FormHandler struct {
	service service.FormService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewFormHandler(service service.FormService, authenticator *middleware.Authenticator, log *logger.Logger) *FormHandler {
	return &FormHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

type formResponse struct {
	Success bool        `json:"success"`
	Data    *model.Form `json:"data"`
}

type updateFieldsRequest struct {
	Fields []model.FormField `json:"fields"`
}

func (h *FormHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/forms", h.auth.RequireRole(h.Upsert, model.RoleAdmin))
	router.PUT("/api/forms/:formId", h.auth.RequireRole(h.Update, model.RoleAdmin))
	router.GET("/api/forms/event/:eventType", h.GetByEventType)
}

func (h *FormHandler) Upsert(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.Form
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Upsert", err)
		return
	}
	form, created, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, "Upsert", err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.writeJSON(w, r, "Upsert", status, formResponse{Success: true, Data: form})
}

func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req updateFieldsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	form, err := h.service.Update(r.Context(), ps.ByName("formId"), req.Fields)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	h.writeJSON(w, r, "Update", http.StatusOK, formResponse{Success: true, Data: form})
}

func (h *FormHandler) GetByEventType(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	form, err := h.service.GetByEventType(r.Context(), ps.ByName("eventType"))
	if err != nil {
		h.writeError(w, r, "GetByEventType", err)
		return
	}
	h.writeJSON(w, r, "GetByEventType", http.StatusOK, formResponse{Success: true, Data: form})
}

func (h *FormHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *FormHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
