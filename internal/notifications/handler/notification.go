package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/notifications/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type NotificationHandler struct {
	service service.NotificationService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewNotificationHandler(service service.NotificationService, authenticator *middleware.Authenticator, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

func (h *NotificationHandler) Add(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.NotificationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Add", err)
		return
	}

	if err := h.service.Send(r.Context(), auth.UserIDFromContext(r.Context()), &req); err != nil {
		h.writeError(w, r, "Add", err)
		return
	}
	h.writeJSON(w, r, "Add", http.StatusOK, httputil.Message("Notification added"))
}

func (h *NotificationHandler) Clear(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := h.service.Clear(r.Context(), auth.UserIDFromContext(r.Context())); err != nil {
		h.writeError(w, r, "Clear", err)
		return
	}
	h.writeJSON(w, r, "Clear", http.StatusOK, httputil.Message("Notifications cleared"))
}

func (h *NotificationHandler) Read(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("notificationId")
	if err := h.service.MarkRead(r.Context(), auth.UserIDFromContext(r.Context()), id); err != nil {
		h.writeError(w, r, "Read", err)
		return
	}
	h.writeJSON(w, r, "Read", http.StatusOK, httputil.Message("Notification read"))
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.service.List(r.Context(), auth.UserIDFromContext(r.Context()), 0)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}
	h.writeJSON(w, r, "List", http.StatusOK, httputil.Message("Notifications fetched", "notifications", list))
}

func (h *NotificationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/user/addNotification", h.auth.Required(h.Add))
	router.GET("/api/user/clearNotifications", h.auth.Required(h.Clear))
	router.GET("/api/user/readNotification/:notificationId", h.auth.Required(h.Read))
	router.GET("/api/user/notifications", h.auth.Required(h.List))
}

func (h *NotificationHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *NotificationHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
