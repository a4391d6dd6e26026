package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/support/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type TicketHandler struct {
	service service.TicketService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewTicketHandler(service service.TicketService, authenticator *middleware.Authenticator, log *logger.Logger) *TicketHandler {
	return &TicketHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var ticket model.SupportTicket
	if httputil.IsMultipart(r) {
		if err := httputil.ParseMultipart(r); err != nil {
			h.writeError(w, r, "Create", err)
			return
		}
		ticket = model.SupportTicket{
			Subject:  r.FormValue("subject"),
			Message:  r.FormValue("message"),
			Priority: r.FormValue("priority"),
		}
	} else if err := httputil.DecodeJSON(r, &ticket); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	image, err := httputil.FormUpload(r, "image")
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	created, err := h.service.CreateTicket(r.Context(), auth.UserIDFromContext(r.Context()), &ticket, image)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	h.writeJSON(w, r, "Create", http.StatusOK, httputil.Message("Support ticket created successfully", "ticket", created))
}

func (h *TicketHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/user/support", h.auth.Required(h.Create))
}

func (h *TicketHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *TicketHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
