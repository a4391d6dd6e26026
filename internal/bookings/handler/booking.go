package handler

import (
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/bookings/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewBookingHandler(service service.BookingService, authenticator *middleware.Authenticator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.CreateBookingRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	booking, err := h.service.Create(r.Context(), auth.UserIDFromContext(r.Context()), &req)
	if err != nil {
		h.writeError(w, r, "Create", err)
		return
	}
	h.writeJSON(w, r, "Create", http.StatusOK, booking)
}

// List answers with an empty array for anonymous callers rather than 401.
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.List(r.Context(), auth.ClaimsFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}
	h.writeJSON(w, r, "List", http.StatusOK, bookings)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetByID", err)
		return
	}
	h.writeJSON(w, r, "GetByID", http.StatusOK, booking)
}

func (h *BookingHandler) GetByUserID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookings, err := h.service.GetByUserID(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, r, "GetByUserID", err)
		return
	}
	h.writeJSON(w, r, "GetByUserID", http.StatusOK, bookings)
}

func (h *BookingHandler) GetInvoices(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	invoices, err := h.service.GetInvoices(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetInvoices", err)
		return
	}
	h.writeJSON(w, r, "GetInvoices", http.StatusOK, httputil.Message("Invoices fetched", "invoices", invoices))
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, r, "Update", apperrors.InvalidInput("Could not read request body"))
		return
	}
	update, err := model.ParseBookingUpdate(body)
	if err != nil {
		h.writeError(w, r, "Update", apperrors.InvalidInput(err.Error()))
		return
	}

	result, err := h.service.Update(r.Context(), auth.UserIDFromContext(r.Context()), ps.ByName("id"), update)
	if err != nil {
		h.writeError(w, r, "Update", err)
		return
	}
	h.writeJSON(w, r, "Update", http.StatusOK, httputil.Message(result.Message, "updatedBooking", result.Booking))
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/bookings", h.auth.Required(h.Create))
	router.GET("/api/bookings", h.auth.Optional(h.List))
	router.GET("/api/bookings/:id", h.GetByID)
	router.GET("/api/bookings/:id/:sub", httputil.NestedRoute("user", "userId", h.GetByUserID))
	router.PUT("/api/bookings/:id", h.auth.Required(h.Update))
	router.GET("/api/invoices/booking/:id", h.auth.Required(h.GetInvoices))
}

func (h *BookingHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
