package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/payments/service"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/razorpay"
)

// PaymentHandler keeps the gateway's {"error": "..."} body for failures,
// which checkout clients key on.
type PaymentHandler struct {
	service service.PaymentService
	log     *logger.Logger
}

type errorBody struct {
	Error string `json:"error"`
}

func NewPaymentHandler(service service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{service: service, log: log}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/payment/create-order", h.CreateOrder)
	router.POST("/api/payment/verify", h.Verify)
}

func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req razorpay.OrderRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "CreateOrder", err)
		return
	}
	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrOrderFailed) {
			h.writeJSON(w, r, "CreateOrder", http.StatusInternalServerError, errorBody{Error: "Error creating order"})
			return
		}
		h.writeError(w, r, "CreateOrder", err)
		return
	}
	h.writeJSON(w, r, "CreateOrder", http.StatusOK, order)
}

func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req service.VerifyRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Verify", err)
		return
	}
	if err := h.service.Verify(r.Context(), &req); err != nil {
		h.writeJSON(w, r, "Verify", http.StatusBadRequest, errorBody{Error: "Invalid Signature"})
		return
	}
	h.writeJSON(w, r, "Verify", http.StatusOK, httputil.Message("Payment Verified"))
}

func (h *PaymentHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *PaymentHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
