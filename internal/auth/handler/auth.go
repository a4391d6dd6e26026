package handler

import (
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/auth/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type AuthHandler struct {
	service       service.AuthService
	auth          *middleware.Authenticator
	sessionTTL    time.Duration
	secureCookies bool
	log           *logger.Logger
}

func NewAuthHandler(service service.AuthService, authenticator *middleware.Authenticator, sessionTTL time.Duration, secureCookies bool, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service:       service,
		auth:          authenticator,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
		log:           log,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.RegisterRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Register", err)
		return
	}
	if _, err := h.service.Register(r.Context(), &req); err != nil {
		h.writeError(w, r, "Register", err)
		return
	}
	h.writeJSON(w, r, "Register", http.StatusOK, httputil.Message("User registered successfully"))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Login", err)
		return
	}
	session, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.writeError(w, r, "Login", err)
		return
	}

	auth.SetCookie(w, session.Token, h.sessionTTL, h.secureCookies)
	h.writeJSON(w, r, "Login", http.StatusOK, httputil.Message("Login successful", "user", session.User))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	auth.ClearCookie(w, h.secureCookies)
	h.writeJSON(w, r, "Logout", http.StatusOK, httputil.Message("Logout successful"))
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ChangePasswordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "ChangePassword", err)
		return
	}
	if err := h.service.ChangePassword(r.Context(), auth.UserIDFromContext(r.Context()), &req); err != nil {
		h.writeError(w, r, "ChangePassword", err)
		return
	}
	h.writeJSON(w, r, "ChangePassword", http.StatusOK, httputil.Message("Password changed successfully"))
}

func (h *AuthHandler) Contact(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ContactRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "Contact", err)
		return
	}
	if err := h.service.Contact(r.Context(), &req); err != nil {
		h.writeError(w, r, "Contact", err)
		return
	}
	h.writeJSON(w, r, "Contact", http.StatusOK, httputil.Message("Message sent successfully"))
}

func (h *AuthHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/auth/register", h.Register)
	router.POST("/api/auth/login", h.Login)
	router.GET("/api/auth/logout", h.Logout)
	router.POST("/api/auth/contact", h.Contact)
	router.POST("/api/auth/change-password", h.auth.Required(h.ChangePassword))
}

func (h *AuthHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
