package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/users/service"
	"github.com/jayant413/contrashutter-backend/pkg/auth"
	apperrors "github.com/jayant413/contrashutter-backend/pkg/errors"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type UserHandler struct {
	service       service.UserService
	auth          *middleware.Authenticator
	secureCookies bool
	log           *logger.Logger
}

func NewUserHandler(service service.UserService, authenticator *middleware.Authenticator, secureCookies bool, log *logger.Logger) *UserHandler {
	return &UserHandler{
		service:       service,
		auth:          authenticator,
		secureCookies: secureCookies,
		log:           log,
	}
}

type wishlistRequest struct {
	PackageID string `json:"packageId"`
}

// CheckLogin serves both /checkLogin and /me. A token whose user no longer
// exists is cleared.
func (h *UserHandler) CheckLogin(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	profile, err := h.service.Profile(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			auth.ClearCookie(w, h.secureCookies)
			h.writeJSON(w, r, "CheckLogin", http.StatusNotFound, map[string]any{
				"isLoggedIn":     false,
				"userExistsInDb": false,
				"message":        "User not found in database",
			})
			return
		}
		h.writeError(w, r, "CheckLogin", err)
		return
	}

	h.writeJSON(w, r, "CheckLogin", http.StatusOK, map[string]any{
		"isLoggedIn":     true,
		"userExistsInDb": true,
		"user":           profile,
	})
}

// UpdateProfile accepts multipart/form-data with an optional profileImage, or plain JSON.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var update model.ProfileUpdate
	if httputil.IsMultipart(r) {
		if err := httputil.ParseMultipart(r); err != nil {
			h.writeError(w, r, "UpdateProfile", err)
			return
		}
		update = model.ProfileUpdate{
			Fullname:    r.FormValue("fullname"),
			Contact:     r.FormValue("contact"),
			Role:        r.FormValue("role"),
			DateOfBirth: r.FormValue("dateOfBirth"),
			AadharCard:  r.FormValue("aadharCard"),
			PanCard:     r.FormValue("panCard"),
			Address:     r.FormValue("address"),
		}
	} else if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, r, "UpdateProfile", err)
		return
	}

	image, err := httputil.FormUpload(r, "profileImage")
	if err != nil {
		h.writeError(w, r, "UpdateProfile", err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), auth.UserIDFromContext(r.Context()), &update, image)
	if err != nil {
		h.writeError(w, r, "UpdateProfile", err)
		return
	}
	h.writeJSON(w, r, "UpdateProfile", http.StatusOK, httputil.Message("Profile updated successfully", "user", user))
}

func (h *UserHandler) GetPublic(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	user, err := h.service.GetPublic(r.Context(), ps.ByName("userId"))
	if err != nil {
		h.writeError(w, r, "GetPublic", err)
		return
	}
	h.writeJSON(w, r, "GetPublic", http.StatusOK, user)
}

func (h *UserHandler) ServiceProviders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := h.service.ServiceProviders(r.Context())
	if err != nil {
		h.writeError(w, r, "ServiceProviders", err)
		return
	}
	h.writeJSON(w, r, "ServiceProviders", http.StatusOK, users)
}

func (h *UserHandler) AddToWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req wishlistRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "AddToWishlist", err)
		return
	}
	if err := h.service.AddToWishlist(r.Context(), auth.UserIDFromContext(r.Context()), req.PackageID); err != nil {
		h.writeError(w, r, "AddToWishlist", err)
		return
	}
	h.writeJSON(w, r, "AddToWishlist", http.StatusOK, httputil.Message("Package added to wishlist"))
}

func (h *UserHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req wishlistRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "RemoveFromWishlist", err)
		return
	}
	if err := h.service.RemoveFromWishlist(r.Context(), auth.UserIDFromContext(r.Context()), req.PackageID); err != nil {
		h.writeError(w, r, "RemoveFromWishlist", err)
		return
	}
	h.writeJSON(w, r, "RemoveFromWishlist", http.StatusOK, httputil.Message("Package removed from wishlist"))
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/user/checkLogin", h.auth.Required(h.CheckLogin))
	router.GET("/api/user/me", h.auth.Required(h.CheckLogin))
	router.POST("/api/user/updateProfile", h.auth.Required(h.UpdateProfile))
	router.GET("/api/user/user/:userId", h.GetPublic)
	router.GET("/api/user/serviceProvider", h.ServiceProviders)
	router.POST("/api/user/addToWishlist", h.auth.Required(h.AddToWishlist))
	router.POST("/api/user/removeFromWishlist", h.auth.Required(h.RemoveFromWishlist))
}

func (h *UserHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *UserHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
