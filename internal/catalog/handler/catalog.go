package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/jayant413/contrashutter-backend/internal/catalog/service"
	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/logger"
	"github.com/jayant413/contrashutter-backend/pkg/middleware"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

// CatalogHandler serves /api/services, /api/events and /api/packages.
// Reads are public, writes need an Admin token.
type CatalogHandler struct {
	service service.CatalogService
	auth    *middleware.Authenticator
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, authenticator *middleware.Authenticator, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		auth:    authenticator,
		log:     log,
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	admin := func(next httprouter.Handle) httprouter.Handle {
		return h.auth.RequireRole(next, model.RoleAdmin)
	}

	router.POST("/api/services", admin(h.CreateService))
	router.GET("/api/services", h.ListServices)
	router.GET("/api/services/:id", h.GetService)
	router.PUT("/api/services", admin(h.UpdateServices))

	router.POST("/api/events", admin(h.CreateEvent))
	router.GET("/api/events", h.ListEvents)
	router.GET("/api/events/:id", h.GetEvent)
	router.GET("/api/events/:id/:sub", httputil.NestedRoute("service", "serviceId", h.EventsByService))
	router.PUT("/api/events/:id", admin(h.UpdateEvent))

	router.POST("/api/packages", admin(h.CreatePackage))
	router.GET("/api/packages", h.ListPackages)
	router.GET("/api/packages/:id", h.GetPackage)
	router.GET("/api/packages/:id/:sub", httputil.NestedRoute("event", "eventId", h.PackagesByEvent))
	router.PUT("/api/packages/:id", admin(h.UpdatePackage))
}

func (h *CatalogHandler) writeJSON(w http.ResponseWriter, r *http.Request, handler string, status int, body any) {
	if err := httputil.WriteJSON(w, status, body); err != nil {
		h.log.WithContext(r.Context()).Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", err)
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}
