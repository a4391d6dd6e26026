package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

type createServiceRequest struct {
	Name string `json:"name"`
}

type updateServicesRequest struct {
	ServicesToUpdate []model.ServiceUpdate `json:"servicesToUpdate"`
}

func (h *CatalogHandler) CreateService(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req createServiceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "CreateService", err)
		return
	}
	svc, err := h.service.CreateService(r.Context(), req.Name)
	if err != nil {
		h.writeError(w, r, "CreateService", err)
		return
	}
	h.writeJSON(w, r, "CreateService", http.StatusOK, svc)
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	services, err := h.service.ListServices(r.Context())
	if err != nil {
		h.writeError(w, r, "ListServices", err)
		return
	}
	h.writeJSON(w, r, "ListServices", http.StatusOK, services)
}

func (h *CatalogHandler) GetService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	svc, err := h.service.GetService(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetService", err)
		return
	}
	h.writeJSON(w, r, "GetService", http.StatusOK, svc)
}

func (h *CatalogHandler) UpdateServices(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req updateServicesRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, r, "UpdateServices", err)
		return
	}
	if err := h.service.UpdateServices(r.Context(), req.ServicesToUpdate); err != nil {
		h.writeError(w, r, "UpdateServices", err)
		return
	}
	h.writeJSON(w, r, "UpdateServices", http.StatusOK, httputil.Message("Services updated successfully"))
}
