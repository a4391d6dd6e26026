package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

func (h *CatalogHandler) CreatePackage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var pkg model.Package
	if err := httputil.DecodeJSON(r, &pkg); err != nil {
		h.writeError(w, r, "CreatePackage", err)
		return
	}
	created, err := h.service.CreatePackage(r.Context(), &pkg)
	if err != nil {
		h.writeError(w, r, "CreatePackage", err)
		return
	}
	h.writeJSON(w, r, "CreatePackage", http.StatusOK, created)
}

func (h *CatalogHandler) ListPackages(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	packages, err := h.service.ListPackages(r.Context())
	if err != nil {
		h.writeError(w, r, "ListPackages", err)
		return
	}
	h.writeJSON(w, r, "ListPackages", http.StatusOK, packages)
}

func (h *CatalogHandler) GetPackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	pkg, err := h.service.GetPackage(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetPackage", err)
		return
	}
	h.writeJSON(w, r, "GetPackage", http.StatusOK, pkg)
}

func (h *CatalogHandler) PackagesByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	packages, err := h.service.PackagesByEvent(r.Context(), ps.ByName("eventId"))
	if err != nil {
		h.writeError(w, r, "PackagesByEvent", err)
		return
	}
	h.writeJSON(w, r, "PackagesByEvent", http.StatusOK, packages)
}

func (h *CatalogHandler) UpdatePackage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var pkg model.Package
	if err := httputil.DecodeJSON(r, &pkg); err != nil {
		h.writeError(w, r, "UpdatePackage", err)
		return
	}
	updated, err := h.service.UpdatePackage(r.Context(), ps.ByName("id"), &pkg)
	if err != nil {
		h.writeError(w, r, "UpdatePackage", err)
		return
	}
	h.writeJSON(w, r, "UpdatePackage", http.StatusOK, httputil.Message("Package updated successfully", "package", updated))
}
