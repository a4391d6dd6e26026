package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	httputil "github.com/jayant413/contrashutter-backend/pkg/http"
	"github.com/jayant413/contrashutter-backend/pkg/model"
)

// CreateEvent accepts multipart/form-data with an optional image, or JSON.
func (h *CatalogHandler) CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var event model.Event
	if httputil.IsMultipart(r) {
		if err := httputil.ParseMultipart(r); err != nil {
			h.writeError(w, r, "CreateEvent", err)
			return
		}
		event = model.Event{
			EventName:   r.FormValue("eventName"),
			ServiceID:   r.FormValue("serviceId"),
			Description: r.FormValue("description"),
		}
	} else if err := httputil.DecodeJSON(r, &event); err != nil {
		h.writeError(w, r, "CreateEvent", err)
		return
	}

	image, err := httputil.FormUpload(r, "image")
	if err != nil {
		h.writeError(w, r, "CreateEvent", err)
		return
	}

	created, err := h.service.CreateEvent(r.Context(), &event, image)
	if err != nil {
		h.writeError(w, r, "CreateEvent", err)
		return
	}
	h.writeJSON(w, r, "CreateEvent", http.StatusOK, created)
}

func (h *CatalogHandler) ListEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		h.writeError(w, r, "ListEvents", err)
		return
	}
	h.writeJSON(w, r, "ListEvents", http.StatusOK, events)
}

func (h *CatalogHandler) GetEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	event, err := h.service.GetEvent(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, r, "GetEvent", err)
		return
	}
	h.writeJSON(w, r, "GetEvent", http.StatusOK, event)
}

func (h *CatalogHandler) EventsByService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	events, err := h.service.EventsByService(r.Context(), ps.ByName("serviceId"))
	if err != nil {
		h.writeError(w, r, "EventsByService", err)
		return
	}
	h.writeJSON(w, r, "EventsByService", http.StatusOK, events)
}

func (h *CatalogHandler) UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.EventUpdate
	if httputil.IsMultipart(r) {
		if err := httputil.ParseMultipart(r); err != nil {
			h.writeError(w, r, "UpdateEvent", err)
			return
		}
		update.EventName = r.FormValue("eventName")
		if values, ok := r.MultipartForm.Value["description"]; ok && len(values) > 0 {
			update.Description = &values[0]
		}
	} else if err := httputil.DecodeJSON(r, &update); err != nil {
		h.writeError(w, r, "UpdateEvent", err)
		return
	}

	image, err := httputil.FormUpload(r, "image")
	if err != nil {
		h.writeError(w, r, "UpdateEvent", err)
		return
	}

	event, err := h.service.UpdateEvent(r.Context(), ps.ByName("id"), &update, image)
	if err != nil {
		h.writeError(w, r, "UpdateEvent", err)
		return
	}
	h.writeJSON(w, r, "UpdateEvent", http.StatusOK, httputil.Message("Event updated successfully", "event", event))
}
