package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) handleListKAIs(w http.ResponseWriter, r *http.Request) {
	kais, err := h.Catalog.ListKAIs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, kais)
}

func (h *Handlers) handleCreateKAI(w http.ResponseWriter, r *http.Request) {
	kai, err := h.Catalog.CreateKAI(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, kai)
}

func (h *Handlers) handleUpdateKAI(w http.ResponseWriter, r *http.Request) {
	var req FieldUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	kai, err := h.Catalog.UpdateKAIField(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, kai)
}

func (h *Handlers) handleDeleteKAI(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteKAI(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.Catalog.ListKPIs(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, kpis)
}

func (h *Handlers) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	kpi, err := h.Catalog.CreateKPI(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, kpi)
}

func (h *Handlers) handleUpdateKPI(w http.ResponseWriter, r *http.Request) {
	var req FieldUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	kpi, err := h.Catalog.UpdateKPIField(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, kpi)
}

func (h *Handlers) handleDeleteKPI(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteKPI(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}
