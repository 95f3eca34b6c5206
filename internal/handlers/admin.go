package handlers

import (
	"net/http"
	"time"
)

// handleResetData restores the seed dataset, discarding every change
func (h *Handlers) handleResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.ResetToSeed(r.Context()); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Data restored")
}

// handleResetRoutines clears every leader's routine checklist
func (h *Handlers) handleResetRoutines(w http.ResponseWriter, r *http.Request) {
	n, err := h.Routines.ResetNow(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, RoutineResetResponse{Leaders: n, ResetAt: time.Now().UTC()})
}

// handleGetStatus reports the coaching strategy, live clients and last reset
func (h *Handlers) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{CoachingStrategy: h.Coaching.Strategy()}
	if h.Hub != nil {
		resp.ConnectedClients = h.Hub.ClientCount()
	}

	last, err := h.Routines.LastReset(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if !last.IsZero() {
		resp.LastRoutineReset = &last
	}
	respondOK(w, resp)
}
