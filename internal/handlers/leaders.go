package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/spwtrack/internal/services"
)

// multipart framing allowance on top of the photo itself
const photoFormOverhead = 1 << 20

// handleGetDashboard returns header stats and the filtered leader table
func (h *Handlers) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Dashboard.Summary(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, summary)
}

// handleGetEfficiencyReport returns chart data for every leader
func (h *Handlers) handleGetEfficiencyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Dashboard.Report(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, report)
}

func (h *Handlers) handleListLeaders(w http.ResponseWriter, r *http.Request) {
	leaders, err := h.Roster.ListLeaders(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leaders)
}

func (h *Handlers) handleCreateLeader(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaderRequest
	// An empty body creates a leader from the main view
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Roster.CreateLeader(r.Context(), services.CreateLeaderOptions{FromSettings: req.FromSettings})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, result)
}

func (h *Handlers) handleGetSelectedLeader(w http.ResponseWriter, r *http.Request) {
	leader, err := h.Roster.SelectedLeader(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

func (h *Handlers) handleGetLeader(w http.ResponseWriter, r *http.Request) {
	leader, err := h.Roster.GetLeader(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

// handleSelectLeader opens a leader's detail view
func (h *Handlers) handleSelectLeader(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Roster.SelectLeader(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	leader, err := h.Roster.GetLeader(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

// handleClearSelection returns to the dashboard
func (h *Handlers) handleClearSelection(w http.ResponseWriter, r *http.Request) {
	if err := h.Roster.SelectLeader(r.Context(), ""); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleUpdateLeader(w http.ResponseWriter, r *http.Request) {
	var req FieldUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	leader, err := h.Roster.UpdateLeaderField(r.Context(), chi.URLParam(r, "id"), req.Field, req.Value)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

// handleDeleteLeader removes a leader; the client must pass confirm=true
func (h *Handlers) handleDeleteLeader(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	if err := h.Roster.DeleteLeader(r.Context(), chi.URLParam(r, "id"), confirmed); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleToggleKAI(w http.ResponseWriter, r *http.Request) {
	leader, err := h.Roster.ToggleKAI(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "kaiID"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

func (h *Handlers) handleUpdateKPIActual(w http.ResponseWriter, r *http.Request) {
	var req MetricValueRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	leader, err := h.Roster.UpdateKPIActual(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "kpiID"), string(req.Value))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

// handleUploadPhoto stores a multipart "photo" upload as the leader's avatar
func (h *Handlers) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxPhotoBytes+photoFormOverhead)

	file, _, err := r.FormFile("photo")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			respondError(w, services.ErrPhotoTooLarge)
			return
		}
		respondError(w, BadRequest("Missing photo upload"))
		return
	}
	defer file.Close()

	// Read one byte past the limit so the service can reject oversize files
	data, err := io.ReadAll(io.LimitReader(file, services.MaxPhotoBytes+1))
	if err != nil {
		respondError(w, BadRequest("Failed to read photo upload"))
		return
	}

	leader, err := h.Roster.UpdateAvatar(r.Context(), chi.URLParam(r, "id"), data)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, leader)
}

// handleGetBadge serves the leader's registration QR code
func (h *Handlers) handleGetBadge(w http.ResponseWriter, r *http.Request) {
	size, err := parseIntQuery(r, "size", services.DefaultBadgeSize)
	if err != nil {
		respondError(w, err)
		return
	}

	png, err := h.Badge.BadgePNG(r.Context(), chi.URLParam(r, "id"), size)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

// handleGenerateCoaching produces a coaching summary for one leader
func (h *Handlers) handleGenerateCoaching(w http.ResponseWriter, r *http.Request) {
	report, err := h.Coaching.Generate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, report)
}
