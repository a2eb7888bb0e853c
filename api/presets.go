package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"datatable/preset"
	"datatable/session"
)

type presetsResponse struct {
	Presets        []preset.Preset `json:"presets"`
	ActivePresetID string          `json:"activePresetId"`
	RecentlyUsed   []string        `json:"recentlyUsed"`
}

func presetsOf(s *session.Session) presetsResponse {
	return presetsResponse{
		Presets:        s.Presets(),
		ActivePresetID: s.ActivePresetID(),
		RecentlyUsed:   s.Recent(),
	}
}

func (h *handler) listPresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, presetsOf(sessionFrom(r)))
}

// savePreset stores the active configuration under name, or the config in
// the body when one is given.
func (h *handler) savePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name   string          `json:"name"`
		Config json.RawMessage `json:"config,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s := sessionFrom(r)
	var (
		p   preset.Preset
		err error
	)
	if len(req.Config) > 0 {
		p, err = s.SaveJSONEdit(req.Name, req.Config, confirmer(r))
	} else {
		p, err = s.SaveCurrentAsPreset(session.StaticName(req.Name), confirmer(r))
	}
	writeResult(w, http.StatusCreated, p, err)
}

func (h *handler) applyPreset(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	err := s.ApplyPreset(chi.URLParam(r, "id"))
	writeResult(w, http.StatusOK, configOf(s), err)
}

func (h *handler) renamePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s := sessionFrom(r)
	err := s.RenamePreset(chi.URLParam(r, "id"), req.Name)
	writeResult(w, http.StatusOK, presetsOf(s), err)
}

func (h *handler) deletePreset(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	deleted, err := s.DeletePreset(chi.URLParam(r, "id"), confirmer(r))
	writeResult(w, http.StatusOK, map[string]any{"deleted": deleted, "activePresetId": s.ActivePresetID()}, err)
}
