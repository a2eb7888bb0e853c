package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"datatable/pipeline"
	"datatable/session"
	"datatable/tableconfig"
)

type ctxKey struct{}

// withSession resolves {table} to an open session.
func (h *handler) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, ok := h.manager.Get(chi.URLParam(r, "table"))
		if !ok {
			writeError(w, session.ErrNotFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	return r.Context().Value(ctxKey{}).(*session.Session)
}

// confirmer answers prompts from the confirm query parameter.
func confirmer(r *http.Request) session.Confirmer {
	if r.URL.Query().Get("confirm") == "true" {
		return session.Always
	}
	return session.Never
}

func (h *handler) listTables(w http.ResponseWriter, r *http.Request) {
	list := h.manager.List()
	out := make([]session.Summary, len(list))
	for i, s := range list {
		out[i] = s.Summary()
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) openTable(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID     string             `json:"id"`
		Config tableconfig.Config `json:"config"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s, err := h.manager.Open(req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	if req.Config != nil && s.State() == session.Uninitialized {
		s.Supply(req.Config)
	}
	writeJSON(w, http.StatusCreated, s.Summary())
}

func (h *handler) closeTable(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Close(sessionFrom(r).ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type configResponse struct {
	State          string              `json:"state"`
	ActivePresetID string              `json:"activePresetId"`
	Config         tableconfig.Config  `json:"config"`
	Display        tableconfig.Display `json:"display"`
}

func configOf(s *session.Session) configResponse {
	return configResponse{
		State:          s.State().String(),
		ActivePresetID: s.ActivePresetID(),
		Config:         s.ActiveConfig(),
		Display:        s.Display(),
	}
}

func (h *handler) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, configOf(sessionFrom(r)))
}

func (h *handler) supplyConfig(w http.ResponseWriter, r *http.Request) {
	var cfg tableconfig.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil || cfg == nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s := sessionFrom(r)
	s.Supply(cfg)
	writeJSON(w, http.StatusOK, configOf(s))
}

// setFields assigns each option of the body, in key order.
func (h *handler) setFields(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	s := sessionFrom(r)
	for _, k := range keys {
		if err := s.SetField(k, fields[k]); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, configOf(s))
}

func (h *handler) commit(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	err := s.CommitAndClose()
	writeResult(w, http.StatusOK, configOf(s), err)
}

func (h *handler) factoryReset(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	err := s.FactoryReset(confirmer(r))
	writeResult(w, http.StatusOK, configOf(s), err)
}

func (h *handler) reload(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r)
	s.Reload()
	writeJSON(w, http.StatusOK, presetsOf(s))
}

type viewRequest struct {
	Rows  []pipeline.Row  `json:"rows"`
	Query *pipeline.Query `json:"query,omitempty"`
}

func (h *handler) view(w http.ResponseWriter, r *http.Request) {
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	s := sessionFrom(r)
	if req.Query == nil && s.State() != session.Ready {
		writeError(w, session.ErrNotReady)
		return
	}
	writeJSON(w, http.StatusOK, s.View(req.Rows, req.Query))
}
