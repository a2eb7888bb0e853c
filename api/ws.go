package api

import (
	"errors"
	"net/http"
)

var errWSDisabled = errors.New("websocket updates disabled")

// handleWS streams the table's committed configurations, starting with the
// active one.
func (h *handler) handleWS(w http.ResponseWriter, r *http.Request) {
	if h.hub == nil {
		writeError(w, errWSDisabled)
		return
	}
	s := sessionFrom(r)
	h.hub.Serve(w, r, s.ID, s.ActiveConfig())
}
