package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"datatable/session"
)

// WarningHeader carries a persistence failure on a request whose in-memory
// change was committed anyway.
const WarningHeader = "X-Datatable-Warning"

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeResult writes v with status, or the error response for err. A
// persistence error still writes v, flagged with WarningHeader.
func writeResult(w http.ResponseWriter, status int, v any, err error) {
	var perr *session.PersistenceError
	if errors.As(err, &perr) {
		w.Header().Set(WarningHeader, perr.Error())
		err = nil
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, status, v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusOf(err), errorBody{Error: err.Error()})
}

func statusOf(err error) int {
	var (
		verr *session.ValidationError
		nerr *session.NotFoundError
	)
	switch {
	case errors.As(err, &verr), errors.Is(err, session.ErrInvalidTableID):
		return http.StatusBadRequest
	case errors.As(err, &nerr), errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrAborted), errors.Is(err, session.ErrNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
