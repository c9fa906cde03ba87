package handler

import (
	"encoding/json"
	"net/http"

	"github.com/campus-explorer-api/internal/application/session"
	"github.com/campus-explorer-api/internal/domain"
)

// maxBodyBytes caps every JSON request body.
const maxBodyBytes = 1 << 20

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResultEnvelope wraps the outcome of a session operation together with the console's
// session as it stands afterwards.
type ResultEnvelope struct {
	domain.Result
	Session *session.Snapshot `json:"session,omitempty"`
}

// UniversitiesEnvelope wraps the public university list.
type UniversitiesEnvelope struct {
	Data []domain.University `json:"data"`
}

// BuildingsEnvelope wraps a building list.
type BuildingsEnvelope struct {
	Data []domain.Building `json:"data"`
}

// RoomsEnvelope wraps a room list.
type RoomsEnvelope struct {
	Data []domain.Room `json:"data"`
}

// AdminsEnvelope wraps the admin account list.
type AdminsEnvelope struct {
	Data []domain.AdminListing `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// decodeJSON reads the request body into v, answering 400 itself when the body is malformed.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
