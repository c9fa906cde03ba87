package handler

import (
	"net/http"

	"github.com/campus-explorer-api/internal/domain"
	"github.com/campus-explorer-api/internal/transport/http/middleware"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	UniversityName string `json:"university_name"`
	City           string `json:"city"`
}

// SessionHandler handles the console session endpoints.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler { return &SessionHandler{} }

func (h *SessionHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, console.Snapshot())
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.Login(r.Context(), req.Email, req.Password), http.StatusOK)
}

func (h *SessionHandler) Register(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res := console.Register(r.Context(), req.Email, req.Password, req.UniversityName, req.City)
	writeResult(w, console, res, http.StatusCreated)
}

func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	writeResult(w, console, console.Logout(r.Context()), http.StatusOK)
}

func consoleFrom(w http.ResponseWriter, r *http.Request) (middleware.Console, bool) {
	console, ok := middleware.ConsoleFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
	}
	return console, ok
}

func writeResult(w http.ResponseWriter, console middleware.Console, res domain.Result, success int) {
	snap := console.Snapshot()
	writeJSON(w, resultStatus(res, success), ResultEnvelope{Result: res, Session: &snap})
}
