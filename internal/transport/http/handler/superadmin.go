package handler

import "net/http"

type secretKeyRequest struct {
	SecretKey string `json:"secret_key"`
}

// SuperAdminHandler handles the keyless super-admin login.
type SuperAdminHandler struct{}

func NewSuperAdminHandler() *SuperAdminHandler { return &SuperAdminHandler{} }

func (h *SuperAdminHandler) RequestKey(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	writeResult(w, console, console.RequestKey(r.Context()), http.StatusOK)
}

func (h *SuperAdminHandler) ResendKey(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	writeResult(w, console, console.RetryKeyDispatch(r.Context()), http.StatusOK)
}

func (h *SuperAdminHandler) VerifyKey(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req secretKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.VerifyKey(r.Context(), req.SecretKey), http.StatusOK)
}

func (h *SuperAdminHandler) Extend(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	writeResult(w, console, console.ExtendSession(r.Context()), http.StatusOK)
}
