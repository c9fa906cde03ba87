package handler

import "net/http"

// EmailConfirmHandler handles email confirmation endpoints.
type EmailConfirmHandler struct{}

func NewEmailConfirmHandler() *EmailConfirmHandler { return &EmailConfirmHandler{} }

func (h *EmailConfirmHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.ConfirmEmail(r.Context(), req.IdentityID, req.Token), http.StatusOK)
}

func (h *EmailConfirmHandler) Resend(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.ResendConfirmation(r.Context(), req.Email), http.StatusOK)
}
