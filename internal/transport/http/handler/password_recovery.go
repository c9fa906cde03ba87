package handler

import "net/http"

type emailRequest struct {
	Email string `json:"email"`
}

type linkRequest struct {
	IdentityID string `json:"identity_id"`
	Token      string `json:"token"`
}

type passwordRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// PasswordRecoveryHandler handles the password reset flow.
type PasswordRecoveryHandler struct{}

func NewPasswordRecoveryHandler() *PasswordRecoveryHandler { return &PasswordRecoveryHandler{} }

func (h *PasswordRecoveryHandler) Reset(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req emailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.SendPasswordResetEmail(r.Context(), req.Email), http.StatusOK)
}

// Recover exchanges the emailed recovery link for a session on this console.
func (h *PasswordRecoveryHandler) Recover(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req linkRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.RecoverPassword(r.Context(), req.IdentityID, req.Token), http.StatusOK)
}

func (h *PasswordRecoveryHandler) Update(w http.ResponseWriter, r *http.Request) {
	console, ok := consoleFrom(w, r)
	if !ok {
		return
	}
	var req passwordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	writeResult(w, console, console.UpdatePassword(r.Context(), req.Password, req.ConfirmPassword), http.StatusOK)
}
