package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/campus-explorer-api/internal/domain"
)

// httpError maps domain errors to status codes. Unknown errors are logged and hidden.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// resultStatus maps a Result to its response status.
func resultStatus(res domain.Result, success int) int {
	if res.Success {
		return success
	}
	switch res.Kind {
	case domain.KindValidation:
		return http.StatusUnprocessableEntity
	case domain.KindProvider, domain.KindKey:
		return http.StatusUnauthorized
	case domain.KindConsistency:
		return http.StatusForbidden
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadRequest
	}
}
