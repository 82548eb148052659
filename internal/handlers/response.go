package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"
)

// ErrorResponse is the body of every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Could not validate credentials
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement
// swagger:model MessageResponse
type MessageResponse struct {
	// Message
	// default: Successfully logged out
	Message string `json:"message"`
}

const internalErrorMessage = "Internal server error"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorw("failed to encode response", "err", err)
	}
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// statusFor maps a service error kind onto an HTTP status.
func statusFor(err error) int {
	switch services.KindOf(err) {
	case services.KindUnauthenticated:
		return http.StatusUnauthorized
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err with the status of its kind. Internal errors are
// logged and their text is not exposed.
func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Log.Errorw("internal server error", "err", err)
		writeErrorMessage(w, status, internalErrorMessage)
		return
	}
	writeErrorMessage(w, status, err.Error())
}
