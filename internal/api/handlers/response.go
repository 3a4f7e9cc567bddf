package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/dom/plantally/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching the response, so an unencodable value
// becomes a 500 instead of a success status with an empty body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Printf("ERROR [handlers.writeJSON] encode response: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"code":"INTERNAL_ERROR","message":"Internal server error"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeDomainError maps a store or domain failure to its HTTP status.
func writeDomainError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "SESSION_EXPIRED", "Demo session expired")
	case errors.Is(err, domain.ErrDemoLimitExceeded):
		writeError(w, http.StatusForbidden, "DEMO_LIMIT_EXCEEDED", "Demo accounts can add only a limited number of plants")
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, domain.ErrInvalidTimestamp):
		writeError(w, http.StatusBadRequest, "INVALID_TIMESTAMP", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "INVALID_STATE", err.Error())
	default:
		log.Printf("ERROR [handlers.%s] %v", op, err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
