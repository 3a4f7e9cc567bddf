package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dom/plantally/internal/api/middleware"
	"github.com/dom/plantally/internal/domain"
	"github.com/dom/plantally/internal/service"
)

type AuthHandler struct {
	sessions *service.SessionService
}

func NewAuthHandler(sessions *service.SessionService) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type LoginRequest struct {
	Email string `json:"email"`
}

type AuthResponse struct {
	Token   string         `json:"token"`
	Session domain.Session `json:"session"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	result, err := h.sessions.Login(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, "AuthHandler.Login", err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: result.Token, Session: result.Session})
}

// Demo starts a fresh demo session with its own token.
func (h *AuthHandler) Demo(w http.ResponseWriter, r *http.Request) {
	result, err := h.sessions.StartDemo(r.Context())
	if err != nil {
		writeDomainError(w, "AuthHandler.Demo", err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: result.Token, Session: result.Session})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := middleware.GetSessionID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	if err := h.sessions.Logout(r.Context(), sessionID); err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Session not found")
			return
		}
		writeDomainError(w, "AuthHandler.Logout", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
