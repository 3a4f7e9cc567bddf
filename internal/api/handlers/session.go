package handlers

import (
	"errors"
	"net/http"

	"github.com/dom/plantally/internal/api/middleware"
	"github.com/dom/plantally/internal/trial"
)

type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type TimerResponse struct {
	Active           bool `json:"active"`
	RemainingSeconds int  `json:"remainingSeconds"`
}

func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	writeJSON(w, http.StatusOK, st.Snapshot())
}

func (h *SessionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	sess, err := st.Subscribe(r.Context())
	if err != nil {
		writeDomainError(w, "SessionHandler.Subscribe", err)
		return
	}

	writeJSON(w, http.StatusOK, sess)
}

// Timer reports the trial countdown. Sessions without a running demo get
// active=false.
func (h *SessionHandler) Timer(w http.ResponseWriter, r *http.Request) {
	st, ok := middleware.GetStore(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized")
		return
	}

	remaining, err := st.Remaining()
	if err != nil {
		if errors.Is(err, trial.ErrTimerInactive) {
			writeJSON(w, http.StatusOK, TimerResponse{Active: false})
			return
		}
		writeDomainError(w, "SessionHandler.Timer", err)
		return
	}

	writeJSON(w, http.StatusOK, TimerResponse{Active: true, RemainingSeconds: remaining})
}
