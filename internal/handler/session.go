package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tandalabs/wallet-api/internal/logging"
)

// SessionHandler serves /api/confirm-payment. The confirmation flow lives in
// the conversational front end; this endpoint validates and echoes the
// session payload so that front end can advance its state machine.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

type confirmPaymentRequest struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Flow      string `json:"flow"`
	Step      string `json:"step"`
	ExpiresAt int64  `json:"expires_at"`
}

func (r confirmPaymentRequest) missingFields() []string {
	var missing []string
	if r.SessionID == "" {
		missing = append(missing, "session_id")
	}
	if r.UserID == "" {
		missing = append(missing, "user_id")
	}
	if r.Flow == "" {
		missing = append(missing, "flow")
	}
	if r.Step == "" {
		missing = append(missing, "step")
	}
	if r.ExpiresAt == 0 {
		missing = append(missing, "expires_at")
	}
	return missing
}

func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	var req confirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidBody)
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		log.Warn("confirmation request incomplete", "missing", missing)
		RespondAppError(w, ErrMissingFields)
		return
	}

	log.Info("payment confirmation echoed",
		"session_id", req.SessionID,
		"flow", req.Flow,
		"step", req.Step,
	)

	RespondJSON(w, http.StatusOK, req)
}
