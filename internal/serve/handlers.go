// ABOUTME: Route handlers for the sync HTTP API: status, register, pull, push.
// ABOUTME: Thin JSON shims over the sync service; protocol keys keep their wire names.

package serve

import (
	"encoding/json"
	"net/http"

	"github.com/harperreed/coach/internal/models"
	"github.com/harperreed/coach/internal/storage"
)

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, map[string]any{
		"status": "ok",
		"time":   storage.UTCNow(),
	}, http.StatusOK)
}

// handleStatus returns the server-side sync watermark, null until the first
// push lands.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ts, err := s.svc.Status()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	var lastModified any
	if ts != "" {
		lastModified = ts
	}
	WriteSuccess(w, map[string]any{"lastModified": lastModified}, http.StatusOK)
}

type registerBody struct {
	ClientID   string `json:"clientId"`
	ClientName string `json:"clientName"`
}

// handleRegister records a client device, optionally with a display name.
// A device without an id yet gets one assigned and returned.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body registerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, ErrValidation, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	clientID, err := s.svc.Register(body.ClientID, body.ClientName)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]any{
		"status":   "ok",
		"clientId": clientID,
	}, http.StatusOK)
}

// handlePull serves changed plans and logs since the client's watermark.
func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	clientID := q.Get("client_id")
	if clientID == "" {
		WriteError(w, ErrValidation, "client_id is required", http.StatusBadRequest)
		return
	}

	result, err := s.svc.Pull(clientID, q.Get("last_sync_time"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, result, http.StatusOK)
}

type pushBody struct {
	ClientID string                         `json:"clientId"`
	Logs     map[string]*models.LogDocument `json:"logs"`
}

// handlePush applies a batch of client logs, last writer wins per date.
func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var body pushBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteError(w, ErrValidation, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if body.ClientID == "" {
		WriteError(w, ErrValidation, "clientId is required", http.StatusBadRequest)
		return
	}

	result, err := s.svc.Push(body.ClientID, body.Logs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteSuccess(w, result, http.StatusOK)
}
