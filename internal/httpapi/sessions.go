package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lmarchetti/voicesim/internal/coordination"
	"github.com/lmarchetti/voicesim/internal/transport"
)

type createSessionRequest struct {
	Metadata           string `json:"metadata"`
	InitiatorPersonaID string `json:"initiator_persona_id"`
	ResponderPersonaID string `json:"responder_persona_id"`
	MaxTurns           int    `json:"max_turns"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	metadata := strings.TrimSpace(req.Metadata)
	if metadata == "" {
		meta := transport.SessionMeta{
			InitiatorPersonaID: transport.DefaultInitiatorPersona,
			ResponderPersonaID: transport.DefaultResponderPersona,
			MaxTurns:           transport.DefaultMaxTurns,
		}
		if req.InitiatorPersonaID != "" {
			meta.InitiatorPersonaID = req.InitiatorPersonaID
		}
		if req.ResponderPersonaID != "" {
			meta.ResponderPersonaID = req.ResponderPersonaID
		}
		if req.MaxTurns > 0 {
			meta.MaxTurns = req.MaxTurns
		}
		metadata = meta.String()
	}

	sess, err := s.sessions.Create(r.Context(), metadata)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_metadata", err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

type assignRoleRequest struct {
	WorkerID string `json:"worker_id"`
}

type assignRoleResponse struct {
	SessionID string            `json:"session_id"`
	WorkerID  string            `json:"worker_id"`
	Role      coordination.Role `json:"role"`
}

func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	var req assignRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if strings.TrimSpace(req.WorkerID) == "" {
		respondError(w, http.StatusBadRequest, "missing_worker_id", "worker_id is required")
		return
	}
	if _, err := s.sessions.Get(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}

	role, err := s.coordinator.AssignRole(r.Context(), sessionID, req.WorkerID)
	if err != nil {
		var conflict *coordination.RoleConflictError
		if errors.As(err, &conflict) {
			respondError(w, http.StatusConflict, "role_conflict", conflict.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "assign_failed", err.Error())
		return
	}

	if err := s.sessions.Dispatch(r.Context(), sessionID, req.WorkerID, role); err != nil {
		respondError(w, http.StatusInternalServerError, "dispatch_failed", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, assignRoleResponse{
		SessionID: sessionID,
		WorkerID:  req.WorkerID,
		Role:      role,
	})
}

func (s *Server) handleListParticipants(w http.ResponseWriter, r *http.Request) {
	participants, err := s.sessions.Participants(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"participants": participants})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.sessions.Teardown(r.Context(), id); err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess)
}
