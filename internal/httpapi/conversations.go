package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lmarchetti/voicesim/internal/dialogue"
	"github.com/lmarchetti/voicesim/internal/transport"
)

type runConversationRequest struct {
	SessionID          string `json:"session_id"`
	InitiatorPersonaID string `json:"initiator_persona_id"`
	ResponderPersonaID string `json:"responder_persona_id"`
	MaxTurns           int    `json:"max_turns"`
	MinTurns           int    `json:"min_turns"`
}

type runConversationResponse struct {
	Conversation *dialogue.Conversation `json:"conversation"`
	Metrics      *dialogue.Metrics      `json:"metrics"`
}

// resolveRun fills persona ids and turn bounds, preferring explicit request
// fields over the session's metadata triple.
func (s *Server) resolveRun(r *http.Request, req runConversationRequest) (runConversationRequest, error) {
	meta := transport.SessionMeta{
		InitiatorPersonaID: transport.DefaultInitiatorPersona,
		ResponderPersonaID: transport.DefaultResponderPersona,
		MaxTurns:           transport.DefaultMaxTurns,
	}
	if req.SessionID != "" {
		sess, err := s.sessions.Get(r.Context(), req.SessionID)
		if err != nil {
			return req, err
		}
		meta, err = transport.ParseSessionMeta(sess.Metadata)
		if err != nil {
			return req, err
		}
	}
	if req.InitiatorPersonaID == "" {
		req.InitiatorPersonaID = meta.InitiatorPersonaID
	}
	if req.ResponderPersonaID == "" {
		req.ResponderPersonaID = meta.ResponderPersonaID
	}
	if req.MaxTurns <= 0 {
		req.MaxTurns = meta.MaxTurns
	}
	return req, nil
}

func (s *Server) runConfig(req runConversationRequest) dialogue.Config {
	return dialogue.Config{
		MaxTurns:      req.MaxTurns,
		MinTurns:      req.MinTurns,
		Temperature:   s.cfg.Temperature,
		MaxTokens:     s.cfg.MaxTokens,
		ContextWindow: s.cfg.ContextWindow,
		TurnTimeout:   s.cfg.TurnTimeout,
	}
}

func (s *Server) handleRunConversation(w http.ResponseWriter, r *http.Request) {
	var req runConversationRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	req, err := s.resolveRun(r, req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_session", err.Error())
		return
	}

	initiator, err := s.registry.Customer(req.InitiatorPersonaID)
	if err != nil {
		respondError(w, http.StatusNotFound, "persona_not_found", err.Error())
		return
	}
	responder, err := s.registry.Support(req.ResponderPersonaID)
	if err != nil {
		respondError(w, http.StatusNotFound, "persona_not_found", err.Error())
		return
	}

	orch, err := dialogue.NewOrchestrator(s.orchOpts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "orchestrator_unavailable", err.Error())
		return
	}

	conv, metrics, runErr := orch.Run(r.Context(), req.SessionID, initiator, responder, s.runConfig(req))
	if conv == nil {
		respondError(w, http.StatusBadRequest, "run_failed", runErr.Error())
		return
	}
	s.storeConversation(conv, metrics)

	// A FAILED or CANCELLED conversation is still a structured result: the
	// partial transcript and failure reason travel with it.
	respondJSON(w, http.StatusOK, runConversationResponse{Conversation: conv, Metrics: metrics})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	conv, metrics, ok := s.lookupConversation(chi.URLParam(r, "id"))
	if !ok {
		respondError(w, http.StatusNotFound, "conversation_not_found", "no such conversation")
		return
	}
	respondJSON(w, http.StatusOK, runConversationResponse{Conversation: conv, Metrics: metrics})
}

type turnEvent struct {
	Type           string        `json:"type"`
	ConversationID string        `json:"conversation_id"`
	Turn           dialogue.Turn `json:"turn"`
}

type doneEvent struct {
	Type               string         `json:"type"`
	ConversationID     string         `json:"conversation_id"`
	State              dialogue.State `json:"state"`
	ResolutionAchieved bool           `json:"resolution_achieved"`
	TotalTurns         int            `json:"total_turns"`
	FailureReason      string         `json:"failure_reason,omitempty"`
}

// handleConversationWS runs one conversation and streams each turn to the
// client as it is generated. The client sends a single run request after
// connecting.
func (s *Server) handleConversationWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))

	var req runConversationRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(errorResponse{Error: err.Error(), Code: "invalid_client_message"})
		return
	}
	req, err = s.resolveRun(r, req)
	if err != nil {
		_ = conn.WriteJSON(errorResponse{Error: err.Error(), Code: "invalid_session"})
		return
	}

	initiator, err := s.registry.Customer(req.InitiatorPersonaID)
	if err != nil {
		_ = conn.WriteJSON(errorResponse{Error: err.Error(), Code: "persona_not_found"})
		return
	}
	responder, err := s.registry.Support(req.ResponderPersonaID)
	if err != nil {
		_ = conn.WriteJSON(errorResponse{Error: err.Error(), Code: "persona_not_found"})
		return
	}

	// Run executes in this goroutine and invokes the hook synchronously, so
	// websocket writes stay single-threaded.
	opts := s.orchOpts
	opts.OnTurn = func(conv *dialogue.Conversation, turn dialogue.Turn) {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		_ = conn.WriteJSON(turnEvent{
			Type:           "turn",
			ConversationID: conv.ID,
			Turn:           turn,
		})
	}
	orch, err := dialogue.NewOrchestrator(opts)
	if err != nil {
		_ = conn.WriteJSON(errorResponse{Error: err.Error(), Code: "orchestrator_unavailable"})
		return
	}

	conv, metrics, _ := orch.Run(r.Context(), req.SessionID, initiator, responder, s.runConfig(req))
	if conv == nil {
		return
	}
	s.storeConversation(conv, metrics)

	_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	_ = conn.WriteJSON(doneEvent{
		Type:               "done",
		ConversationID:     conv.ID,
		State:              conv.State,
		ResolutionAchieved: conv.ResolutionAchieved,
		TotalTurns:         len(conv.Turns),
		FailureReason:      conv.FailureReason,
	})
}

// persona listing lives here because conversation requests reference ids.
func (s *Server) handleListPersonas(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"customers": s.registry.CustomerIDs(),
		"support":   s.registry.SupportIDs(),
	})
}
