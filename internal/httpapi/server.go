package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/lmarchetti/voicesim/internal/catalog"
	"github.com/lmarchetti/voicesim/internal/config"
	"github.com/lmarchetti/voicesim/internal/coordination"
	"github.com/lmarchetti/voicesim/internal/dialogue"
	"github.com/lmarchetti/voicesim/internal/observability"
	"github.com/lmarchetti/voicesim/internal/persona"
	"github.com/lmarchetti/voicesim/internal/transport"
)

type Server struct {
	cfg         config.Config
	sessions    transport.Service
	coordinator *coordination.Coordinator
	registry    *persona.Registry
	voices      *catalog.Catalog
	orchOpts    dialogue.Options
	metrics     *observability.Metrics
	upgrader    websocket.Upgrader

	mu            sync.RWMutex
	conversations map[string]*dialogue.Conversation
	convMetrics   map[string]*dialogue.Metrics
}

func New(
	cfg config.Config,
	sessions transport.Service,
	coordinator *coordination.Coordinator,
	registry *persona.Registry,
	voices *catalog.Catalog,
	orchOpts dialogue.Options,
	metrics *observability.Metrics,
) *Server {
	return &Server{
		cfg:           cfg,
		sessions:      sessions,
		coordinator:   coordinator,
		registry:      registry,
		voices:        voices,
		orchOpts:      orchOpts,
		metrics:       metrics,
		conversations: make(map[string]*dialogue.Conversation),
		convMetrics:   make(map[string]*dialogue.Metrics),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same
				// origin unless explicitly opened up. Non-browser clients
				// often omit Origin; allow them.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/v1/sessions", s.handleCreateSession)
	r.Get("/v1/sessions/{id}", s.handleGetSession)
	r.Post("/v1/sessions/{id}/assign", s.handleAssignRole)
	r.Get("/v1/sessions/{id}/participants", s.handleListParticipants)
	r.Post("/v1/sessions/{id}/end", s.handleEndSession)

	r.Post("/v1/conversations", s.handleRunConversation)
	r.Get("/v1/conversations/{id}", s.handleGetConversation)
	r.Get("/v1/conversations/ws", s.handleConversationWS)

	r.Get("/v1/voices", s.handleListVoices)
	r.Post("/v1/voices/select", s.handleSelectVoice)
	r.Get("/v1/personas", s.handleListPersonas)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":               "ok",
		"coordination_backend": s.cfg.CoordinationBackend,
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":               "ready",
		"coordination_backend": s.cfg.CoordinationBackend,
	})
}

func (s *Server) storeConversation(conv *dialogue.Conversation, metrics *dialogue.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conversations[conv.ID] = conv
	s.convMetrics[conv.ID] = metrics
}

func (s *Server) lookupConversation(id string) (*dialogue.Conversation, *dialogue.Metrics, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, nil, false
	}
	return conv, s.convMetrics[id], true
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
