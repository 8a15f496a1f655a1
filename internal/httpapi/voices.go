package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

type listVoicesResponse struct {
	Provider string          `json:"provider"`
	Voices   []catalog.Voice `json:"voices"`
}

func (s *Server) handleListVoices(w http.ResponseWriter, r *http.Request) {
	provider := strings.TrimSpace(r.URL.Query().Get("provider"))
	respondJSON(w, http.StatusOK, listVoicesResponse{
		Provider: provider,
		Voices:   s.voices.All(provider),
	})
}

type selectVoiceRequest struct {
	Provider  string   `json:"provider"`
	Languages []string `json:"languages"`
	Accent    string   `json:"accent"`
	Gender    string   `json:"gender"`
	Role      string   `json:"role"`
}

type selectVoiceResponse struct {
	Voice catalog.Voice `json:"voice"`
	Tier  catalog.Tier  `json:"tier"`
}

func (s *Server) handleSelectVoice(w http.ResponseWriter, r *http.Request) {
	var req selectVoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	role := catalog.Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role != catalog.RoleCustomer && role != catalog.RoleSupport {
		respondError(w, http.StatusBadRequest, "invalid_role", "role must be customer or support")
		return
	}
	provider := strings.TrimSpace(req.Provider)
	if provider == "" {
		provider = s.cfg.TTSProviderName
	}

	voice, tier, err := s.voices.Select(provider, req.Languages, req.Accent, req.Gender, role)
	if err != nil {
		if errors.Is(err, catalog.ErrNoVoice) {
			respondError(w, http.StatusNotFound, "no_voice", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "selection_failed", err.Error())
		return
	}
	if s.metrics != nil {
		s.metrics.VoiceSelections.WithLabelValues(string(tier)).Inc()
	}
	respondJSON(w, http.StatusOK, selectVoiceResponse{Voice: voice, Tier: tier})
}
