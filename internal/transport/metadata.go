package transport

import (
	"fmt"
	"strconv"
	"strings"
)

// Session metadata is a compact colon-delimited triple
// "<initiator_persona_id>:<responder_persona_id>:<max_turns>" carried opaquely
// from session creation to worker startup. Missing fields take defaults.

const (
	DefaultInitiatorPersona = "cooperative_parent"
	DefaultResponderPersona = "default"
	DefaultMaxTurns         = 5
)

// SessionMeta is the decoded form of the metadata triple.
type SessionMeta struct {
	InitiatorPersonaID string
	ResponderPersonaID string
	MaxTurns           int
}

// String encodes the triple for transport.
func (m SessionMeta) String() string {
	return fmt.Sprintf("%s:%s:%d", m.InitiatorPersonaID, m.ResponderPersonaID, m.MaxTurns)
}

// ParseSessionMeta decodes a metadata triple, applying defaults for missing
// fields. An unparsable max_turns is an error rather than a silent default.
func ParseSessionMeta(raw string) (SessionMeta, error) {
	meta := SessionMeta{
		InitiatorPersonaID: DefaultInitiatorPersona,
		ResponderPersonaID: DefaultResponderPersona,
		MaxTurns:           DefaultMaxTurns,
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return meta, nil
	}

	parts := strings.Split(raw, ":")
	if len(parts) > 3 {
		return SessionMeta{}, fmt.Errorf("session metadata %q: want at most 3 colon-delimited fields", raw)
	}
	if len(parts) > 0 && parts[0] != "" {
		meta.InitiatorPersonaID = parts[0]
	}
	if len(parts) > 1 && parts[1] != "" {
		meta.ResponderPersonaID = parts[1]
	}
	if len(parts) > 2 && parts[2] != "" {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return SessionMeta{}, fmt.Errorf("session metadata %q: invalid max_turns %q", raw, parts[2])
		}
		meta.MaxTurns = n
	}
	return meta, nil
}
