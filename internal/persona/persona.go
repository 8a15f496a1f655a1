package persona

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

// ErrNotFound is returned when a requested persona id is not registered.
// A missing persona is fatal: the conversation never starts.
var ErrNotFound = errors.New("persona not found")

// Persona is a configured behavioral profile bound to one side of a
// conversation. Immutable once loaded into a run.
type Persona struct {
	ID           string       `yaml:"id"`
	Name         string       `yaml:"name"`
	Role         catalog.Role `yaml:"role"`
	Personality  string       `yaml:"personality"`
	SystemPrompt string       `yaml:"system_prompt"`
	Guardrails   []string     `yaml:"guardrails"`
	Languages    []string     `yaml:"languages"`
	Accent       string       `yaml:"accent"`
	Gender       string       `yaml:"gender"`
	VoiceID      string       `yaml:"voice_id"`

	// Customer-side fields.
	Issue           string `yaml:"issue"`
	Goal            string `yaml:"goal"`
	EmotionalState  string `yaml:"emotional_state"`
	SpecialBehavior string `yaml:"special_behavior"`
	Difficulty      string `yaml:"difficulty"`

	// Support-side fields.
	CompanyName        string   `yaml:"company_name"`
	AgentName          string   `yaml:"agent_name"`
	Policies           []string `yaml:"policies"`
	EscalationTriggers []string `yaml:"escalation_triggers"`
}

func (p *Persona) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("persona: id is required")
	}
	switch p.Role {
	case catalog.RoleCustomer, catalog.RoleSupport:
	default:
		return fmt.Errorf("persona %q: invalid role %q", p.ID, p.Role)
	}
	if len(p.Languages) == 0 {
		p.Languages = []string{"en"}
	}
	if p.EmotionalState == "" {
		p.EmotionalState = "neutral"
	}
	if p.Difficulty == "" {
		p.Difficulty = "medium"
	}
	return nil
}

// Registry holds loaded personas keyed by role and id. Reads are lock-free
// because the registry is frozen after construction.
type Registry struct {
	customers map[string]Persona
	support   map[string]Persona
}

func NewRegistry(personas []Persona) (*Registry, error) {
	r := &Registry{
		customers: make(map[string]Persona),
		support:   make(map[string]Persona),
	}
	for i := range personas {
		p := personas[i]
		if err := p.validate(); err != nil {
			return nil, err
		}
		switch p.Role {
		case catalog.RoleCustomer:
			if _, dup := r.customers[p.ID]; dup {
				return nil, fmt.Errorf("persona: duplicate customer id %q", p.ID)
			}
			r.customers[p.ID] = p
		case catalog.RoleSupport:
			if _, dup := r.support[p.ID]; dup {
				return nil, fmt.Errorf("persona: duplicate support id %q", p.ID)
			}
			r.support[p.ID] = p
		}
	}
	return r, nil
}

// Customer returns the customer persona registered under id.
func (r *Registry) Customer(id string) (Persona, error) {
	p, ok := r.customers[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: customer %q", ErrNotFound, id)
	}
	return p, nil
}

// Support returns the support persona registered under id.
func (r *Registry) Support(id string) (Persona, error) {
	p, ok := r.support[id]
	if !ok {
		return Persona{}, fmt.Errorf("%w: support %q", ErrNotFound, id)
	}
	return p, nil
}

// ByRole dispatches to Customer or Support based on the catalog role.
func (r *Registry) ByRole(role catalog.Role, id string) (Persona, error) {
	if role == catalog.RoleSupport {
		return r.Support(id)
	}
	return r.Customer(id)
}

// CustomerIDs lists registered customer persona ids.
func (r *Registry) CustomerIDs() []string {
	out := make([]string, 0, len(r.customers))
	for id := range r.customers {
		out = append(out, id)
	}
	return out
}

// SupportIDs lists registered support persona ids.
func (r *Registry) SupportIDs() []string {
	out := make([]string, 0, len(r.support))
	for id := range r.support {
		out = append(out, id)
	}
	return out
}
