package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Role tags a voice as eligible for one side of the conversation.
// Customer voices and support voices must stay audibly distinct, so the
// role filter is never relaxed at any selection tier.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleSupport  Role = "support"
)

// Tier labels which fallback level produced a selection.
type Tier string

const (
	TierExact           Tier = "exact"
	TierAnyLanguage     Tier = "any_language"
	TierAnyAccent       Tier = "any_accent"
	TierAnyGender       Tier = "any_gender"
	TierDefault         Tier = "default"
	TierFirstOfProvider Tier = "first_of_provider"
)

// ErrNoVoice is returned when no voice survives any tier including defaults.
var ErrNoVoice = errors.New("no voice available")

// Voice is one immutable catalog entry for a provider-specific voice.
type Voice struct {
	ID          string   `yaml:"id"`
	Provider    string   `yaml:"provider"`
	Name        string   `yaml:"name"`
	Gender      string   `yaml:"gender"`
	Languages   []string `yaml:"languages"`
	Accents     []string `yaml:"accents"`
	Roles       []Role   `yaml:"roles"`
	Priority    int      `yaml:"priority"`
	Description string   `yaml:"description"`
}

// AllowsRole reports whether the voice may speak for the given role.
func (v Voice) AllowsRole(role Role) bool {
	for _, r := range v.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (v Voice) speaksAll(languages []string) bool {
	for _, l := range languages {
		if !containsFold(v.Languages, l) {
			return false
		}
	}
	return true
}

func (v Voice) speaksAny(languages []string) bool {
	for _, l := range languages {
		if containsFold(v.Languages, l) {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, h := range haystack {
		if strings.EqualFold(h, needle) {
			return true
		}
	}
	return false
}

// Catalog is an immutable, insertion-ordered voice registry. Lookups are
// pure reads and safe for concurrent callers.
type Catalog struct {
	voices   []Voice
	defaults map[string]map[Role]string // provider -> role -> voice id
}

// New builds a catalog from entries in registration order. Defaults maps a
// provider and role to the preferred fallback voice id for Tier 3.
func New(voices []Voice, defaults map[string]map[Role]string) (*Catalog, error) {
	for i, v := range voices {
		if v.ID == "" || v.Provider == "" {
			return nil, fmt.Errorf("catalog entry %d: id and provider are required", i)
		}
		if len(v.Roles) == 0 {
			return nil, fmt.Errorf("catalog entry %q: at least one role is required", v.ID)
		}
	}
	c := &Catalog{
		voices:   append([]Voice(nil), voices...),
		defaults: make(map[string]map[Role]string, len(defaults)),
	}
	for provider, byRole := range defaults {
		m := make(map[Role]string, len(byRole))
		for role, id := range byRole {
			m[role] = id
		}
		c.defaults[provider] = m
	}
	return c, nil
}

// Select picks the best synthesizable voice for a persona using tiered
// fallback. The role constraint holds at every tier; everything else is
// relaxed in a fixed order. Identical inputs always return the same voice.
func (c *Catalog) Select(provider string, languages []string, accent, gender string, role Role) (Voice, Tier, error) {
	// Tier 1: all requested languages, exact accent and gender.
	if v, ok := c.best(provider, role, func(v Voice) bool {
		return v.speaksAll(languages) && containsFold(v.Accents, accent) && strings.EqualFold(v.Gender, gender)
	}); ok {
		return v, TierExact, nil
	}

	// Tier 2a: any requested language, keep accent and gender.
	if v, ok := c.best(provider, role, func(v Voice) bool {
		return v.speaksAny(languages) && containsFold(v.Accents, accent) && strings.EqualFold(v.Gender, gender)
	}); ok {
		return v, TierAnyLanguage, nil
	}

	// Tier 2b: drop accent, keep gender.
	if v, ok := c.best(provider, role, func(v Voice) bool {
		return v.speaksAny(languages) && strings.EqualFold(v.Gender, gender)
	}); ok {
		return v, TierAnyAccent, nil
	}

	// Tier 2c: drop gender too, keep only the language intersection.
	if v, ok := c.best(provider, role, func(v Voice) bool {
		return v.speaksAny(languages)
	}); ok {
		return v, TierAnyGender, nil
	}

	// Tier 3: provider default for the role.
	if byRole, ok := c.defaults[provider]; ok {
		if id, ok := byRole[role]; ok {
			if v, ok := c.ByID(provider, id); ok && v.AllowsRole(role) {
				return v, TierDefault, nil
			}
		}
	}

	// Last resort: first registered entry for the provider that still
	// satisfies the role constraint.
	for _, v := range c.voices {
		if v.Provider == provider && v.AllowsRole(role) {
			return v, TierFirstOfProvider, nil
		}
	}

	return Voice{}, "", fmt.Errorf("%w: provider %q role %q", ErrNoVoice, provider, role)
}

// best scans in registration order and keeps the highest-priority match.
// Strictly-greater comparison makes registration order the tie-break.
func (c *Catalog) best(provider string, role Role, match func(Voice) bool) (Voice, bool) {
	var found Voice
	ok := false
	for _, v := range c.voices {
		if v.Provider != provider || !v.AllowsRole(role) {
			continue
		}
		if !match(v) {
			continue
		}
		if !ok || v.Priority > found.Priority {
			found = v
			ok = true
		}
	}
	return found, ok
}

// ByID returns the voice registered under the given provider and id.
func (c *Catalog) ByID(provider, id string) (Voice, bool) {
	for _, v := range c.voices {
		if v.Provider == provider && v.ID == id {
			return v, true
		}
	}
	return Voice{}, false
}

// All returns the catalog entries, optionally filtered by provider.
func (c *Catalog) All(provider string) []Voice {
	if provider == "" {
		return append([]Voice(nil), c.voices...)
	}
	out := make([]Voice, 0, len(c.voices))
	for _, v := range c.voices {
		if v.Provider == provider {
			out = append(out, v)
		}
	}
	return out
}
