package persona

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

func TestRegistryLookup(t *testing.T) {
	r, err := NewRegistry(Defaults())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}

	p, err := r.Customer("cooperative_parent")
	if err != nil {
		t.Fatalf("Customer() error = %v", err)
	}
	if p.Role != catalog.RoleCustomer || p.Name == "" {
		t.Fatalf("unexpected persona: %+v", p)
	}

	s, err := r.Support("default")
	if err != nil {
		t.Fatalf("Support() error = %v", err)
	}
	if s.Role != catalog.RoleSupport {
		t.Fatalf("Role = %q, want support", s.Role)
	}
}

func TestRegistryNotFound(t *testing.T) {
	r, err := NewRegistry(Defaults())
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if _, err := r.Customer("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Customer(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := r.Support("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Support(missing) error = %v, want ErrNotFound", err)
	}
}

func TestRegistryRejectsDuplicatesAndBadRoles(t *testing.T) {
	dup := []Persona{
		{ID: "x", Role: catalog.RoleCustomer},
		{ID: "x", Role: catalog.RoleCustomer},
	}
	if _, err := NewRegistry(dup); err == nil {
		t.Fatalf("NewRegistry() should reject duplicate ids")
	}

	bad := []Persona{{ID: "y", Role: "narrator"}}
	if _, err := NewRegistry(bad); err == nil {
		t.Fatalf("NewRegistry() should reject unknown roles")
	}
}

func TestValidateAppliesDefaults(t *testing.T) {
	p := Persona{ID: "z", Role: catalog.RoleCustomer}
	if err := p.validate(); err != nil {
		t.Fatalf("validate() error = %v", err)
	}
	if len(p.Languages) != 1 || p.Languages[0] != "en" {
		t.Fatalf("Languages = %v, want [en]", p.Languages)
	}
	if p.EmotionalState != "neutral" || p.Difficulty != "medium" {
		t.Fatalf("defaults not applied: %+v", p)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`
personas:
  - id: test_customer
    name: Test Customer
    role: customer
    issue: cannot log in
    goal: reset password
  - id: test_support
    name: Test Support
    role: support
    agent_name: Sam
    company_name: Acme
`)
	if err := os.WriteFile(filepath.Join(dir, "personas.yaml"), data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	r, err := LoadRegistry(dir)
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if _, err := r.Customer("test_customer"); err != nil {
		t.Fatalf("Customer() error = %v", err)
	}
	if _, err := r.Support("test_support"); err != nil {
		t.Fatalf("Support() error = %v", err)
	}
}

func TestLoadRegistryEmptyDirFallsBackToDefaults(t *testing.T) {
	r, err := LoadRegistry("")
	if err != nil {
		t.Fatalf("LoadRegistry() error = %v", err)
	}
	if len(r.CustomerIDs()) == 0 || len(r.SupportIDs()) == 0 {
		t.Fatalf("defaults not loaded")
	}
}
