package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type personaFile struct {
	Personas []Persona `yaml:"personas"`
}

// LoadDir reads every *.yaml/*.yml file in dir and returns the combined
// persona list. Files hold a `personas:` list.
func LoadDir(dir string) ([]Persona, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("persona: read dir %s: %w", dir, err)
	}

	var out []Persona
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("persona: read %s: %w", path, err)
		}
		var f personaFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("persona: parse %s: %w", path, err)
		}
		out = append(out, f.Personas...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("persona: no personas found in %s", dir)
	}
	return out, nil
}

// LoadRegistry builds a registry from dir, or from the built-in defaults
// when dir is empty.
func LoadRegistry(dir string) (*Registry, error) {
	if strings.TrimSpace(dir) == "" {
		return NewRegistry(Defaults())
	}
	personas, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return NewRegistry(personas)
}
