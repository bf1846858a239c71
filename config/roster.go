package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Roster is the offline input of fixturectl.
//
//	name: Spring Cup
//	type: knockout
//	teams:
//	  - Lions
//	  - Tigers
type Roster struct {
	Name  string   `yaml:"name"`
	Type  string   `yaml:"type"`
	Teams []string `yaml:"teams"`
}

// LoadRoster reads and validates a YAML roster file.
func LoadRoster(path string) (*Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster %s: %w", path, err)
	}
	return ParseRoster(raw)
}

func ParseRoster(raw []byte) (*Roster, error) {
	var r Roster
	if err := yaml.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	seen := make(map[string]bool, len(r.Teams))
	for i, name := range r.Teams {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("roster team %d has no name", i+1)
		}
		key := strings.ToLower(name)
		if seen[key] {
			return nil, fmt.Errorf("roster lists team %q more than once", name)
		}
		seen[key] = true
		r.Teams[i] = name
	}
	if len(r.Teams) < 2 {
		return nil, errors.New("roster needs at least two teams")
	}
	if r.Name == "" {
		r.Name = "Untitled"
	}
	return &r, nil
}
