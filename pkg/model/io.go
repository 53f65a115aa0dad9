package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveProfile writes a decoded profile to disk as JSON.
func SaveProfile(path string, p *UserProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for profile: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling profile: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing profile: %w", err)
	}

	return nil
}

// LoadProfile reads a decoded profile from disk.
func LoadProfile(path string) (*UserProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}

	var p UserProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshaling profile: %w", err)
	}

	return &p, nil
}

// LoadEventBonus reads an event rule from disk.
func LoadEventBonus(path string) (*EventBonus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event bonus: %w", err)
	}

	var e EventBonus
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshaling event bonus: %w", err)
	}

	return &e, nil
}
