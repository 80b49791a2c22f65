// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvBaseURL overrides the configured backend URL when set. Handy for
// pointing a single run at a staging server.
const EnvBaseURL = "CIVICFIELD_API_URL"

// Load reads the config at ~/.civicfield/civicfield.yaml, creating a
// default one on first run. The loaded config is returned, not stored
// in a global: callers pass it to whatever needs it.
func Load() (CivicFieldConfig, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return CivicFieldConfig{}, fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return LoadFrom(filepath.Join(home, ".civicfield", "civicfield.yaml"))
}

// LoadFrom reads the config at an explicit path. Used by tests.
func LoadFrom(path string) (CivicFieldConfig, error) {
	// create it if it doesn't exist
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf(" First run detected, creating the config at %s\n", path)
		if err := createDefault(path); err != nil {
			return CivicFieldConfig{}, err
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return CivicFieldConfig{}, fmt.Errorf("failed to read the config file: %w", err)
	}
	cfg := DefaultConfig()
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return CivicFieldConfig{}, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	// the env override wins over whatever is in the file
	if url := os.Getenv(EnvBaseURL); url != "" {
		cfg.Backend.BaseURL = url
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	return cfg, nil
}

func createDefault(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create the config directory: %w", err)
	}
	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
