// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"os"
	"path/filepath"
)

type CivicFieldConfig struct {
	// Backend: where the complaint server lives
	Backend BackendConfig `yaml:"backend"`

	// Logging: verbosity and format of the local log
	Logging LoggingConfig `yaml:"logging"`

	// StateDir: where the session database is kept
	StateDir string `yaml:"state_dir"`
}

type BackendConfig struct {
	BaseURL        string `yaml:"base_url"`        // e.g. https://civic.example.gov
	TimeoutSeconds int    `yaml:"timeout_seconds"` // e.g. 30
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

func DefaultConfig() CivicFieldConfig {
	stateDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		stateDir = filepath.Join(home, ".civicfield", "state")
	}
	return CivicFieldConfig{
		Backend: BackendConfig{
			BaseURL:        "",
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		StateDir: stateDir,
	}
}
