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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_FirstRunCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civicfield.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.FileExists(t, path)
	assert.Empty(t, cfg.Backend.BaseURL, "no backend URL is configured out of the box")
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFrom_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civicfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  base_url: https://civic.example.gov
  timeout_seconds: 10
logging:
  level: debug
  json: true
`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://civic.example.gov", cfg.Backend.BaseURL)
	assert.Equal(t, 10, cfg.Backend.TimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.JSON)
}

func TestLoadFrom_EnvOverridesBaseURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civicfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  base_url: https://civic.example.gov
`), 0o644))

	t.Setenv(EnvBaseURL, "https://staging.example.gov")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.example.gov", cfg.Backend.BaseURL)
}

func TestLoadFrom_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civicfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: [not a map"), 0o644))

	_, err := LoadFrom(path)
	require.Error(t, err)
}

func TestLoadFrom_ZeroTimeoutFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "civicfield.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  timeout_seconds: 0
`), 0o644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Backend.TimeoutSeconds)
}
