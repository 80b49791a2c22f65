// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controller

import (
	"context"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/pkg/logging"
)

// ProfileController drives the profile screen. The profile is always
// fetched fresh: the employee record cached in the session is a login
// snapshot and its performance stats go stale.
type ProfileController struct {
	svc    api.Service
	logger *logging.Logger
	res    resource[*api.Employee]
}

// ProfileSnapshot is what the profile screen renders.
type ProfileSnapshot struct {
	Phase    Phase
	Employee *api.Employee
	Err      error
}

// NewProfileController creates the profile controller.
func NewProfileController(svc api.Service, logger *logging.Logger) *ProfileController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ProfileController{svc: svc, logger: logger}
}

// Load fetches the profile with current performance statistics.
func (c *ProfileController) Load(ctx context.Context) {
	gen := c.res.begin(false)
	emp, err := c.svc.Profile(ctx)
	if !c.res.complete(gen, emp, err) {
		c.logger.Debug("discarding stale profile response")
		return
	}
	if err != nil {
		c.logger.Warn("profile load failed", "kind", api.KindOf(err).String())
	}
}

// Reset drops all state and invalidates in-flight loads.
func (c *ProfileController) Reset() {
	c.res.reset()
}

// Snapshot returns the current screen state.
func (c *ProfileController) Snapshot() ProfileSnapshot {
	phase, emp, err, _ := c.res.snapshot()
	return ProfileSnapshot{Phase: phase, Employee: emp, Err: err}
}
