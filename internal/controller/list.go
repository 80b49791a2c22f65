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

// ListController drives the complaint list screen.
type ListController struct {
	svc    api.Service
	logger *logging.Logger
	res    resource[[]api.Complaint]
}

// ListSnapshot is what the list screen renders.
type ListSnapshot struct {
	Phase Phase
	// Complaints is the last successfully loaded list. Valid whenever
	// Phase is Ready, including during a refresh.
	Complaints []api.Complaint
	// Err is the last load failure. May coexist with stale Complaints
	// after a failed refresh.
	Err error
	// Refreshing is true while a refresh is in flight over visible data.
	Refreshing bool
}

// NewListController creates the list controller.
func NewListController(svc api.Service, logger *logging.Logger) *ListController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &ListController{svc: svc, logger: logger}
}

// Load performs the initial fetch: the screen shows a full loading
// state because there is nothing to keep visible.
func (c *ListController) Load(ctx context.Context) {
	c.fetch(ctx, false)
}

// Refresh re-fetches while keeping the current list on screen. If the
// refresh fails, the stale list stays visible and the error is surfaced
// next to it.
func (c *ListController) Refresh(ctx context.Context) {
	c.fetch(ctx, true)
}

func (c *ListController) fetch(ctx context.Context, refresh bool) {
	gen := c.res.begin(refresh)
	complaints, err := c.svc.Complaints(ctx)
	if !c.res.complete(gen, complaints, err) {
		c.logger.Debug("discarding stale complaint list response")
		return
	}
	if err != nil {
		c.logger.Warn("complaint list load failed",
			"refresh", refresh,
			"kind", api.KindOf(err).String(),
		)
		return
	}
	c.logger.Debug("complaint list loaded", "count", len(complaints), "refresh", refresh)
}

// Reset drops all state and invalidates in-flight loads. Called on
// logout and session expiry.
func (c *ListController) Reset() {
	c.res.reset()
}

// Snapshot returns the current screen state.
func (c *ListController) Snapshot() ListSnapshot {
	phase, complaints, err, refreshing := c.res.snapshot()
	return ListSnapshot{
		Phase:      phase,
		Complaints: complaints,
		Err:        err,
		Refreshing: refreshing,
	}
}
