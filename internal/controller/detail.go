// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controller

import (
	"context"
	"errors"
	"sync"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/pkg/logging"
)

// ErrBusy is returned when a status update or photo upload is requested
// while another write to the same complaint is still in flight. The two
// writes share one guard: a complaint accepts one mutation at a time.
var ErrBusy = errors.New("an update for this complaint is already in progress")

// DetailController drives the complaint detail screen for one
// complaint at a time.
type DetailController struct {
	svc    api.Service
	logger *logging.Logger

	res resource[*api.Complaint]

	mu       sync.Mutex
	id       string
	updating bool
}

// DetailSnapshot is what the detail screen renders.
type DetailSnapshot struct {
	Phase Phase
	// ID is the requested complaint identifier. Unlike Complaint it is
	// set as soon as Load is called, so a retry after a failed load
	// still knows what to fetch.
	ID        string
	Complaint *api.Complaint
	Err       error
	// Updating is true while a status change or photo upload is in
	// flight. The screen disables both entry points, not just the one
	// in use.
	Updating bool
	// Gone is true when the complaint no longer exists server-side.
	// The caller should surface the message and navigate back to the
	// list.
	Gone bool
}

// NewDetailController creates the detail controller.
func NewDetailController(svc api.Service, logger *logging.Logger) *DetailController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &DetailController{svc: svc, logger: logger}
}

// Load fetches the complaint with the given identifier. Switching to a
// different complaint invalidates any response still in flight for the
// previous one.
func (c *DetailController) Load(ctx context.Context, id string) {
	c.mu.Lock()
	c.id = id
	c.mu.Unlock()
	c.fetch(ctx, id, false)
}

func (c *DetailController) fetch(ctx context.Context, id string, refresh bool) {
	gen := c.res.begin(refresh)
	cmp, err := c.svc.Complaint(ctx, id)
	if !c.res.complete(gen, cmp, err) {
		c.logger.Debug("discarding stale complaint detail response", "complaint_id", id)
		return
	}
	if err != nil {
		c.logger.Warn("complaint detail load failed",
			"complaint_id", id,
			"kind", api.KindOf(err).String(),
		)
	}
}

// UpdateStatus submits a status change assigning the current employee,
// then re-fetches the complaint so the screen shows the server's
// canonical state. The visible detail is never mutated optimistically.
//
// # Outputs
//
//   - error: ErrBusy if another write is in flight; otherwise the API
//     error, with the on-screen detail left as it was. A nil error
//     means both the write and the re-fetch were issued (the re-fetch
//     outcome lands in the snapshot).
func (c *DetailController) UpdateStatus(ctx context.Context, status api.Status, emp *api.Employee) error {
	if emp == nil {
		return errors.New("no signed-in employee to assign")
	}

	c.mu.Lock()
	if c.updating {
		c.mu.Unlock()
		return ErrBusy
	}
	c.updating = true
	id := c.id
	c.mu.Unlock()
	defer c.clearUpdating()

	err := c.svc.UpdateComplaint(ctx, id, api.ComplaintUpdate{
		Status:               status,
		AssignedEmployeeID:   emp.EmployeeID,
		AssignedEmployeeName: emp.Name,
	})
	if err != nil {
		c.logger.Warn("status update failed",
			"complaint_id", id,
			"status", string(status),
			"kind", api.KindOf(err).String(),
		)
		return err
	}

	c.logger.Info("complaint status updated", "complaint_id", id, "status", string(status))
	c.fetch(ctx, id, true)
	return nil
}

// AddPhoto uploads a progress photo, then re-fetches the complaint.
// Shares the write guard with UpdateStatus.
func (c *DetailController) AddPhoto(ctx context.Context, image, note string) error {
	c.mu.Lock()
	if c.updating {
		c.mu.Unlock()
		return ErrBusy
	}
	c.updating = true
	id := c.id
	c.mu.Unlock()
	defer c.clearUpdating()

	err := c.svc.AddProgressPhoto(ctx, id, api.ProgressPhotoRequest{
		Image: image,
		Note:  note,
	})
	if err != nil {
		c.logger.Warn("progress photo upload failed",
			"complaint_id", id,
			"kind", api.KindOf(err).String(),
		)
		return err
	}

	c.logger.Info("progress photo added", "complaint_id", id, "note_present", note != "")
	c.fetch(ctx, id, true)
	return nil
}

func (c *DetailController) clearUpdating() {
	c.mu.Lock()
	c.updating = false
	c.mu.Unlock()
}

// Reset drops all state and invalidates in-flight loads.
func (c *DetailController) Reset() {
	c.mu.Lock()
	c.id = ""
	c.updating = false
	c.mu.Unlock()
	c.res.reset()
}

// Snapshot returns the current screen state.
func (c *DetailController) Snapshot() DetailSnapshot {
	phase, cmp, err, _ := c.res.snapshot()
	c.mu.Lock()
	id := c.id
	updating := c.updating
	c.mu.Unlock()
	return DetailSnapshot{
		Phase:     phase,
		ID:        id,
		Complaint: cmp,
		Err:       err,
		Updating:  updating,
		Gone:      api.IsNotFound(err),
	}
}
