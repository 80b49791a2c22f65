// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controller

import (
	"context"
	"sync"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/internal/session"
	"github.com/civicfieldworks/civicfield/pkg/logging"
)

// LoginController drives the sign-in screen. It owns the submit
// lifecycle; the entered field values live in the form, and on failure
// they are left untouched so the employee can correct a typo instead of
// retyping everything.
type LoginController struct {
	svc      api.Service
	sessions *session.Manager
	logger   *logging.Logger

	mu         sync.Mutex
	submitting bool
	err        error
}

// LoginSnapshot is what the sign-in screen renders.
type LoginSnapshot struct {
	// Submitting is true while a login request is in flight; the
	// submit control is disabled to stop duplicate requests.
	Submitting bool
	// Err is the last failed attempt, cleared by the next submit.
	Err error
}

// NewLoginController creates the login controller.
func NewLoginController(svc api.Service, sessions *session.Manager, logger *logging.Logger) *LoginController {
	if logger == nil {
		logger = logging.Discard()
	}
	return &LoginController{svc: svc, sessions: sessions, logger: logger}
}

// Submit attempts a sign-in and, on success, establishes the session
// (disk first, then memory).
//
// # Outputs
//
//   - bool: true if the session was established.
//   - error: validation, credential, or connectivity failure; also a
//     persistence failure after a server-accepted login, which leaves
//     the client signed out.
func (c *LoginController) Submit(ctx context.Context, employeeID, password string) (bool, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return false, ErrBusy
	}
	c.submitting = true
	c.err = nil
	c.mu.Unlock()

	ok, err := c.submit(ctx, employeeID, password)

	c.mu.Lock()
	c.submitting = false
	c.err = err
	c.mu.Unlock()
	return ok, err
}

func (c *LoginController) submit(ctx context.Context, employeeID, password string) (bool, error) {
	resp, err := c.svc.Login(ctx, employeeID, password)
	if err != nil {
		c.logger.Info("login failed", "kind", api.KindOf(err).String())
		return false, err
	}
	if err := c.sessions.Login(resp.AccessToken, &resp.Employee); err != nil {
		c.logger.Error("login accepted but session could not be persisted", "error", err.Error())
		return false, err
	}
	return true, nil
}

// Snapshot returns the current screen state.
func (c *LoginController) Snapshot() LoginSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return LoginSnapshot{Submitting: c.submitting, Err: c.err}
}
