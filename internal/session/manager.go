// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/pkg/logging"
)

// Manager holds the in-memory session and keeps it in sync with the
// Store. It is constructed once at startup and injected into whatever
// needs the current identity; nothing else reads or writes the Store.
//
// Invariants:
//
//   - The persisted pair and the in-memory pair only diverge inside
//     Login/Logout/HandleUnauthorized, and disk is written before
//     memory on login so a crash never leaves memory authenticated
//     with nothing on disk.
//   - A server-side rejection clears the session exactly once: later
//     401s from in-flight requests find the session already gone and
//     do nothing, so the expiry notice fires at most once per session.
//
// Thread Safety: safe for concurrent use.
type Manager struct {
	store  *Store
	logger *logging.Logger

	mu       sync.Mutex
	token    string
	employee *api.Employee

	// onExpired is called (outside the lock) the first time the server
	// rejects this session's token. Optional.
	onExpired func()
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithExpiredHandler registers the session-expiry notice, fired at most
// once per authenticated session.
func WithExpiredHandler(fn func()) ManagerOption {
	return func(m *Manager) { m.onExpired = fn }
}

// NewManager creates a Manager over the given store. The manager starts
// unauthenticated; call Restore to pick up a persisted session.
func NewManager(store *Store, logger *logging.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.Discard()
	}
	m := &Manager{store: store, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Restore loads the persisted session into memory.
//
// # Description
//
// Runs once at startup, before any screen renders. It reads local disk
// only; the restored token is NOT validated against the server (first
// authenticated request will do that and a 401 routes through
// HandleUnauthorized). Restore never fails the caller: a corrupt or
// unreadable store degrades to the unauthenticated state, clearing the
// bad data so the next start is clean.
//
// # Outputs
//
//   - bool: true if a session was restored.
func (m *Manager) Restore() bool {
	token, emp, err := m.store.Load()
	if err != nil {
		m.logger.Warn("session restore failed, starting unauthenticated", "error", err.Error())
		if clearErr := m.store.Clear(); clearErr != nil {
			m.logger.Warn("failed to clear corrupt session", "error", clearErr.Error())
		}
		return false
	}
	if token == "" {
		m.logger.Debug("no persisted session", "token_present", false)
		return false
	}

	m.mu.Lock()
	m.token = token
	m.employee = emp
	m.mu.Unlock()

	m.logger.Info("session restored", "token_present", true, "employee_id", emp.EmployeeID)
	return true
}

// Login persists the pair and then publishes it to memory. If the disk
// write fails, memory stays unauthenticated and the error is returned;
// the caller shows it as a failed login.
func (m *Manager) Login(token string, emp *api.Employee) error {
	token = strings.TrimSpace(token)
	if token == "" || emp == nil {
		return errors.New("login requires a token and an employee record")
	}

	if err := m.store.Save(token, emp); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.employee = emp
	m.mu.Unlock()

	m.logger.Info("signed in", "employee_id", emp.EmployeeID, "department", emp.Department)
	return nil
}

// Logout clears memory and disk. Memory is always cleared; a disk
// failure is logged but does not block the logout. There is no
// server-side call: the token simply stops being used.
func (m *Manager) Logout() {
	m.mu.Lock()
	hadSession := m.token != ""
	m.token = ""
	m.employee = nil
	m.mu.Unlock()

	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear persisted session on logout", "error", err.Error())
	}
	if hadSession {
		m.logger.Info("signed out")
	}
}

// HandleUnauthorized reacts to a server-side 401 on an authenticated
// request. The first call for a session clears it and fires the expiry
// notice; concurrent or later calls from other in-flight requests are
// no-ops.
func (m *Manager) HandleUnauthorized() {
	m.mu.Lock()
	if m.token == "" {
		// Already handled by an earlier 401.
		m.mu.Unlock()
		return
	}
	m.token = ""
	m.employee = nil
	m.mu.Unlock()

	m.logger.Info("session rejected by server, clearing", "token_present", false)
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("failed to clear rejected session", "error", err.Error())
	}
	if m.onExpired != nil {
		m.onExpired()
	}
}

// Token returns the current bearer token, or "" when unauthenticated.
// Implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Employee returns the signed-in employee record, or nil.
func (m *Manager) Employee() *api.Employee {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.employee
}

// IsAuthenticated reports whether a session is active.
func (m *Manager) IsAuthenticated() bool {
	return m.Token() != ""
}

var _ api.TokenSource = (*Manager)(nil)
