// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/internal/session"
)

func newSessionManager(t *testing.T) *session.Manager {
	t.Helper()
	s, err := session.OpenStore(session.StoreConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return session.NewManager(s, nil)
}

func TestLoginController_SuccessEstablishesSession(t *testing.T) {
	svc := &fakeService{
		loginFn: func(ctx context.Context, employeeID, password string) (*api.LoginResponse, error) {
			return &api.LoginResponse{
				AccessToken: "tok-9",
				TokenType:   "bearer",
				Employee:    api.Employee{EmployeeID: employeeID, Name: "Dana Reyes"},
			}, nil
		},
	}
	mgr := newSessionManager(t)
	c := NewLoginController(svc, mgr, nil)

	ok, err := c.Submit(context.Background(), "EMP001", "secret")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mgr.IsAuthenticated())
	assert.Equal(t, "tok-9", mgr.Token())

	snap := c.Snapshot()
	assert.False(t, snap.Submitting)
	assert.NoError(t, snap.Err)
}

func TestLoginController_BadCredentialsLeaveSessionUnchanged(t *testing.T) {
	svc := &fakeService{
		loginFn: func(ctx context.Context, employeeID, password string) (*api.LoginResponse, error) {
			return nil, &api.Error{Kind: api.KindValidation, Message: "Incorrect employee ID or password"}
		},
	}
	mgr := newSessionManager(t)
	c := NewLoginController(svc, mgr, nil)

	ok, err := c.Submit(context.Background(), "EMP001", "wrong")
	require.Error(t, err)
	assert.False(t, ok)
	assert.False(t, mgr.IsAuthenticated())
	assert.Contains(t, c.Snapshot().Err.Error(), "Incorrect employee ID or password")
}

func TestLoginController_DuplicateSubmitRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		loginFn: func(ctx context.Context, employeeID, password string) (*api.LoginResponse, error) {
			close(started)
			<-release
			return &api.LoginResponse{
				AccessToken: "tok",
				Employee:    api.Employee{EmployeeID: employeeID},
			}, nil
		},
	}
	mgr := newSessionManager(t)
	c := NewLoginController(svc, mgr, nil)

	done := make(chan struct{})
	go func() {
		c.Submit(context.Background(), "EMP001", "secret")
		close(done)
	}()
	<-started
	assert.True(t, c.Snapshot().Submitting)

	_, err := c.Submit(context.Background(), "EMP001", "secret")
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	<-done
	assert.True(t, mgr.IsAuthenticated())
}
