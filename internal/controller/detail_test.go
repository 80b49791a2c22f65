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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicfieldworks/civicfield/internal/api"
)

func detailEmployee() *api.Employee {
	return &api.Employee{EmployeeID: "EMP001", Name: "Dana Reyes"}
}

func TestDetailController_Load(t *testing.T) {
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			return &api.Complaint{ID: id, Title: "Pothole", Status: api.StatusActive}, nil
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	snap := c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	require.NotNil(t, snap.Complaint)
	assert.Equal(t, "c-1", snap.Complaint.ID)
	assert.False(t, snap.Gone)
}

func TestDetailController_LoadNotFound(t *testing.T) {
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			return nil, &api.Error{Kind: api.KindNotFound, Message: "Complaint not found"}
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "gone-id")

	snap := c.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	assert.True(t, snap.Gone, "caller navigates back when the complaint is gone")
}

func TestDetailController_FailedLoadKeepsRequestedID(t *testing.T) {
	calls := 0
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			calls++
			if calls == 1 {
				return nil, connectivityErr()
			}
			return &api.Complaint{ID: id, Status: api.StatusActive}, nil
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	snap := c.Snapshot()
	require.Equal(t, PhaseError, snap.Phase)
	assert.Nil(t, snap.Complaint)
	assert.Equal(t, "c-1", snap.ID, "the id survives a failed load so a retry knows what to fetch")

	// Retry with the id from the snapshot.
	c.Load(context.Background(), snap.ID)
	snap = c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	require.NotNil(t, snap.Complaint)
	assert.Equal(t, "c-1", snap.Complaint.ID)
}

func TestDetailController_UpdateStatusRefetchesCanonicalState(t *testing.T) {
	var mu sync.Mutex
	serverStatus := api.StatusActive

	svc := &fakeService{}
	svc.complaintFn = func(ctx context.Context, id string) (*api.Complaint, error) {
		mu.Lock()
		defer mu.Unlock()
		return &api.Complaint{ID: id, Status: serverStatus}, nil
	}
	svc.updateFn = func(ctx context.Context, id string, upd api.ComplaintUpdate) error {
		mu.Lock()
		defer mu.Unlock()
		serverStatus = upd.Status
		// What the server actually stores may differ from the request;
		// only the re-fetch is trusted.
		return nil
	}

	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	err := c.UpdateStatus(context.Background(), api.StatusResolved, detailEmployee())
	require.NoError(t, err)

	snap := c.Snapshot()
	assert.Equal(t, api.StatusResolved, snap.Complaint.Status)
	assert.Equal(t, int32(2), svc.complaintCalls.Load(), "update must be followed by a re-fetch")
	assert.False(t, snap.Updating)
}

func TestDetailController_UpdateFailureKeepsVisibleState(t *testing.T) {
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			return &api.Complaint{ID: id, Status: api.StatusActive}, nil
		},
		updateFn: func(ctx context.Context, id string, upd api.ComplaintUpdate) error {
			return connectivityErr()
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	err := c.UpdateStatus(context.Background(), api.StatusResolved, detailEmployee())
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, api.StatusActive, snap.Complaint.Status, "no optimistic update")
	assert.Equal(t, int32(1), svc.complaintCalls.Load(), "no re-fetch after a failed write")
	assert.False(t, snap.Updating)
}

func TestDetailController_UpdateAssignsCurrentEmployee(t *testing.T) {
	var got api.ComplaintUpdate
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			return &api.Complaint{ID: id, Status: api.StatusActive}, nil
		},
		updateFn: func(ctx context.Context, id string, upd api.ComplaintUpdate) error {
			got = upd
			return nil
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	require.NoError(t, c.UpdateStatus(context.Background(), api.StatusResolved, detailEmployee()))
	assert.Equal(t, "EMP001", got.AssignedEmployeeID)
	assert.Equal(t, "Dana Reyes", got.AssignedEmployeeName)
}

func TestDetailController_ConcurrentWritesRejected(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			return &api.Complaint{ID: id, Status: api.StatusActive}, nil
		},
		updateFn: func(ctx context.Context, id string, upd api.ComplaintUpdate) error {
			close(started)
			<-release
			return nil
		},
		photoFn: func(ctx context.Context, id string, photo api.ProgressPhotoRequest) error {
			return nil
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	done := make(chan error, 1)
	go func() {
		done <- c.UpdateStatus(context.Background(), api.StatusResolved, detailEmployee())
	}()
	<-started
	assert.True(t, c.Snapshot().Updating)

	// Both write paths share the guard while the first is in flight.
	assert.ErrorIs(t, c.UpdateStatus(context.Background(), api.StatusPending, detailEmployee()), ErrBusy)
	assert.ErrorIs(t, c.AddPhoto(context.Background(), "aGk=", "note"), ErrBusy)
	assert.Zero(t, svc.photoCalls.Load())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, c.Snapshot().Updating)
}

func TestDetailController_AddPhotoRefetches(t *testing.T) {
	var stored []api.ProgressPhoto
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			return &api.Complaint{ID: id, Status: api.StatusActive, ProgressPhotos: stored}, nil
		},
		photoFn: func(ctx context.Context, id string, photo api.ProgressPhotoRequest) error {
			stored = append(stored, api.ProgressPhoto{Image: photo.Image, Note: photo.Note})
			return nil
		},
	}
	c := NewDetailController(svc, nil)
	c.Load(context.Background(), "c-1")

	require.NoError(t, c.AddPhoto(context.Background(), "aGk=", "filled"))
	snap := c.Snapshot()
	require.Len(t, snap.Complaint.ProgressPhotos, 1, "photo list comes from the re-fetch")
	last := snap.Complaint.ProgressPhotos[len(snap.Complaint.ProgressPhotos)-1]
	assert.Equal(t, "aGk=", last.Image)
	assert.Equal(t, "filled", last.Note)
}

func TestDetailController_SwitchingComplaintsDiscardsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &fakeService{
		complaintFn: func(ctx context.Context, id string) (*api.Complaint, error) {
			if id == "slow" {
				close(started)
				<-release
			}
			return &api.Complaint{ID: id, Status: api.StatusActive}, nil
		},
	}
	c := NewDetailController(svc, nil)

	done := make(chan struct{})
	go func() {
		c.Load(context.Background(), "slow")
		close(done)
	}()
	<-started

	c.Load(context.Background(), "fast")
	close(release)
	<-done

	assert.Equal(t, "fast", c.Snapshot().Complaint.ID)
}
