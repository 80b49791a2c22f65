// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package controller

import (
	"context"
	"sync/atomic"

	"github.com/civicfieldworks/civicfield/internal/api"
)

// fakeService is a scriptable api.Service for controller tests.
type fakeService struct {
	loginFn      func(ctx context.Context, employeeID, password string) (*api.LoginResponse, error)
	profileFn    func(ctx context.Context) (*api.Employee, error)
	complaintsFn func(ctx context.Context) ([]api.Complaint, error)
	complaintFn  func(ctx context.Context, id string) (*api.Complaint, error)
	updateFn     func(ctx context.Context, id string, upd api.ComplaintUpdate) error
	photoFn      func(ctx context.Context, id string, photo api.ProgressPhotoRequest) error

	complaintsCalls atomic.Int32
	complaintCalls  atomic.Int32
	updateCalls     atomic.Int32
	photoCalls      atomic.Int32
}

func (f *fakeService) Login(ctx context.Context, employeeID, password string) (*api.LoginResponse, error) {
	return f.loginFn(ctx, employeeID, password)
}

func (f *fakeService) Profile(ctx context.Context) (*api.Employee, error) {
	return f.profileFn(ctx)
}

func (f *fakeService) Complaints(ctx context.Context) ([]api.Complaint, error) {
	f.complaintsCalls.Add(1)
	return f.complaintsFn(ctx)
}

func (f *fakeService) Complaint(ctx context.Context, id string) (*api.Complaint, error) {
	f.complaintCalls.Add(1)
	return f.complaintFn(ctx, id)
}

func (f *fakeService) UpdateComplaint(ctx context.Context, id string, upd api.ComplaintUpdate) error {
	f.updateCalls.Add(1)
	return f.updateFn(ctx, id, upd)
}

func (f *fakeService) AddProgressPhoto(ctx context.Context, id string, photo api.ProgressPhotoRequest) error {
	f.photoCalls.Add(1)
	return f.photoFn(ctx, id, photo)
}

func (f *fakeService) Health(ctx context.Context) (*api.HealthResponse, error) {
	return &api.HealthResponse{Status: "healthy"}, nil
}

var _ api.Service = (*fakeService)(nil)

func sampleComplaints(n int) []api.Complaint {
	out := make([]api.Complaint, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, api.Complaint{
			ID:     string(rune('a' + i)),
			Title:  "complaint",
			Status: api.StatusPending,
		})
	}
	return out
}

func connectivityErr() error {
	return &api.Error{Kind: api.KindConnectivity, Message: "Cannot reach the complaint server"}
}
