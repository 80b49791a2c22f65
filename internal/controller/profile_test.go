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
)

func TestProfileController_Load(t *testing.T) {
	svc := &fakeService{
		profileFn: func(ctx context.Context) (*api.Employee, error) {
			return &api.Employee{
				EmployeeID: "EMP001",
				Name:       "Dana Reyes",
				Department: "Sanitation",
				Stats: api.PerformanceStats{
					TotalAssigned:  12,
					TotalResolved:  9,
					ResolutionRate: 75.0,
				},
			}, nil
		},
	}
	c := NewProfileController(svc, nil)
	c.Load(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, PhaseReady, snap.Phase)
	require.NotNil(t, snap.Employee)
	assert.Equal(t, 12, snap.Employee.Stats.TotalAssigned)
	assert.InDelta(t, 75.0, snap.Employee.Stats.ResolutionRate, 0.01)
}

func TestProfileController_LoadFailure(t *testing.T) {
	svc := &fakeService{
		profileFn: func(ctx context.Context) (*api.Employee, error) {
			return nil, connectivityErr()
		},
	}
	c := NewProfileController(svc, nil)
	c.Load(context.Background())

	snap := c.Snapshot()
	assert.Equal(t, PhaseError, snap.Phase)
	require.Error(t, snap.Err)
	assert.Nil(t, snap.Employee)
}

func TestProfileController_ResetClearsState(t *testing.T) {
	svc := &fakeService{
		profileFn: func(ctx context.Context) (*api.Employee, error) {
			return &api.Employee{EmployeeID: "EMP001"}, nil
		},
	}
	c := NewProfileController(svc, nil)
	c.Load(context.Background())
	require.Equal(t, PhaseReady, c.Snapshot().Phase)

	c.Reset()
	snap := c.Snapshot()
	assert.Equal(t, PhaseIdle, snap.Phase)
	assert.Nil(t, snap.Employee)
}
