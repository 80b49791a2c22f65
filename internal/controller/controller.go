// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package controller implements the screen state machines of the CivicField
client: login, complaint list, complaint detail, and profile.

Each controller owns the load lifecycle for its screen:

	Idle → Loading → Ready
	              ↘ Error

and separates STATE from NAVIGATION: controllers mutate and expose
state; they never decide what screen comes next. The caller (CLI command
or TUI program) reads the snapshot after an operation and navigates.

# Stale Responses

Every mutation of a controller's data is guarded by a generation
counter. Starting a load bumps the generation; a response only applies
if the generation is still the one it started with. A load superseded
by a newer load, or outlived by a reset, resolves into a no-op instead
of clobbering newer state. In-flight requests are never cancelled, only
ignored.
*/
package controller

import "sync"

// Phase is the load lifecycle of a screen's data.
type Phase int

const (
	// PhaseIdle means no load has started yet.
	PhaseIdle Phase = iota
	// PhaseLoading means the first load is in flight and there is
	// nothing to show.
	PhaseLoading
	// PhaseReady means data is available to render.
	PhaseReady
	// PhaseError means the last load failed and no data is available.
	PhaseError
)

// String returns a lowercase label for logs.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// resource is the shared Idle→Loading→{Ready|Error} machine with the
// generation guard. A refresh keeps the previous value (and the Ready
// phase) visible while the new fetch is in flight; an initial load does
// not, because there is nothing yet.
type resource[T any] struct {
	mu         sync.Mutex
	gen        uint64
	phase      Phase
	value      T
	err        error
	refreshing bool
}

// begin starts a load and returns the generation the caller must pass
// back to complete. refresh=true keeps current data on screen.
func (r *resource[T]) begin(refresh bool) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	if refresh && r.phase == PhaseReady {
		r.refreshing = true
	} else {
		r.phase = PhaseLoading
		r.err = nil
	}
	return r.gen
}

// complete applies a load result. Returns false if the result was stale
// and discarded.
func (r *resource[T]) complete(gen uint64, value T, err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen {
		return false
	}
	r.refreshing = false
	if err != nil {
		// A failed refresh keeps the stale data visible; the error is
		// surfaced alongside it rather than blanking the screen.
		if r.phase != PhaseReady {
			r.phase = PhaseError
		}
		r.err = err
		return true
	}
	r.phase = PhaseReady
	r.value = value
	r.err = nil
	return true
}

// reset clears everything and invalidates all in-flight loads.
func (r *resource[T]) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	var zero T
	r.phase = PhaseIdle
	r.value = zero
	r.err = nil
	r.refreshing = false
}

// snapshot returns the current state under the lock.
func (r *resource[T]) snapshot() (Phase, T, error, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase, r.value, r.err, r.refreshing
}
