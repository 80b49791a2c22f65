// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"encoding/json"
	"strings"
	"time"
)

// -----------------------------------------------------------------------------
// Timestamps
// -----------------------------------------------------------------------------

// Timestamp wraps time.Time with lenient JSON parsing. The backend emits
// Python isoformat strings which may or may not carry a timezone or
// fractional seconds; an unparseable value is left at zero rather than
// failing the whole payload.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999", // Python isoformat, no zone
	"2006-01-02T15:04:05",
}

// UnmarshalJSON parses known timestamp layouts, treating naive values as UTC.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" || s == "null" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return nil
}

// MarshalJSON emits RFC3339, or null for the zero value.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// -----------------------------------------------------------------------------
// Complaint Status
// -----------------------------------------------------------------------------

// Status is a complaint lifecycle state. The server owns the lifecycle;
// the client only ever submits one of these values back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusResolved Status = "resolved"
)

// Valid reports whether s is one of the server's known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusResolved:
		return true
	}
	return false
}

// ValidStatuses lists the accepted status values, for prompts and errors.
func ValidStatuses() []Status {
	return []Status{StatusPending, StatusActive, StatusResolved}
}

// ColorForStatus mirrors the server's status→color mapping. The server's
// color_code field is authoritative when present; this is the fallback for
// payloads that omit it.
func ColorForStatus(s Status) string {
	switch s {
	case StatusPending:
		return "yellow"
	case StatusActive:
		return "orange"
	case StatusResolved:
		return "green"
	default:
		return "gray"
	}
}

// -----------------------------------------------------------------------------
// Employee
// -----------------------------------------------------------------------------

// PerformanceStats is the server-computed performance block attached to a
// profile. The login payload may carry an empty object here.
type PerformanceStats struct {
	TotalAssigned  int       `json:"total_complaints_assigned"`
	TotalResolved  int       `json:"total_complaints_resolved"`
	ResolutionRate float64   `json:"resolution_rate"`
	LastActivity   Timestamp `json:"last_activity"`
}

// Employee is the field-worker profile record.
type Employee struct {
	ID           string           `json:"id"`
	EmployeeID   string           `json:"employee_id"`
	Name         string           `json:"name"`
	Email        string           `json:"email"`
	Department   string           `json:"department"` // sanitation, electrical, admin
	ContactPhone string           `json:"contact_phone"`
	IsActive     bool             `json:"is_active"`
	CreatedAt    Timestamp        `json:"created_at"`
	Stats        PerformanceStats `json:"performance_stats"`
}

// -----------------------------------------------------------------------------
// Complaint
// -----------------------------------------------------------------------------

// Coordinates is an optional geocoordinate pair attached to a complaint.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ProgressPhoto is one entry of a complaint's append-only photo trail.
type ProgressPhoto struct {
	Image      string    `json:"image"` // base64-encoded
	Note       string    `json:"note,omitempty"`
	Timestamp  Timestamp `json:"timestamp"`
	AddedBy    string    `json:"added_by"`
	EmployeeID string    `json:"employee_id"`
}

// Complaint is a transient snapshot of a server-owned complaint record.
// The client never mutates it locally; writes go through UpdateComplaint
// or AddProgressPhoto followed by a re-fetch.
type Complaint struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	CitizenName          string          `json:"citizen_name"`
	CitizenPhone         string          `json:"citizen_phone"`
	CitizenEmail         string          `json:"citizen_email,omitempty"`
	Category             string          `json:"category"`
	Priority             string          `json:"priority"` // low, medium, high, urgent
	Status               Status          `json:"status"`
	ColorCode            string          `json:"color_code,omitempty"`
	Location             string          `json:"location_address"`
	LocationCoordinates  *Coordinates    `json:"location_coordinates,omitempty"`
	CitizenImage         string          `json:"citizen_image,omitempty"` // base64
	AssignedEmployeeID   string          `json:"assigned_employee_id,omitempty"`
	AssignedEmployeeName string          `json:"assigned_employee_name,omitempty"`
	ProgressPhotos       []ProgressPhoto `json:"progress_photos"`
	CreatedAt            Timestamp       `json:"created_at"`
	UpdatedAt            Timestamp       `json:"updated_at"`
}

// EffectiveColor returns the server's color_code hint, deriving it from
// status when the server omitted it.
func (c *Complaint) EffectiveColor() string {
	if c.ColorCode != "" {
		return strings.ToLower(c.ColorCode)
	}
	return ColorForStatus(c.Status)
}

// -----------------------------------------------------------------------------
// Request / Response Bodies
// -----------------------------------------------------------------------------

// LoginRequest carries credentials to POST /api/auth/login. Both fields
// are required after trimming.
type LoginRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// LoginResponse is the success payload of POST /api/auth/login.
type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	Employee    Employee `json:"employee"`
}

// ComplaintUpdate is the body of PUT /api/complaints/{id}. The client
// always sends the current employee as the assignment alongside the new
// status.
type ComplaintUpdate struct {
	Status               Status `json:"status" validate:"required"`
	AssignedEmployeeID   string `json:"assigned_employee_id" validate:"required"`
	AssignedEmployeeName string `json:"assigned_employee_name" validate:"required"`
}

// ProgressPhotoRequest is the body of POST /api/complaints/{id}/progress-photo.
type ProgressPhotoRequest struct {
	ComplaintID string `json:"complaint_id"`
	Image       string `json:"image" validate:"required"` // base64-encoded
	Note        string `json:"note,omitempty"`
}

// MessageResponse is the generic acknowledgement body for write calls.
// Per the update contract it is never trusted as canonical state.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse is the GET /api/health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp Timestamp `json:"timestamp"`
}

// errorBody is the FastAPI-style error envelope.
type errorBody struct {
	Detail string `json:"detail"`
}
