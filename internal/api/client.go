// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package api implements the HTTP client for the Municipality Employee API.

# Problem Statement

Every screen in the CivicField client fetches JSON from the same backend
and reacts to the same failure classes. Scattering request plumbing across
screens would duplicate token handling and make the 401-forces-logout rule
easy to miss. This package centralizes the contract:

 1. Requests without a token are skipped entirely (no network call).
 2. Every authenticated request sends "Authorization: Bearer <token>".
 3. Status codes map to a fixed error taxonomy (see ErrorKind).
 4. A 401 on an authenticated call invokes the configured unauthorized
    hook exactly where it happened, in addition to returning the error.

# Usage

	client := api.NewClient(cfg.BaseURL, sessionMgr,
	    api.WithLogger(logger),
	    api.WithUnauthorizedHook(sessionMgr.HandleUnauthorized),
	)
	complaints, err := client.Complaints(ctx)

There is no retry, no timeout override per call, and no cancellation
tied to screen teardown: callers must tolerate a late response resolving
into a discarded view-model (see the controller package's generation
counter).
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/civicfieldworks/civicfield/pkg/logging"
)

// validate checks request bodies before they leave the process.
var validate = validator.New(validator.WithRequiredStructEnabled())

// -----------------------------------------------------------------------------
// Interfaces
// -----------------------------------------------------------------------------

// TokenSource supplies the current bearer token. An empty string means
// unauthenticated; authenticated calls are then skipped.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-value TokenSource, mainly for tests.
type StaticToken string

// Token returns the fixed token value.
func (s StaticToken) Token() string { return string(s) }

// Service is the backend surface the screen controllers consume.
// *Client implements it; tests substitute fakes.
type Service interface {
	// Login exchanges credentials for a token + employee record.
	// It never consults the TokenSource.
	Login(ctx context.Context, employeeID, password string) (*LoginResponse, error)

	// Profile fetches the current employee's profile with fresh
	// performance statistics.
	Profile(ctx context.Context) (*Employee, error)

	// Complaints fetches all complaints visible to the current employee.
	// An empty slice is a valid result, not an error.
	Complaints(ctx context.Context) ([]Complaint, error)

	// Complaint fetches one complaint by identifier.
	Complaint(ctx context.Context, id string) (*Complaint, error)

	// UpdateComplaint submits a status change plus assignment. The
	// response body is ignored; callers re-fetch for canonical state.
	UpdateComplaint(ctx context.Context, id string, upd ComplaintUpdate) error

	// AddProgressPhoto appends a progress photo to a complaint.
	AddProgressPhoto(ctx context.Context, id string, photo ProgressPhotoRequest) error

	// Health checks backend reachability. No auth required.
	Health(ctx context.Context) (*HealthResponse, error)
}

// -----------------------------------------------------------------------------
// Client
// -----------------------------------------------------------------------------

// Client talks to the Municipality Employee API over HTTPS.
//
// Thread Safety: Client is safe for concurrent use; it holds no mutable
// request state.
type Client struct {
	// baseURL is the backend origin, without the /api prefix.
	baseURL string

	// httpClient is used for all requests.
	httpClient *http.Client

	// tokens supplies the bearer token for authenticated calls.
	tokens TokenSource

	// logger receives request/outcome entries. Never logs the token.
	logger *logging.Logger

	// onUnauthorized is invoked on any 401 from an authenticated call.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithUnauthorizedHook registers the session-expiry handler called on 401
// responses to authenticated requests. Login failures do not trigger it.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient creates a Client for the given backend origin.
//
// # Inputs
//
//   - baseURL: backend origin (e.g. "https://civic.example.gov"). A
//     trailing slash is trimmed. May be empty: every call will then fail
//     with a connectivity error, matching the configured-URL-missing
//     startup warning behavior.
//   - tokens: bearer token supplier; must not be nil.
//   - opts: optional configuration.
func NewClient(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		tokens: tokens,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// -----------------------------------------------------------------------------
// Operations
// -----------------------------------------------------------------------------

// Login exchanges credentials for a token and employee record.
//
// # Description
//
// Both fields are trimmed and must be non-empty; validation failures are
// rejected locally without a network call. A 401 here means bad
// credentials, not an expired session, so the unauthorized hook is NOT
// invoked and the server's detail message is surfaced as-is.
func (c *Client) Login(ctx context.Context, employeeID, password string) (*LoginResponse, error) {
	req := LoginRequest{
		EmployeeID: strings.TrimSpace(employeeID),
		Password:   strings.TrimSpace(password),
	}
	if err := validate.Struct(req); err != nil {
		return nil, &Error{
			Kind:        KindValidation,
			Message:     "Employee ID and password are required",
			Detail:      err.Error(),
			Remediation: "Enter both your employee ID and your password",
		}
	}

	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp, false); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &Error{
			Kind:    KindServer,
			Message: "Login response was missing a token",
			Detail:  "access_token empty in 2xx response",
		}
	}
	return &resp, nil
}

// Profile fetches the current employee's profile and performance stats.
func (c *Client) Profile(ctx context.Context) (*Employee, error) {
	var emp Employee
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &emp, true); err != nil {
		return nil, err
	}
	return &emp, nil
}

// Complaints fetches the full complaint list visible to this employee.
// Visibility is decided server-side; no client filtering is applied.
func (c *Client) Complaints(ctx context.Context) ([]Complaint, error) {
	var list []Complaint
	if err := c.do(ctx, http.MethodGet, "/api/complaints", nil, &list, true); err != nil {
		return nil, err
	}
	if list == nil {
		list = []Complaint{}
	}
	return list, nil
}

// Complaint fetches one complaint by identifier. A 404 maps to
// KindNotFound so the caller can navigate back.
func (c *Client) Complaint(ctx context.Context, id string) (*Complaint, error) {
	var cmp Complaint
	path := "/api/complaints/" + id
	if err := c.do(ctx, http.MethodGet, path, nil, &cmp, true); err != nil {
		return nil, err
	}
	return &cmp, nil
}

// UpdateComplaint submits a status change with the current employee as
// the assignment. The acknowledgement body is discarded: only a
// subsequent Complaint() fetch is trusted as the new canonical state.
func (c *Client) UpdateComplaint(ctx context.Context, id string, upd ComplaintUpdate) error {
	if !upd.Status.Valid() {
		return &Error{
			Kind:        KindValidation,
			Message:     fmt.Sprintf("Invalid status %q", upd.Status),
			Remediation: fmt.Sprintf("Use one of: %v", ValidStatuses()),
		}
	}
	if err := validate.Struct(upd); err != nil {
		return &Error{
			Kind:    KindValidation,
			Message: "Status update is missing the employee assignment",
			Detail:  err.Error(),
		}
	}
	var ack MessageResponse
	return c.do(ctx, http.MethodPut, "/api/complaints/"+id, upd, &ack, true)
}

// AddProgressPhoto appends a progress photo to a complaint. The image
// must already be base64-encoded (see EncodePhotoFile).
func (c *Client) AddProgressPhoto(ctx context.Context, id string, photo ProgressPhotoRequest) error {
	photo.ComplaintID = id
	if err := validate.Struct(photo); err != nil {
		return &Error{
			Kind:    KindValidation,
			Message: "A captured or picked image is required",
			Detail:  err.Error(),
		}
	}
	var ack MessageResponse
	return c.do(ctx, http.MethodPost, "/api/complaints/"+id+"/progress-photo", photo, &ack, true)
}

// Health checks backend reachability without authentication.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var h HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &h, false); err != nil {
		return nil, err
	}
	return &h, nil
}

var _ Service = (*Client)(nil)

// -----------------------------------------------------------------------------
// Request Plumbing
// -----------------------------------------------------------------------------

// do issues one request and maps the outcome onto the error taxonomy.
//
// Classification:
//
//	no token (authed)  → KindUnauthenticated, request skipped
//	2xx                → decode into out; parse failure → KindServer
//	401 (authed)       → KindSessionExpired + unauthorized hook
//	401 (unauthed)     → KindValidation with server detail (login path)
//	404                → KindNotFound
//	other 4xx          → KindValidation with server detail if present
//	5xx                → KindServer
//	transport error    → KindConnectivity
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var token string
	if authed {
		token = strings.TrimSpace(c.tokens.Token())
		if token == "" {
			return errUnauthenticated()
		}
	}

	reqID := uuid.NewString()[:8]
	log := c.logger.With("request_id", reqID, "method", method, "path", path)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{
				Kind:    KindServer,
				Message: "Failed to encode request",
				Detail:  err.Error(),
			}
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &Error{
			Kind:        KindConnectivity,
			Message:     "Failed to create request",
			Detail:      err.Error(),
			Remediation: "Check the configured backend URL",
		}
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "error", err.Error())
		return &Error{
			Kind:        KindConnectivity,
			Message:     "Cannot reach the complaint server",
			Detail:      err.Error(),
			Remediation: "Check your network connection and the configured backend URL",
		}
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	log.Debug("request completed",
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if readErr != nil {
			return &Error{
				Kind:       KindServer,
				Message:    "Error reading server response",
				Detail:     readErr.Error(),
				StatusCode: resp.StatusCode,
			}
		}
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{
				Kind:       KindServer,
				Message:    "Unexpected response from server",
				Detail:     err.Error(),
				StatusCode: resp.StatusCode,
			}
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		detail := serverDetail(respBody)
		if !authed {
			// Login rejection: credentials problem, not session expiry.
			msg := detail
			if msg == "" {
				msg = "Login failed"
			}
			return &Error{
				Kind:       KindValidation,
				Message:    msg,
				StatusCode: resp.StatusCode,
			}
		}
		log.Info("session rejected by server", "token_present", true)
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return &Error{
			Kind:        KindSessionExpired,
			Message:     "Your session has expired",
			Detail:      detail,
			Remediation: "Sign in again: civicfield login",
			StatusCode:  resp.StatusCode,
		}

	case resp.StatusCode == http.StatusNotFound:
		msg := serverDetail(respBody)
		if msg == "" {
			msg = "Not found"
		}
		return &Error{
			Kind:       KindNotFound,
			Message:    msg,
			StatusCode: resp.StatusCode,
		}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		msg := serverDetail(respBody)
		if msg == "" {
			msg = fmt.Sprintf("Request rejected (status %d)", resp.StatusCode)
		}
		return &Error{
			Kind:       KindValidation,
			Message:    msg,
			StatusCode: resp.StatusCode,
		}

	default:
		return &Error{
			Kind:        KindServer,
			Message:     fmt.Sprintf("Server error (status %d)", resp.StatusCode),
			Detail:      string(respBody),
			Remediation: "Try again in a moment",
			StatusCode:  resp.StatusCode,
		}
	}
}

// serverDetail extracts the FastAPI-style {"detail": ...} message, if any.
func serverDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Detail
}
