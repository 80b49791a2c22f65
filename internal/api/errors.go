// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package api

import (
	"bytes"
	"errors"
	"fmt"
)

// -----------------------------------------------------------------------------
// Error Types
// -----------------------------------------------------------------------------

// ErrorKind categorizes request failures for programmatic handling.
// Every screen reacts to the kind, not the message.
type ErrorKind int

const (
	// KindUnauthenticated means no token was present, so the request was
	// skipped entirely. No network call was made.
	KindUnauthenticated ErrorKind = iota

	// KindSessionExpired indicates the server rejected the token (401).
	// The session must be cleared and the user routed to login.
	KindSessionExpired

	// KindNotFound indicates a single-resource fetch returned 404.
	KindNotFound

	// KindValidation indicates another 4xx with a server-supplied message.
	KindValidation

	// KindServer indicates a 5xx response or a malformed 2xx body.
	KindServer

	// KindConnectivity indicates no response was received at all.
	KindConnectivity
)

// String returns the error kind as a string for logging.
func (k ErrorKind) String() string {
	switch k {
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindSessionExpired:
		return "SESSION_EXPIRED"
	case KindNotFound:
		return "NOT_FOUND"
	case KindValidation:
		return "VALIDATION_REJECTED"
	case KindServer:
		return "SERVER_ERROR"
	case KindConnectivity:
		return "CONNECTIVITY_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Error provides structured error information for API operations.
type Error struct {
	// Kind categorizes the error for programmatic handling.
	Kind ErrorKind

	// Message is a human-readable description shown to the user.
	Message string

	// Detail provides technical information for debugging.
	Detail string

	// Remediation suggests how to fix the issue.
	Remediation string

	// StatusCode is the HTTP status, or 0 if no response was received.
	StatusCode int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// FullError returns a detailed message including remediation.
func (e *Error) FullError() string {
	var buf bytes.Buffer
	buf.WriteString(e.Message)
	if e.StatusCode != 0 {
		buf.WriteString(fmt.Sprintf(" (status: %d)", e.StatusCode))
	}
	if e.Detail != "" {
		buf.WriteString("\n\nDetails: ")
		buf.WriteString(e.Detail)
	}
	if e.Remediation != "" {
		buf.WriteString("\n\nTo fix:\n")
		buf.WriteString(e.Remediation)
	}
	return buf.String()
}

// KindOf extracts the ErrorKind from an error chain. Errors that did not
// originate in this package classify as KindServer.
func KindOf(err error) ErrorKind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindServer
}

// IsSessionExpired reports whether err carries KindSessionExpired.
func IsSessionExpired(err error) bool {
	return err != nil && KindOf(err) == KindSessionExpired
}

// IsNotFound reports whether err carries KindNotFound.
func IsNotFound(err error) bool {
	return err != nil && KindOf(err) == KindNotFound
}

// errUnauthenticated builds the skipped-request error. Callers treat it
// like any other failure; no request was sent.
func errUnauthenticated() *Error {
	return &Error{
		Kind:        KindUnauthenticated,
		Message:     "Not signed in",
		Remediation: "Run: civicfield login",
	}
}
