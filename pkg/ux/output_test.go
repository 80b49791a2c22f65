// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ux

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestStatusStyle_KnownStatuses(t *testing.T) {
	tests := []struct {
		status string
		want   lipgloss.Color
	}{
		{"pending", ColorPending},
		{"active", ColorActive},
		{"resolved", ColorResolved},
		{"PENDING", ColorPending}, // case-insensitive
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			style := StatusStyle(tt.status)
			if got := style.GetForeground(); got != tt.want {
				t.Errorf("StatusStyle(%q) foreground = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestStatusStyle_UnknownFallsBackToMuted(t *testing.T) {
	style := StatusStyle("escalated")
	if style.GetForeground() != ColorSlate {
		t.Errorf("unknown status should use the muted style")
	}
}

func TestStatusBadge_ContainsStatusText(t *testing.T) {
	for _, status := range []string{"pending", "active", "resolved"} {
		badge := StatusBadge(status)
		if !strings.Contains(badge, strings.ToUpper(status)) {
			t.Errorf("StatusBadge(%q) = %q, missing status text", status, badge)
		}
	}
}

func TestPriorityBadge_UrgentStandsOut(t *testing.T) {
	badge := PriorityBadge("urgent")
	if !strings.Contains(badge, "URGENT") {
		t.Errorf("PriorityBadge(urgent) = %q, want shouting", badge)
	}
	if !strings.Contains(PriorityBadge("low"), "low") {
		t.Error("PriorityBadge(low) missing text")
	}
}
