// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// renderComplaintDetail builds the scrollable body of the detail screen.
func renderComplaintDetail(c *api.Complaint) string {
	var b strings.Builder

	b.WriteString(ux.Styles.Title.Render(c.Title))
	b.WriteString("\n")
	b.WriteString(ux.StatusBadge(string(c.Status)))
	if c.Priority != "" {
		b.WriteString("  ")
		b.WriteString(ux.PriorityBadge(c.Priority))
	}
	b.WriteString("\n\n")

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(ux.Styles.Muted.Render(label + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}

	writeField("Category", c.Category)
	writeField("Location", c.Location)
	if c.LocationCoordinates != nil {
		writeField("Coordinates", fmt.Sprintf("%.5f, %.5f", c.LocationCoordinates.Lat, c.LocationCoordinates.Lng))
	}
	writeField("Reported by", c.CitizenName)
	if !c.CreatedAt.IsZero() {
		writeField("Reported", c.CreatedAt.Time.Format("Jan 2, 2006 15:04"))
	}
	if !c.UpdatedAt.IsZero() {
		writeField("Updated", c.UpdatedAt.Time.Format("Jan 2, 2006 15:04"))
	}
	writeField("Assigned to", c.AssignedEmployeeName)

	if c.Description != "" {
		b.WriteString("\n")
		b.WriteString(ux.Styles.Subtitle.Render("Description"))
		b.WriteString("\n")
		b.WriteString(c.Description)
		b.WriteString("\n")
	}

	if len(c.ProgressPhotos) > 0 {
		b.WriteString("\n")
		b.WriteString(ux.Styles.Subtitle.Render(fmt.Sprintf("Progress Photos (%d)", len(c.ProgressPhotos))))
		b.WriteString("\n")
		for i, p := range c.ProgressPhotos {
			line := fmt.Sprintf("  %d. ", i+1)
			if !p.Timestamp.IsZero() {
				line += p.Timestamp.Time.Format("Jan 2 15:04") + " "
			}
			if p.AddedBy != "" {
				line += "by " + p.AddedBy + " "
			}
			if p.Note != "" {
				line += "- " + p.Note
			}
			b.WriteString(strings.TrimRight(line, " "))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderProfile builds the profile screen body.
func renderProfile(e *api.Employee) string {
	var b strings.Builder

	b.WriteString(ux.Styles.Title.Render(e.Name))
	b.WriteString("\n")
	b.WriteString(ux.Styles.Muted.Render(e.EmployeeID))
	if e.Department != "" {
		b.WriteString(ux.Styles.Muted.Render("  ·  " + e.Department))
	}
	b.WriteString("\n\n")

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(ux.Styles.Muted.Render(label + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}
	writeField("Email", e.Email)
	writeField("Phone", e.ContactPhone)

	b.WriteString("\n")
	b.WriteString(ux.Styles.Subtitle.Render("Performance"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Assigned:        %d\n", e.Stats.TotalAssigned))
	b.WriteString(fmt.Sprintf("  Resolved:        %d\n", e.Stats.TotalResolved))
	b.WriteString(fmt.Sprintf("  Resolution rate: %.1f%%\n", e.Stats.ResolutionRate))
	if !e.Stats.LastActivity.IsZero() {
		b.WriteString(fmt.Sprintf("  Last activity:   %s\n", e.Stats.LastActivity.Time.Format("Jan 2, 2006 15:04")))
	}

	return b.String()
}

// renderError formats a load failure for any screen. API errors carry
// their own remediation text.
func renderError(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return ux.Styles.ErrorBox.Render(apiErr.FullError())
	}
	return ux.Styles.ErrorBox.Render(err.Error())
}
