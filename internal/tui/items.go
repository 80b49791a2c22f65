// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// complaintItem adapts an api.Complaint to the bubbles list.
type complaintItem struct {
	complaint api.Complaint
}

// Title implements list.DefaultItem.
func (i complaintItem) Title() string {
	title := i.complaint.Title
	if strings.EqualFold(i.complaint.Priority, "urgent") {
		title = ux.PriorityBadge(i.complaint.Priority) + " " + title
	}
	return title
}

// Description implements list.DefaultItem.
func (i complaintItem) Description() string {
	parts := []string{ux.StatusBadge(string(i.complaint.Status))}
	if i.complaint.Category != "" {
		parts = append(parts, i.complaint.Category)
	}
	if i.complaint.Location != "" {
		parts = append(parts, i.complaint.Location)
	}
	if n := len(i.complaint.ProgressPhotos); n > 0 {
		parts = append(parts, fmt.Sprintf("%d photo(s)", n))
	}
	return strings.Join(parts, "  ")
}

// FilterValue implements list.Item. Filtering matches title, category,
// and location.
func (i complaintItem) FilterValue() string {
	return i.complaint.Title + " " + i.complaint.Category + " " + i.complaint.Location
}

func complaintItems(complaints []api.Complaint) []list.Item {
	items := make([]list.Item, 0, len(complaints))
	for _, c := range complaints {
		items = append(items, complaintItem{complaint: c})
	}
	return items
}
