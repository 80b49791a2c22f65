// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/internal/controller"
	"github.com/civicfieldworks/civicfield/internal/tui"
	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// runComplaintsList prints the complaint queue as a table.
func runComplaintsList(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}

	err := ux.WithSpinner("Loading complaints", func() error {
		theApp.lists.Load(context.Background())
		return theApp.lists.Snapshot().Err
	})
	if err != nil {
		return err
	}

	snap := theApp.lists.Snapshot()
	if len(snap.Complaints) == 0 {
		ux.Info("No complaints in your queue.")
		return nil
	}

	fmt.Printf("%-26s %-12s %-10s %s\n",
		ux.Styles.Muted.Render("ID"),
		ux.Styles.Muted.Render("STATUS"),
		ux.Styles.Muted.Render("PRIORITY"),
		ux.Styles.Muted.Render("TITLE"),
	)
	for _, c := range snap.Complaints {
		priority := c.Priority
		if strings.EqualFold(priority, "urgent") {
			priority = ux.PriorityBadge(priority)
		}
		fmt.Printf("%-26s %-12s %-10s %s\n",
			c.ID,
			ux.StatusStyle(string(c.Status)).Render(string(c.Status)),
			priority,
			c.Title,
		)
	}
	fmt.Println()
	ux.Info(fmt.Sprintf("%d complaint(s). Use 'civicfield complaints show <id>' for details.", len(snap.Complaints)))
	return nil
}

// runComplaintsShow prints one complaint in full.
func runComplaintsShow(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}

	err := ux.WithSpinner("Loading complaint", func() error {
		theApp.details.Load(context.Background(), args[0])
		return theApp.details.Snapshot().Err
	})
	if err != nil {
		return err
	}

	c := theApp.details.Snapshot().Complaint
	printComplaint(c)
	return nil
}

func printComplaint(c *api.Complaint) {
	fmt.Println(ux.Styles.Title.Render(c.Title))
	fmt.Printf("%s", ux.StatusBadge(string(c.Status)))
	if c.Priority != "" {
		fmt.Printf("  %s", ux.PriorityBadge(c.Priority))
	}
	fmt.Println()
	fmt.Println()

	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Printf("%s %s\n", ux.Styles.Muted.Render(label+":"), value)
	}
	field("ID", c.ID)
	field("Category", c.Category)
	field("Location", c.Location)
	field("Reported by", c.CitizenName)
	if !c.CreatedAt.IsZero() {
		field("Reported", c.CreatedAt.Time.Format("Jan 2, 2006 15:04"))
	}
	field("Assigned to", c.AssignedEmployeeName)

	if c.Description != "" {
		fmt.Println()
		fmt.Println(c.Description)
	}
	if len(c.ProgressPhotos) > 0 {
		fmt.Println()
		fmt.Println(ux.Styles.Subtitle.Render(fmt.Sprintf("Progress photos (%d)", len(c.ProgressPhotos))))
		for i, p := range c.ProgressPhotos {
			line := fmt.Sprintf("  %d.", i+1)
			if !p.Timestamp.IsZero() {
				line += " " + p.Timestamp.Time.Format("Jan 2 15:04")
			}
			if p.AddedBy != "" {
				line += " by " + p.AddedBy
			}
			if p.Note != "" {
				line += " - " + p.Note
			}
			fmt.Println(line)
		}
	}
}

// runComplaintsUpdate changes a complaint's status and prints the
// server's state after the re-fetch.
func runComplaintsUpdate(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}

	status := api.Status(strings.ToLower(strings.TrimSpace(updateStatus)))
	if !status.Valid() {
		return fmt.Errorf("invalid status %q; use one of: %s", updateStatus, strings.Join(statusNames(), ", "))
	}

	// Load first so the controller knows which complaint it is working on.
	err := ux.WithSpinner("Loading complaint", func() error {
		theApp.details.Load(context.Background(), args[0])
		return theApp.details.Snapshot().Err
	})
	if err != nil {
		return err
	}

	err = ux.WithSpinner("Updating status", func() error {
		return theApp.details.UpdateStatus(context.Background(), status, theApp.sessions.Employee())
	})
	if err != nil {
		return err
	}

	snap := theApp.details.Snapshot()
	if snap.Err != nil {
		// The write landed but the re-fetch failed; the next show will
		// have the canonical state.
		ux.Warning("Status updated, but re-fetching the complaint failed: " + snap.Err.Error())
		return nil
	}
	ux.Success(fmt.Sprintf("Status is now %s (assigned to %s)",
		snap.Complaint.Status, snap.Complaint.AssignedEmployeeName))
	return nil
}

func statusNames() []string {
	names := make([]string, 0, 3)
	for _, s := range api.ValidStatuses() {
		names = append(names, string(s))
	}
	return names
}

// runComplaintsPhoto uploads a progress photo from a local file.
func runComplaintsPhoto(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}

	encoded, err := api.EncodePhotoFile(photoFile)
	if err != nil {
		return err
	}

	err = ux.WithSpinner("Loading complaint", func() error {
		theApp.details.Load(context.Background(), args[0])
		return theApp.details.Snapshot().Err
	})
	if err != nil {
		return err
	}

	err = ux.WithSpinner("Uploading photo", func() error {
		return theApp.details.AddPhoto(context.Background(), encoded, photoNote)
	})
	if err != nil {
		return err
	}

	snap := theApp.details.Snapshot()
	if snap.Complaint != nil {
		ux.Success(fmt.Sprintf("Photo added. The complaint now has %d photo(s).", len(snap.Complaint.ProgressPhotos)))
	} else {
		ux.Success("Photo added.")
	}
	return nil
}

// runBrowse starts the interactive TUI.
func runBrowse(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}
	if !ux.IsInteractive() {
		return fmt.Errorf("browse needs an interactive terminal; use 'civicfield complaints list' instead")
	}

	listCtl := controller.NewListController(theApp.client, theApp.logger)
	detailCtl := controller.NewDetailController(theApp.client, theApp.logger)
	profileCtl := controller.NewProfileController(theApp.client, theApp.logger)

	app := tui.NewApp(theApp.sessions, listCtl, detailCtl, profileCtl, theApp.logger)
	program := tea.NewProgram(app, tea.WithAltScreen())

	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	if a, ok := final.(tui.App); ok && a.Expired() {
		return fmt.Errorf("session expired; run: civicfield login")
	}
	return nil
}
