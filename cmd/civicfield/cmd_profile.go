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

	"github.com/spf13/cobra"

	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// runProfile fetches and prints the profile with fresh performance
// stats. The cached login record is not used: its stats go stale.
func runProfile(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}

	err := ux.WithSpinner("Loading profile", func() error {
		theApp.profiles.Load(context.Background())
		return theApp.profiles.Snapshot().Err
	})
	if err != nil {
		return err
	}

	e := theApp.profiles.Snapshot().Employee
	fmt.Println(ux.Styles.Title.Render(e.Name))
	fmt.Printf("%s", ux.Styles.Muted.Render(e.EmployeeID))
	if e.Department != "" {
		fmt.Printf("%s", ux.Styles.Muted.Render("  ·  "+e.Department))
	}
	fmt.Println()

	if e.Email != "" {
		fmt.Printf("%s %s\n", ux.Styles.Muted.Render("Email:"), e.Email)
	}
	if e.ContactPhone != "" {
		fmt.Printf("%s %s\n", ux.Styles.Muted.Render("Phone:"), e.ContactPhone)
	}

	fmt.Println()
	fmt.Println(ux.Styles.Subtitle.Render("Performance"))
	fmt.Printf("  Assigned:        %d\n", e.Stats.TotalAssigned)
	fmt.Printf("  Resolved:        %d\n", e.Stats.TotalResolved)
	fmt.Printf("  Resolution rate: %.1f%%\n", e.Stats.ResolutionRate)
	if !e.Stats.LastActivity.IsZero() {
		fmt.Printf("  Last activity:   %s\n", e.Stats.LastActivity.Time.Format("Jan 2, 2006 15:04"))
	}
	return nil
}
