// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	loginEmployeeID string
	updateStatus    string
	photoFile       string
	photoNote       string

	theApp *app

	rootCmd = &cobra.Command{
		Use:   "civicfield",
		Short: "Field client for the municipal complaint tracking system",
		Long: `CivicField is the employee-facing client for the municipal
complaint tracker: sign in, work your assigned complaints, attach
progress photos, and check your resolution stats.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			theApp = a
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if theApp != nil {
				theApp.close()
			}
		},
	}

	// --- Auth ---
	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Sign in with your employee ID and password",
		RunE:  runLogin, // Defined in cmd_auth.go
	}
	logoutCmd = &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the saved session",
		RunE:  runLogout,
	}
	whoamiCmd = &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently signed-in employee",
		RunE:  runWhoami,
	}

	// --- Complaints ---
	complaintsCmd = &cobra.Command{
		Use:     "complaints",
		Short:   "Work with your complaint queue",
		Aliases: []string{"c"},
	}
	complaintsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List the complaints visible to you",
		RunE:  runComplaintsList, // Defined in cmd_complaints.go
	}
	complaintsShowCmd = &cobra.Command{
		Use:   "show [complaint-id]",
		Short: "Show one complaint in full",
		Args:  cobra.ExactArgs(1),
		RunE:  runComplaintsShow,
	}
	complaintsUpdateCmd = &cobra.Command{
		Use:   "update [complaint-id]",
		Short: "Change a complaint's status (assigns it to you)",
		Args:  cobra.ExactArgs(1),
		RunE:  runComplaintsUpdate,
	}
	complaintsPhotoCmd = &cobra.Command{
		Use:   "photo [complaint-id]",
		Short: "Attach a progress photo to a complaint",
		Args:  cobra.ExactArgs(1),
		RunE:  runComplaintsPhoto,
	}
	browseCmd = &cobra.Command{
		Use:   "browse",
		Short: "Browse your complaints interactively",
		RunE:  runBrowse,
	}

	// --- Profile / Health ---
	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Show your profile and performance stats",
		RunE:  runProfile, // Defined in cmd_profile.go
	}
	healthCmd = &cobra.Command{
		Use:   "health",
		Short: "Check whether the complaint server is reachable",
		RunE:  runHealth,
	}
)

func init() {
	loginCmd.Flags().StringVar(&loginEmployeeID, "employee-id", "", "Employee ID (prompted when omitted)")

	complaintsUpdateCmd.Flags().StringVar(&updateStatus, "status", "", "New status: pending, active, or resolved")
	complaintsUpdateCmd.MarkFlagRequired("status")

	complaintsPhotoCmd.Flags().StringVar(&photoFile, "file", "", "Path to the image file")
	complaintsPhotoCmd.Flags().StringVar(&photoNote, "note", "", "Optional note shown with the photo")
	complaintsPhotoCmd.MarkFlagRequired("file")

	complaintsCmd.AddCommand(complaintsListCmd, complaintsShowCmd, complaintsUpdateCmd, complaintsPhotoCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, complaintsCmd, browseCmd, profileCmd, healthCmd)
}
