// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// runLogin prompts for credentials and establishes the session. The
// password is always prompted, never accepted as a flag, so it cannot
// end up in shell history.
func runLogin(cmd *cobra.Command, args []string) error {
	if theApp.sessions.IsAuthenticated() {
		emp := theApp.sessions.Employee()
		ux.Info(fmt.Sprintf("Already signed in as %s (%s). Run 'civicfield logout' first to switch accounts.", emp.Name, emp.EmployeeID))
		return nil
	}

	employeeID := loginEmployeeID
	var password string

	var fields []huh.Field
	if employeeID == "" {
		fields = append(fields, huh.NewInput().
			Title("Employee ID").
			Placeholder("EMP001").
			Value(&employeeID))
	}
	fields = append(fields, huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(&password))

	form := huh.NewForm(huh.NewGroup(fields...))
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil
		}
		return err
	}

	var ok bool
	err := ux.WithSpinner("Signing in", func() error {
		var submitErr error
		ok, submitErr = theApp.logins.Submit(context.Background(), employeeID, password)
		return submitErr
	})
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("login failed")
	}

	emp := theApp.sessions.Employee()
	ux.Success(fmt.Sprintf("Signed in as %s (%s, %s)", emp.Name, emp.EmployeeID, emp.Department))
	return nil
}

// runLogout clears the session. Cleanup is best-effort: the command
// never fails, it just reports.
func runLogout(cmd *cobra.Command, args []string) error {
	if !theApp.sessions.IsAuthenticated() {
		ux.Info("Not signed in.")
		return nil
	}
	theApp.sessions.Logout()
	ux.Success("Signed out.")
	return nil
}

// runWhoami prints the cached employee record without a network call.
func runWhoami(cmd *cobra.Command, args []string) error {
	if err := theApp.requireAuth(); err != nil {
		return err
	}
	emp := theApp.sessions.Employee()
	fmt.Printf("%s  %s", ux.Styles.Bold.Render(emp.Name), ux.Styles.Muted.Render(emp.EmployeeID))
	if emp.Department != "" {
		fmt.Printf("  %s", ux.Styles.Muted.Render(emp.Department))
	}
	fmt.Println()
	return nil
}
