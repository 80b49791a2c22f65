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

// runHealth pings the server's health endpoint. Works without a
// session, so it is the first thing to try when setup misbehaves.
func runHealth(cmd *cobra.Command, args []string) error {
	var status string
	err := ux.WithSpinner("Checking server", func() error {
		h, err := theApp.client.Health(context.Background())
		if err != nil {
			return err
		}
		status = h.Status
		return nil
	})
	if err != nil {
		return err
	}

	ux.Success(fmt.Sprintf("Server at %s reports: %s", theApp.client.BaseURL(), status))
	return nil
}
