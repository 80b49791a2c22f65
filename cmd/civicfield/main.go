// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// civicfield is the employee-facing client for the municipal complaint
// tracking system: sign in, browse assigned complaints, update their
// status, attach progress photos, and review your performance profile.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/civicfieldworks/civicfield/cmd/civicfield/config"
	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/internal/controller"
	"github.com/civicfieldworks/civicfield/internal/session"
	"github.com/civicfieldworks/civicfield/pkg/logging"
	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// app holds everything a command needs. It is built once per invocation
// in the root command's PersistentPreRunE and torn down afterwards;
// commands receive it instead of reaching for globals.
type app struct {
	cfg      config.CivicFieldConfig
	logger   *logging.Logger
	store    *session.Store
	sessions *session.Manager
	client   *api.Client

	lists    *controller.ListController
	details  *controller.DetailController
	profiles *controller.ProfileController
	logins   *controller.LoginController
}

// newApp wires the full dependency graph: config, logger, session
// store + manager, API client, and the screen controllers.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:   logging.ParseLevel(cfg.Logging.Level),
		Service: "civicfield",
		JSON:    cfg.Logging.JSON,
		LogDir:  "~/.civicfield/logs",
		Quiet:   true,
	})

	store, err := session.OpenStore(session.StoreConfig{
		Path:   cfg.StateDir,
		Logger: logger,
	})
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sessions := session.NewManager(store, logger, session.WithExpiredHandler(func() {
		ux.Warning("Your session has expired. Please sign in again.")
	}))
	sessions.Restore()

	if cfg.Backend.BaseURL == "" && os.Getenv(config.EnvBaseURL) == "" {
		ux.Warning("No backend URL configured. Set backend.base_url in ~/.civicfield/civicfield.yaml or " + config.EnvBaseURL + ".")
	}

	client := api.NewClient(cfg.Backend.BaseURL, sessions,
		api.WithLogger(logger),
		api.WithUnauthorizedHook(sessions.HandleUnauthorized),
		api.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		}),
	)

	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		sessions: sessions,
		client:   client,
		lists:    controller.NewListController(client, logger),
		details:  controller.NewDetailController(client, logger),
		profiles: controller.NewProfileController(client, logger),
		logins:   controller.NewLoginController(client, sessions, logger),
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("failed to close session store", "error", err.Error())
	}
	a.logger.Close()
}

// requireAuth fails fast with a sign-in hint when no session is active.
func (a *app) requireAuth() error {
	if !a.sessions.IsAuthenticated() {
		return fmt.Errorf("not signed in; run: civicfield login")
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ux.Error(err.Error())
		os.Exit(1)
	}
}
