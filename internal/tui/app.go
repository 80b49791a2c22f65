// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

/*
Package tui implements the interactive complaint browser using bubbletea.

# Description

The browser hosts three screens over one event loop: the complaint list,
the complaint detail, and the employee profile. Sign-in happens before
the program starts (see the login command); the browser assumes an
authenticated session and exits with a notice if the server rejects it.

Navigation is decided here, from controller snapshots; the controllers
themselves only mutate state. All fetches run as tea.Cmd goroutines and
come back as snapshot messages, so a stale response has already been
discarded by the controller's generation guard by the time it is drawn.

# Thread Safety

The model is single-threaded within the bubbletea event loop. Do not
access it from other goroutines; controllers are the concurrency-safe
layer underneath.
*/
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/civicfieldworks/civicfield/internal/api"
	"github.com/civicfieldworks/civicfield/internal/controller"
	"github.com/civicfieldworks/civicfield/internal/session"
	"github.com/civicfieldworks/civicfield/pkg/logging"
	"github.com/civicfieldworks/civicfield/pkg/ux"
)

// =============================================================================
// Screens
// =============================================================================

// screen identifies which view the browser is showing.
type screen int

const (
	screenList screen = iota
	screenDetail
	screenProfile
)

// =============================================================================
// Messages
// =============================================================================

// listLoadedMsg carries the list snapshot after a fetch completes.
type listLoadedMsg struct {
	snap controller.ListSnapshot
}

// detailLoadedMsg carries the detail snapshot after a fetch completes.
type detailLoadedMsg struct {
	snap controller.DetailSnapshot
}

// profileLoadedMsg carries the profile snapshot after a fetch completes.
type profileLoadedMsg struct {
	snap controller.ProfileSnapshot
}

// updateDoneMsg reports the outcome of a status change and the detail
// snapshot after its re-fetch.
type updateDoneMsg struct {
	err  error
	snap controller.DetailSnapshot
}

// sessionExpiredMsg tells the browser to quit: the server rejected the
// token and the session has already been cleared.
type sessionExpiredMsg struct{}

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Open    key.Binding
	Back    key.Binding
	Refresh key.Binding
	Profile key.Binding
	Pending key.Binding
	Active  key.Binding
	Resolve key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Open:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:    key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Profile: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "profile")),
	Pending: key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "mark pending")),
	Active:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "mark active")),
	Resolve: key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "mark resolved")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// =============================================================================
// Model
// =============================================================================

// App is the bubbletea model for the complaint browser.
type App struct {
	sessions *session.Manager
	lists    *controller.ListController
	details  *controller.DetailController
	profiles *controller.ProfileController
	logger   *logging.Logger

	screen   screen
	list     list.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	// notice is a one-line message shown in the footer (update failed,
	// complaint gone, etc). Cleared on the next navigation.
	notice string

	expired  bool
	quitting bool
}

// NewApp builds the browser over an authenticated session.
func NewApp(
	sessions *session.Manager,
	lists *controller.ListController,
	details *controller.DetailController,
	profiles *controller.ProfileController,
	logger *logging.Logger,
) App {
	if logger == nil {
		logger = logging.Discard()
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(ux.ColorCivicBright).
		BorderLeftForeground(ux.ColorCivicBright)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(ux.ColorCivicPrimary).
		BorderLeftForeground(ux.ColorCivicBright)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Complaints"
	l.Styles.Title = lipgloss.NewStyle().
		Background(ux.ColorCivicDeep).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1)
	l.SetShowStatusBar(true)
	l.SetStatusBarItemName("complaint", "complaints")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ux.ColorCivicBright)

	return App{
		sessions: sessions,
		lists:    lists,
		details:  details,
		profiles: profiles,
		logger:   logger,
		list:     l,
		spinner:  sp,
	}
}

// Init implements tea.Model: kick off the initial list load.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadList(false))
}

// =============================================================================
// Commands
// =============================================================================

func (a App) loadList(refresh bool) tea.Cmd {
	return func() tea.Msg {
		if refresh {
			a.lists.Refresh(context.Background())
		} else {
			a.lists.Load(context.Background())
		}
		snap := a.lists.Snapshot()
		if api.IsSessionExpired(snap.Err) {
			return sessionExpiredMsg{}
		}
		return listLoadedMsg{snap: snap}
	}
}

func (a App) loadDetail(id string) tea.Cmd {
	return func() tea.Msg {
		a.details.Load(context.Background(), id)
		snap := a.details.Snapshot()
		if api.IsSessionExpired(snap.Err) {
			return sessionExpiredMsg{}
		}
		return detailLoadedMsg{snap: snap}
	}
}

func (a App) loadProfile() tea.Cmd {
	return func() tea.Msg {
		a.profiles.Load(context.Background())
		snap := a.profiles.Snapshot()
		if api.IsSessionExpired(snap.Err) {
			return sessionExpiredMsg{}
		}
		return profileLoadedMsg{snap: snap}
	}
}

func (a App) updateStatus(status api.Status) tea.Cmd {
	emp := a.sessions.Employee()
	return func() tea.Msg {
		err := a.details.UpdateStatus(context.Background(), status, emp)
		if api.IsSessionExpired(err) {
			return sessionExpiredMsg{}
		}
		return updateDoneMsg{err: err, snap: a.details.Snapshot()}
	}
}

// =============================================================================
// Update
// =============================================================================

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.list.SetSize(msg.Width, msg.Height-2)
		if !a.ready {
			a.viewport = viewport.New(msg.Width, msg.Height-4)
			a.ready = true
		} else {
			a.viewport.Width = msg.Width
			a.viewport.Height = msg.Height - 4
		}

	case sessionExpiredMsg:
		a.expired = true
		a.quitting = true
		return a, tea.Quit

	case listLoadedMsg:
		a.list.SetItems(complaintItems(msg.snap.Complaints))
		if msg.snap.Err != nil && msg.snap.Phase == controller.PhaseReady {
			a.notice = "Refresh failed; showing last known data"
		}

	case detailLoadedMsg:
		if msg.snap.Gone {
			// The complaint disappeared server-side: back to the list.
			a.screen = screenList
			a.notice = "Complaint no longer exists"
			a.details.Reset()
			return a, a.loadList(true)
		}
		if a.ready && msg.snap.Complaint != nil {
			a.viewport.SetContent(renderComplaintDetail(msg.snap.Complaint))
			a.viewport.GotoTop()
		}

	case updateDoneMsg:
		if msg.err != nil {
			if api.IsNotFound(msg.err) {
				a.screen = screenList
				a.notice = "Complaint no longer exists"
				a.details.Reset()
				return a, a.loadList(true)
			}
			a.notice = msg.err.Error()
		} else {
			a.notice = "Status updated"
		}
		if a.ready && msg.snap.Complaint != nil {
			a.viewport.SetContent(renderComplaintDetail(msg.snap.Complaint))
		}

	case profileLoadedMsg:
		if a.ready && msg.snap.Employee != nil {
			a.viewport.SetContent(renderProfile(msg.snap.Employee))
			a.viewport.GotoTop()
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		// The list's filter input swallows plain keys while active.
		if a.screen == screenList && a.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, keys.Quit):
			a.quitting = true
			return a, tea.Quit

		case key.Matches(msg, keys.Open) && a.screen == screenList:
			if item, ok := a.list.SelectedItem().(complaintItem); ok {
				a.screen = screenDetail
				a.notice = ""
				return a, a.loadDetail(item.complaint.ID)
			}

		case key.Matches(msg, keys.Back):
			if a.screen != screenList {
				a.screen = screenList
				a.notice = ""
				return a, a.loadList(true)
			}

		case key.Matches(msg, keys.Refresh):
			a.notice = ""
			switch a.screen {
			case screenList:
				return a, a.loadList(true)
			case screenDetail:
				// Retry after a failed load still has the id even
				// though no complaint was ever shown.
				if snap := a.details.Snapshot(); snap.ID != "" {
					return a, a.loadDetail(snap.ID)
				}
			case screenProfile:
				return a, a.loadProfile()
			}

		case key.Matches(msg, keys.Profile) && a.screen == screenList:
			a.screen = screenProfile
			a.notice = ""
			return a, a.loadProfile()

		case a.screen == screenDetail:
			var target api.Status
			switch {
			case key.Matches(msg, keys.Pending):
				target = api.StatusPending
			case key.Matches(msg, keys.Active):
				target = api.StatusActive
			case key.Matches(msg, keys.Resolve):
				target = api.StatusResolved
			}
			if target != "" {
				if a.details.Snapshot().Updating {
					a.notice = "An update is already in progress"
					return a, nil
				}
				a.notice = ""
				return a, a.updateStatus(target)
			}
		}
	}

	switch a.screen {
	case screenList:
		var cmd tea.Cmd
		a.list, cmd = a.list.Update(msg)
		cmds = append(cmds, cmd)
	case screenDetail, screenProfile:
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return a, tea.Batch(cmds...)
}

// =============================================================================
// View
// =============================================================================

// View implements tea.Model.
func (a App) View() string {
	if a.quitting {
		if a.expired {
			return ux.Styles.Warning.Render("Your session has expired. Please sign in again.") + "\n"
		}
		return ""
	}
	if !a.ready {
		return a.spinner.View() + " Loading...\n"
	}

	switch a.screen {
	case screenDetail:
		return a.renderDetailScreen()
	case screenProfile:
		return a.renderProfileScreen()
	default:
		return a.renderListScreen()
	}
}

func (a App) renderListScreen() string {
	snap := a.lists.Snapshot()

	switch snap.Phase {
	case controller.PhaseIdle, controller.PhaseLoading:
		return a.spinner.View() + " Loading complaints...\n"
	case controller.PhaseError:
		return renderError(snap.Err) + "\n" +
			ux.Styles.Muted.Render("r retry · q quit") + "\n"
	}

	body := a.list.View()
	footer := ux.Styles.Muted.Render("enter open · r refresh · p profile · q quit")
	if snap.Refreshing {
		footer = a.spinner.View() + " refreshing  " + footer
	}
	if a.notice != "" {
		footer = ux.Styles.Warning.Render(a.notice) + "  " + footer
	}
	return body + "\n" + footer
}

func (a App) renderDetailScreen() string {
	snap := a.details.Snapshot()

	switch snap.Phase {
	case controller.PhaseIdle, controller.PhaseLoading:
		return a.spinner.View() + " Loading complaint...\n"
	case controller.PhaseError:
		return renderError(snap.Err) + "\n" +
			ux.Styles.Muted.Render("esc back · r retry · q quit") + "\n"
	}

	footer := ux.Styles.Muted.Render("1/2/3 set status · esc back · r refresh · q quit")
	if snap.Updating {
		footer = a.spinner.View() + " updating  " + footer
	}
	if a.notice != "" {
		footer = ux.Styles.Warning.Render(a.notice) + "  " + footer
	}
	return a.viewport.View() + "\n" + footer
}

func (a App) renderProfileScreen() string {
	snap := a.profiles.Snapshot()

	switch snap.Phase {
	case controller.PhaseIdle, controller.PhaseLoading:
		return a.spinner.View() + " Loading profile...\n"
	case controller.PhaseError:
		return renderError(snap.Err) + "\n" +
			ux.Styles.Muted.Render("esc back · r retry · q quit") + "\n"
	}

	footer := ux.Styles.Muted.Render("esc back · r refresh · q quit")
	return a.viewport.View() + "\n" + footer
}

// Expired reports whether the browser exited because the server
// rejected the session.
func (a App) Expired() bool { return a.expired }
