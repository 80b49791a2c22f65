// Copyright (C) 2025 CivicField Works (dev@civicfield.works)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package ux provides terminal output styling for the CivicField CLI.
package ux

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// CivicField color palette - civic blues plus the complaint status colors
// the backend reports (pending yellow, active orange, resolved green).
var (
	// Primary palette
	ColorCivicBright  = lipgloss.Color("#4FA3E3") // Bright blue - highlights
	ColorCivicPrimary = lipgloss.Color("#2E77B8") // Primary blue - brand color
	ColorCivicDeep    = lipgloss.Color("#1F5587") // Deep blue - borders, accents
	ColorSlate        = lipgloss.Color("#4A5A68") // Slate - muted text, borders

	// Complaint status colors (match the server's color_code hints)
	ColorPending  = lipgloss.Color("#F4D03F") // yellow
	ColorActive   = lipgloss.Color("#E67E22") // orange
	ColorResolved = lipgloss.Color("#2ECC71") // green

	// Semantic colors
	ColorSuccess = lipgloss.Color("#2ECC71")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorUrgent  = lipgloss.Color("#C0392B") // urgent priority
	ColorMuted   = lipgloss.Color("#4A5A68")
)

// Styles provides pre-configured lipgloss styles
var Styles = struct {
	// Text styles
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style

	// Box styles
	Box      lipgloss.Style
	ErrorBox lipgloss.Style

	// Complaint status badges
	StatusPending  lipgloss.Style
	StatusActive   lipgloss.Style
	StatusResolved lipgloss.Style
	StatusUnknown  lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorCivicBright),
	Subtitle:  lipgloss.NewStyle().Foreground(ColorCivicPrimary),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorSlate),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Foreground(ColorCivicBright).Bold(true),

	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorCivicDeep).
		Padding(0, 1),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorError).
		Padding(0, 1),

	StatusPending:  lipgloss.NewStyle().Foreground(ColorPending).Bold(true),
	StatusActive:   lipgloss.NewStyle().Foreground(ColorActive).Bold(true),
	StatusResolved: lipgloss.NewStyle().Foreground(ColorResolved).Bold(true),
	StatusUnknown:  lipgloss.NewStyle().Foreground(ColorSlate),
}

// StatusStyle returns the badge style for a complaint status. Unknown
// statuses render muted, matching the server's "gray" fallback color code.
func StatusStyle(status string) lipgloss.Style {
	switch strings.ToLower(status) {
	case "pending":
		return Styles.StatusPending
	case "active":
		return Styles.StatusActive
	case "resolved":
		return Styles.StatusResolved
	default:
		return Styles.StatusUnknown
	}
}

// StatusBadge renders a complaint status with its color and icon.
func StatusBadge(status string) string {
	icon := "○"
	switch strings.ToLower(status) {
	case "pending":
		icon = "◔"
	case "active":
		icon = "◑"
	case "resolved":
		icon = "●"
	}
	return StatusStyle(status).Render(icon + " " + strings.ToUpper(status))
}

// PriorityBadge renders a complaint priority. Urgent gets the alarm
// treatment; the rest scale down from there.
func PriorityBadge(priority string) string {
	switch strings.ToLower(priority) {
	case "urgent":
		return lipgloss.NewStyle().Foreground(ColorUrgent).Bold(true).Render("!! URGENT")
	case "high":
		return lipgloss.NewStyle().Foreground(ColorError).Render("! high")
	case "medium":
		return lipgloss.NewStyle().Foreground(ColorWarning).Render("medium")
	case "low":
		return Styles.Muted.Render("low")
	default:
		return Styles.Muted.Render(priority)
	}
}

// Icon provides themed status icons
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconPending Icon = "○"
	IconArrow   Icon = "→"
	IconBullet  Icon = "•"
	IconCamera  Icon = "📷"
	IconPin     Icon = "📍"
)

// Render returns the icon with appropriate styling
func (i Icon) Render() string {
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

// IsInteractive reports whether stdout is a terminal. Non-interactive runs
// (pipes, CI) get plain output and skip the full-screen TUI.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Success prints a success line to stdout.
func Success(msg string) {
	fmt.Printf("%s %s\n", IconSuccess.Render(), msg)
}

// Warning prints a warning line to stdout.
func Warning(msg string) {
	fmt.Printf("%s %s\n", IconWarning.Render(), Styles.Warning.Render(msg))
}

// Error prints an error line to stderr.
func Error(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), Styles.Error.Render(msg))
}

// Info prints a neutral informational line to stdout.
func Info(msg string) {
	fmt.Printf("%s %s\n", Styles.Subtitle.Render(string(IconArrow)), msg)
}
