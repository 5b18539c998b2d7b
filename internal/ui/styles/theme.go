// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the GameVerse
// TUI. The theme detects the terminal's color capability and keeps all
// lipgloss styles in one place so views stay free of color literals.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette. Indigo is the brand color carried over from the web store.
var (
	Indigo    = lipgloss.Color("#6366f1")
	Slate     = lipgloss.Color("#94a3b8")
	Zinc      = lipgloss.Color("#a1a1aa")
	ZincDark  = lipgloss.Color("#27272a")
	Emerald   = lipgloss.Color("#34d399")
	Amber     = lipgloss.Color("#fbbf24")
	Rose      = lipgloss.Color("#fb7185")
	Cyan      = lipgloss.Color("#22d3ee")
	TextMain  = lipgloss.Color("#e4e4e7")
	TextMuted = lipgloss.Color("#71717a")
)

// Theme holds the styled components for the application.
type Theme struct {
	ColorProfile termenv.Profile

	// Layout
	App     lipgloss.Style
	Sidebar lipgloss.Style
	Content lipgloss.Style

	// Header
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// Navigation
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style
	NavStats      lipgloss.Style

	// Content blocks
	PageTitle lipgloss.Style
	Card      lipgloss.Style
	CardTitle lipgloss.Style
	Muted     lipgloss.Style
	Price     lipgloss.Style
	PriceFree lipgloss.Style
	Rating    lipgloss.Style

	// Feedback
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Chat
	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style

	// Footer
	Footer      lipgloss.Style
	ShortcutKey lipgloss.Style
}

// New builds the theme for the detected color profile.
func New() *Theme {
	return &Theme{
		ColorProfile: termenv.ColorProfile(),

		App:     lipgloss.NewStyle().Padding(0, 1),
		Sidebar: lipgloss.NewStyle().Width(22).Padding(1, 2).Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(ZincDark),
		Content: lipgloss.NewStyle().Padding(1, 2),

		HeaderTitle:    lipgloss.NewStyle().Foreground(Indigo).Bold(true),
		HeaderSubtitle: lipgloss.NewStyle().Foreground(Slate),

		NavItem:       lipgloss.NewStyle().Foreground(Zinc),
		NavItemActive: lipgloss.NewStyle().Foreground(Indigo).Bold(true),
		NavStats:      lipgloss.NewStyle().Foreground(TextMuted),

		PageTitle: lipgloss.NewStyle().Foreground(TextMain).Bold(true).MarginBottom(1),
		Card:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ZincDark).Padding(0, 1),
		CardTitle: lipgloss.NewStyle().Foreground(TextMain).Bold(true),
		Muted:     lipgloss.NewStyle().Foreground(TextMuted),
		Price:     lipgloss.NewStyle().Foreground(Amber).Bold(true),
		PriceFree: lipgloss.NewStyle().Foreground(Emerald).Bold(true),
		Rating:    lipgloss.NewStyle().Foreground(Amber),

		Success: lipgloss.NewStyle().Foreground(Emerald),
		Warning: lipgloss.NewStyle().Foreground(Amber),
		Error:   lipgloss.NewStyle().Foreground(Rose),

		UserBubble:      lipgloss.NewStyle().Foreground(Cyan).Bold(true),
		AssistantBubble: lipgloss.NewStyle().Foreground(TextMain),

		Footer:      lipgloss.NewStyle().Foreground(TextMuted).MarginTop(1),
		ShortcutKey: lipgloss.NewStyle().Foreground(Indigo),
	}
}
