// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app implements the GameVerse storefront TUI: a sidebar of
// pages (home, browse, cart, wishlist, profile, analytics, AI
// assistant) over one shared session state. The chat page is the thin
// caller driving the botpress client; everything else is presentation
// over the catalog and session state.
package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gameverse/gameverse-tui/internal/analytics"
	"github.com/gameverse/gameverse-tui/internal/botpress"
	"github.com/gameverse/gameverse-tui/internal/store"
	"github.com/gameverse/gameverse-tui/internal/ui/styles"
)

// page identifies one sidebar destination.
type page int

const (
	pageHome page = iota
	pageBrowse
	pageCart
	pageWishlist
	pageProfile
	pageAnalytics
	pageChat
	pageCount
)

var pageNames = [pageCount]string{
	"Home",
	"Browse Games",
	"My Cart",
	"Wishlist",
	"Profile",
	"Analytics",
	"AI Assistant",
}

// Model is the root bubbletea model.
type Model struct {
	theme    *styles.Theme
	state    *store.State
	recorder *analytics.Recorder

	// client is nil when chat credentials are not configured; the chat
	// page degrades to a setup hint.
	client *botpress.Client

	width  int
	height int
	page   page
	status string

	browse    browseModel
	cart      cartModel
	wishlist  wishlistModel
	profile   profileModel
	analytics analyticsModel
	chat      chatModel
}

// New builds the root model. recorder may be nil (analytics disabled).
func New(client *botpress.Client, state *store.State, recorder *analytics.Recorder) Model {
	theme := styles.New()
	return Model{
		theme:     theme,
		state:     state,
		recorder:  recorder,
		client:    client,
		page:      pageHome,
		browse:    newBrowseModel(theme),
		cart:      newCartModel(theme),
		wishlist:  newWishlistModel(theme),
		profile:   newProfileModel(theme, state),
		analytics: newAnalyticsModel(theme),
		chat:      newChatModel(theme, client),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// record logs a session event, when analytics is enabled.
func (m *Model) record(kind, label string) {
	if m.recorder == nil {
		return
	}
	// Event log failures never disturb the UI.
	_ = m.recorder.Record(kind, label)
}

// setPage switches the visible page and records the view.
func (m *Model) setPage(p page) tea.Cmd {
	if p == m.page {
		return nil
	}
	m.page = p
	m.status = ""
	m.state.RecordPageView()
	m.record(analytics.EventPageView, pageNames[p])

	switch p {
	case pageAnalytics:
		return m.analytics.refresh(m.recorder)
	case pageChat:
		return m.chat.start()
	}
	return nil
}

// typing reports whether the focused page is capturing text input, in
// which case global shortcut keys must not fire.
func (m Model) typing() bool {
	switch m.page {
	case pageBrowse:
		return m.browse.searching()
	case pageProfile:
		return m.profile.editing()
	case pageChat:
		return m.chat.composing()
	}
	return false
}
