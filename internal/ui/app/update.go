// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gameverse/gameverse-tui/internal/analytics"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.browse.resize(msg.Width, msg.Height)
		m.chat.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if cmd, handled := m.handleGlobalKey(msg); handled {
			return m, cmd
		}

	case chatReadyMsg, chatReplyMsg, chatFailedMsg, chatSpinnerTickMsg:
		var cmd tea.Cmd
		m.chat, cmd = m.chat.update(msg, m.state, &m)
		return m, cmd

	case analyticsDataMsg:
		m.analytics.data = analyticsData(msg)
		return m, nil
	}

	return m.updatePage(msg)
}

// handleGlobalKey processes app-level shortcuts. Quit is always live;
// navigation keys only when no page is capturing text.
func (m *Model) handleGlobalKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		return tea.Quit, true
	}
	if m.typing() {
		return nil, false
	}

	switch msg.String() {
	case "q":
		return tea.Quit, true
	case "tab":
		return m.setPage((m.page + 1) % pageCount), true
	case "shift+tab":
		return m.setPage((m.page + pageCount - 1) % pageCount), true
	case "1", "2", "3", "4", "5", "6", "7":
		return m.setPage(page(msg.String()[0] - '1')), true
	}
	return nil, false
}

// updatePage routes a message to the visible page's submodel.
func (m Model) updatePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.page {
	case pageBrowse:
		m.browse, cmd = m.browse.update(msg, &m)
	case pageCart:
		m.cart, cmd = m.cart.update(msg, &m)
	case pageWishlist:
		m.wishlist, cmd = m.wishlist.update(msg, &m)
	case pageProfile:
		m.profile, cmd = m.profile.update(msg, &m)
	case pageChat:
		m.chat, cmd = m.chat.update(msg, m.state, &m)
	}
	return m, cmd
}

// addToCart is shared by the browse and wishlist pages.
func (m *Model) addToCart(id int) {
	game, ok := gameByID(id)
	if !ok {
		return
	}
	if m.state.AddToCart(game) {
		m.status = m.theme.Success.Render("Added to cart: " + game.Title)
		m.record(analytics.EventCartAdd, game.Title)
	} else {
		m.status = m.theme.Muted.Render("Already in cart: " + game.Title)
	}
}

// addToWishlist is shared by the browse page.
func (m *Model) addToWishlist(id int) {
	game, ok := gameByID(id)
	if !ok {
		return
	}
	if m.state.AddToWishlist(game) {
		m.status = m.theme.Success.Render("Added to wishlist: " + game.Title)
		m.record(analytics.EventWishlistAdd, game.Title)
	} else {
		m.status = m.theme.Muted.Render("Already in wishlist: " + game.Title)
	}
}
