// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gameverse/gameverse-tui/internal/catalog"
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.HeaderTitle.Render("GAMEVERSE"))
	b.WriteString("  ")
	b.WriteString(m.theme.HeaderSubtitle.Render("Your Ultimate Digital Game Store"))
	b.WriteString("\n\n")

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.Sidebar.Render(m.viewSidebar()),
		m.theme.Content.Render(m.viewPage()),
	)
	b.WriteString(body)
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Footer.Render(m.footerHint()))

	return m.theme.App.Render(b.String())
}

// viewSidebar renders navigation plus the quick stats block.
func (m Model) viewSidebar() string {
	var b strings.Builder
	for p := page(0); p < pageCount; p++ {
		style := m.theme.NavItem
		marker := "  "
		if p == m.page {
			style = m.theme.NavItemActive
			marker = "> "
		}
		b.WriteString(style.Render(fmt.Sprintf("%s%d %s", marker, p+1, pageNames[p])))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.NavStats.Render("Stats"))
	b.WriteString("\n")
	b.WriteString(m.theme.NavStats.Render(fmt.Sprintf("Cart      %d", m.state.CartSize())))
	b.WriteString("\n")
	b.WriteString(m.theme.NavStats.Render(fmt.Sprintf("Wishlist  %d", m.state.WishlistSize())))
	b.WriteString("\n")
	b.WriteString(m.theme.NavStats.Render(fmt.Sprintf("AI Queries %d", m.state.ChatQueries())))
	return b.String()
}

func (m Model) viewPage() string {
	switch m.page {
	case pageHome:
		return m.viewHome()
	case pageBrowse:
		return m.browse.view()
	case pageCart:
		return m.cart.view(m.state)
	case pageWishlist:
		return m.wishlist.view(m.state)
	case pageProfile:
		return m.profile.view(m.state)
	case pageAnalytics:
		return m.analytics.view(m.state)
	case pageChat:
		return m.chat.view()
	}
	return ""
}

func (m Model) footerHint() string {
	key := m.theme.ShortcutKey.Render
	switch m.page {
	case pageBrowse:
		return key("/") + " search  " + key("c") + " category  " + key("f") + " price  " + key("s") + " sort  " + key("a") + " cart  " + key("w") + " wishlist  " + key("q") + " quit"
	case pageCart:
		return key("x") + " remove  " + key("enter") + " checkout  " + key("q") + " quit"
	case pageWishlist:
		return key("x") + " remove  " + key("m") + " move to cart  " + key("q") + " quit"
	case pageProfile:
		return key("e") + " edit  " + key("enter") + " save  " + key("esc") + " cancel  " + key("q") + " quit"
	case pageChat:
		return key("enter") + " send  " + key("ctrl+n") + " new conversation  " + key("esc") + " back  " + key("ctrl+c") + " quit"
	}
	return key("tab") + "/" + key("1-7") + " navigate  " + key("q") + " quit"
}

// viewHome renders the landing page with the featured games.
func (m Model) viewHome() string {
	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("Welcome back, " + m.state.Profile().Name))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("Featured games, hand-picked by rating:"))
	b.WriteString("\n\n")

	for _, g := range catalog.Featured(3) {
		b.WriteString(m.renderGameCard(g))
		b.WriteString("\n")
	}

	free := catalog.FreeGames()
	if len(free) > 0 {
		b.WriteString(m.theme.Muted.Render("Free to play:"))
		b.WriteString("\n")
		for _, g := range free {
			b.WriteString("  " + m.theme.CardTitle.Render(g.Title) + " " + m.theme.PriceFree.Render("FREE"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderGameCard renders one catalog entry as a bordered card.
func (m Model) renderGameCard(g catalog.Game) string {
	price := m.theme.Price.Render(catalog.FormatPrice(g.Price))
	if g.Free() {
		price = m.theme.PriceFree.Render("FREE")
	}
	body := m.theme.CardTitle.Render(g.Title) + "  " + price + "\n" +
		m.theme.Rating.Render(fmt.Sprintf("★ %.1f", g.Rating)) + "  " +
		m.theme.Muted.Render(g.Category+" · "+g.Developer) + "\n" +
		m.theme.Muted.Render(g.Description)
	return m.theme.Card.Render(body)
}

func gameByID(id int) (catalog.Game, bool) {
	return catalog.Get(id)
}
