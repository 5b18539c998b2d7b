// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gameverse/gameverse-tui/internal/catalog"
	"github.com/gameverse/gameverse-tui/internal/store"
	"github.com/gameverse/gameverse-tui/internal/ui/styles"
)

// wishlistModel is the wishlist page.
type wishlistModel struct {
	theme  *styles.Theme
	cursor int
}

func newWishlistModel(theme *styles.Theme) wishlistModel {
	return wishlistModel{theme: theme}
}

func (m wishlistModel) update(msg tea.Msg, root *Model) (wishlistModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := root.state.Wishlist()
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case "x", "delete":
		if m.cursor < len(items) {
			g := items[m.cursor]
			root.state.RemoveFromWishlist(g.ID)
			root.status = root.theme.Muted.Render("Removed from wishlist: " + g.Title)
			if m.cursor > 0 {
				m.cursor--
			}
		}

	case "m", "enter":
		if m.cursor < len(items) {
			g := items[m.cursor]
			root.state.MoveToCart(g.ID)
			root.status = root.theme.Success.Render("Moved to cart: " + g.Title)
			if m.cursor > 0 {
				m.cursor--
			}
		}
	}
	return m, nil
}

func (m wishlistModel) view(state *store.State) string {
	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("Wishlist"))
	b.WriteString("\n")

	items := state.Wishlist()
	if len(items) == 0 {
		b.WriteString(m.theme.Muted.Render("Your wishlist is empty. Browse games and press 'w' to save one."))
		return b.String()
	}

	for i, g := range items {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		price := m.theme.Price.Render(catalog.FormatPrice(g.Price))
		if g.Free() {
			price = m.theme.PriceFree.Render("FREE")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", marker, m.theme.CardTitle.Render(g.Title), price))
		b.WriteString("  " + m.theme.Rating.Render(fmt.Sprintf("★ %.1f", g.Rating)) + "  " +
			m.theme.Muted.Render(g.Category) + "\n")
	}
	return b.String()
}
