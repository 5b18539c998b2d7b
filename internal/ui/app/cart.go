// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gameverse/gameverse-tui/internal/analytics"
	"github.com/gameverse/gameverse-tui/internal/catalog"
	"github.com/gameverse/gameverse-tui/internal/store"
	"github.com/gameverse/gameverse-tui/internal/ui/styles"
)

// cartModel is the shopping cart page. Checkout is simulated: it clears
// the cart and records the order total.
type cartModel struct {
	theme  *styles.Theme
	cursor int
}

func newCartModel(theme *styles.Theme) cartModel {
	return cartModel{theme: theme}
}

func (m cartModel) update(msg tea.Msg, root *Model) (cartModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	items := root.state.Cart()
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
			root.state.RemoveFromCart(g.ID)
			root.status = root.theme.Muted.Render("Removed from cart: " + g.Title)
			if m.cursor > 0 {
				m.cursor--
			}
		}

	case "enter":
		if len(items) == 0 {
			break
		}
		total := root.state.CartTotal()
		root.state.ClearCart()
		m.cursor = 0
		root.status = root.theme.Success.Render(fmt.Sprintf("Order placed! %d games for %s. Thanks for shopping at GameVerse.",
			len(items), catalog.FormatPrice(total)))
		root.record(analytics.EventCheckout, catalog.FormatPrice(total))
	}
	return m, nil
}

func (m cartModel) view(state *store.State) string {
	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("My Cart"))
	b.WriteString("\n")

	items := state.Cart()
	if len(items) == 0 {
		b.WriteString(m.theme.Muted.Render("Your cart is empty. Browse games and press 'a' to add one."))
		return b.String()
	}

	for i, g := range items {
		marker := "  "
		title := m.theme.CardTitle.Render(g.Title)
		if i == m.cursor {
			marker = "> "
		}
		price := m.theme.Price.Render(catalog.FormatPrice(g.Price))
		if g.Free() {
			price = m.theme.PriceFree.Render("FREE")
		}
		b.WriteString(fmt.Sprintf("%s%s  %s\n", marker, title, price))
		b.WriteString("  " + m.theme.Muted.Render(g.Category+" · "+g.Developer) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.CardTitle.Render("Total: ") + m.theme.Price.Render(catalog.FormatPrice(state.CartTotal())))
	return b.String()
}
