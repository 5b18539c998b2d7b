// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gameverse/gameverse-tui/internal/catalog"
	"github.com/gameverse/gameverse-tui/internal/ui/styles"
)

// browseSortKeys is the cycle order for the 's' shortcut.
var browseSortKeys = []catalog.SortKey{
	catalog.SortTitle,
	catalog.SortPriceAsc,
	catalog.SortPriceDesc,
	catalog.SortRating,
}

var browseSortLabels = map[catalog.SortKey]string{
	catalog.SortTitle:     "Title",
	catalog.SortPriceAsc:  "Price (low to high)",
	catalog.SortPriceDesc: "Price (high to low)",
	catalog.SortRating:    "Rating",
}

// browseModel is the catalog browse page: a filterable, sortable table
// of the catalog with a search box.
type browseModel struct {
	theme *styles.Theme

	table  table.Model
	search textinput.Model

	// visible holds the games behind the table rows, row-aligned.
	visible []catalog.Game

	categories []string
	category   int
	price      int
	sortKey    int

	inSearch bool
}

func newBrowseModel(theme *styles.Theme) browseModel {
	search := textinput.New()
	search.Placeholder = "search title, tag or description"
	search.CharLimit = 64
	search.Width = 40

	columns := []table.Column{
		{Title: "Title", Width: 26},
		{Title: "Category", Width: 12},
		{Title: "Price", Width: 8},
		{Title: "Rating", Width: 6},
		{Title: "Developer", Width: 20},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(12),
		table.WithFocused(true),
	)
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(styles.Slate).Bold(true).BorderForeground(styles.ZincDark)
	ts.Selected = ts.Selected.Foreground(styles.TextMain).Background(styles.Indigo).Bold(false)
	t.SetStyles(ts)

	m := browseModel{
		theme:      theme,
		table:      t,
		search:     search,
		categories: append([]string{"All"}, catalog.Categories()...),
	}
	m.reload()
	return m
}

func (m browseModel) searching() bool { return m.inSearch }

func (m *browseModel) resize(width, height int) {
	h := height - 12
	if h < 5 {
		h = 5
	}
	m.table.SetHeight(h)
}

// reload recomputes the visible games and table rows from the current
// filter and sort settings.
func (m *browseModel) reload() {
	games := catalog.Select(catalog.Filter{
		Query:    m.search.Value(),
		Category: m.categories[m.category],
		Price:    catalog.PriceRanges()[m.price],
	})
	catalog.SortBy(games, browseSortKeys[m.sortKey])
	m.visible = games

	rows := make([]table.Row, len(games))
	for i, g := range games {
		rows[i] = table.Row{
			g.Title,
			g.Category,
			catalog.FormatPrice(g.Price),
			fmt.Sprintf("%.1f", g.Rating),
			g.Developer,
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(0)
	}
}

// selected returns the game under the table cursor.
func (m browseModel) selected() (catalog.Game, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.visible) {
		return catalog.Game{}, false
	}
	return m.visible[i], true
}

func (m browseModel) update(msg tea.Msg, root *Model) (browseModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.inSearch {
		switch key.String() {
		case "enter", "esc":
			m.inSearch = false
			m.search.Blur()
			m.reload()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.reload()
		return m, cmd
	}

	switch key.String() {
	case "/":
		m.inSearch = true
		return m, m.search.Focus()

	case "c":
		m.category = (m.category + 1) % len(m.categories)
		m.reload()
		return m, nil

	case "f":
		m.price = (m.price + 1) % len(catalog.PriceRanges())
		m.reload()
		return m, nil

	case "s":
		m.sortKey = (m.sortKey + 1) % len(browseSortKeys)
		m.reload()
		return m, nil

	case "a":
		if g, ok := m.selected(); ok {
			root.addToCart(g.ID)
		}
		return m, nil

	case "w":
		if g, ok := m.selected(); ok {
			root.addToWishlist(g.ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) view() string {
	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("Browse Games"))
	b.WriteString("\n")

	filters := fmt.Sprintf("Category: %s   Price: %s   Sort: %s",
		m.categories[m.category],
		catalog.PriceRanges()[m.price],
		browseSortLabels[browseSortKeys[m.sortKey]],
	)
	b.WriteString(m.theme.Muted.Render(filters))
	b.WriteString("\n")

	if m.inSearch || m.search.Value() != "" {
		b.WriteString(m.search.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.visible) == 0 {
		b.WriteString(m.theme.Muted.Render("No games match the current filters."))
		return b.String()
	}
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(fmt.Sprintf("%s of %s games",
		catalog.FormatCount(len(m.visible)), catalog.FormatCount(len(catalog.All())))))

	if g, ok := m.selected(); ok {
		detail := m.theme.CardTitle.Render(g.Title) + "  " +
			m.theme.Price.Render(catalog.FormatPrice(g.Price)) + "\n" +
			m.theme.Muted.Render(g.Description) + "\n" +
			m.theme.Muted.Render("Tags: "+strings.Join(g.Tags, ", ")+" · Released "+g.ReleaseDate)
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().MarginTop(1).Render(m.theme.Card.Render(detail)))
	}
	return b.String()
}
