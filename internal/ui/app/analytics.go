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

// analyticsData is one snapshot of the event log aggregates.
type analyticsData struct {
	byKind   map[string]int
	topCart  []analytics.LabelCount
	topWish  []analytics.LabelCount
	loadErr  error
	enabled  bool
	refreshs int
}

// analyticsDataMsg delivers a snapshot loaded off the UI loop.
type analyticsDataMsg analyticsData

// analyticsModel is the session analytics page. Catalog aggregates are
// computed inline; event log aggregates arrive via refresh.
type analyticsModel struct {
	theme *styles.Theme
	data  analyticsData
}

func newAnalyticsModel(theme *styles.Theme) analyticsModel {
	return analyticsModel{theme: theme}
}

// refresh loads a fresh snapshot from the recorder. Returns nil when
// analytics is disabled.
func (m *analyticsModel) refresh(recorder *analytics.Recorder) tea.Cmd {
	if recorder == nil {
		m.data = analyticsData{}
		return nil
	}
	refreshs := m.data.refreshs + 1
	return func() tea.Msg {
		data := analyticsData{enabled: true, refreshs: refreshs}
		data.byKind, data.loadErr = recorder.CountByKind()
		if data.loadErr == nil {
			data.topCart, data.loadErr = recorder.TopLabels(analytics.EventCartAdd, 5)
		}
		if data.loadErr == nil {
			data.topWish, data.loadErr = recorder.TopLabels(analytics.EventWishlistAdd, 5)
		}
		return analyticsDataMsg(data)
	}
}

func (m analyticsModel) view(state *store.State) string {
	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("Analytics"))
	b.WriteString("\n")

	b.WriteString(m.theme.Muted.Render("Catalog"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Games            %s\n", catalog.FormatCount(len(catalog.All()))))
	b.WriteString(fmt.Sprintf("  Average rating   %.2f\n", catalog.AverageRating()))
	b.WriteString(fmt.Sprintf("  Average price    %s\n", catalog.FormatPrice(catalog.AveragePrice())))
	for _, cat := range catalog.Categories() {
		b.WriteString(fmt.Sprintf("  %-16s %d\n", cat, catalog.CountByCategory()[cat]))
	}
	b.WriteString("\n")

	b.WriteString(m.theme.Muted.Render("Session"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Page views       %d\n", state.PageViews()))
	b.WriteString(fmt.Sprintf("  AI queries       %d\n", state.ChatQueries()))
	b.WriteString(fmt.Sprintf("  Cart value       %s\n", catalog.FormatPrice(state.CartTotal())))
	b.WriteString("\n")

	if !m.data.enabled {
		b.WriteString(m.theme.Muted.Render("Event log disabled."))
		return b.String()
	}
	if m.data.loadErr != nil {
		b.WriteString(m.theme.Error.Render("event log unavailable: " + m.data.loadErr.Error()))
		return b.String()
	}

	b.WriteString(m.theme.Muted.Render("Event log"))
	b.WriteString("\n")
	for _, kind := range []string{
		analytics.EventPageView,
		analytics.EventCartAdd,
		analytics.EventWishlistAdd,
		analytics.EventChatQuery,
		analytics.EventCheckout,
	} {
		b.WriteString(fmt.Sprintf("  %-16s %d\n", kind, m.data.byKind[kind]))
	}

	if len(m.data.topCart) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render("Most added to cart"))
		b.WriteString("\n")
		for _, lc := range m.data.topCart {
			b.WriteString(fmt.Sprintf("  %dx %s\n", lc.Count, lc.Label))
		}
	}
	if len(m.data.topWish) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Muted.Render("Most wishlisted"))
		b.WriteString("\n")
		for _, lc := range m.data.topWish {
			b.WriteString(fmt.Sprintf("  %dx %s\n", lc.Count, lc.Label))
		}
	}
	return b.String()
}
