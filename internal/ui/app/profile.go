// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gameverse/gameverse-tui/internal/store"
	"github.com/gameverse/gameverse-tui/internal/ui/styles"
)

// profileModel is the profile page. 'e' opens the name and email fields
// for editing; enter saves, esc discards.
type profileModel struct {
	theme *styles.Theme

	name  textinput.Model
	email textinput.Model

	inEdit bool
	field  int // 0 = name, 1 = email
}

func newProfileModel(theme *styles.Theme, state *store.State) profileModel {
	p := state.Profile()

	name := textinput.New()
	name.CharLimit = 48
	name.Width = 32
	name.SetValue(p.Name)

	email := textinput.New()
	email.CharLimit = 64
	email.Width = 32
	email.SetValue(p.Email)

	return profileModel{theme: theme, name: name, email: email}
}

func (m profileModel) editing() bool { return m.inEdit }

func (m profileModel) update(msg tea.Msg, root *Model) (profileModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if !m.inEdit {
		if key.String() == "e" {
			m.inEdit = true
			m.field = 0
			m.email.Blur()
			return m, m.name.Focus()
		}
		return m, nil
	}

	switch key.String() {
	case "esc":
		// Discard edits, restore the saved values.
		p := root.state.Profile()
		m.name.SetValue(p.Name)
		m.email.SetValue(p.Email)
		m.inEdit = false
		m.name.Blur()
		m.email.Blur()
		return m, nil

	case "enter":
		name := strings.TrimSpace(m.name.Value())
		email := strings.TrimSpace(m.email.Value())
		if name == "" {
			root.status = root.theme.Error.Render("Name must not be empty")
			return m, nil
		}
		root.state.SetProfile(name, email)
		m.inEdit = false
		m.name.Blur()
		m.email.Blur()
		root.status = root.theme.Success.Render("Profile saved")
		return m, nil

	case "tab", "down", "up":
		m.field = 1 - m.field
		if m.field == 0 {
			m.email.Blur()
			return m, m.name.Focus()
		}
		m.name.Blur()
		return m, m.email.Focus()
	}

	var cmd tea.Cmd
	if m.field == 0 {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.email, cmd = m.email.Update(msg)
	}
	return m, cmd
}

func (m profileModel) view(state *store.State) string {
	p := state.Profile()

	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("Profile"))
	b.WriteString("\n")

	if m.inEdit {
		b.WriteString(m.theme.Muted.Render("Name"))
		b.WriteString("\n")
		b.WriteString(m.name.View())
		b.WriteString("\n\n")
		b.WriteString(m.theme.Muted.Render("Email"))
		b.WriteString("\n")
		b.WriteString(m.email.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.theme.CardTitle.Render(p.Name))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(p.Email))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("Member since " + p.MemberSince.Format("January 2, 2006")))
	b.WriteString("\n\n")

	b.WriteString(m.theme.Muted.Render("Session"))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("  Cart items     ") + m.theme.CardTitle.Render(strconv.Itoa(state.CartSize())))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("  Wishlist items ") + m.theme.CardTitle.Render(strconv.Itoa(state.WishlistSize())))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render("  AI queries     ") + m.theme.CardTitle.Render(strconv.Itoa(state.ChatQueries())))
	return b.String()
}
