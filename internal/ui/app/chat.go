// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/gameverse/gameverse-tui/internal/analytics"
	"github.com/gameverse/gameverse-tui/internal/botpress"
	"github.com/gameverse/gameverse-tui/internal/store"
	"github.com/gameverse/gameverse-tui/internal/ui/styles"
)

// chatRole distinguishes transcript lines for styling.
type chatRole int

const (
	roleUser chatRole = iota
	roleAssistant
	roleSystem
)

type chatLine struct {
	role chatRole
	text string
}

// chatReadyMsg carries the authenticated session after startup or after
// switching to a fresh conversation.
type chatReadyMsg struct {
	userID         string
	conversationID string
	lines          []chatLine
}

// chatReplyMsg carries one assistant reply.
type chatReplyMsg struct {
	text string
}

// chatFailedMsg carries a startup or send failure.
type chatFailedMsg struct {
	err error
}

// chatSpinnerTickMsg advances the waiting spinner.
type chatSpinnerTickMsg struct{}

// chatModel is the AI assistant page: a transcript viewport over the
// chat client, with replies fetched by bounded polling off the UI loop.
type chatModel struct {
	theme  *styles.Theme
	client *botpress.Client
	poller *botpress.Poller

	viewport viewport.Model
	input    textinput.Model
	renderer *glamour.TermRenderer

	userID         string
	conversationID string
	lines          []chatLine

	ready    bool
	starting bool
	waiting  bool
	frame    int
}

func newChatModel(theme *styles.Theme, client *botpress.Client) chatModel {
	input := textinput.New()
	input.Placeholder = "Ask about games, prices, recommendations..."
	input.CharLimit = 500
	input.Width = 60

	vp := viewport.New(72, 14)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(70),
	)
	if err != nil {
		renderer = nil
	}

	m := chatModel{
		theme:    theme,
		client:   client,
		viewport: vp,
		input:    input,
		renderer: renderer,
	}
	if client != nil {
		m.poller = botpress.NewPoller(client)
	}
	return m
}

func (m chatModel) composing() bool { return m.input.Focused() }

func (m *chatModel) resize(width, height int) {
	w := width - 30
	if w < 40 {
		w = 40
	}
	h := height - 12
	if h < 6 {
		h = 6
	}
	m.viewport.Width = w
	m.viewport.Height = h
	m.input.Width = w - 8
}

// start authenticates and loads the most recent conversation. Called on
// every visit; a no-op once the session is up.
func (m *chatModel) start() tea.Cmd {
	if m.client == nil || m.ready || m.starting {
		return nil
	}
	m.starting = true
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), botpress.DefaultTimeout)
		defer cancel()

		user, err := client.GetUser(ctx)
		if err != nil {
			return chatFailedMsg{err: err}
		}

		conversations, err := client.ListConversations(ctx)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		var conversationID string
		if len(conversations) > 0 {
			conversationID = conversations[0].ID
		} else {
			conv, err := client.CreateConversation(ctx)
			if err != nil {
				return chatFailedMsg{err: err}
			}
			conversationID = conv.ID
		}

		msgs, err := client.ListMessages(ctx, conversationID, 50, false)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		lines := make([]chatLine, 0, len(msgs))
		// The API returns newest first; the transcript reads oldest first.
		for i := len(msgs) - 1; i >= 0; i-- {
			if msgs[i].Payload.Text == "" {
				continue
			}
			role := roleAssistant
			if msgs[i].UserID == user.ID {
				role = roleUser
			}
			lines = append(lines, chatLine{role: role, text: msgs[i].Payload.Text})
		}
		return chatReadyMsg{userID: user.ID, conversationID: conversationID, lines: lines}
	}
}

func (m chatModel) update(msg tea.Msg, state *store.State, root *Model) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatReadyMsg:
		m.ready = true
		m.starting = false
		m.waiting = false
		m.userID = msg.userID
		m.conversationID = msg.conversationID
		m.lines = msg.lines
		if len(m.lines) == 0 {
			m.lines = []chatLine{{role: roleSystem, text: "Hi! I'm your GameVerse assistant. Ask me anything about our games."}}
		}
		m.refreshViewport()
		return m, m.input.Focus()

	case chatReplyMsg:
		m.waiting = false
		m.lines = append(m.lines, chatLine{role: roleAssistant, text: msg.text})
		m.refreshViewport()
		return m, nil

	case chatFailedMsg:
		m.starting = false
		m.waiting = false
		text := "chat error: " + msg.err.Error()
		if errors.Is(msg.err, botpress.ErrNoReply) {
			text = "No response received within the timeout. Please try again."
		}
		m.lines = append(m.lines, chatLine{role: roleSystem, text: text})
		m.refreshViewport()
		return m, nil

	case chatSpinnerTickMsg:
		if !m.waiting {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinner.Dot.Frames)
		return m, chatSpinnerTick()

	case tea.KeyMsg:
		return m.updateKey(msg, state, root)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m chatModel) updateKey(msg tea.KeyMsg, state *store.State, root *Model) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		return m, nil

	case "ctrl+n":
		if m.client == nil || !m.ready {
			return m, nil
		}
		return m, m.newConversation()

	case "enter":
		if !m.ready || m.waiting {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		m.lines = append(m.lines, chatLine{role: roleUser, text: text})
		m.refreshViewport()
		m.waiting = true
		state.RecordChatQuery()
		root.record(analytics.EventChatQuery, text)
		return m, tea.Batch(m.send(text), chatSpinnerTick())
	}

	if !m.input.Focused() {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		if msg.String() == "i" || msg.String() == "/" {
			return m, tea.Batch(cmd, m.input.Focus())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// send delivers one message and polls for the assistant's reply.
func (m *chatModel) send(text string) tea.Cmd {
	poller := m.poller
	conversationID := m.conversationID
	userID := m.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*botpress.StreamTimeout)
		defer cancel()
		reply, err := poller.SendAndAwait(ctx, conversationID, text, userID)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatReplyMsg{text: reply.Payload.Text}
	}
}

// newConversation starts a fresh thread.
func (m *chatModel) newConversation() tea.Cmd {
	client := m.client
	userID := m.userID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), botpress.DefaultTimeout)
		defer cancel()
		conv, err := client.CreateConversation(ctx)
		if err != nil {
			return chatFailedMsg{err: err}
		}
		return chatReadyMsg{userID: userID, conversationID: conv.ID}
	}
}

func chatSpinnerTick() tea.Cmd {
	return tea.Tick(spinner.Dot.FPS, func(time.Time) tea.Msg {
		return chatSpinnerTickMsg{}
	})
}

// refreshViewport re-renders the transcript and scrolls to the bottom.
func (m *chatModel) refreshViewport() {
	var b strings.Builder
	for _, line := range m.lines {
		switch line.role {
		case roleUser:
			b.WriteString(m.theme.UserBubble.Render("you: ") + line.text + "\n")
		case roleAssistant:
			b.WriteString(m.renderMarkdown(line.text))
		case roleSystem:
			b.WriteString(m.theme.Muted.Render(line.text) + "\n")
		}
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *chatModel) renderMarkdown(text string) string {
	if m.renderer == nil {
		return m.theme.AssistantBubble.Render(text) + "\n"
	}
	rendered, err := m.renderer.Render(text)
	if err != nil {
		return m.theme.AssistantBubble.Render(text) + "\n"
	}
	return rendered
}

func (m chatModel) view() string {
	if m.client == nil {
		return m.theme.PageTitle.Render("AI Assistant") + "\n" +
			m.theme.Muted.Render("Chat is not configured.") + "\n\n" +
			m.theme.Muted.Render("Set chat.api_id and chat.user_key in the config file,") + "\n" +
			m.theme.Muted.Render("or export GAMEVERSE_CHAT_API_ID and GAMEVERSE_USER_KEY.")
	}

	var b strings.Builder
	b.WriteString(m.theme.PageTitle.Render("AI Assistant"))
	b.WriteString("\n")

	if !m.ready {
		b.WriteString(m.theme.Muted.Render("Connecting..."))
		return b.String()
	}

	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.waiting {
		b.WriteString(m.theme.Muted.Render(spinner.Dot.Frames[m.frame] + " thinking..."))
		b.WriteString("\n")
	}
	b.WriteString(m.input.View())
	return b.String()
}
