// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain line-based chat mode, used when
// stdout is not a terminal or when --plain is given. It drives the chat
// client and reply poller synchronously: read a line, send it, poll for
// the assistant's reply, render it as markdown.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/gameverse/gameverse-tui/internal/botpress"
	"github.com/gameverse/gameverse-tui/internal/config"
	"github.com/gameverse/gameverse-tui/internal/store"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	infoStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// REPL is an interactive line-based chat session.
type REPL struct {
	line        *liner.State
	historyFile string
	renderer    *glamour.TermRenderer

	client *botpress.Client
	poller *botpress.Poller
	state  *store.State

	userID         string
	conversationID string
	conversations  []botpress.Conversation
}

// NewREPL builds a REPL over the given client. The input history is
// kept under the config directory, like a shell history file.
func NewREPL(client *botpress.Client, state *store.State) (*REPL, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return nil, err
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	historyFile := filepath.Join(configDir, "chat_history")

	r := &REPL{
		line:        line,
		historyFile: historyFile,
		renderer:    renderer,
		client:      client,
		poller:      botpress.NewPoller(client),
		state:       state,
	}
	r.loadHistory()
	return r, nil
}

func (r *REPL) loadHistory() {
	if f, err := os.Open(r.historyFile); err == nil {
		r.line.ReadHistory(f)
		f.Close()
	}
}

func (r *REPL) saveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(r.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	r.line.WriteHistory(f)
}

// Close saves history and releases the line editor.
func (r *REPL) Close() {
	r.saveHistory()
	r.line.Close()
}

// Run authenticates, selects a conversation and enters the input loop.
// Returns nil on /quit or EOF.
func (r *REPL) Run(ctx context.Context) error {
	user, err := r.client.GetUser(ctx)
	if err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	r.userID = user.ID

	if err := r.ensureConversation(ctx); err != nil {
		return err
	}

	fmt.Println(infoStyle.Render("GameVerse assistant. /help for commands, /quit to exit."))
	r.printHistory(ctx)

	for {
		input, err := r.line.Prompt(promptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// EOF exits cleanly.
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		r.line.AppendHistory(input)

		if strings.HasPrefix(input, "/") {
			if quit := r.handleCommand(ctx, input); quit {
				return nil
			}
			continue
		}

		r.send(ctx, input)
	}
}

// ensureConversation picks the most recent conversation or creates one.
func (r *REPL) ensureConversation(ctx context.Context) error {
	conversations, err := r.client.ListConversations(ctx)
	if err != nil {
		return fmt.Errorf("list conversations: %w", err)
	}
	if len(conversations) == 0 {
		conv, err := r.client.CreateConversation(ctx)
		if err != nil {
			return fmt.Errorf("create conversation: %w", err)
		}
		conversations = []botpress.Conversation{*conv}
	}
	r.conversations = conversations
	r.conversationID = conversations[0].ID
	return nil
}

// printHistory renders the existing thread, oldest first.
func (r *REPL) printHistory(ctx context.Context) {
	msgs, err := r.client.ListMessages(ctx, r.conversationID, 50, false)
	if err != nil || len(msgs) == 0 {
		return
	}
	for i := len(msgs) - 1; i >= 0; i-- {
		r.printMessage(msgs[i])
	}
}

func (r *REPL) printMessage(msg botpress.Message) {
	text := msg.Payload.Text
	if text == "" {
		return
	}
	if msg.UserID == r.userID {
		fmt.Println(promptStyle.Render("you> ") + text)
		return
	}
	rendered, err := r.renderer.Render(text)
	if err != nil {
		rendered = text
	}
	fmt.Print(rendered)
}

// send delivers one user message and polls for the reply.
func (r *REPL) send(ctx context.Context, text string) {
	reply, err := r.poller.SendAndAwait(ctx, r.conversationID, text, r.userID)
	r.state.RecordChatQuery()
	if err != nil {
		if errors.Is(err, botpress.ErrNoReply) {
			fmt.Println(errStyle.Render("no response received within timeout"))
			return
		}
		fmt.Println(errStyle.Render("send failed: " + err.Error()))
		return
	}
	r.printMessage(*reply)
}

// handleCommand processes a /command line; returns true to quit.
func (r *REPL) handleCommand(ctx context.Context, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/q":
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render("/new        start a new conversation"))
		fmt.Println(infoStyle.Render("/list       list conversations"))
		fmt.Println(infoStyle.Render("/switch N   switch to conversation N"))
		fmt.Println(infoStyle.Render("/quit       exit"))

	case "/new":
		conv, err := r.client.CreateConversation(ctx)
		if err != nil {
			fmt.Println(errStyle.Render("create failed: " + err.Error()))
			break
		}
		r.conversations = append([]botpress.Conversation{*conv}, r.conversations...)
		r.conversationID = conv.ID
		fmt.Println(infoStyle.Render("switched to new conversation"))

	case "/list":
		for i, conv := range r.conversations {
			marker := "  "
			if conv.ID == r.conversationID {
				marker = "* "
			}
			fmt.Println(infoStyle.Render(fmt.Sprintf("%s%d. %s", marker, i+1, conv.ID)))
		}

	case "/switch":
		if len(fields) < 2 {
			fmt.Println(errStyle.Render("usage: /switch N"))
			break
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 || n > len(r.conversations) {
			fmt.Println(errStyle.Render("no such conversation"))
			break
		}
		r.conversationID = r.conversations[n-1].ID
		r.printHistory(ctx)

	default:
		fmt.Println(errStyle.Render("unknown command, /help for help"))
	}
	return false
}
