// GameVerse TUI - a terminal storefront with an AI shopping assistant.
//
// Copyright (c) 2025 GameVerse
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/gameverse/gameverse-tui/internal/analytics"
	"github.com/gameverse/gameverse-tui/internal/botpress"
	"github.com/gameverse/gameverse-tui/internal/cli"
	"github.com/gameverse/gameverse-tui/internal/config"
	"github.com/gameverse/gameverse-tui/internal/store"
	"github.com/gameverse/gameverse-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "1.0.0"
	GitCommit = "unknown"
)

func main() {
	var (
		plain       = flag.Bool("plain", false, "line-based chat mode instead of the full TUI")
		configPath  = flag.String("config", "", "config file path (default ~/.gameverse/config.toml)")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("gameverse-tui %s (%s)\n", Version, GitCommit)
		return
	}

	if err := run(*plain, *configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(plain bool, configPath string) error {
	ctx := context.Background()

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFrom(configPath)
	} else {
		cfg, err = config.Load()
		configPath, _ = config.ConfigPath()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if cfg.UI.Plain {
		plain = true
	}

	var client *botpress.Client
	if cfg.ChatConfigured() {
		client = botpress.New(botpress.Credentials{
			APIID:   cfg.Chat.APIID,
			UserKey: cfg.Chat.UserKey,
		}).WithBaseURL(cfg.Chat.BaseURL)
		defer client.Close()

		// Pick up key rotation from config edits without a restart.
		if configPath != "" {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				err := config.Watch(watchCtx, configPath, func(next *config.Config) {
					if next.Chat.UserKey != "" {
						client.SetUserKey(next.Chat.UserKey)
					}
				})
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Printf("config: live key rotation disabled: %v", err)
				}
			}()
		}
	}

	state := store.New()

	recorder, err := analytics.Open(cfg.Analytics.Path)
	if err != nil {
		// The store works fine without the event log.
		fmt.Fprintln(os.Stderr, "warning: analytics disabled:", err)
		recorder = nil
	} else {
		defer recorder.Close()
	}

	if plain || !term.IsTerminal(int(os.Stdout.Fd())) {
		return runPlain(ctx, client, state)
	}

	program := tea.NewProgram(app.New(client, state, recorder), tea.WithAltScreen())
	_, err = program.Run()
	return err
}

// runPlain drives the line-based chat mode. Requires chat credentials;
// the storefront pages exist only in the TUI.
func runPlain(ctx context.Context, client *botpress.Client, state *store.State) error {
	if client == nil {
		return fmt.Errorf("chat is not configured: set chat.api_id and chat.user_key in the config file, or export GAMEVERSE_CHAT_API_ID and GAMEVERSE_USER_KEY")
	}
	repl, err := cli.NewREPL(client, state)
	if err != nil {
		return fmt.Errorf("start chat: %w", err)
	}
	defer repl.Close()
	return repl.Run(ctx)
}
