// tutorchat - A terminal client for a hosted AI tutoring backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/tutorchat-tui/internal/cli"
	"github.com/jeranaias/tutorchat-tui/internal/config"
	"github.com/jeranaias/tutorchat-tui/internal/engine"
	"github.com/jeranaias/tutorchat-tui/internal/history"
	"github.com/jeranaias/tutorchat-tui/internal/model"
	"github.com/jeranaias/tutorchat-tui/internal/tutor"
	"github.com/jeranaias/tutorchat-tui/internal/ui/chat"
	"github.com/jeranaias/tutorchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdVersion:
		cli.PrintVersion()
		return
	case cli.CmdHelp:
		cli.PrintUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch cmd {
	case cli.CmdConfig:
		handleConfig(cfg)
		return
	}

	logger := openLogger(cfg)
	store, closeStore, err := openStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	if cmd == cli.CmdSessions {
		if err := cli.RunSessions(store, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	session := buildSession(cfg, args, store, logger)
	defer session.Close()

	switch cmd {
	case cli.CmdAsk:
		if err := cli.RunAsk(session, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case cli.CmdChat:
		if err := cli.RunChat(session, args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	default: // CmdTUI
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			// Not attached to a terminal: fall back to line mode.
			if err := cli.RunChat(session, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			return
		}
		runTUI(session, args)
	}
}

// runTUI starts the bubbletea program and wires the engine's update
// callback into it.
func runTUI(session *engine.Session, args cli.Args) {
	theme := styles.NewTheme()
	p := tea.NewProgram(
		chat.New(theme, session, args.Prompt),
		tea.WithAltScreen(),
	)

	session.SetOnUpdate(func() {
		p.Send(chat.EngineUpdateMsg{})
	})

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildSession assembles the engine session from config and flags.
func buildSession(cfg *config.Config, args cli.Args, store *history.Store, logger *log.Logger) *engine.Session {
	client := tutor.NewClient(cfg.Backend.URL)
	if cfg.Backend.TimeoutSecs > 0 {
		client = client.WithTimeout(time.Duration(cfg.Backend.TimeoutSecs) * time.Second)
	}

	profile := cfg.TutorProfile()
	if args.Local {
		if profile.IsZero() {
			profile = model.DefaultProfile()
		}
		profile.ModelType = model.ModelTypeLocal
	}

	return engine.NewSession(engine.Options{
		Client:        client,
		Store:         store,
		Profile:       profile,
		SearchEnabled: cfg.Search.Enabled || args.Search,
		Logger:        logger,
	})
}

// openStore builds the conversation store over the configured backend.
func openStore(cfg *config.Config, logger *log.Logger) (*history.Store, func(), error) {
	var kv history.KV
	var err error

	switch cfg.Storage.Backend {
	case config.StorageSQLite:
		if err = os.MkdirAll(cfg.Storage.Dir, 0755); err == nil {
			kv, err = history.NewSQLiteKV(filepath.Join(cfg.Storage.Dir, "conversations.db"))
		}
	default:
		kv, err = history.NewFileKV(cfg.Storage.Dir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open conversation storage: %w", err)
	}

	store := history.NewStore(kv, logger)
	return store, func() { kv.Close() }, nil
}

// openLogger directs background errors to the configured log file; the
// terminal stays clean for chat output. The global logger is pointed at
// the same file so library-level log lines land there too.
func openLogger(cfg *config.Config) *log.Logger {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			log.SetOutput(f)
			return log.New(f, "", log.LstdFlags)
		}
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

// handleConfig prints the effective configuration.
func handleConfig(cfg *config.Config) {
	fmt.Printf("backend.url           %s\n", cfg.Backend.URL)
	fmt.Printf("backend.model_type    %s\n", cfg.Backend.ModelType)
	fmt.Printf("backend.timeout_secs  %d\n", cfg.Backend.TimeoutSecs)
	fmt.Printf("search.enabled        %t\n", cfg.Search.Enabled)
	fmt.Printf("storage.backend       %s\n", cfg.Storage.Backend)
	fmt.Printf("storage.dir           %s\n", cfg.Storage.Dir)
	fmt.Printf("logging.file          %s\n", cfg.Logging.File)
	if cfg.Profile.Name != "" {
		fmt.Printf("profile               %s (%s)\n", cfg.Profile.Name, cfg.Profile.Field)
	}
}
