// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for tutorchat.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdSessions
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Search  bool // enable web-search augmentation
	Local   bool // force the local model backend
	Quiet   bool
	Verbose bool

	// Command-specific
	Query      string // ask: the question text
	Prompt     string // tui/chat: deep-linked opening prompt
	Subcommand string // sessions/config subcommand
	ID         string // sessions: conversation id
	Format     string // sessions export: output format
	Confirm    bool   // sessions delete/clear confirmation

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `tutorchat - terminal client for a hosted tutoring backend

Tutorchat keeps a conversation with an AI tutor persona, optionally
augmented with web-search results, and persists conversations locally.

Usage:
  tutorchat                         Start the TUI (default)
  tutorchat ask "question"          Ask a single question and exit
  tutorchat chat                    Plain line-mode chat (no TUI)
  tutorchat sessions [subcommand]   Saved conversation management
  tutorchat config show             Show effective configuration
  tutorchat version                 Show version
  tutorchat help                    Show this help

Sessions subcommands:
  tutorchat sessions list           List saved conversations
  tutorchat sessions show <id>      Print a conversation transcript
  tutorchat sessions export <id>    Export a transcript
    --format md|txt                 Export format (default: txt)
  tutorchat sessions delete <id>    Delete a conversation
    --confirm                       Required confirmation flag
  tutorchat sessions clear          Delete all conversations
    --confirm                       Required confirmation flag

Global flags:
  --search        Enable web-search augmentation for this run
  --local         Force the local model backend (LM Studio style)
  --prompt TEXT   Open the TUI/chat with an auto-submitted prompt
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  tutorchat                               Start the TUI
  tutorchat --search                      TUI with web search on
  tutorchat ask "What is entropy?"        One-shot question
  tutorchat ask --search "Latest on CRISPR?"
  tutorchat chat --local                  Line-mode chat against a local model
  tutorchat --prompt "Explain entropy"    TUI that opens mid-question
  tutorchat sessions list                 List saved conversations

Configuration: ~/.tutorchat/config.toml (TUTORCHAT_* env overrides)

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("tutorchat version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list (split out for tests).
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, args
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, args

	case "ask":
		args.Query = strings.Join(positional(remaining), " ")
		return CmdAsk, args

	case "chat":
		return CmdChat, args

	case "session", "sessions":
		parseSessionArgs(&args, remaining)
		return CmdSessions, args

	case "config":
		if len(remaining) > 0 {
			args.Subcommand = remaining[0]
		}
		return CmdConfig, args

	case "version", "--version", "-V":
		return CmdVersion, args

	case "help", "--help", "-h":
		return CmdHelp, args

	default:
		// Unknown word: treat the whole line as a question.
		args.Query = strings.Join(append([]string{cmd}, positional(remaining)...), " ")
		return CmdAsk, args
	}
}

// parseGlobalFlags strips global flags from the argument list.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var args Args
	var remaining []string

	for i := 0; i < len(argv); i++ {
		switch argv[i] {
		case "--search":
			args.Search = true
		case "--local":
			args.Local = true
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--prompt":
			if i+1 < len(argv) {
				i++
				args.Prompt = argv[i]
			}
		default:
			remaining = append(remaining, argv[i])
		}
	}
	return remaining, args
}

// parseSessionArgs fills the sessions subcommand, id and options.
func parseSessionArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		switch remaining[i] {
		case "--confirm":
			args.Confirm = true
		case "--format":
			if i+1 < len(remaining) {
				i++
				args.Format = remaining[i]
			}
		default:
			if args.Subcommand == "" {
				args.Subcommand = strings.ToLower(remaining[i])
			} else if args.ID == "" {
				args.ID = remaining[i]
			}
		}
	}
	if args.Subcommand == "" {
		args.Subcommand = "list"
	}
}

// positional returns the arguments that are not flags.
func positional(argv []string) []string {
	var out []string
	for i := 0; i < len(argv); i++ {
		if strings.HasPrefix(argv[i], "--") {
			if argv[i] == "--format" || argv[i] == "--prompt" {
				i++ // skip the flag's value too
			}
			continue
		}
		out = append(out, argv[i])
	}
	return out
}
