// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/tutorchat-tui/internal/history"
	"github.com/jeranaias/tutorchat-tui/internal/model"
)

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		cmd  Command
	}{
		{"no args", nil, CmdTUI},
		{"tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "what", "is", "entropy"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"sessions", []string{"sessions", "list"}, CmdSessions},
		{"session alias", []string{"session", "list"}, CmdSessions},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"bare question", []string{"what", "is", "entropy"}, CmdAsk},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.argv)
			if cmd != tt.cmd {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.cmd)
			}
		})
	}
}

func TestParseArgs_AskQuery(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "--search", "what", "is", "entropy"})
	if !args.Search {
		t.Error("--search flag not parsed")
	}
	if args.Query != "what is entropy" {
		t.Errorf("Query = %q", args.Query)
	}

	// A bare question folds every word back together.
	_, args = ParseArgs([]string{"what", "is", "entropy"})
	if args.Query != "what is entropy" {
		t.Errorf("bare Query = %q", args.Query)
	}
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--search", "--local", "--prompt", "Explain entropy"})
	if cmd != CmdTUI {
		t.Errorf("cmd = %v, want CmdTUI", cmd)
	}
	if !args.Search || !args.Local {
		t.Errorf("flags not parsed: %+v", args)
	}
	if args.Prompt != "Explain entropy" {
		t.Errorf("Prompt = %q", args.Prompt)
	}
}

func TestParseArgs_Sessions(t *testing.T) {
	_, args := ParseArgs([]string{"sessions", "export", "abc-123", "--format", "md"})
	if args.Subcommand != "export" || args.ID != "abc-123" || args.Format != "md" {
		t.Errorf("sessions args = %+v", args)
	}

	_, args = ParseArgs([]string{"sessions", "delete", "abc-123", "--confirm"})
	if args.Subcommand != "delete" || !args.Confirm {
		t.Errorf("delete args = %+v", args)
	}

	// Bare "sessions" defaults to list.
	_, args = ParseArgs([]string{"sessions"})
	if args.Subcommand != "list" {
		t.Errorf("default subcommand = %q, want list", args.Subcommand)
	}
}

func TestWriteChatTranscript_IncludesUserTurns(t *testing.T) {
	messages := []model.Message{
		{ID: 1, Role: model.RoleAssistant, Content: "Welcome!", Timestamp: time.Now()},
		{ID: 2, Role: model.RoleUser, Content: "What is entropy?", Timestamp: time.Now()},
		{ID: 3, Role: model.RoleSearchResults, Content: "Search Results:", Timestamp: time.Now(),
			Sources: []model.SearchSource{{Title: "Second Law", Link: "https://example.edu"}}},
		{ID: 4, Role: model.RoleAssistant, Content: "A measure of disorder.", Timestamp: time.Now()},
	}

	var buf bytes.Buffer
	writeChatTranscript(&buf, messages)

	out := buf.String()
	for _, want := range []string{"What is entropy?", "Second Law", "A measure of disorder."} {
		if !strings.Contains(out, want) {
			t.Errorf("replayed transcript missing %q", want)
		}
	}
	if !strings.Contains(out, "you>") {
		t.Error("replayed user turns must carry the you> label")
	}
}

func TestFormatTranscript(t *testing.T) {
	rec := history.Record{
		ID:        "abc",
		Title:     "What is entropy?",
		CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Messages: []model.Message{
			{ID: 1, Role: model.RoleAssistant, Content: "Welcome!", Timestamp: time.Now()},
			{ID: 2, Role: model.RoleUser, Content: "What is entropy?", Timestamp: time.Now()},
			{ID: 3, Role: model.RoleSearchResults, Content: "Search Results:", Timestamp: time.Now(),
				Sources: []model.SearchSource{{Title: "Second Law", Link: "https://example.edu", Summary: "overview"}}},
			{ID: 4, Role: model.RoleAssistant, Content: "A measure of disorder.", Timestamp: time.Now()},
		},
	}

	txt := formatTranscript(rec, "txt")
	for _, want := range []string{"You", "Tutor", "Second Law", "A measure of disorder."} {
		if !strings.Contains(txt, want) {
			t.Errorf("txt transcript missing %q", want)
		}
	}

	md := formatTranscript(rec, "md")
	if !strings.Contains(md, "# What is entropy?") {
		t.Error("md transcript missing title heading")
	}
	if !strings.Contains(md, "[Second Law](https://example.edu)") {
		t.Error("md transcript missing source link")
	}
}
