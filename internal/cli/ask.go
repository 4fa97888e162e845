// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Command: ask
//
// Examples:
//   tutorchat ask "What is entropy?"
//   tutorchat ask --search "Latest CRISPR results?"
//   tutorchat ask --local "Explain this error"
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jeranaias/tutorchat-tui/internal/engine"
	"github.com/jeranaias/tutorchat-tui/internal/model"
)

// RunAsk submits one question through the initial-prompt path, prints
// the answer (and sources), and exits. The exchange is persisted like
// any other conversation.
func RunAsk(session *engine.Session, args Args) error {
	if args.Query == "" {
		fmt.Fprintln(os.Stderr, warningStyle.Render("usage: tutorchat ask \"question\""))
		return fmt.Errorf("ask: no question given")
	}

	if !args.Quiet {
		fmt.Println(infoStyle.Render("Asking your tutor..."))
	}

	if err := session.RunInitialPrompt(context.Background(), args.Query); err != nil {
		return err
	}

	// Skip the greeting; print what the turn appended.
	for _, msg := range session.Messages()[1:] {
		switch msg.Role {
		case model.RoleSearchResults:
			fmt.Println(sourceStyle.Render("sources:"))
			for i, src := range msg.Sources {
				badge := ""
				if src.IsAcademic {
					badge = " [academic]"
				}
				fmt.Printf("  %d. %s%s\n     %s\n", i+1, src.Title, badge, src.Link)
			}
			fmt.Println()
		case model.RoleAssistant:
			fmt.Println(renderMarkdown(msg.Content))
		}
	}
	return nil
}
