// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved conversation management.
//
// Command: sessions
//
// Examples:
//   tutorchat sessions list
//   tutorchat sessions show 7c9e6679-7425-40de-944b-e07fc1f90ae7
//   tutorchat sessions export <id> --format md
//   tutorchat sessions delete <id> --confirm
//   tutorchat sessions clear --confirm
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/tutorchat-tui/internal/history"
	"github.com/jeranaias/tutorchat-tui/internal/model"
)

// RunSessions dispatches the sessions subcommands.
func RunSessions(store *history.Store, args Args) error {
	switch args.Subcommand {
	case "list", "ls", "l":
		printSessionList(os.Stdout, store.List())
		return nil

	case "show":
		return sessionsShow(store, args.ID)

	case "export":
		return sessionsExport(store, args.ID, args.Format)

	case "delete", "rm":
		return sessionsDelete(store, args.ID, args.Confirm)

	case "clear", "delete-all":
		return sessionsClear(store, args.Confirm)

	default:
		return fmt.Errorf("unknown sessions subcommand %q (try list, show, export, delete, clear)", args.Subcommand)
	}
}

// printSessionList renders the saved conversations as an aligned table.
func printSessionList(w io.Writer, records []history.Record) {
	if len(records) == 0 {
		fmt.Fprintln(w, infoStyle.Render("No saved conversations."))
		return
	}

	const titleWidth = 52
	fmt.Fprintf(w, "%s  %s  %s  %s\n",
		runewidth.FillRight("ID", 36),
		runewidth.FillRight("TITLE", titleWidth),
		runewidth.FillRight("MSGS", 4),
		"CREATED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s  %s  %s  %s\n",
			runewidth.FillRight(rec.ID, 36),
			runewidth.FillRight(runewidth.Truncate(rec.Title, titleWidth, "..."), titleWidth),
			runewidth.FillRight(fmt.Sprintf("%d", len(rec.Messages)), 4),
			rec.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func sessionsShow(store *history.Store, id string) error {
	if id == "" {
		return fmt.Errorf("usage: tutorchat sessions show <id>")
	}
	rec, ok := store.Get(id)
	if !ok {
		return history.ErrNotFound
	}

	fmt.Println(tutorStyle.Render(rec.Title))
	fmt.Println(infoStyle.Render(rec.CreatedAt.Format("2006-01-02 15:04")))
	fmt.Println()
	fmt.Print(formatTranscript(rec, "txt"))
	return nil
}

func sessionsExport(store *history.Store, id, format string) error {
	if id == "" {
		return fmt.Errorf("usage: tutorchat sessions export <id> [--format md|txt]")
	}
	if format == "" {
		format = "txt"
	}
	if format != "md" && format != "txt" {
		return fmt.Errorf("unknown export format %q (want md or txt)", format)
	}

	rec, ok := store.Get(id)
	if !ok {
		return history.ErrNotFound
	}
	fmt.Print(formatTranscript(rec, format))
	return nil
}

func sessionsDelete(store *history.Store, id string, confirm bool) error {
	if id == "" {
		return fmt.Errorf("usage: tutorchat sessions delete <id> --confirm")
	}
	if !confirm {
		return fmt.Errorf("deleting a conversation requires --confirm")
	}
	if err := store.Delete(id); err != nil {
		return err
	}
	fmt.Println(infoStyle.Render("Deleted " + id))
	return nil
}

func sessionsClear(store *history.Store, confirm bool) error {
	if !confirm {
		return fmt.Errorf("clearing all conversations requires --confirm")
	}
	n := len(store.List())
	store.Clear()
	fmt.Println(infoStyle.Render(fmt.Sprintf("Deleted %d conversation(s)", n)))
	return nil
}

// formatTranscript renders a conversation for show/export.
func formatTranscript(rec history.Record, format string) string {
	var b strings.Builder

	if format == "md" {
		b.WriteString("# " + rec.Title + "\n\n")
		b.WriteString("_Created " + rec.CreatedAt.Format("2006-01-02 15:04") + "_\n\n")
	}

	for _, msg := range rec.Messages {
		label := msg.Role.DisplayName()
		switch format {
		case "md":
			b.WriteString("**" + label + "**")
			b.WriteString(" _(" + msg.Timestamp.Format("15:04") + ")_\n\n")
			if msg.Role == model.RoleSearchResults {
				for i, src := range msg.Sources {
					fmt.Fprintf(&b, "%d. [%s](%s): %s\n", i+1, src.Title, src.Link, src.Summary)
				}
				b.WriteString("\n")
			} else {
				b.WriteString(msg.Content + "\n\n")
			}
		default:
			b.WriteString(label + " (" + msg.Timestamp.Format("15:04") + "):\n")
			if msg.Role == model.RoleSearchResults {
				for i, src := range msg.Sources {
					fmt.Fprintf(&b, "  %d. %s\n     %s\n", i+1, src.Title, src.Link)
				}
			} else {
				b.WriteString("  " + strings.ReplaceAll(msg.Content, "\n", "\n  ") + "\n")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
