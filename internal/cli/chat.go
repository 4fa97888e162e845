// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Plain line-mode chat for terminals where the TUI is
// unwanted or unavailable.
//
// Command: chat
//
// Interactive commands (during chat):
//   /help          Show available commands
//   /new           Start a new conversation
//   /search        Toggle web-search augmentation
//   /sessions      List saved conversations
//   /restore <id>  Restore a saved conversation
//   /quit          Exit chat
//   Ctrl+D         Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	"github.com/jeranaias/tutorchat-tui/internal/config"
	"github.com/jeranaias/tutorchat-tui/internal/engine"
	"github.com/jeranaias/tutorchat-tui/internal/model"
	"github.com/jeranaias/tutorchat-tui/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle  = lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	tutorStyle   = lipgloss.NewStyle().Foreground(styles.Purple).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(styles.TextSecondary)
	sourceStyle  = lipgloss.NewStyle().Foreground(styles.Cyan)
	warningStyle = lipgloss.NewStyle().Foreground(styles.Amber)
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders tutor answers for terminal display.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content, falling back to the raw text.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(rendered)
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with input history loaded from the config
// directory.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.loadHistory()
	return cli
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	if err := config.EnsureConfigDir(); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// RunChat runs the line-mode REPL over an engine session.
func RunChat(session *engine.Session, args Args) error {
	input := NewChatCLI()
	defer input.Close()

	printWelcome(session)

	// Print everything appended after this index on each settlement.
	seen := len(session.Messages())

	if args.Prompt != "" {
		if err := session.RunInitialPrompt(context.Background(), args.Prompt); err == nil {
			seen = printNewMessages(session, seen)
		}
	}

	for {
		line, err := input.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				fmt.Println(infoStyle.Render("Goodbye!"))
				return nil
			}
			return err
		}

		text := strings.TrimSpace(line)
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/") {
			if quit := handleChatCommand(session, text, &seen); quit {
				return nil
			}
			continue
		}

		if err := session.SubmitTurn(context.Background(), text); err != nil {
			fmt.Println(warningStyle.Render(err.Error()))
			continue
		}
		seen = printNewMessages(session, seen)
	}
}

// printWelcome prints the greeting and orientation lines.
func printWelcome(session *engine.Session) {
	messages := session.Messages()
	if len(messages) > 0 {
		fmt.Println(tutorStyle.Render("tutor> ") + messages[0].Content)
	}
	search := "off"
	if session.SearchEnabled() {
		search = "on"
	}
	fmt.Println(infoStyle.Render(fmt.Sprintf("web search: %s  •  /help for commands", search)))
	fmt.Println()
}

// handleChatCommand executes a /command; returns true to exit the REPL.
func handleChatCommand(session *engine.Session, text string, seen *int) bool {
	fields := strings.Fields(text)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		fmt.Println(infoStyle.Render("Goodbye!"))
		return true

	case "/help", "/h":
		fmt.Println(infoStyle.Render(
			"/new new conversation • /search toggle search • /sessions list saved\n" +
				"/restore <id> load a conversation • /quit exit"))

	case "/new":
		session.StartNewConversation()
		*seen = len(session.Messages())
		printWelcome(session)

	case "/search":
		session.SetSearchEnabled(!session.SearchEnabled())
		state := "off"
		if session.SearchEnabled() {
			state = "on"
		}
		fmt.Println(infoStyle.Render("web search: " + state))

	case "/sessions":
		printSessionList(os.Stdout, session.Store().List())

	case "/restore":
		if len(fields) < 2 {
			fmt.Println(warningStyle.Render("usage: /restore <id>"))
			return false
		}
		session.RestoreConversation(fields[1])
		messages := session.Messages()
		writeChatTranscript(os.Stdout, messages)
		*seen = len(messages)

	default:
		fmt.Println(warningStyle.Render("unknown command; /help for commands"))
	}
	return false
}

// printNewMessages prints messages appended since index from, returning
// the new high-water mark.
func printNewMessages(session *engine.Session, from int) int {
	messages := session.Messages()
	for _, msg := range messages[from:] {
		switch msg.Role {
		case model.RoleUser:
			// Already echoed by the prompt line.
		case model.RoleSearchResults:
			writeSources(os.Stdout, msg.Sources)
		default:
			fmt.Println(tutorStyle.Render("tutor> ") + renderMarkdown(msg.Content))
		}
	}
	fmt.Println()
	return len(messages)
}

// writeChatTranscript replays a restored conversation in the REPL's
// style. Unlike live output, past user turns are printed too; no prompt
// line ever echoed them in this session.
func writeChatTranscript(w io.Writer, messages []model.Message) {
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleUser:
			fmt.Fprintln(w, promptStyle.Render("you> ")+msg.Content)
		case model.RoleSearchResults:
			writeSources(w, msg.Sources)
		default:
			fmt.Fprintln(w, tutorStyle.Render("tutor> ")+renderMarkdown(msg.Content))
		}
	}
	fmt.Fprintln(w)
}

// writeSources prints the numbered source list of a search-results
// message.
func writeSources(w io.Writer, sources []model.SearchSource) {
	fmt.Fprintln(w, sourceStyle.Render("sources:"))
	for i, src := range sources {
		badge := ""
		if src.IsAcademic {
			badge = " [academic]"
		}
		fmt.Fprintf(w, "  %d. %s%s\n     %s\n", i+1, src.Title, badge, src.Link)
	}
}
