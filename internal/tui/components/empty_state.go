// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// EmptyState represents an empty state message with optional suggestions.
type EmptyState struct {
	// Icon is an optional icon to display.
	Icon string
	// Title is the main empty state message.
	Title string
	// Subtitle is an optional secondary message.
	Subtitle string
	// Suggestions are actionable commands the user can run.
	Suggestions []Suggestion
}

// Suggestion represents a suggested command with description.
type Suggestion struct {
	// Command is the CLI command to run.
	Command string
	// Description explains what the command does.
	Description string
}

// Render renders the empty state with the given styles.
func (e EmptyState) Render(styleSet styles.Styles) string {
	var lines []string

	// Icon + Title
	titleLine := e.Title
	if e.Icon != "" {
		titleLine = e.Icon + "  " + titleLine
	}
	lines = append(lines, styleSet.Muted.Render(titleLine))

	// Subtitle
	if e.Subtitle != "" {
		lines = append(lines, styleSet.Muted.Render(e.Subtitle))
	}

	// Suggestions
	if len(e.Suggestions) > 0 {
		lines = append(lines, "")
		lines = append(lines, styleSet.Text.Render("Get started:"))
		for _, s := range e.Suggestions {
			cmdLine := fmt.Sprintf("  %s", styleSet.Accent.Render(s.Command))
			if s.Description != "" {
				cmdLine += styleSet.Muted.Render(fmt.Sprintf("  # %s", s.Description))
			}
			lines = append(lines, cmdLine)
		}
	}

	return strings.Join(lines, "\n")
}

// RenderCompact renders a compact single-line empty state.
func (e EmptyState) RenderCompact(styleSet styles.Styles) string {
	line := e.Title
	if e.Icon != "" {
		line = e.Icon + " " + line
	}
	if len(e.Suggestions) > 0 {
		line += fmt.Sprintf(" Try: %s", e.Suggestions[0].Command)
	}
	return styleSet.Muted.Render(line)
}

// Common empty states.

// EmptyTemplates is shown when the catalog has no templates.
func EmptyTemplates() EmptyState {
	return EmptyState{
		Icon:     "📭",
		Title:    "No templates found",
		Subtitle: "Templates are directories under a search path, each with an optional template.yaml.",
		Suggestions: []Suggestion{
			{Command: "mkdir -p .tempura/templates/<name>", Description: "add a project-local template"},
			{Command: "tempura list --json", Description: "show search paths and sources"},
		},
	}
}

// NoTemplateSelected is shown when the picker is closed without a choice.
func NoTemplateSelected() EmptyState {
	return EmptyState{
		Title:    "Because no template was selected, the project will not be created.",
		Subtitle: "Run again and press enter on a template, or pass --template.",
	}
}

// EmptyHistory is shown when no materializations have been recorded.
func EmptyHistory() EmptyState {
	return EmptyState{
		Icon:     "📋",
		Title:    "No projects created yet",
		Subtitle: "Every tempura create run is recorded here.",
		Suggestions: []Suggestion{
			{Command: "tempura create <name>", Description: "create your first project"},
		},
	}
}

// EmptyHistoryFiltered is shown when a history filter matches nothing.
func EmptyHistoryFiltered(template string) EmptyState {
	return EmptyState{
		Icon:     "🔍",
		Title:    fmt.Sprintf("No history for template '%s'", template),
		Subtitle: "Run tempura history without --template to see everything.",
	}
}
