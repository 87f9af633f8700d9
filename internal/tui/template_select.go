// Package tui implements the interactive create flow.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nihi-lo/tempura/internal/tui/components"
	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// TemplateItem is one entry in the template picker.
type TemplateItem struct {
	Name    string
	Summary string
	Source  string
}

func (i TemplateItem) Title() string       { return i.Name }
func (i TemplateItem) Description() string { return i.Summary }
func (i TemplateItem) FilterValue() string { return i.Name }

var docStyle = lipgloss.NewStyle()

// TemplateSelectModel lets the user pick a template from a list.
type TemplateSelectModel struct {
	list     list.Model
	styles   styles.Styles
	quitting bool
	Choice   string
}

// NewTemplateSelectModel builds the picker for items.
func NewTemplateSelectModel(items []TemplateItem, styleSet styles.Styles) TemplateSelectModel {
	listItems := make([]list.Item, 0, len(items))
	for _, item := range items {
		listItems = append(listItems, item)
	}

	selected := lipgloss.Color(styleSet.Theme.Tokens.Selected)
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(selected).
		BorderForeground(selected)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(selected).
		BorderForeground(selected)

	m := TemplateSelectModel{
		list:   list.New(listItems, delegate, 0, 0),
		styles: styleSet,
	}
	m.list.Title = "Choose a template"
	m.list.SetShowPagination(false)
	m.list.Styles.Title = m.list.Styles.Title.
		Foreground(lipgloss.Color(styleSet.Theme.Tokens.Text)).
		Background(lipgloss.NoColor{}).
		Padding(0)

	return m
}

func (m TemplateSelectModel) Init() tea.Cmd {
	return nil
}

func (m TemplateSelectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// Keys go to the filter input while the user is typing a filter.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.Choice = ""
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(TemplateItem); ok {
				m.Choice = item.Name
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m TemplateSelectModel) View() string {
	if m.Choice != "" {
		return m.styles.Result.Render(fmt.Sprintf("Template > %s", m.Choice))
	}
	if m.quitting {
		return m.styles.Result.Render(components.NoTemplateSelected().Title)
	}
	return docStyle.Render(m.list.View())
}

// Canceled reports whether the picker was closed without a choice.
func (m TemplateSelectModel) Canceled() bool {
	return m.quitting || m.Choice == ""
}
