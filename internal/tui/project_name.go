package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// DefaultProjectName is shown as the input placeholder.
const DefaultProjectName = "new-project"

// ProjectNameInputModel asks for the project name.
type ProjectNameInputModel struct {
	Input    textinput.Model
	styles   styles.Styles
	validate func(string) error
	err      error
	canceled bool
	done     bool
}

// NewProjectNameInputModel builds the name prompt. validate may be nil.
func NewProjectNameInputModel(initial string, styleSet styles.Styles, validate func(string) error) ProjectNameInputModel {
	ti := textinput.New()
	ti.Placeholder = DefaultProjectName
	ti.SetValue(initial)
	ti.Focus()
	ti.CharLimit = 214
	ti.Width = 32

	return ProjectNameInputModel{
		Input:    ti,
		styles:   styleSet,
		validate: validate,
	}
}

func (m ProjectNameInputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m ProjectNameInputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.canceled = true
			m.Input.Blur()
			return m, tea.Quit
		case tea.KeyEnter:
			if err := m.check(m.Value()); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.done = true
			m.Input.Blur()
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

func (m ProjectNameInputModel) check(name string) error {
	if name == "" {
		return errors.New("project name is required")
	}
	if m.validate != nil {
		return m.validate(name)
	}
	return nil
}

func (m ProjectNameInputModel) View() string {
	if m.done {
		return m.styles.Result.Render(fmt.Sprintf("Project name > %s", m.Value()))
	}
	view := fmt.Sprintf("Project name %s\n", m.Input.View())
	if m.err != nil {
		view += m.styles.Error.Render(m.err.Error()) + "\n"
	}
	return view
}

// Value returns the trimmed input.
func (m ProjectNameInputModel) Value() string {
	return strings.TrimSpace(m.Input.Value())
}

// Canceled reports whether the prompt was aborted.
func (m ProjectNameInputModel) Canceled() bool {
	return m.canceled
}

// Err returns the last validation error shown to the user.
func (m ProjectNameInputModel) Err() error {
	return m.err
}
