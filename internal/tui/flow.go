package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// ErrNoTemplates is returned when the picker has nothing to show.
var ErrNoTemplates = errors.New("no templates available")

// FlowConfig configures RunCreateFlow. Template and ProjectName skip their
// prompt when already set.
type FlowConfig struct {
	Templates    []TemplateItem
	Theme        string
	Template     string
	ProjectName  string
	ValidateName func(string) error

	Input  io.Reader
	Output io.Writer
}

// Selection is the outcome of the create flow.
type Selection struct {
	Template    string
	ProjectName string
	Canceled    bool
}

// RunCreateFlow asks for whatever is missing from cfg.
func RunCreateFlow(cfg FlowConfig) (Selection, error) {
	styleSet := styles.BuildStyles(styles.ThemeByName(cfg.Theme))
	sel := Selection{Template: cfg.Template, ProjectName: cfg.ProjectName}

	if sel.Template == "" {
		if len(cfg.Templates) == 0 {
			return sel, ErrNoTemplates
		}
		final, err := runProgram(NewTemplateSelectModel(cfg.Templates, styleSet), cfg)
		if err != nil {
			return sel, fmt.Errorf("template picker: %w", err)
		}
		picker, ok := final.(TemplateSelectModel)
		if !ok || picker.Canceled() {
			sel.Canceled = true
			return sel, nil
		}
		sel.Template = picker.Choice
	}

	if sel.ProjectName == "" {
		final, err := runProgram(NewProjectNameInputModel("", styleSet, cfg.ValidateName), cfg)
		if err != nil {
			return sel, fmt.Errorf("project name prompt: %w", err)
		}
		input, ok := final.(ProjectNameInputModel)
		if !ok || input.Canceled() || input.Value() == "" {
			sel.Canceled = true
			return sel, nil
		}
		sel.ProjectName = input.Value()
	}

	return sel, nil
}

func runProgram(model tea.Model, cfg FlowConfig) (tea.Model, error) {
	var opts []tea.ProgramOption
	if cfg.Input != nil {
		opts = append(opts, tea.WithInput(cfg.Input))
	}
	if cfg.Output != nil {
		opts = append(opts, tea.WithOutput(cfg.Output))
	}
	return tea.NewProgram(model, opts...).Run()
}
