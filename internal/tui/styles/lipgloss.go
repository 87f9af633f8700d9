package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme    Theme
	Title    lipgloss.Style
	Text     lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Result   lipgloss.Style
}

// DefaultStyles builds styles from the default theme.
func DefaultStyles() Styles {
	return BuildStyles(DefaultTheme)
}

// BuildStyles converts theme tokens into lipgloss styles.
func BuildStyles(theme Theme) Styles {
	tokens := theme.Tokens

	return Styles{
		Theme:    theme,
		Title:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)).Bold(true),
		Text:     lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Text)),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.TextMuted)),
		Accent:   lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Accent)),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Selected)).BorderForeground(lipgloss.Color(tokens.Selected)),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Success)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Warning)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(tokens.Error)),
		Result:   lipgloss.NewStyle().Margin(0, 0, 1, 0),
	}
}
