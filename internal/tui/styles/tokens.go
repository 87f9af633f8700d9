// Package styles maps theme tokens to lipgloss styles.
package styles

// ThemeTokens defines the semantic color roles for the TUI.
type ThemeTokens struct {
	Text      string
	TextMuted string
	Accent    string
	Selected  string
	Success   string
	Warning   string
	Error     string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"default":       DefaultTheme,
	"high-contrast": HighContrastTheme,
}

// ThemeByName returns the named theme, falling back to DefaultTheme.
func ThemeByName(name string) Theme {
	if theme, ok := Themes[name]; ok {
		return theme
	}
	return DefaultTheme
}
