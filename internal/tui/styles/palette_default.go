package styles

// DefaultTheme is the baseline palette.
var DefaultTheme = Theme{
	Name: "default",
	Tokens: ThemeTokens{
		Text:      "#FFFFFF",
		TextMuted: "#8B9AAE",
		Accent:    "#5B8DEF",
		Selected:  "#F0E68C",
		Success:   "#3FB950",
		Warning:   "#D29922",
		Error:     "#F85149",
	},
}
