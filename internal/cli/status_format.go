package cli

import (
	"github.com/nihi-lo/tempura/internal/models"
	"github.com/nihi-lo/tempura/internal/templates"
	"github.com/nihi-lo/tempura/internal/tui/components"
)

func formatMaterializationStatus(status models.MaterializationStatus) string {
	return components.RenderStatusBadge(currentStyles(), status)
}

func formatMode(mode templates.Mode) string {
	styleSet := currentStyles()
	switch mode {
	case templates.ModeSubstitute:
		return styleSet.Accent.Render(string(mode))
	case templates.ModeRename:
		return styleSet.Warning.Render(string(mode))
	default:
		return styleSet.Muted.Render(string(mode))
	}
}
