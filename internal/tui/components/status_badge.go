package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nihi-lo/tempura/internal/models"
	"github.com/nihi-lo/tempura/internal/tui/styles"
)

// RenderStatusBadge renders a materialization status with icon and color.
func RenderStatusBadge(styleSet styles.Styles, status models.MaterializationStatus) string {
	icon, label, style := statusDescriptor(styleSet, status)
	return style.Render(fmt.Sprintf("%s %s", icon, label))
}

func statusDescriptor(styleSet styles.Styles, status models.MaterializationStatus) (string, string, lipgloss.Style) {
	switch status {
	case models.MaterializationSucceeded:
		return "OK", "Created", styleSet.Success
	case models.MaterializationFailed:
		return "ERR", "Failed", styleSet.Error
	default:
		return "-", normalizeStatusLabel(status), styleSet.Muted
	}
}

func normalizeStatusLabel(status models.MaterializationStatus) string {
	value := strings.TrimSpace(strings.ReplaceAll(string(status), "_", " "))
	if value == "" {
		return "Unknown"
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
